package entity

import "strconv"

// Recipient — получатель подарка: либо числовой ID пользователя, либо
// username без @.
type Recipient struct {
	UserID int64  `json:"user_id,omitempty"`
	Handle string `json:"handle,omitempty"`
}

func (r Recipient) IsNumeric() bool {
	return r.UserID != 0
}

// String — сырое строковое представление для логов и fallback-ссылок.
func (r Recipient) String() string {
	if r.Handle != "" {
		return "@" + r.Handle
	}
	return strconv.FormatInt(r.UserID, 10)
}

// AcquisitionRange — статическое правило покупки: ценовой коридор,
// потолок тиража, количество на получателя и список получателей.
// Правила проверяются в порядке конфигурации, выигрывает первое совпавшее.
type AcquisitionRange struct {
	MinPrice    int64       `json:"min_price" validate:"gte=0"`
	MaxPrice    int64       `json:"max_price" validate:"gtefield=MinPrice"`
	SupplyLimit int64       `json:"supply_limit" validate:"gte=0"`
	Quantity    int         `json:"quantity" validate:"gt=0"`
	Recipients  []Recipient `json:"recipients" validate:"min=1"`
}

// Contains — попадает ли пара (цена, тираж) в правило.
func (r AcquisitionRange) Contains(price, totalAmount int64) bool {
	return r.MinPrice <= price && price <= r.MaxPrice && totalAmount <= r.SupplyLimit
}
