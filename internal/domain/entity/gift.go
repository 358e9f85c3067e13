package entity

// Gift — позиция каталога подарков. Поля один в один повторяют то, что
// отдаёт каталог; сущность никогда не патчится частично, только
// перезаписывается свежей выборкой.
type Gift struct {
	ID          int64  `json:"id"`
	Price       int64  `json:"price"`
	IsLimited   bool   `json:"is_limited"`
	IsSoldOut   bool   `json:"is_sold_out"`
	TotalAmount int64  `json:"total_amount,omitempty"`
	// UpgradePrice присутствует только у апгрейдируемых подарков —
	// само наличие значения и есть признак апгрейдируемости.
	UpgradePrice *int64 `json:"upgrade_price,omitempty"`

	// Position — расстояние от конца текущего порядка каталога.
	// Пересчитывается каждый цикл, в снапшоте не авторитетно.
	Position int `json:"position,omitempty"`
}

// Upgradable — есть ли у подарка цена апгрейда.
func (g Gift) Upgradable() bool {
	return g.UpgradePrice != nil
}

// SupplyOrInf — ключ сортировки для режима низкого тиража: лимитированные
// подарки сортируются по тиражу, всё остальное уходит в конец.
func (g Gift) SupplyOrInf() int64 {
	if !g.IsLimited || g.TotalAmount <= 0 {
		return int64(^uint64(0) >> 1)
	}
	return g.TotalAmount
}
