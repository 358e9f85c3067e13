package entity

// ExclusionReason — закрытый набор причин, по которым новый подарок не
// покупается. Порядок проверки фиксирован: sold out и non-limited отсекаются
// до любой работы с диапазонами.
type ExclusionReason string

const (
	ExclusionSoldOut       ExclusionReason = "sold_out"
	ExclusionNonLimited    ExclusionReason = "non_limited_blocked"
	ExclusionNonUpgradable ExclusionReason = "non_upgradable_blocked"
	ExclusionRangeError    ExclusionReason = "range_error"
)

// Verdict — результат оценки подарка. Либо Eligible с параметрами покупки,
// либо причина исключения (для range_error — с ценой и тиражом для
// диагностики).
type Verdict struct {
	Eligible   bool
	Quantity   int
	Recipients []Recipient

	Reason      ExclusionReason
	Price       int64
	TotalAmount int64
}

func EligibleVerdict(quantity int, recipients []Recipient) Verdict {
	return Verdict{
		Eligible:   true,
		Quantity:   quantity,
		Recipients: recipients,
	}
}

func ExcludedVerdict(reason ExclusionReason) Verdict {
	return Verdict{Reason: reason}
}

func RangeErrorVerdict(price, totalAmount int64) Verdict {
	return Verdict{
		Reason:      ExclusionRangeError,
		Price:       price,
		TotalAmount: totalAmount,
	}
}
