package eligibility

import (
	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
)

// Evaluator применяет правила исключения и подбирает правило покупки.
// Чистая логика без побочных эффектов: все отказы коллабораторов живут
// уровнем выше.
type Evaluator struct {
	ranges         []entity.AcquisitionRange
	onlyUpgradable bool
}

func NewEvaluator(ranges []entity.AcquisitionRange, onlyUpgradable bool) *Evaluator {
	return &Evaluator{
		ranges:         ranges,
		onlyUpgradable: onlyUpgradable,
	}
}

// MatchRange сканирует правила в объявленном порядке и возвращает первое
// совпавшее. Детерминированная тотальная функция: при пересекающихся
// диапазонах выигрывает первый по конфигурации.
func MatchRange(price, totalAmount int64, ranges []entity.AcquisitionRange) (bool, int, []entity.Recipient) {
	for _, r := range ranges {
		if r.Contains(price, totalAmount) {
			return true, r.Quantity, r.Recipients
		}
	}

	return false, 0, nil
}

// Evaluate — вердикт по одному подарку. Порядок проверок фиксирован и
// значим: sold out и non-limited срабатывают раньше любой работы с
// диапазонами, чтобы распроданный подарок никогда не отчитывался как
// непопадание в диапазон.
func (e *Evaluator) Evaluate(gift entity.Gift) entity.Verdict {
	switch {
	case gift.IsSoldOut:
		return entity.ExcludedVerdict(entity.ExclusionSoldOut)
	case !gift.IsLimited:
		return entity.ExcludedVerdict(entity.ExclusionNonLimited)
	case e.onlyUpgradable && !gift.Upgradable():
		return entity.ExcludedVerdict(entity.ExclusionNonUpgradable)
	}

	totalAmount := int64(0)
	if gift.IsLimited {
		totalAmount = gift.TotalAmount
	}

	matched, quantity, recipients := MatchRange(gift.Price, totalAmount, e.ranges)
	if !matched {
		return entity.RangeErrorVerdict(gift.Price, totalAmount)
	}

	return entity.EligibleVerdict(quantity, recipients)
}

// Categorize считает счётчики пропусков по партии. Счётчики независимы от
// итогового вердикта: один подарок может попасть сразу в несколько категорий.
func (e *Evaluator) Categorize(gifts map[int64]entity.Gift) entity.SkipSummary {
	summary := entity.SkipSummary{NewGifts: len(gifts)}

	for _, gift := range gifts {
		if gift.IsSoldOut {
			summary.SoldOut++
		}
		if !gift.IsLimited {
			summary.NonLimited++
		}
		if e.onlyUpgradable && !gift.Upgradable() {
			summary.NonUpgradable++
		}
	}

	return summary
}
