package entity

import "git.appkode.ru/pub/go/failure"

// EventKind — вид уведомления для оператора. Каждая успешная единица
// покупки и каждая ошибка порождают ровно одно событие: нотификатор ничего
// не батчит и не гасит.
type EventKind string

const (
	EventStartup             EventKind = "startup"
	EventNewGift             EventKind = "new_gift"
	EventGiftExcluded        EventKind = "gift_excluded"
	EventUnitPurchased       EventKind = "unit_purchased"
	EventPartialPurchase     EventKind = "partial_purchase"
	EventInsufficientBalance EventKind = "insufficient_balance"
	EventPurchaseFailed      EventKind = "purchase_failed"
	EventCycleSummary        EventKind = "cycle_summary"
)

// SkipSummary — счётчики исключений по партии новых подарков. Считаются по
// всей партии независимо от пер-айтемного вердикта.
type SkipSummary struct {
	NewGifts      int
	SoldOut       int
	NonLimited    int
	NonUpgradable int
}

func (s SkipSummary) Any() bool {
	return s.SoldOut > 0 || s.NonLimited > 0 || s.NonUpgradable > 0
}

// Event — единица операторской видимости. Потребляется нотификатором сразу,
// никуда не персистится.
type Event struct {
	Kind EventKind

	Gift      *Gift
	Recipient string // отображаемая ссылка на получателя
	Reason    ExclusionReason

	// Прогресс покупки по единицам.
	Unit  int
	Total int

	// Бюджетная арифметика.
	Price     int64
	Balance   int64
	Requested int
	Purchased int
	Shortfall int64

	// Классифицированная ошибка покупки.
	Code   failure.ErrorCode
	ErrMsg string

	Summary *SkipSummary
}
