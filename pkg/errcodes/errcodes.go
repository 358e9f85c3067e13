package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Коды классификации ошибок покупки. Unclassified — всё, что не
	// совпало ни с одним известным типом RPC ошибки.
	BalanceTooLow    failure.ErrorCode = "BalanceTooLow"    // BALANCE_TOO_LOW
	GiftSoldOut      failure.ErrorCode = "GiftSoldOut"      // STARGIFT_USAGE_LIMITED
	InvalidRecipient failure.ErrorCode = "InvalidRecipient" // PEER_ID_INVALID
	Unclassified     failure.ErrorCode = "Unclassified"

	// Снапшот каталога.
	SnapshotCorrupted failure.ErrorCode = "SnapshotCorrupted"
	SnapshotIO        failure.ErrorCode = "SnapshotIO"

	// Каталог и баланс.
	CatalogUnavailable failure.ErrorCode = "CatalogUnavailable"
	GiftNotFound       failure.ErrorCode = "GiftNotFound"
)
