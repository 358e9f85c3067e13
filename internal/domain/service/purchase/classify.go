package purchase

import (
	"errors"
	"strings"

	"git.appkode.ru/pub/go/failure"
	"github.com/gotd/td/tgerr"

	"github.com/msgtv/Gifts-Buyer/pkg/errcodes"
)

// Типы RPC ошибок Telegram, которые движок умеет переживать точечно.
const (
	rpcBalanceTooLow    = "BALANCE_TOO_LOW"
	rpcGiftUsageLimited = "STARGIFT_USAGE_LIMITED"
	rpcPeerIDInvalid    = "PEER_ID_INVALID"
)

// Classify сводит ошибку покупки к закрытому набору кодов. Сначала смотрим
// на структурированный тип RPC ошибки, подстрочный матчинг остаётся
// fallback'ом для ошибок, долетевших без *tgerr.Error. Никогда не падает:
// всё несовпавшее — Unclassified.
func Classify(err error) failure.ErrorCode {
	var rpc *tgerr.Error
	if errors.As(err, &rpc) {
		switch rpc.Type {
		case rpcBalanceTooLow:
			return errcodes.BalanceTooLow
		case rpcGiftUsageLimited:
			return errcodes.GiftSoldOut
		case rpcPeerIDInvalid:
			return errcodes.InvalidRecipient
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, rpcBalanceTooLow):
		return errcodes.BalanceTooLow
	case strings.Contains(msg, rpcGiftUsageLimited):
		return errcodes.GiftSoldOut
	case strings.Contains(msg, rpcPeerIDInvalid):
		return errcodes.InvalidRecipient
	}

	return errcodes.Unclassified
}
