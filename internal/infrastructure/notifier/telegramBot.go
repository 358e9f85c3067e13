package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
)

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run слушает канал событий движка до закрытия канала или отмены контекста.
// Каждое событие — отдельное сообщение: ничего не батчим и не гасим, каждая
// единица покупки значима для оператора.
func (b *TelegramBot) Run(ctx context.Context, events <-chan entity.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := b.Send(ctx, event); err != nil {
				logger(ctx).Error("failed to send notification", "kind", event.Kind, "error", err)
			}
		}
	}
}

func (b *TelegramBot) Send(ctx context.Context, event entity.Event) error {
	text := formatEvent(event)
	if text == "" {
		return nil
	}

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	_, err := b.bot.SendMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}

//nolint:funlen
func formatEvent(event entity.Event) string {
	switch event.Kind {
	case entity.EventStartup:
		return "🚀 <b>Gifts Buyer started</b>\nWatching the catalog for new gifts."

	case entity.EventNewGift:
		return fmt.Sprintf(
			"🎁 <b>New gift detected</b>\n\n"+
				"🆔 <code>%d</code>\n"+
				"💰 <b>Price:</b> %d ⭐\n"+
				"📦 <b>Supply:</b> %s",
			event.Gift.ID,
			event.Gift.Price,
			formatSupply(event.Gift),
		)

	case entity.EventUnitPurchased:
		return fmt.Sprintf(
			"✅ <b>Gift sent!</b> (%d/%d)\n\n"+
				"🎁 <b>Gift:</b> <code>%d</code>\n"+
				"👤 <b>To:</b> %s",
			event.Unit, event.Total,
			event.Gift.ID,
			event.Recipient,
		)

	case entity.EventPartialPurchase:
		return fmt.Sprintf(
			"⚠️ <b>Partial purchase</b>\n\n"+
				"🎁 <b>Gift:</b> <code>%d</code>\n"+
				"🛒 <b>Bought:</b> %d of %d\n"+
				"💸 <b>Still needed:</b> %d ⭐\n"+
				"💰 <b>Balance:</b> %d ⭐",
			event.Gift.ID,
			event.Purchased, event.Requested,
			event.Shortfall,
			event.Balance,
		)

	case entity.EventInsufficientBalance:
		return fmt.Sprintf(
			"⛔ <b>Insufficient balance</b>\n\n"+
				"🎁 <b>Gift:</b> <code>%d</code>\n"+
				"💰 <b>Needed:</b> %d ⭐ (x%d)\n"+
				"👛 <b>Balance:</b> %d ⭐",
			event.Gift.ID,
			event.Price*int64(event.Requested), event.Requested,
			event.Balance,
		)

	case entity.EventGiftExcluded:
		return fmt.Sprintf(
			"🚫 <b>Gift skipped</b>\n\n"+
				"🎁 <b>Gift:</b> <code>%d</code>\n"+
				"📋 <b>Reason:</b> %s",
			event.Gift.ID,
			exclusionText(event),
		)

	case entity.EventPurchaseFailed:
		var sb strings.Builder
		fmt.Fprintf(&sb,
			"❌ <b>Purchase failed</b>\n\n"+
				"🎁 <b>Gift:</b> <code>%d</code>\n"+
				"👤 <b>To:</b> %s\n"+
				"🏷 <b>Code:</b> %s",
			event.Gift.ID,
			event.Recipient,
			event.Code,
		)
		if event.ErrMsg != "" {
			fmt.Fprintf(&sb, "\n\n<pre>%s</pre>", event.ErrMsg)
		}
		return sb.String()

	case entity.EventCycleSummary:
		if event.Summary == nil {
			return ""
		}
		return fmt.Sprintf(
			"📊 <b>Batch summary</b>\n\n"+
				"🆕 New gifts: %d\n"+
				"🚫 Sold out: %d\n"+
				"🔓 Non-limited: %d\n"+
				"⬆️ Non-upgradable: %d",
			event.Summary.NewGifts,
			event.Summary.SoldOut,
			event.Summary.NonLimited,
			event.Summary.NonUpgradable,
		)
	}

	return ""
}

func formatSupply(gift *entity.Gift) string {
	if !gift.IsLimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d (limited)", gift.TotalAmount)
}

func exclusionText(event entity.Event) string {
	switch event.Reason {
	case entity.ExclusionSoldOut:
		return "sold out"
	case entity.ExclusionNonLimited:
		return "not a limited edition"
	case entity.ExclusionNonUpgradable:
		return "not upgradable"
	case entity.ExclusionRangeError:
		return fmt.Sprintf("no matching range (price %d ⭐, supply %d)",
			event.Price, event.Gift.TotalAmount)
	}
	return string(event.Reason)
}
