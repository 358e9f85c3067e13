package purchase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
	"github.com/msgtv/Gifts-Buyer/internal/metrics"
	"github.com/msgtv/Gifts-Buyer/pkg/logx"
)

const (
	// Минимальный интервал между последовательными вызовами покупки.
	// Это требование rate limit'а платформы, а не косметика: гарантия
	// нижней границы, не best effort.
	DefaultPurchaseDelay = 500 * time.Millisecond

	recipientCacheTTL = time.Hour
)

// RecipientInfo — разрешённый получатель: отображаемая ссылка для
// уведомлений плюс username, если он известен.
type RecipientInfo struct {
	Display string
	Handle  string
}

// TgClient — срез платформенного клиента, нужный оркестратору.
type TgClient interface {
	// GetGiftPrice возвращает живую цену подарка. Свежий удалённый
	// вызов: бюджетная арифметика никогда не считается по цене времён
	// обнаружения.
	GetGiftPrice(ctx context.Context, giftID int64) (int64, error)
	GetStarsBalance(ctx context.Context) (int64, error)
	ResolveRecipient(ctx context.Context, recipient entity.Recipient) (RecipientInfo, error)
	SendGift(ctx context.Context, recipient entity.Recipient, giftID int64) error
}

// Purchaser — оркестратор покупки. Один подарок за раз, получатели строго в
// порядке конфигурации, единицы по одной с обязательной паузой между
// вызовами. Баланс перечитывается перед каждым подарком и никогда не
// кэшируется между расчётами доступного количества.
type Purchaser struct {
	tg     TgClient
	events chan<- entity.Event

	delay    time.Duration
	lastCall time.Time
	resolved *cache.Cache
}

func NewPurchaser(tg TgClient, events chan<- entity.Event) *Purchaser {
	return &Purchaser{
		tg:       tg,
		events:   events,
		delay:    DefaultPurchaseDelay,
		resolved: cache.New(recipientCacheTTL, recipientCacheTTL),
	}
}

func (p *Purchaser) WithDelay(delay time.Duration) *Purchaser {
	if delay > 0 {
		p.delay = delay
	}
	return p
}

// Acquire покупает подарок для всех получателей вердикта. Отказ одного
// получателя не останавливает следующих; отказ одной единицы останавливает
// оставшиеся единицы только этого получателя.
func (p *Purchaser) Acquire(ctx context.Context, gift entity.Gift, verdict entity.Verdict) error {
	price := p.livePrice(ctx, gift.ID)
	balance := p.liveBalance(ctx)

	affordable := verdict.Quantity
	if price > 0 {
		affordable = min(verdict.Quantity, int(balance/price))
	}

	if affordable == 0 {
		logger(ctx).Warn("insufficient balance, skipping gift",
			slog.Int64("gift_id", gift.ID),
			slog.Int64("price", price),
			slog.Int64("balance", balance),
			slog.Int("requested", verdict.Quantity),
		)
		metrics.PurchasesTotal.WithLabelValues("insufficient_balance").Inc()

		return p.publish(ctx, entity.Event{
			Kind:      entity.EventInsufficientBalance,
			Gift:      &gift,
			Price:     price,
			Balance:   balance,
			Requested: verdict.Quantity,
		})
	}

	for _, recipient := range verdict.Recipients {
		if err := p.acquireFor(ctx, gift, recipient, affordable); err != nil {
			return err
		}
	}

	if affordable < verdict.Quantity {
		shortfall := int64(verdict.Quantity-affordable) * price

		logger(ctx).Warn("partial purchase",
			slog.Int64("gift_id", gift.ID),
			slog.Int("purchased", affordable),
			slog.Int("requested", verdict.Quantity),
			slog.Int64("shortfall", shortfall),
		)

		return p.publish(ctx, entity.Event{
			Kind:      entity.EventPartialPurchase,
			Gift:      &gift,
			Purchased: affordable,
			Requested: verdict.Quantity,
			Price:     price,
			Balance:   balance,
			Shortfall: shortfall,
		})
	}

	return nil
}

// acquireFor покупает affordable единиц одному получателю, по одной единице
// за вызов. Ошибка публикуется и обрывает только этого получателя.
func (p *Purchaser) acquireFor(ctx context.Context, gift entity.Gift, recipient entity.Recipient, affordable int) error {
	info := p.resolveRecipient(ctx, recipient)

	for unit := 1; unit <= affordable; unit++ {
		if err := p.waitForNextSlot(ctx); err != nil {
			return err
		}

		if err := p.tg.SendGift(ctx, recipient, gift.ID); err != nil {
			code := Classify(err)

			logger(ctx).Error("gift purchase failed",
				slog.Int64("gift_id", gift.ID),
				slog.String("recipient", info.Display),
				slog.String("code", code.String()),
				logx.Error(err),
			)
			metrics.PurchasesTotal.WithLabelValues("failed").Inc()

			return p.publish(ctx, entity.Event{
				Kind:      entity.EventPurchaseFailed,
				Gift:      &gift,
				Recipient: info.Display,
				Code:      code,
				ErrMsg:    err.Error(),
				Balance:   p.liveBalance(ctx),
				Price:     gift.Price,
			})
		}

		logger(ctx).Info("gift sent",
			slog.Int64("gift_id", gift.ID),
			slog.String("recipient", info.Display),
			slog.Int("unit", unit),
			slog.Int("total", affordable),
		)
		metrics.PurchasesTotal.WithLabelValues("success").Inc()

		if err := p.publish(ctx, entity.Event{
			Kind:      entity.EventUnitPurchased,
			Gift:      &gift,
			Recipient: info.Display,
			Unit:      unit,
			Total:     affordable,
		}); err != nil {
			return err
		}
	}

	return nil
}

// livePrice перечитывает цену на момент покупки. Неизвестная цена трактуется
// как ноль ("бесплатно"): осознанный выбор, чтобы отказ lookup'а не
// блокировал весь конвейер.
func (p *Purchaser) livePrice(ctx context.Context, giftID int64) int64 {
	price, err := p.tg.GetGiftPrice(ctx, giftID)
	if err != nil {
		logger(ctx).Warn("price lookup failed, treating as free",
			slog.Int64("gift_id", giftID), logx.Error(err))
		return 0
	}
	return price
}

// liveBalance: отказ трактуется как нулевой баланс — консервативно блокирует
// покупку вместо риска овердрафта.
func (p *Purchaser) liveBalance(ctx context.Context) int64 {
	balance, err := p.tg.GetStarsBalance(ctx)
	if err != nil {
		logger(ctx).Warn("balance lookup failed, treating as zero", logx.Error(err))
		return 0
	}
	return balance
}

// resolveRecipient с кэшем на час: резолвим получателя один раз на партию,
// а не на каждую единицу. Отказ резолва — не отказ покупки: откатываемся на
// сырую строку идентификатора.
func (p *Purchaser) resolveRecipient(ctx context.Context, recipient entity.Recipient) RecipientInfo {
	key := recipient.String()

	if cached, found := p.resolved.Get(key); found {
		return cached.(RecipientInfo)
	}

	info, err := p.tg.ResolveRecipient(ctx, recipient)
	if err != nil {
		logger(ctx).Warn("recipient resolve failed, using raw reference",
			slog.String("recipient", key), logx.Error(err))
		return RecipientInfo{Display: key}
	}

	p.resolved.Set(key, info, cache.DefaultExpiration)

	return info
}

// waitForNextSlot гарантирует минимальный зазор между вызовами покупки.
// Отмена контекста прерывает ожидание, но не текущую единицу.
func (p *Purchaser) waitForNextSlot(ctx context.Context) error {
	if p.lastCall.IsZero() {
		p.lastCall = time.Now()
		return nil
	}

	elapsed := time.Since(p.lastCall)
	if elapsed >= p.delay {
		p.lastCall = time.Now()
		return nil
	}

	select {
	case <-time.After(p.delay - elapsed):
		p.lastCall = time.Now()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Purchaser) publish(ctx context.Context, event entity.Event) error {
	select {
	case p.events <- event:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish %s: %w", event.Kind, ctx.Err())
	}
}
