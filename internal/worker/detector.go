package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/samber/lo"

	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
	"github.com/msgtv/Gifts-Buyer/internal/domain/service/eligibility"
	"github.com/msgtv/Gifts-Buyer/internal/domain/service/priority"
	"github.com/msgtv/Gifts-Buyer/internal/infrastructure/snapshot"
	"github.com/msgtv/Gifts-Buyer/internal/metrics"
	"github.com/msgtv/Gifts-Buyer/pkg/contextx"
	"github.com/msgtv/Gifts-Buyer/pkg/logx"
	"github.com/msgtv/Gifts-Buyer/pkg/lox"
)

// Catalog — срез платформенного клиента, нужный детектору.
type Catalog interface {
	GetAvailableGifts(ctx context.Context) ([]entity.Gift, error)
}

// Acquirer обрабатывает один пригодный подарок.
type Acquirer interface {
	Acquire(ctx context.Context, gift entity.Gift, verdict entity.Verdict) error
}

// GiftHandler — хук для каждого нового подарка в порядке приоритета.
type GiftHandler func(ctx context.Context, gift entity.Gift)

// CycleStatus — то, что детектор отдаёт наружу (status API).
type CycleStatus struct {
	Running     bool               `json:"running"`
	KnownGifts  int                `json:"known_gifts"`
	LastCycleAt time.Time          `json:"last_cycle_at"`
	LastSummary entity.SkipSummary `json:"last_summary"`
}

// Detector — единственный долгоживущий воркер: опрашивает каталог, диффит
// его со снапшотом и гонит новые подарки через конвейер оценки и покупки.
// Всё строго последовательно: подарок N+1 видит баланс после покупок
// подарка N.
type Detector struct {
	catalog     Catalog
	store       snapshot.Store
	evaluator   *eligibility.Evaluator
	prioritizer *priority.Prioritizer
	acquirer    Acquirer
	events      chan<- entity.Event

	interval  time.Duration
	onNewGift GiftHandler

	mu     sync.Mutex
	status CycleStatus
}

func NewDetector(
	catalog Catalog,
	store snapshot.Store,
	evaluator *eligibility.Evaluator,
	prioritizer *priority.Prioritizer,
	acquirer Acquirer,
	events chan<- entity.Event,
	interval time.Duration,
) *Detector {
	return &Detector{
		catalog:     catalog,
		store:       store,
		evaluator:   evaluator,
		prioritizer: prioritizer,
		acquirer:    acquirer,
		events:      events,
		interval:    interval,
	}
}

// WithOnNewGift вешает хук, вызываемый один раз на каждый новый подарок в
// порядке приоритета, до оценки.
func (d *Detector) WithOnNewGift(h GiftHandler) *Detector {
	d.onNewGift = h
	return d
}

// Status — снимок состояния для операторского API.
func (d *Detector) Status() CycleStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// Run крутит цикл обнаружения до отмены контекста. Сбой внутри цикла не
// фатален: логируем и ждём следующего тика.
func (d *Detector) Run(ctx context.Context) error {
	logger(ctx).Info("gift detector started", slog.Duration("interval", d.interval))

	d.setRunning(true)
	defer d.setRunning(false)

	for {
		if err := d.runCycle(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				logger(ctx).Info("gift detector stopped")
				return err
			}
			logger(ctx).Error("detection cycle failed", logx.Error(err))
			metrics.CycleFailures.Inc()
		}

		select {
		case <-time.After(d.interval):
		case <-ctx.Done():
			logger(ctx).Info("gift detector stopped")
			return ctx.Err()
		}
	}
}

// runCycle — один проход: load → fetch → diff → process → save.
func (d *Detector) runCycle(ctx context.Context) error {
	ctx = contextx.WithLogger(ctx, logger(ctx).With(
		slog.String("cycle", xid.New().String()),
	))

	// Отсутствующий снапшот — не ошибка: первый запуск.
	known, err := d.store.Load(ctx)
	if err != nil {
		return err
	}

	current, err := d.catalog.GetAvailableGifts(ctx)
	if err != nil {
		// Сбой опроса гасит обработку этого цикла, но не сам цикл:
		// снапшот не трогаем, следующий тик попробует снова.
		return err
	}

	currentByID := lox.FilterAssociate(current, func(gift entity.Gift) (int64, bool) {
		return gift.ID, true
	})
	discoveryOrder := lo.Map(current, func(gift entity.Gift, _ int) int64 {
		return gift.ID
	})

	// Дифф только по id: изменение атрибутов уже известного подарка новым
	// его не делает.
	newGifts := make(map[int64]entity.Gift)
	for id, gift := range currentByID {
		if _, ok := known[id]; !ok {
			newGifts[id] = gift
		}
	}

	if len(newGifts) > 0 {
		if err := d.processBatch(ctx, newGifts, discoveryOrder); err != nil {
			return err
		}
	}

	// Снапшот перезаписывается целиком каждый цикл, даже пустой.
	if err := d.store.Save(ctx, current); err != nil {
		return err
	}

	metrics.CyclesTotal.Inc()
	d.updateStatus(len(currentByID))

	return nil
}

func (d *Detector) processBatch(ctx context.Context, newGifts map[int64]entity.Gift, discoveryOrder []int64) error {
	logger(ctx).Info("new gifts detected", slog.Int("count", len(newGifts)))
	metrics.NewGiftsTotal.Add(float64(len(newGifts)))

	// Счётчики пропусков считаются по всей партии до пер-айтемной
	// обработки — независимо от итоговых вердиктов.
	summary := d.evaluator.Categorize(newGifts)

	for _, gift := range d.prioritizer.Prioritize(newGifts, discoveryOrder) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.onNewGift != nil {
			d.onNewGift(ctx, gift)
		}

		if err := d.processGift(ctx, gift); err != nil {
			if ctx.Err() != nil {
				return err
			}
			// Отказ покупки одного подарка не трогает остальные.
			logger(ctx).Error("gift processing failed",
				slog.Int64("gift_id", gift.ID), logx.Error(err))
		}
	}

	if err := d.publish(ctx, entity.Event{
		Kind:    entity.EventCycleSummary,
		Summary: &summary,
	}); err != nil {
		return err
	}

	if summary.Any() {
		logger(ctx).Info("skip summary",
			slog.Int("sold_out", summary.SoldOut),
			slog.Int("non_limited", summary.NonLimited),
			slog.Int("non_upgradable", summary.NonUpgradable),
		)
	}

	d.setSummary(summary)

	return nil
}

func (d *Detector) processGift(ctx context.Context, gift entity.Gift) error {
	verdict := d.evaluator.Evaluate(gift)

	if !verdict.Eligible {
		metrics.ExclusionsTotal.WithLabelValues(string(verdict.Reason)).Inc()

		return d.publish(ctx, entity.Event{
			Kind:   entity.EventGiftExcluded,
			Gift:   &gift,
			Reason: verdict.Reason,
			Price:  verdict.Price,
		})
	}

	return d.acquirer.Acquire(ctx, gift, verdict)
}

func (d *Detector) publish(ctx context.Context, event entity.Event) error {
	select {
	case d.events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Detector) setRunning(running bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status.Running = running
}

func (d *Detector) updateStatus(known int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status.KnownGifts = known
	d.status.LastCycleAt = time.Now()
}

func (d *Detector) setSummary(summary entity.SkipSummary) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status.LastSummary = summary
}
