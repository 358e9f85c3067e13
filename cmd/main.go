package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	"github.com/msgtv/Gifts-Buyer/internal/config"
	"github.com/msgtv/Gifts-Buyer/internal/domain/entity"
	"github.com/msgtv/Gifts-Buyer/internal/domain/service/eligibility"
	"github.com/msgtv/Gifts-Buyer/internal/domain/service/priority"
	"github.com/msgtv/Gifts-Buyer/internal/domain/service/purchase"
	"github.com/msgtv/Gifts-Buyer/internal/infrastructure/notifier"
	"github.com/msgtv/Gifts-Buyer/internal/infrastructure/snapshot"
	"github.com/msgtv/Gifts-Buyer/internal/infrastructure/telegram"
	"github.com/msgtv/Gifts-Buyer/internal/server"
	"github.com/msgtv/Gifts-Buyer/internal/worker"
	"github.com/msgtv/Gifts-Buyer/pkg/application/connectors"
	"github.com/msgtv/Gifts-Buyer/pkg/application/modules"
	"github.com/msgtv/Gifts-Buyer/pkg/contextx"
)

const (
	appName    = "gifts-buyer"
	appVersion = "v1.0.0"

	httpShutdownTimeout = 5 * time.Second
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err := run(ctx, log, cancel); err != nil && ctx.Err() == nil {
		// Единственная фатальная категория: всё, что не смогли
		// переварить ниже по конвейеру.
		log.Error("unexpected error, shutting down", "error", err)
		os.Exit(1)
	}

	log.Info("application stopped")
}

//nolint:funlen
func run(ctx context.Context, log *slog.Logger, cancel context.CancelFunc) error {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	// 2. Snapshot store
	store, closeStore, err := buildSnapshotStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("snapshot store: %w", err)
	}
	defer closeStore(ctx)

	// 3. Telegram MTProto client
	tgClient, err := telegram.NewClient(cfg.Telegram)
	if err != nil {
		return fmt.Errorf("tg client create: %w", err)
	}

	tgReady := make(chan struct{})
	go func() {
		log.Info("starting telegram client...")
		err := tgClient.Start(ctx, func() error {
			log.Info("telegram authorized and ready")
			close(tgReady)
			return nil
		})
		if err != nil && ctx.Err() == nil {
			log.Error("telegram client stopped", "error", err)
			cancel()
		}
	}()

	select {
	case <-tgReady:
	case <-ctx.Done():
		return ctx.Err()
	}

	events := make(chan entity.Event, 100)

	// 4. Notifier bot
	alertBot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
	if err != nil {
		return fmt.Errorf("notifier bot: %w", err)
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("notifier bot started listening")
		if err := alertBot.Run(gCtx, events); err != nil && gCtx.Err() == nil {
			return fmt.Errorf("notifier bot: %w", err)
		}
		return nil
	})

	// 5. Engine
	evaluator := eligibility.NewEvaluator(cfg.Gifts.AcquisitionRanges(), cfg.Gifts.OnlyUpgradable)
	prioritizer := priority.NewPrioritizer(cfg.Gifts.PrioritizeLowSupply)
	purchaser := purchase.NewPurchaser(tgClient, events).WithDelay(cfg.Gifts.PurchaseDelay)

	detector := worker.NewDetector(
		tgClient,
		store,
		evaluator,
		prioritizer,
		purchaser,
		events,
		cfg.Gifts.CheckInterval,
	).WithOnNewGift(func(ctx context.Context, gift entity.Gift) {
		select {
		case events <- entity.Event{Kind: entity.EventNewGift, Gift: &gift}:
		case <-ctx.Done():
		}
	})

	g.Go(func() error {
		defer close(events)

		if err := detector.Run(gCtx); err != nil && gCtx.Err() == nil {
			return fmt.Errorf("detector: %w", err)
		}
		return nil
	})

	// 6. Operational surfaces
	modules.ProbeServer{
		Name:          appName,
		Version:       appVersion,
		ListenAddress: cfg.HTTP.ProbeAddress,
	}.Run(gCtx, g)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsAddress,
	}.Run(gCtx, g)

	statusServer := server.NewServer(detector, store)
	modules.HTTPServer{ShutdownTimeout: httpShutdownTimeout}.Run(gCtx, g, &http.Server{
		Addr:    cfg.HTTP.StatusAddress,
		Handler: statusServer.Router(),
	})

	// Стартовое уведомление уходит уже в работающий канал.
	select {
	case events <- entity.Event{Kind: entity.EventStartup}:
	case <-gCtx.Done():
	}

	log.Info("gift acquisition engine started",
		"ranges", len(cfg.Gifts.AcquisitionRanges()),
		"interval", cfg.Gifts.CheckInterval,
		"snapshot_backend", cfg.Snapshot.Backend,
	)

	return g.Wait()
}

// buildSnapshotStore выбирает бэкенд снапшота по конфигурации.
func buildSnapshotStore(ctx context.Context, cfg config.Config) (snapshot.Store, func(context.Context), error) {
	noop := func(context.Context) {}

	switch cfg.Snapshot.Backend {
	case config.SnapshotBackendFile:
		return snapshot.NewFileStore(cfg.Snapshot.Path), noop, nil

	case config.SnapshotBackendPostgres:
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		db := pg.Client(ctx)

		if err := db.PingContext(ctx); err != nil {
			return nil, noop, fmt.Errorf("db ping: %w", err)
		}

		return snapshot.NewPostgresStore(db), pg.Close, nil

	case config.SnapshotBackendRedis:
		rd := &connectors.Redis{
			Address:            cfg.Redis.Address,
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
		}

		return snapshot.NewRedisStore(rd.Client(ctx)), rd.Close, nil
	}

	return nil, noop, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
}
