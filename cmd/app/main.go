package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/Ascend_Go/internal/bootstrap"
	"github.com/osse101/Ascend_Go/internal/config"
	"github.com/osse101/Ascend_Go/internal/database"
	"github.com/osse101/Ascend_Go/internal/server"
	"github.com/osse101/Ascend_Go/internal/worker"
)

// shutdownTimeout bounds the whole graceful shutdown sequence
const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logFile.Close()

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	for _, w := range warnings {
		slog.Warn("Environment warning", "warning", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if _, err := database.Migrate(ctx, dbPool); err != nil {
		return err
	}

	repos := bootstrap.InitializeRepositories(dbPool, cfg)

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	realtimePub, err := bootstrap.ConnectRealtime(ctx, cfg)
	if err != nil {
		return err
	}

	bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:      bus,
		Feed:          repos.Store,
		Notifications: repos.Store,
		Realtime:      realtimePub,
	})

	services := bootstrap.InitializeServices(repos.Store, repos.Catalog)

	relay := worker.NewOutboxRelay(repos.Store.Outbox(), publisher, worker.RelayConfig{
		Interval:  cfg.OutboxPollInterval,
		BatchSize: cfg.OutboxBatchSize,
		Workers:   cfg.OutboxWorkers,
	})
	relay.Start()

	rollover := worker.NewSeasonRolloverWorker(services.Season, repos.Catalog, cfg.SeasonAutoStart)
	if err := rollover.Start(ctx); err != nil {
		slog.Error("Season rollover worker failed to start", "error", err)
	}

	maintenance := bootstrap.StartMaintenance(cfg, repos.Store.Outbox())

	checks := []server.ReadinessCheck{{Name: "postgres", Pinger: dbPool}}
	if realtimePub != nil {
		checks = append(checks, server.ReadinessCheck{Name: "redis", Pinger: realtimePub})
	}
	srv := server.NewServer(cfg.Port, cfg.Version, checks...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start()
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
			Server:             srv,
			OutboxRelay:        relay,
			SeasonRollover:     rollover,
			Maintenance:        maintenance,
			ResilientPublisher: publisher,
			Realtime:           realtimePub,
		})
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
