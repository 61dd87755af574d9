package bootstrap

import (
	"context"

	"github.com/osse101/Ascend_Go/internal/event"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/realtime"
	"github.com/osse101/Ascend_Go/internal/server"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	OutboxRelay        shutdownable
	SeasonRollover     shutdownable
	Maintenance        shutdownable
	ResilientPublisher *event.ResilientPublisher
	Realtime           *realtime.Publisher
}

type shutdownable interface {
	Shutdown(context.Context) error
}

// GracefulShutdown stops application components in order:
//  1. Ops server (stop serving health checks and metrics)
//  2. Workers (the relay finishes its batch, pending timers and maintenance
//     tickers are cancelled)
//  3. Event publisher (drain retries so handled events reach the sinks)
//  4. Realtime publisher
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	logger.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			logger.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	shutdownWorker(ctx, WorkerNameOutboxRelay, components.OutboxRelay)
	shutdownWorker(ctx, WorkerNameSeasonRollover, components.SeasonRollover)
	shutdownWorker(ctx, WorkerNameMaintenance, components.Maintenance)

	if components.ResilientPublisher != nil {
		logger.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			logger.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.Realtime != nil {
		if err := components.Realtime.Close(); err != nil {
			logger.Error(LogMsgRealtimeCloseFailed, "error", err)
		}
	}

	logger.Info(LogMsgServerStopped)
}

func shutdownWorker(ctx context.Context, name string, w shutdownable) {
	if w == nil {
		return
	}
	if err := w.Shutdown(ctx); err != nil {
		logger.Error(name+LogMsgWorkerShutdownFailed, "error", err)
	}
}
