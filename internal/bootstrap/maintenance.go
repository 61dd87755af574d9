package bootstrap

import (
	"context"

	"github.com/osse101/Ascend_Go/internal/config"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/repository"
	"github.com/osse101/Ascend_Go/internal/scheduler"
	"github.com/osse101/Ascend_Go/internal/worker"
)

// Maintenance runs periodic housekeeping jobs on a dedicated worker pool
type Maintenance struct {
	pool      *worker.Pool
	scheduler *scheduler.Scheduler
}

// StartMaintenance schedules the housekeeping jobs and starts their pool
func StartMaintenance(cfg *config.Config, outbox repository.Outbox) *Maintenance {
	pool := worker.NewPool(worker.MaintenanceWorkers, worker.MaintenanceQueueSize)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(JobNameOutboxCleanup, cfg.OutboxCleanupInterval, worker.NewOutboxCleanupJob(outbox, cfg.OutboxRetention))
	logger.Info(LogMsgMaintenanceScheduled,
		"job", JobNameOutboxCleanup,
		"interval", cfg.OutboxCleanupInterval,
		"retention", cfg.OutboxRetention)

	return &Maintenance{pool: pool, scheduler: sched}
}

// Shutdown stops the tickers, then waits for a running job to finish or ctx
// to expire
func (m *Maintenance) Shutdown(ctx context.Context) error {
	m.scheduler.Stop()

	done := make(chan struct{})
	go func() {
		m.pool.Stop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
