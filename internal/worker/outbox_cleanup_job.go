package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/metrics"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// OutboxCleanupJob prunes dispatched outbox events past the retention window
type OutboxCleanupJob struct {
	outbox    repository.Outbox
	retention time.Duration
}

// NewOutboxCleanupJob creates a new cleanup job
func NewOutboxCleanupJob(outbox repository.Outbox, retention time.Duration) *OutboxCleanupJob {
	return &OutboxCleanupJob{
		outbox:    outbox,
		retention: retention,
	}
}

// Process executes the cleanup job
func (j *OutboxCleanupJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgOutboxCleanupStarting, "retention", j.retention)

	start := time.Now()
	count, err := j.outbox.DeleteDispatchedBefore(ctx, start.Add(-j.retention))
	duration := time.Since(start)

	if err != nil {
		log.Error(LogMsgOutboxCleanupFailed, "error", err, "duration", duration)
		return fmt.Errorf(ErrMsgOutboxCleanupFailed, err)
	}

	metrics.OutboxPruned.Add(float64(count))
	log.Info(LogMsgOutboxCleanupDone, "deletedCount", count, "duration", duration)
	return nil
}
