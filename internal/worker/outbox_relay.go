package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/Ascend_Go/internal/event"
	"github.com/osse101/Ascend_Go/internal/logger"
	"github.com/osse101/Ascend_Go/internal/metrics"
	"github.com/osse101/Ascend_Go/internal/repository"
)

// RelayConfig configures the OutboxRelay
type RelayConfig struct {
	Interval  time.Duration
	BatchSize int
	Workers   int
}

// OutboxRelay moves committed outbox rows onto the event bus. Each batch runs
// in one transaction that locks its rows with SKIP LOCKED, so several relay
// workers never publish the same row concurrently. Rows whose publish fails
// stay pending and are picked up by a later poll.
type OutboxRelay struct {
	BaseWorker
	repo   repository.Outbox
	bus    event.Bus
	pool   *Pool
	config RelayConfig
	now    func() time.Time
}

// NewOutboxRelay creates a relay. Zero config fields fall back to defaults.
func NewOutboxRelay(repo repository.Outbox, bus event.Bus, config RelayConfig) *OutboxRelay {
	if config.Interval <= 0 {
		config.Interval = DefaultRelayInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultRelayBatchSize
	}
	if config.Workers <= 0 {
		config.Workers = DefaultRelayWorkers
	}
	r := &OutboxRelay{
		repo:   repo,
		bus:    bus,
		pool:   NewPool(config.Workers, config.Workers*RelayQueueSize),
		config: config,
		now:    time.Now,
	}
	r.init()
	return r
}

type relayJob struct {
	relay *OutboxRelay
}

// Process relays batches until the outbox is drained
func (j relayJob) Process(ctx context.Context) error {
	for {
		n, err := j.relay.RelayBatch(ctx)
		if err != nil {
			return err
		}
		if n < j.relay.config.BatchSize {
			return nil
		}
		select {
		case <-j.relay.shutdown:
			return nil
		default:
		}
	}
}

// Start begins polling the outbox
func (r *OutboxRelay) Start() {
	r.pool.Start()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.config.Interval)
		defer ticker.Stop()

		logger.Info(LogMsgRelayStarted,
			"interval", r.config.Interval.String(),
			"batch_size", r.config.BatchSize,
			"workers", r.config.Workers)

		for {
			select {
			case <-ticker.C:
				if !r.pool.TryEnqueue(relayJob{relay: r}) {
					logger.Debug(LogMsgRelayBatchSkipped)
				}
				r.reportPending()
			case <-r.shutdown:
				return
			}
		}
	}()
}

// RelayBatch publishes up to BatchSize pending events and returns how many
// were marked dispatched
func (r *OutboxRelay) RelayBatch(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	tx, err := r.repo.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	rows, err := tx.LockPending(ctx, r.config.BatchSize)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgLockPendingFailed, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	now := r.now()
	dispatched := make([]int64, 0, len(rows))
	for _, row := range rows {
		if err := r.bus.Publish(ctx, event.FromOutbox(row)); err != nil {
			log.Warn(LogMsgRelayPublishFailed, "outbox_id", row.ID, "type", row.Type, "error", err)
			continue
		}
		dispatched = append(dispatched, row.ID)
		metrics.OutboxRelayed.WithLabelValues(row.Type).Inc()
		metrics.OutboxRelayLag.Observe(now.Sub(row.CreatedAt).Seconds())
	}

	if len(dispatched) > 0 {
		if err := tx.MarkDispatched(ctx, dispatched); err != nil {
			return 0, fmt.Errorf(ErrMsgMarkDispatchedFailed, len(dispatched), err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	log.Debug(LogMsgRelayBatchDone, "locked", len(rows), "dispatched", len(dispatched))
	return len(dispatched), nil
}

func (r *OutboxRelay) reportPending() {
	ctx := context.Background()
	n, err := r.repo.CountPending(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgCountPendingFailed, "error", err)
		return
	}
	metrics.OutboxPending.Set(float64(n))
}

// Shutdown stops polling and waits for the batch in progress
func (r *OutboxRelay) Shutdown(ctx context.Context) error {
	err := r.shutdownInternal(ctx, "outbox relay")
	r.pool.Stop()
	return err
}
