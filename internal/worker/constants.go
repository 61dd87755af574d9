package worker

import "time"

// ============================================================================
// Log Messages - Worker Lifecycle
// ============================================================================

const (
	LogMsgWorkerJobFailed        = "Worker job failed"
	LogMsgWorkerShuttingDown     = "Shutting down worker"
	LogMsgWorkerShutdownComplete = "Worker shutdown complete"
	LogMsgWorkerShutdownTimeout  = "Worker shutdown timeout"
	LogMsgTimerCancelled         = "Cancelled pending worker execution"
)

// ============================================================================
// Log Messages - Outbox Relay
// ============================================================================

const (
	LogMsgRelayStarted       = "Outbox relay started"
	LogMsgRelayBatchSkipped  = "Outbox relay busy, skipping poll"
	LogMsgRelayBatchDone     = "Outbox batch relayed"
	LogMsgRelayPublishFailed = "Outbox event publish failed, leaving pending"
	LogMsgCountPendingFailed = "Failed to count pending outbox events"
)

// ============================================================================
// Log Messages - Outbox Cleanup
// ============================================================================

const (
	LogMsgOutboxCleanupStarting = "Starting outbox cleanup job"
	LogMsgOutboxCleanupFailed   = "Outbox cleanup failed"
	LogMsgOutboxCleanupDone     = "Outbox cleanup completed"
)

// ============================================================================
// Log Messages - Season Rollover
// ============================================================================

const (
	LogMsgNoActiveSeason         = "No active season to schedule"
	LogMsgSeasonEndScheduled     = "Season end scheduled"
	LogMsgSeasonRolloverStarting = "Season ended, rolling over"
	LogMsgSeasonRolloverFailed   = "Season rollover failed"
	LogMsgSeasonAlreadyReplaced  = "Ended season no longer active, skipping rollover"
	LogMsgNextSeasonStarted      = "Next season started"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgBeginTxFailed        = "failed to begin outbox transaction: %w"
	ErrMsgLockPendingFailed    = "failed to lock pending outbox events: %w"
	ErrMsgMarkDispatchedFailed = "failed to mark %d outbox events dispatched: %w"
	ErrMsgCommitFailed         = "failed to commit outbox transaction: %w"
	ErrMsgCloseSeasonFailed    = "failed to close season %s: %w"
	ErrMsgLoadTiersFailed      = "failed to load tiers of season %s: %w"
	ErrMsgStartSeasonFailed    = "failed to start season after %s: %w"
	ErrMsgGetSeasonFailed      = "failed to get current season: %w"
	ErrMsgOutboxCleanupFailed  = "failed to prune outbox: %w"
)

// ============================================================================
// Defaults
// ============================================================================

const (
	DefaultRelayInterval  = time.Second
	DefaultRelayBatchSize = 100
	DefaultRelayWorkers   = 1
	RelayQueueSize        = 1

	// Maintenance pool runs scheduled housekeeping jobs
	MaintenanceWorkers   = 1
	MaintenanceQueueSize = 4
)
