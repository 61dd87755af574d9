package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older session logs kept at startup
	LogFileRetentionCount = 9

	// ServiceName is attached to every log line
	ServiceName = "ascend"
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStarting            = "Starting Ascend"
	LogMsgConfigurationLoaded = "Configuration loaded"
	ErrMsgFailedCreateLogsDir = "failed to create logs directory"
	ErrMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file %s: %v\n"
)

// =============================================================================
// Event System Configuration
// =============================================================================

const (
	// EventDefaultMaxRetries is the default number of retry attempts for failed event publishing
	EventDefaultMaxRetries = 5

	// EventDefaultRetryDelay is the default base delay between retry attempts (exponential backoff)
	EventDefaultRetryDelay = 2 * time.Second

	// EventDefaultDeadLetterPath is the default file path for dead-letter event logging
	EventDefaultDeadLetterPath = "logs/deadletter.jsonl"
)

// Log messages for event system initialization
const (
	LogMsgEventSystemInitialized         = "Event system initialized"
	ErrMsgFailedCreateDeadLetterDir      = "failed to create dead-letter directory"
	ErrMsgFailedCreateResilientPublisher = "failed to create resilient publisher"
)

// =============================================================================
// Catalog Sync
// =============================================================================

const (
	LogMsgSyncingCatalog   = "Syncing catalog from JSON config..."
	LogMsgCatalogSynced    = "Catalog synced successfully"
	LogMsgStartingSeason   = "Starting season from template..."
	LogMsgSeasonStarted    = "Season started"
	LogMsgSeasonAlreadyRun = "A season is already active, template not applied"

	ErrMsgFailedLoadCatalog = "failed to load catalog config"
	ErrMsgInvalidCatalog    = "invalid catalog config"
	ErrMsgFailedSyncCatalog = "failed to sync catalog to database"
	ErrMsgFailedLoadSeason  = "failed to load season template"
	ErrMsgFailedStartSeason = "failed to start season"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgFeedRecorderRegistered     = "Feed recorder registered"
	LogMsgNotificationsRegistered    = "Notification dispatcher registered"
	LogMsgRealtimeDisabled           = "REDIS_ADDR not set, realtime forwarding disabled"
	LogMsgRealtimeConnected          = "Connected to Redis for realtime forwarding"
	ErrMsgFailedConnectRedis         = "failed to connect to redis"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer         = "Shutting down server..."
	LogMsgShuttingDownEventPublisher = "Shutting down event publisher..."
	LogMsgServerStopped              = "Server stopped"
	LogMsgServerForcedShutdown       = "Server forced to shutdown"
	LogMsgResilientPublisherFailed   = "Resilient publisher shutdown failed"
	LogMsgRealtimeCloseFailed        = "Realtime publisher close failed"

	// Worker names for shutdown logging
	WorkerNameOutboxRelay    = "outbox relay"
	WorkerNameSeasonRollover = "season rollover"
	WorkerNameMaintenance    = "maintenance"
)

// Maintenance jobs
const (
	JobNameOutboxCleanup       = "outbox-cleanup"
	LogMsgMaintenanceScheduled = "Maintenance job scheduled"
)

// Shutdown log message format (worker name will be prepended)
const (
	LogMsgWorkerShutdownFailed = " worker shutdown failed"
)
