package config

import "time"

// Default paths, relative to the working directory
const (
	DefaultCatalogDir     = "configs/catalog"
	DefaultSchemaDir      = "configs/schemas"
	DefaultDeadLetterPath = "logs/deadletter.jsonl"
	DefaultLogDir         = "logs"
)

// Defaults for tunables
const (
	DefaultPort               = 8080
	DefaultDBMaxConns         = 20
	DefaultDBMaxConnIdleTime  = 5 * time.Minute
	DefaultDBMaxConnLifetime  = 30 * time.Minute
	DefaultOutboxPollInterval = time.Second
	DefaultOutboxBatchSize    = 100
	DefaultOutboxWorkers      = 1

	DefaultOutboxRetention       = 7 * 24 * time.Hour
	DefaultOutboxCleanupInterval = time.Hour
	DefaultCatalogCacheSize      = 1024
	DefaultCatalogCacheTTL       = 10 * time.Minute
	DefaultEventMaxRetries       = 5
	DefaultEventRetryDelay       = 2 * time.Second
)
