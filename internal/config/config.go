package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	Version     string

	// Database
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// Redis pub/sub for real-time pushes
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Outbox relay
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxWorkers      int
	DeadLetterPath     string

	// Dispatched outbox rows older than OutboxRetention are pruned every
	// OutboxCleanupInterval
	OutboxRetention       time.Duration
	OutboxCleanupInterval time.Duration

	// Event publisher retries
	EventMaxRetries int
	EventRetryDelay time.Duration

	// Catalog
	CatalogDir       string
	SchemaDir        string
	CatalogCacheSize int
	CatalogCacheTTL  time.Duration

	// Seasons
	SeasonAutoStart bool
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LogDir:      getEnv("LOG_DIR", DefaultLogDir),
		Environment: getEnv("ENVIRONMENT", "dev"),
		Version:     getEnv("VERSION", "dev"),

		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "ascend"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		OutboxPollInterval: getEnvAsDuration("OUTBOX_POLL_INTERVAL", DefaultOutboxPollInterval),
		OutboxBatchSize:    getEnvAsInt("OUTBOX_BATCH_SIZE", DefaultOutboxBatchSize),
		OutboxWorkers:      getEnvAsInt("OUTBOX_WORKERS", DefaultOutboxWorkers),
		DeadLetterPath:     getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),

		OutboxRetention:       getEnvAsDuration("OUTBOX_RETENTION", DefaultOutboxRetention),
		OutboxCleanupInterval: getEnvAsDuration("OUTBOX_CLEANUP_INTERVAL", DefaultOutboxCleanupInterval),

		EventMaxRetries: getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay: getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),

		CatalogDir:       getEnv("CATALOG_DIR", DefaultCatalogDir),
		SchemaDir:        getEnv("SCHEMA_DIR", DefaultSchemaDir),
		CatalogCacheSize: getEnvAsInt("CATALOG_CACHE_SIZE", DefaultCatalogCacheSize),
		CatalogCacheTTL:  getEnvAsDuration("CATALOG_CACHE_TTL", DefaultCatalogCacheTTL),

		SeasonAutoStart: getEnvAsBool("SEASON_AUTO_START", false),
	}

	portStr := getEnv("PORT", strconv.Itoa(DefaultPort))
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if cfg.OutboxBatchSize < 1 {
		return nil, fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", cfg.OutboxBatchSize)
	}

	if cfg.OutboxCleanupInterval <= 0 {
		return nil, fmt.Errorf("OUTBOX_CLEANUP_INTERVAL must be positive, got %s", cfg.OutboxCleanupInterval)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default on
// absence or parse failure
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a time.ParseDuration string
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// RedisEnabled reports whether real-time forwarding is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
