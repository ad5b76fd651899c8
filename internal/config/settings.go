package config

import (
	"os"
	"strconv"
	"time"

	"pty_logistics/internal/importer"
)

// ServerAddr is the listen address for the HTTP server.
func ServerAddr() string {
	return getEnv("SERVER_ADDR", "0.0.0.0:8080")
}

// RedisAddr returns the quote-cache redis address; empty disables the cache.
func RedisAddr() string {
	return os.Getenv("REDIS_ADDR")
}

// QuoteCacheTTL bounds how long a computed quote may be served from redis.
func QuoteCacheTTL() time.Duration {
	if v := os.Getenv("QUOTE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return 5 * time.Minute
}

// ImportBatchSize tunes how many import rows run concurrently per batch.
func ImportBatchSize() int {
	if v := os.Getenv("IMPORT_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return importer.DefaultBatchSize
}

// ImportRowTimeout bounds each import row's store operations.
// Zero (the default) leaves rows without a deadline.
func ImportRowTimeout() time.Duration {
	if v := os.Getenv("IMPORT_ROW_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return 0
}
