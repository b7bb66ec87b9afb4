package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Profile namespaces keys so several clients can share one Redis
	Profile string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// SessionTTL expires persisted session keys. Zero keeps them forever.
	SessionTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		Profile:      "default",
		PoolSize:     2,
		MinIdleConns: 0,
		SessionTTL:   30 * 24 * time.Hour,
	}
}
