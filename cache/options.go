package cache

import (
	"time"

	"go.uber.org/zap"
)

// Option is a functional option for configuring a cache.
type Option func(*cacheConfig)

type cacheConfig struct {
	logger    *zap.SugaredLogger
	memoryTTL time.Duration
}

// WithLogger sets the logger used by the cache.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *cacheConfig) {
		c.logger = logger
	}
}

// WithMemoryTTL sets the ttl of the in-process tier.
func WithMemoryTTL(ttl time.Duration) Option {
	return func(c *cacheConfig) {
		c.memoryTTL = ttl
	}
}
