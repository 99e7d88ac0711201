package kv

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StoreOption is a functional option for configuring a key-value store.
type StoreOption func(*storeConfig)

// storeConfig holds configuration for key-value stores.
type storeConfig struct {
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

// WithRedisClient sets the Redis client for the Redis store.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithLogger sets the logger used by the store.
func WithLogger(logger *zap.SugaredLogger) StoreOption {
	return func(c *storeConfig) {
		c.logger = logger
	}
}
