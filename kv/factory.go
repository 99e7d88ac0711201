package kv

import (
	"go.uber.org/zap"

	storage "github.com/quang159258/restaurant-storage"
)

// StoreType represents the type of key-value store.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

// NewStore creates a new Store based on the given type.
// Supports "memory" and "redis" driver types.
// For Redis, requires WithRedisClient option.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}

	// Apply options
	for _, opt := range opts {
		opt(config)
	}

	if config.logger == nil {
		config.logger = zap.NewNop().Sugar()
	}

	switch storeType {
	case StoreTypeMemory:
		return NewMemoryStore(), nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, storage.ErrInvalidConfig
		}
		return NewRedisStore(config.redisClient, config.logger), nil

	default:
		return nil, storage.ErrInvalidStoreType
	}
}
