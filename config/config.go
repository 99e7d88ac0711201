// Package config loads the storage layer's settings from environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
)

// Config holds every tunable of the storage, cache and session layers.
type Config struct {
	// Driver selects the key-value backend: "redis" or "memory".
	Driver string `env:"STORAGE_DRIVER" envDefault:"redis"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	MaxSessionsPerUser  int           `env:"MAX_SESSIONS_PER_USER" envDefault:"3"`
	InactivityThreshold time.Duration `env:"SESSION_INACTIVITY_THRESHOLD" envDefault:"30m"`

	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"12h"`
	CacheMemoryTTL time.Duration `env:"CACHE_MEMORY_TTL" envDefault:"10s"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// RedisOptions builds the go-redis client options.
func (c Config) RedisOptions() *redis.Options {
	return &redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}
