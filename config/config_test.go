package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quang159258/restaurant-storage/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Driver)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 3, cfg.MaxSessionsPerUser)
	assert.Equal(t, 30*time.Minute, cfg.InactivityThreshold)
	assert.Equal(t, 12*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.CacheMemoryTTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("REDIS_ADDR", "redis-0:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MAX_SESSIONS_PER_USER", "5")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Driver)
	assert.Equal(t, "redis-0:6380", cfg.RedisAddr)
	assert.Equal(t, 5, cfg.MaxSessionsPerUser)
	assert.Equal(t, time.Hour, cfg.SessionTTL)

	opts := cfg.RedisOptions()
	assert.Equal(t, "redis-0:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
}
