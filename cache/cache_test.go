package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quang159258/restaurant-storage/cache"
	"github.com/quang159258/restaurant-storage/kv"
	"github.com/quang159258/restaurant-storage/kv/kvtest"
)

func TestCachePutGet(t *testing.T) {
	ctx := context.Background()
	c := cache.New(kv.NewMemoryStore(), "cache:test", time.Hour)

	_, ok := c.Get(ctx, "cache:test:missing")
	assert.False(t, ok)

	c.Put(ctx, "cache:test:k", []byte("v"), 0)
	val, ok := c.Get(ctx, "cache:test:k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), val)
}

func TestCacheRemoteTierSurvivesMemoryTier(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	// Two caches sharing a store model two processes sharing the
	// remote tier: a put through one is visible to the other.
	a := cache.New(store, "cache:test", time.Hour)
	b := cache.New(store, "cache:test", time.Hour)

	a.Put(ctx, "cache:test:k", []byte("v"), 0)
	val, ok := b.Get(ctx, "cache:test:k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), val)
}

func TestCacheFailOpen(t *testing.T) {
	ctx := context.Background()
	fault := kvtest.NewFaultStore(kv.NewMemoryStore())
	c := cache.New(fault, "cache:test", time.Hour)

	fault.Failing = true

	// Puts and gets degrade, they never error.
	c.Put(ctx, "cache:test:k", []byte("v"), 0)

	// The memory tier still answers.
	val, ok := c.Get(ctx, "cache:test:k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), val)

	// A cold cache with the store down is simply a miss.
	cold := cache.New(fault, "cache:test", time.Hour)
	_, ok = cold.Get(ctx, "cache:test:k")
	assert.False(t, ok)

	// Invalidation with the store down still clears the memory tier.
	c.Invalidate(ctx, "cache:test:k")
	_, ok = c.Get(ctx, "cache:test:k")
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := cache.New(kv.NewMemoryStore(), "cache:test", time.Hour)

	c.Put(ctx, "cache:test:a", []byte("1"), 0)
	c.Put(ctx, "cache:test:b", []byte("2"), 0)

	c.Invalidate(ctx, "cache:test:a")
	_, ok := c.Get(ctx, "cache:test:a")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "cache:test:b")
	assert.True(t, ok)
}

func TestCacheInvalidateByPrefix(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	c := cache.New(store, "cache:test", time.Hour)

	c.Put(ctx, "cache:test:page:1:10", []byte("p1"), 0)
	c.Put(ctx, "cache:test:page:2:10", []byte("p2"), 0)
	c.Put(ctx, "cache:test:id:7", []byte("r7"), 0)

	c.InvalidateByPrefix(ctx, "cache:test:page:")

	_, ok := c.Get(ctx, "cache:test:page:1:10")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "cache:test:page:2:10")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "cache:test:id:7")
	assert.True(t, ok)

	// The remote tier was cleared too, not only the memory tier.
	fresh := cache.New(store, "cache:test", time.Hour)
	_, ok = fresh.Get(ctx, "cache:test:page:1:10")
	assert.False(t, ok)
	_, ok = fresh.Get(ctx, "cache:test:id:7")
	assert.True(t, ok)
}
