// Package cache provides a read-through cache in front of the
// key-value store, with an in-process memory tier ahead of the remote
// tier. The cache is fail-open by construction: any store failure on a
// cache path degrades to a miss or a no-op, so an outage costs
// performance, never availability. This is the inverse of the session
// manager's validation policy and the two must never be merged.
package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/quang159258/restaurant-storage/kv"
)

const (
	defaultMemoryTTL = 10 * time.Second
	defaultTTL       = 12 * time.Hour
)

// Cache is a namespaced two-tier cache. All keys put through it are
// tracked in a registry set on the remote tier so prefix invalidation
// needs no store-side key scan.
type Cache struct {
	mem    *gocache.Cache
	kv     kv.Store
	ns     string
	ttl    time.Duration
	memTTL time.Duration
	log    *zap.SugaredLogger
}

// New creates a cache for the given namespace. ttl applies to the
// remote tier; the memory tier uses a much shorter ttl of its own.
func New(store kv.Store, namespace string, ttl time.Duration, opts ...Option) *Cache {
	config := &cacheConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		config.logger = zap.NewNop().Sugar()
	}
	if config.memoryTTL <= 0 {
		config.memoryTTL = defaultMemoryTTL
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{
		mem:    gocache.New(config.memoryTTL, 2*config.memoryTTL),
		kv:     store,
		ns:     namespace,
		ttl:    ttl,
		memTTL: config.memoryTTL,
		log:    config.logger,
	}
}

// Namespace returns the cache's key namespace.
func (c *Cache) Namespace() string { return c.ns }

func (c *Cache) registryKey() string { return c.ns + ":keys" }

// Get attempts the memory tier first and falls back to the remote
// tier. A remote failure is a miss, never an error.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if val, ok := c.mem.Get(key); ok {
		if b, ok := val.([]byte); ok {
			return b, true
		}
	}

	val, err := c.kv.Get(ctx, key)
	if err != nil {
		c.log.Debugw("cache miss", "key", key, "error", err)
		return nil, false
	}

	// Write back to the memory tier.
	b := []byte(val)
	c.mem.SetDefault(key, b)
	return b, true
}

// Put writes to both tiers. Remote failures are swallowed; the next
// Get simply falls through to the authoritative store.
func (c *Cache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.mem.SetDefault(key, value)

	if err := c.kv.Set(ctx, key, string(value), ttl); err != nil {
		c.log.Debugw("cache put dropped", "key", key, "error", err)
		return
	}
	if err := c.kv.SAdd(ctx, c.registryKey(), key); err != nil {
		c.log.Debugw("cache registry add dropped", "key", key, "error", err)
	}
}

// Invalidate removes the given keys from both tiers.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	for _, key := range keys {
		c.mem.Delete(key)
	}
	if err := c.kv.Del(ctx, keys...); err != nil {
		c.log.Debugw("cache invalidate dropped", "keys", keys, "error", err)
		return
	}
	if err := c.kv.SRem(ctx, c.registryKey(), keys...); err != nil {
		c.log.Debugw("cache registry trim dropped", "error", err)
	}
}

// InvalidateByPrefix removes every cached key starting with prefix,
// e.g. every cached page list of a type after a write to that type.
func (c *Cache) InvalidateByPrefix(ctx context.Context, prefix string) {
	for key := range c.mem.Items() {
		if strings.HasPrefix(key, prefix) {
			c.mem.Delete(key)
		}
	}

	keys, err := c.kv.SMembers(ctx, c.registryKey())
	if err != nil {
		c.log.Debugw("cache prefix invalidation degraded to memory tier",
			"prefix", prefix, "error", err)
		return
	}
	matched := keys[:0]
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			matched = append(matched, key)
		}
	}
	if len(matched) == 0 {
		return
	}
	if err := c.kv.Del(ctx, matched...); err != nil {
		c.log.Debugw("cache prefix invalidation dropped", "prefix", prefix, "error", err)
		return
	}
	if err := c.kv.SRem(ctx, c.registryKey(), matched...); err != nil {
		c.log.Debugw("cache registry trim dropped", "error", err)
	}
}
