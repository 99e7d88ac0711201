package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	storage "github.com/quang159258/restaurant-storage"
)

// RedisStore implements Store on a go-redis client.
type RedisStore struct {
	client *redis.Client
	log    *zap.SugaredLogger
}

// NewRedisStore creates a new Redis-backed key-value store.
func NewRedisStore(client *redis.Client, logger *zap.SugaredLogger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &RedisStore{
		client: client,
		log:    logger,
	}
}

// wrap maps driver errors onto the shared sentinels: redis.Nil becomes
// ErrKeyNotFound, everything else is a transport failure.
func (s *RedisStore) wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%s %q: %w", op, key, storage.ErrKeyNotFound)
	}
	s.log.Warnw("redis call failed", "op", op, "key", key, "error", err)
	return fmt.Errorf("%s %q: %w: %v", op, key, storage.ErrStoreUnavailable, err)
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		return "", s.wrap("get", key, err)
	}
	return val, nil
}

// Set implements Store.
func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.wrap("set", key, s.client.Set(ctx, key, value, ttl).Err())
}

// SetNX implements Store.
func (s *RedisStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, s.wrap("setnx", key, err)
	}
	return ok, nil
}

// Incr implements Store.
func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, s.wrap("incr", key, err)
	}
	return n, nil
}

// SAdd implements Store.
func (s *RedisStore) SAdd(ctx context.Context, key string, members ...string) error {
	return s.wrap("sadd", key, s.client.SAdd(ctx, key, toAny(members)...).Err())
}

// SRem implements Store.
func (s *RedisStore) SRem(ctx context.Context, key string, members ...string) error {
	return s.wrap("srem", key, s.client.SRem(ctx, key, toAny(members)...).Err())
}

// SMembers implements Store.
func (s *RedisStore) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, s.wrap("smembers", key, err)
	}
	return members, nil
}

// SIsMember implements Store.
func (s *RedisStore) SIsMember(ctx context.Context, key, member string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, s.wrap("sismember", key, err)
	}
	return ok, nil
}

// SCard implements Store.
func (s *RedisStore) SCard(ctx context.Context, key string) (int64, error) {
	n, err := s.client.SCard(ctx, key).Result()
	if err != nil {
		return 0, s.wrap("scard", key, err)
	}
	return n, nil
}

// LPush implements Store.
func (s *RedisStore) LPush(ctx context.Context, key string, values ...string) error {
	return s.wrap("lpush", key, s.client.LPush(ctx, key, toAny(values)...).Err())
}

// RPop implements Store.
func (s *RedisStore) RPop(ctx context.Context, key string) (string, error) {
	val, err := s.client.RPop(ctx, key).Result()
	if err != nil {
		return "", s.wrap("rpop", key, err)
	}
	return val, nil
}

// LRange implements Store.
func (s *RedisStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	vals, err := s.client.LRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, s.wrap("lrange", key, err)
	}
	return vals, nil
}

// LRem implements Store.
func (s *RedisStore) LRem(ctx context.Context, key string, count int64, value string) error {
	return s.wrap("lrem", key, s.client.LRem(ctx, key, count, value).Err())
}

// LLen implements Store.
func (s *RedisStore) LLen(ctx context.Context, key string) (int64, error) {
	n, err := s.client.LLen(ctx, key).Result()
	if err != nil {
		return 0, s.wrap("llen", key, err)
	}
	return n, nil
}

// Exists implements Store.
func (s *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, s.wrap("exists", key, err)
	}
	return n > 0, nil
}

// Del implements Store.
func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.wrap("del", keys[0], s.client.Del(ctx, keys...).Err())
}

// Expire implements Store.
func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.wrap("expire", key, s.client.Expire(ctx, key, ttl).Err())
}

// Ping implements Store.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.wrap("ping", "", s.client.Ping(ctx).Err())
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func toAny(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
