// Package kvtest provides key-value store doubles for tests, most
// importantly a wrapper that simulates an unreachable store so the
// fail-open and fail-closed policies of the layers above can be
// exercised deterministically.
package kvtest

import (
	"context"
	"fmt"
	"time"

	storage "github.com/quang159258/restaurant-storage"
	"github.com/quang159258/restaurant-storage/kv"
)

// FaultStore wraps a Store and fails every call with ErrStoreUnavailable
// while Failing is true. Toggle it mid-test to simulate an outage.
type FaultStore struct {
	kv.Store
	Failing bool
}

// NewFaultStore wraps inner in a FaultStore that is initially healthy.
func NewFaultStore(inner kv.Store) *FaultStore {
	return &FaultStore{Store: inner}
}

func (f *FaultStore) err(op string) error {
	return fmt.Errorf("%s: %w", op, storage.ErrStoreUnavailable)
}

func (f *FaultStore) Get(ctx context.Context, key string) (string, error) {
	if f.Failing {
		return "", f.err("get")
	}
	return f.Store.Get(ctx, key)
}

func (f *FaultStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if f.Failing {
		return f.err("set")
	}
	return f.Store.Set(ctx, key, value, ttl)
}

func (f *FaultStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if f.Failing {
		return false, f.err("setnx")
	}
	return f.Store.SetNX(ctx, key, value, ttl)
}

func (f *FaultStore) Incr(ctx context.Context, key string) (int64, error) {
	if f.Failing {
		return 0, f.err("incr")
	}
	return f.Store.Incr(ctx, key)
}

func (f *FaultStore) SAdd(ctx context.Context, key string, members ...string) error {
	if f.Failing {
		return f.err("sadd")
	}
	return f.Store.SAdd(ctx, key, members...)
}

func (f *FaultStore) SRem(ctx context.Context, key string, members ...string) error {
	if f.Failing {
		return f.err("srem")
	}
	return f.Store.SRem(ctx, key, members...)
}

func (f *FaultStore) SMembers(ctx context.Context, key string) ([]string, error) {
	if f.Failing {
		return nil, f.err("smembers")
	}
	return f.Store.SMembers(ctx, key)
}

func (f *FaultStore) SIsMember(ctx context.Context, key, member string) (bool, error) {
	if f.Failing {
		return false, f.err("sismember")
	}
	return f.Store.SIsMember(ctx, key, member)
}

func (f *FaultStore) SCard(ctx context.Context, key string) (int64, error) {
	if f.Failing {
		return 0, f.err("scard")
	}
	return f.Store.SCard(ctx, key)
}

func (f *FaultStore) LPush(ctx context.Context, key string, values ...string) error {
	if f.Failing {
		return f.err("lpush")
	}
	return f.Store.LPush(ctx, key, values...)
}

func (f *FaultStore) RPop(ctx context.Context, key string) (string, error) {
	if f.Failing {
		return "", f.err("rpop")
	}
	return f.Store.RPop(ctx, key)
}

func (f *FaultStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if f.Failing {
		return nil, f.err("lrange")
	}
	return f.Store.LRange(ctx, key, start, stop)
}

func (f *FaultStore) LRem(ctx context.Context, key string, count int64, value string) error {
	if f.Failing {
		return f.err("lrem")
	}
	return f.Store.LRem(ctx, key, count, value)
}

func (f *FaultStore) LLen(ctx context.Context, key string) (int64, error) {
	if f.Failing {
		return 0, f.err("llen")
	}
	return f.Store.LLen(ctx, key)
}

func (f *FaultStore) Exists(ctx context.Context, key string) (bool, error) {
	if f.Failing {
		return false, f.err("exists")
	}
	return f.Store.Exists(ctx, key)
}

func (f *FaultStore) Del(ctx context.Context, keys ...string) error {
	if f.Failing {
		return f.err("del")
	}
	return f.Store.Del(ctx, keys...)
}

func (f *FaultStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if f.Failing {
		return f.err("expire")
	}
	return f.Store.Expire(ctx, key, ttl)
}

func (f *FaultStore) Ping(ctx context.Context) error {
	if f.Failing {
		return f.err("ping")
	}
	return f.Store.Ping(ctx)
}
