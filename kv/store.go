package kv

import (
	"context"
	"time"
)

// Store is the key-value primitive client every higher layer sits on.
// It exposes exactly the operation families the remote store provides:
// string get/set with optional TTL, atomic increment, set operations,
// list operations, existence check and delete. There are no queries,
// no secondary indexes and no multi-key transactions.
//
// Implementations map a missing key to ErrKeyNotFound and wrap every
// transport or timeout failure in ErrStoreUnavailable. How a caller
// reacts to ErrStoreUnavailable (propagate, degrade to a miss, or deny
// access) is the caller's policy, never the driver's.
type Store interface {
	// Get returns the string value at key.
	Get(ctx context.Context, key string) (string, error)

	// Set writes value at key. A ttl of zero means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX writes value at key only if the key does not exist.
	// Returns true if the write happened.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Incr atomically increments the integer at key and returns the new
	// value. A missing key counts as zero.
	Incr(ctx context.Context, key string) (int64, error)

	// SAdd adds members to the set at key.
	SAdd(ctx context.Context, key string, members ...string) error

	// SRem removes members from the set at key.
	SRem(ctx context.Context, key string, members ...string) error

	// SMembers returns every member of the set at key. A missing key is
	// an empty set, not an error.
	SMembers(ctx context.Context, key string) ([]string, error)

	// SIsMember reports whether member is in the set at key.
	SIsMember(ctx context.Context, key, member string) (bool, error)

	// SCard returns the cardinality of the set at key.
	SCard(ctx context.Context, key string) (int64, error)

	// LPush prepends values to the list at key.
	LPush(ctx context.Context, key string, values ...string) error

	// RPop removes and returns the last element of the list at key.
	RPop(ctx context.Context, key string) (string, error)

	// LRange returns list elements between start and stop inclusive;
	// negative offsets count from the tail, redis-style.
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// LRem removes occurrences of value from the list at key. count
	// follows redis semantics: 0 removes all occurrences.
	LRem(ctx context.Context, key string, count int64, value string) error

	// LLen returns the length of the list at key.
	LLen(ctx context.Context, key string) (int64, error)

	// Exists reports whether key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Del deletes the given keys. Deleting a missing key is not an error.
	Del(ctx context.Context, keys ...string) error

	// Expire sets a ttl on an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
