package kv

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storage "github.com/quang159258/restaurant-storage"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "k", "v", 0))
	val, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	ok, err := s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Del(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", "v", time.Minute))

	_, err := s.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	ok, err := s.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreSetNX(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ok, err := s.SetNX(ctx, "k", "first", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetNX(ctx, "k", "second", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	val, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "first", val)
}

func TestMemoryStoreIncr(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for want := int64(1); want <= 3; want++ {
		n, err := s.Incr(ctx, "counter")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestMemoryStoreIncrConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	const workers = 16
	const perWorker = 50

	var mu sync.Mutex
	seen := make(map[int64]bool)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				n, err := s.Incr(ctx, "counter")
				assert.NoError(t, err)
				mu.Lock()
				assert.False(t, seen[n], "duplicate id %d", n)
				seen[n] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
	n, err := s.Incr(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, int64(workers*perWorker+1), n)
}

func TestMemoryStoreSets(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.SAdd(ctx, "set", "a", "b", "c"))
	require.NoError(t, s.SAdd(ctx, "set", "a")) // idempotent

	members, err := s.SMembers(ctx, "set")
	require.NoError(t, err)
	sort.Strings(members)
	assert.Equal(t, []string{"a", "b", "c"}, members)

	ok, err := s.SIsMember(ctx, "set", "b")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := s.SCard(ctx, "set")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, s.SRem(ctx, "set", "b"))
	ok, err = s.SIsMember(ctx, "set", "b")
	require.NoError(t, err)
	assert.False(t, ok)

	members, err = s.SMembers(ctx, "none")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestMemoryStoreLists(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.LPush(ctx, "list", "a"))
	require.NoError(t, s.LPush(ctx, "list", "b"))
	require.NoError(t, s.LPush(ctx, "list", "c"))

	// Head-first order.
	vals, err := s.LRange(ctx, "list", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, vals)

	n, err := s.LLen(ctx, "list")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	tail, err := s.RPop(ctx, "list")
	require.NoError(t, err)
	assert.Equal(t, "a", tail)

	require.NoError(t, s.LRem(ctx, "list", 0, "b"))
	vals, err = s.LRange(ctx, "list", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, vals)

	_, err = s.RPop(ctx, "empty")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	vals, err = s.LRange(ctx, "empty", 0, -1)
	require.NoError(t, err)
	assert.Empty(t, vals)
}

func TestMemoryStoreLRangeOffsets(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for i := 5; i >= 1; i-- {
		require.NoError(t, s.LPush(ctx, "list", strconv.Itoa(i)))
	}

	vals, err := s.LRange(ctx, "list", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3", "4"}, vals)

	vals, err = s.LRange(ctx, "list", -2, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "5"}, vals)

	vals, err = s.LRange(ctx, "list", 4, 1)
	require.NoError(t, err)
	assert.Empty(t, vals)
}

func TestMemoryStoreExpireMissingKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	err := s.Expire(ctx, "missing", time.Minute)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestFactory(t *testing.T) {
	s, err := NewStore(StoreTypeMemory)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = NewStore(StoreTypeRedis)
	assert.True(t, errors.Is(err, storage.ErrInvalidConfig))

	_, err = NewStore("bogus")
	assert.True(t, errors.Is(err, storage.ErrInvalidStoreType))
}
