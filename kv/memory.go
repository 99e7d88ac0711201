package kv

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	storage "github.com/quang159258/restaurant-storage"
)

// MemoryStore implements Store using in-memory maps. It exists for
// tests and for running without a Redis instance; it honors TTLs
// lazily, expiring keys on access.
type MemoryStore struct {
	mu       sync.RWMutex
	strings  map[string]string
	sets     map[string]map[string]struct{}
	lists    map[string][]string
	expireAt map[string]time.Time

	// now is swappable so TTL behavior is testable without sleeping.
	now func() time.Time
}

// NewMemoryStore creates a new in-memory key-value store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		strings:  make(map[string]string),
		sets:     make(map[string]map[string]struct{}),
		lists:    make(map[string][]string),
		expireAt: make(map[string]time.Time),
		now:      time.Now,
	}
}

// expired reports and reaps a key past its ttl. Callers must hold mu.
func (s *MemoryStore) expired(key string) bool {
	at, ok := s.expireAt[key]
	if !ok || s.now().Before(at) {
		return false
	}
	delete(s.strings, key)
	delete(s.sets, key)
	delete(s.lists, key)
	delete(s.expireAt, key)
	return true
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired(key) {
		return "", fmt.Errorf("get %q: %w", key, storage.ErrKeyNotFound)
	}
	val, ok := s.strings[key]
	if !ok {
		return "", fmt.Errorf("get %q: %w", key, storage.ErrKeyNotFound)
	}
	return val, nil
}

// Set implements Store.
func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.strings[key] = value
	s.setTTL(key, ttl)
	return nil
}

// SetNX implements Store.
func (s *MemoryStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)
	if _, ok := s.strings[key]; ok {
		return false, nil
	}
	s.strings[key] = value
	s.setTTL(key, ttl)
	return true, nil
}

// Incr implements Store.
func (s *MemoryStore) Incr(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)
	var n int64
	if val, ok := s.strings[key]; ok {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("incr %q: value is not an integer", key)
		}
		n = parsed
	}
	n++
	s.strings[key] = strconv.FormatInt(n, 10)
	return n, nil
}

// SAdd implements Store.
func (s *MemoryStore) SAdd(ctx context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)
	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]struct{})
		s.sets[key] = set
	}
	for _, m := range members {
		set[m] = struct{}{}
	}
	return nil
}

// SRem implements Store.
func (s *MemoryStore) SRem(ctx context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)
	set, ok := s.sets[key]
	if !ok {
		return nil
	}
	for _, m := range members {
		delete(set, m)
	}
	if len(set) == 0 {
		delete(s.sets, key)
	}
	return nil
}

// SMembers implements Store.
func (s *MemoryStore) SMembers(ctx context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)
	set := s.sets[key]
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	return members, nil
}

// SIsMember implements Store.
func (s *MemoryStore) SIsMember(ctx context.Context, key, member string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)
	_, ok := s.sets[key][member]
	return ok, nil
}

// SCard implements Store.
func (s *MemoryStore) SCard(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)
	return int64(len(s.sets[key])), nil
}

// LPush implements Store.
func (s *MemoryStore) LPush(ctx context.Context, key string, values ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)
	list := s.lists[key]
	for _, v := range values {
		list = append([]string{v}, list...)
	}
	s.lists[key] = list
	return nil
}

// RPop implements Store.
func (s *MemoryStore) RPop(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)
	list := s.lists[key]
	if len(list) == 0 {
		return "", fmt.Errorf("rpop %q: %w", key, storage.ErrKeyNotFound)
	}
	val := list[len(list)-1]
	list = list[:len(list)-1]
	if len(list) == 0 {
		delete(s.lists, key)
	} else {
		s.lists[key] = list
	}
	return val, nil
}

// LRange implements Store.
func (s *MemoryStore) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)
	list := s.lists[key]
	n := int64(len(list))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || n == 0 {
		return []string{}, nil
	}
	out := make([]string, stop-start+1)
	copy(out, list[start:stop+1])
	return out, nil
}

// LRem implements Store.
func (s *MemoryStore) LRem(ctx context.Context, key string, count int64, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)
	list := s.lists[key]
	if len(list) == 0 {
		return nil
	}
	// count == 0 removes all occurrences; only that mode is needed here.
	removed := int64(0)
	out := list[:0]
	for _, v := range list {
		if v == value && (count == 0 || removed < count) {
			removed++
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		delete(s.lists, key)
	} else {
		s.lists[key] = out
	}
	return nil
}

// LLen implements Store.
func (s *MemoryStore) LLen(ctx context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expired(key)
	return int64(len(s.lists[key])), nil
}

// Exists implements Store.
func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired(key) {
		return false, nil
	}
	if _, ok := s.strings[key]; ok {
		return true, nil
	}
	if _, ok := s.sets[key]; ok {
		return true, nil
	}
	_, ok := s.lists[key]
	return ok, nil
}

// Del implements Store.
func (s *MemoryStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.strings, key)
		delete(s.sets, key)
		delete(s.lists, key)
		delete(s.expireAt, key)
	}
	return nil
}

// Expire implements Store.
func (s *MemoryStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expired(key) {
		return fmt.Errorf("expire %q: %w", key, storage.ErrKeyNotFound)
	}
	s.setTTL(key, ttl)
	return nil
}

// Ping implements Store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.strings = nil
	s.sets = nil
	s.lists = nil
	s.expireAt = nil
	return nil
}

// setTTL records or clears the expiry for key. Callers must hold mu.
func (s *MemoryStore) setTTL(key string, ttl time.Duration) {
	if ttl > 0 {
		s.expireAt[key] = s.now().Add(ttl)
	} else {
		delete(s.expireAt, key)
	}
}
