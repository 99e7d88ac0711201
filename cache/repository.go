package cache

import (
	"context"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/quang159258/restaurant-storage/docstore"
	"github.com/quang159258/restaurant-storage/kv"
)

// Repository decorates a docstore repository with read-through caching
// of by-id and by-page lookups. Every write invalidates the whole
// namespace for the type, so cached page lists never outlive a write.
// Delegated operations (FindAll, index lookups) stay uncached.
type Repository[T docstore.Record] struct {
	*docstore.Repository[T]
	cache *Cache
	newFn func() T
}

// NewRepository wraps repo with a cache on the given store. The cache
// namespace is derived from the entity type.
func NewRepository[T docstore.Record](repo *docstore.Repository[T], store kv.Store, ttl time.Duration, newFn func() T, opts ...Option) *Repository[T] {
	return &Repository[T]{
		Repository: repo,
		cache:      New(store, "cache:"+repo.Type(), ttl, opts...),
		newFn:      newFn,
	}
}

// Cache exposes the underlying cache, mainly for targeted
// invalidation by callers that mutate records out of band.
func (r *Repository[T]) Cache() *Cache { return r.cache }

func (r *Repository[T]) idKey(id string) string {
	return r.cache.Namespace() + ":id:" + id
}

func (r *Repository[T]) pageKey(page, size int) string {
	return r.cache.Namespace() + ":page:" + strconv.Itoa(page) + ":" + strconv.Itoa(size)
}

// FindByID serves from cache when possible, falling through to the
// document store on a miss.
func (r *Repository[T]) FindByID(ctx context.Context, id string) (T, error) {
	if payload, ok := r.cache.Get(ctx, r.idKey(id)); ok {
		rec := r.newFn()
		if err := json.Unmarshal(payload, rec); err == nil {
			return rec, nil
		}
		// Undecodable entry: drop it and fall through.
		r.cache.Invalidate(ctx, r.idKey(id))
	}

	rec, err := r.Repository.FindByID(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	if payload, err := json.Marshal(rec); err == nil {
		r.cache.Put(ctx, r.idKey(id), payload, 0)
	}
	return rec, nil
}

// pageEntry is the cached shape of one page lookup.
type pageEntry[T any] struct {
	Records []T `json:"records"`
	Total   int `json:"total"`
}

// Page serves a cached page when possible.
func (r *Repository[T]) Page(ctx context.Context, page, size int) ([]T, int, error) {
	key := r.pageKey(page, size)
	if payload, ok := r.cache.Get(ctx, key); ok {
		var entry pageEntry[T]
		if err := json.Unmarshal(payload, &entry); err == nil {
			return entry.Records, entry.Total, nil
		}
		r.cache.Invalidate(ctx, key)
	}

	records, total, err := r.Repository.Page(ctx, page, size)
	if err != nil {
		return nil, 0, err
	}
	if payload, err := json.Marshal(pageEntry[T]{Records: records, Total: total}); err == nil {
		r.cache.Put(ctx, key, payload, 0)
	}
	return records, total, nil
}

// Save writes through to the document store and invalidates the
// type's namespace.
func (r *Repository[T]) Save(ctx context.Context, rec T) (T, error) {
	saved, err := r.Repository.Save(ctx, rec)
	if err != nil {
		var zero T
		return zero, err
	}
	r.cache.InvalidateByPrefix(ctx, r.cache.Namespace())
	return saved, nil
}

// DeleteByID deletes through to the document store and invalidates
// the type's namespace.
func (r *Repository[T]) DeleteByID(ctx context.Context, id string) error {
	if err := r.Repository.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.cache.InvalidateByPrefix(ctx, r.cache.Namespace())
	return nil
}
