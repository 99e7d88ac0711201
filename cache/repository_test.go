package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storage "github.com/quang159258/restaurant-storage"
	"github.com/quang159258/restaurant-storage/cache"
	"github.com/quang159258/restaurant-storage/docstore"
	"github.com/quang159258/restaurant-storage/kv"
)

type note struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Body string `json:"body"`
}

func (n *note) RecordID() string               { return n.ID }
func (n *note) SetRecordID(id string)          { n.ID = id }
func (n *note) IndexValues() map[string]string { return map[string]string{"slug": n.Slug} }

func newCachedNotes(store kv.Store) (*cache.Repository[*note], *docstore.Repository[*note]) {
	spec := docstore.Spec{Type: "note", Unique: []string{"slug"}}
	newFn := func() *note { return new(note) }
	repo := docstore.NewRepository(store, spec, newFn)
	return cache.NewRepository(repo, store, time.Hour, newFn), repo
}

func TestCachedFindByID(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	cached, repo := newCachedNotes(store)

	saved, err := repo.Save(ctx, &note{Slug: "a", Body: "v1"})
	require.NoError(t, err)

	got, err := cached.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Body)

	// Mutate behind the cache's back: the cached copy keeps serving.
	saved.Body = "v2"
	_, err = repo.Save(ctx, saved)
	require.NoError(t, err)

	got, err = cached.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Body, "read-through cache serves the cached copy")
}

func TestCachedSaveInvalidates(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	cached, _ := newCachedNotes(store)

	saved, err := cached.Save(ctx, &note{Slug: "a", Body: "v1"})
	require.NoError(t, err)

	got, err := cached.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Body)

	saved.Body = "v2"
	_, err = cached.Save(ctx, saved)
	require.NoError(t, err)

	got, err = cached.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Body, "a write through the decorator invalidates the namespace")
}

func TestCachedPage(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	cached, repo := newCachedNotes(store)

	for _, slug := range []string{"a", "b", "c"} {
		_, err := repo.Save(ctx, &note{Slug: slug})
		require.NoError(t, err)
	}

	page, total, err := cached.Page(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 2)

	// Second read is served from cache; same result.
	page, total, err = cached.Page(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 2)

	// A delete through the decorator drops the cached page.
	require.NoError(t, cached.DeleteByID(ctx, page[0].ID))
	_, total, err = cached.Page(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestCachedDeleteMissing(t *testing.T) {
	ctx := context.Background()
	cached, _ := newCachedNotes(kv.NewMemoryStore())

	err := cached.DeleteByID(ctx, "404")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
