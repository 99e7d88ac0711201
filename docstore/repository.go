package docstore

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/quang159258/restaurant-storage/kv"
)

// Repository is the typed facade over Store. One instance per entity
// type; T is the pointer type of the entity record.
type Repository[T Record] struct {
	store *Store
	newFn func() T
}

// NewRepository creates a typed repository. newFn allocates an empty
// record for deserialization; index-field extraction goes through the
// record's own IndexValues, so it is declared once on the type.
func NewRepository[T Record](store kv.Store, spec Spec, newFn func() T, opts ...Option) *Repository[T] {
	fields := func(payload []byte) (map[string]string, error) {
		rec := newFn()
		if err := json.Unmarshal(payload, rec); err != nil {
			return nil, err
		}
		return rec.IndexValues(), nil
	}
	return &Repository[T]{
		store: New(store, spec, fields, opts...),
		newFn: newFn,
	}
}

// Type returns the entity type name.
func (r *Repository[T]) Type() string { return r.store.Type() }

// Store exposes the untyped engine, mainly for decorators.
func (r *Repository[T]) Store() *Store { return r.store }

// GenerateID returns a fresh id for the type.
func (r *Repository[T]) GenerateID(ctx context.Context) (string, error) {
	return r.store.GenerateID(ctx)
}

// Save persists the record, assigning an id on first save, and returns
// it with the id populated.
func (r *Repository[T]) Save(ctx context.Context, rec T) (T, error) {
	var zero T
	if rec.RecordID() == "" {
		id, err := r.store.GenerateID(ctx)
		if err != nil {
			return zero, err
		}
		rec.SetRecordID(id)
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return zero, fmt.Errorf("save %s: marshal: %w", r.Type(), err)
	}
	if err := r.store.Save(ctx, rec.RecordID(), payload); err != nil {
		return zero, err
	}
	return rec, nil
}

// FindByID loads the record at id.
func (r *Repository[T]) FindByID(ctx context.Context, id string) (T, error) {
	var zero T
	payload, err := r.store.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	return r.decode(payload)
}

// FindAll returns every record of the type, in no guaranteed order.
func (r *Repository[T]) FindAll(ctx context.Context) ([]T, error) {
	payloads, err := r.store.All(ctx)
	if err != nil {
		return nil, err
	}
	return r.decodeAll(payloads), nil
}

// Page returns one page of records plus the total record count.
func (r *Repository[T]) Page(ctx context.Context, page, size int) ([]T, int, error) {
	payloads, total, err := r.store.Page(ctx, page, size)
	if err != nil {
		return nil, 0, err
	}
	return r.decodeAll(payloads), total, nil
}

// FindByUnique resolves a record through one of its unique indexes.
func (r *Repository[T]) FindByUnique(ctx context.Context, field, value string) (T, error) {
	var zero T
	id, err := r.store.IDByUnique(ctx, field, value)
	if err != nil {
		return zero, err
	}
	return r.FindByID(ctx, id)
}

// FindByOwner returns the records listed in a parent's collection set,
// dropping ids that no longer resolve.
func (r *Repository[T]) FindByOwner(ctx context.Context, ownerType, ownerID, collection string) ([]T, error) {
	ids, err := r.store.IDsByOwner(ctx, ownerType, ownerID, collection)
	if err != nil {
		return nil, err
	}
	records := make([]T, 0, len(ids))
	for _, id := range ids {
		rec, err := r.FindByID(ctx, id)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// DeleteByID removes the record and every index entry referencing it.
func (r *Repository[T]) DeleteByID(ctx context.Context, id string) error {
	return r.store.Delete(ctx, id)
}

// ExistsByID reports whether a record exists at id.
func (r *Repository[T]) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.store.Exists(ctx, id)
}

func (r *Repository[T]) decode(payload []byte) (T, error) {
	var zero T
	rec := r.newFn()
	if err := json.Unmarshal(payload, rec); err != nil {
		return zero, fmt.Errorf("decode %s: %w", r.Type(), err)
	}
	return rec, nil
}

func (r *Repository[T]) decodeAll(payloads [][]byte) []T {
	records := make([]T, 0, len(payloads))
	for _, payload := range payloads {
		rec, err := r.decode(payload)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}
