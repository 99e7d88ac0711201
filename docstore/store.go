package docstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	storage "github.com/quang159258/restaurant-storage"
	"github.com/quang159258/restaurant-storage/kv"
)

// FieldsFunc extracts the declared index-field values from a
// serialized record.
type FieldsFunc func(payload []byte) (map[string]string, error)

// Store persists serialized records for one entity type. Callers
// normally use the typed Repository facade instead of this directly.
//
// Failure semantics: every write path propagates store errors to the
// caller, while All and Page tolerate individually unresolvable ids by
// omission, trading strictness for availability of list views.
type Store struct {
	kv     kv.Store
	spec   Spec
	fields FieldsFunc
	log    *zap.SugaredLogger
	strict bool
}

// New creates a document store for the given spec. fields must be able
// to extract every field named in spec.Unique and spec.Owners from a
// serialized record.
func New(store kv.Store, spec Spec, fields FieldsFunc, opts ...Option) *Store {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if config.logger == nil {
		config.logger = zap.NewNop().Sugar()
	}
	return &Store{
		kv:     store,
		spec:   spec,
		fields: fields,
		log:    config.logger,
		strict: config.strictUnique,
	}
}

// Type returns the entity type name.
func (s *Store) Type() string { return s.spec.Type }

// GenerateID atomically increments the type's counter and returns the
// fresh id. Ids are strictly increasing across concurrent callers and
// never reused.
func (s *Store) GenerateID(ctx context.Context) (string, error) {
	n, err := s.kv.Incr(ctx, counterKey(s.spec.Type))
	if err != nil {
		return "", fmt.Errorf("generate %s id: %w", s.spec.Type, err)
	}
	return strconv.FormatInt(n, 10), nil
}

// Save writes the record payload under the given id, maintains every
// declared index entry, and adds the id to the type's membership set.
// The caller assigns the id (via GenerateID) and serializes it into
// the payload before calling.
//
// The sequence record-write, index-writes, set-add is not atomic; a
// concurrent writer on the same id can observe or produce transiently
// stale index entries.
func (s *Store) Save(ctx context.Context, id string, payload []byte) error {
	if id == "" {
		return fmt.Errorf("save %s: %w: empty id", s.spec.Type, storage.ErrInvalidConfig)
	}
	fields, err := s.fields(payload)
	if err != nil {
		return fmt.Errorf("save %s %q: extract index fields: %w", s.spec.Type, id, err)
	}

	old, err := s.previousFields(ctx, id)
	if err != nil {
		return err
	}

	// Unique indexes first, so strict mode rejects a conflicting save
	// before the record itself is written.
	for _, field := range s.spec.Unique {
		if err := s.saveUniqueIndex(ctx, id, field, old[field], fields[field]); err != nil {
			return err
		}
	}

	if err := s.kv.Set(ctx, recordKey(s.spec.Type, id), string(payload), 0); err != nil {
		return fmt.Errorf("save %s %q: %w", s.spec.Type, id, err)
	}

	for _, ref := range s.spec.Owners {
		if err := s.saveOwnerIndex(ctx, id, ref, old[ref.Field], fields[ref.Field]); err != nil {
			return err
		}
	}

	if err := s.kv.SAdd(ctx, idSetKey(s.spec.Type), id); err != nil {
		return fmt.Errorf("save %s %q: register id: %w", s.spec.Type, id, err)
	}
	return nil
}

// previousFields loads the index-field values of the stored version of
// id, or nil for a first save, so stale entries can be removed when an
// indexed field changes.
func (s *Store) previousFields(ctx context.Context, id string) (map[string]string, error) {
	val, err := s.kv.Get(ctx, recordKey(s.spec.Type, id))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("save %s %q: read previous: %w", s.spec.Type, id, err)
	}
	fields, err := s.fields([]byte(val))
	if err != nil {
		return nil, fmt.Errorf("save %s %q: previous index fields: %w", s.spec.Type, id, err)
	}
	return fields, nil
}

func (s *Store) saveUniqueIndex(ctx context.Context, id, field, oldVal, newVal string) error {
	typ := s.spec.Type
	if oldVal != "" && oldVal != newVal {
		if err := s.kv.Del(ctx, uniqueKey(typ, field, oldVal)); err != nil {
			return fmt.Errorf("save %s %q: drop stale %s index: %w", typ, id, field, err)
		}
	}
	if newVal == "" || oldVal == newVal {
		return nil
	}
	key := uniqueKey(typ, field, newVal)

	if s.strict {
		ok, err := s.kv.SetNX(ctx, key, id, 0)
		if err != nil {
			return fmt.Errorf("save %s %q: claim %s index: %w", typ, id, field, err)
		}
		if ok {
			return nil
		}
		existing, err := s.kv.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("save %s %q: verify %s index: %w", typ, id, field, err)
		}
		if existing != id {
			return fmt.Errorf("save %s %q: %s=%q held by %q: %w",
				typ, id, field, newVal, existing, storage.ErrConflict)
		}
		return nil
	}

	// Check-then-set, matching the store's lack of a guard: a losing
	// concurrent writer is overwritten silently, last write wins.
	existing, err := s.kv.Get(ctx, key)
	if err != nil && !errors.Is(err, storage.ErrKeyNotFound) {
		return fmt.Errorf("save %s %q: check %s index: %w", typ, id, field, err)
	}
	if err == nil && existing != id {
		s.log.Warnw("unique index overwritten",
			"type", typ, "field", field, "value", newVal, "previous", existing, "id", id)
	}
	if err := s.kv.Set(ctx, key, id, 0); err != nil {
		return fmt.Errorf("save %s %q: write %s index: %w", typ, id, field, err)
	}
	return nil
}

func (s *Store) saveOwnerIndex(ctx context.Context, id string, ref OwnerRef, oldVal, newVal string) error {
	if oldVal != "" && oldVal != newVal {
		if err := s.kv.SRem(ctx, ownerKey(ref.OwnerType, oldVal, ref.Collection), id); err != nil {
			return fmt.Errorf("save %s %q: leave %s set: %w", s.spec.Type, id, ref.Collection, err)
		}
	}
	if newVal == "" {
		return nil
	}
	if err := s.kv.SAdd(ctx, ownerKey(ref.OwnerType, newVal, ref.Collection), id); err != nil {
		return fmt.Errorf("save %s %q: join %s set: %w", s.spec.Type, id, ref.Collection, err)
	}
	return nil
}

// Get returns the serialized record at id.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	val, err := s.kv.Get(ctx, recordKey(s.spec.Type, id))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s %q: %w", s.spec.Type, id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s %q: %w", s.spec.Type, id, err)
	}
	return []byte(val), nil
}

// Exists reports whether a record exists at id.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	return s.kv.Exists(ctx, recordKey(s.spec.Type, id))
}

// All returns every live record of the type, in no guaranteed order.
// Ids whose record cannot be resolved are dropped, covering the window
// where a concurrent delete has removed the record but not yet the
// membership entry.
func (s *Store) All(ctx context.Context) ([][]byte, error) {
	ids, err := s.kv.SMembers(ctx, idSetKey(s.spec.Type))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.spec.Type, err)
	}
	return s.resolve(ctx, ids), nil
}

// Page materializes the whole id set, orders it numerically and slices
// the requested page, returning the page records and the total count.
// O(n) per call; there is nothing to push the slicing down to.
func (s *Store) Page(ctx context.Context, page, size int) ([][]byte, int, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	ids, err := s.kv.SMembers(ctx, idSetKey(s.spec.Type))
	if err != nil {
		return nil, 0, fmt.Errorf("page %s: %w", s.spec.Type, err)
	}
	sortIDs(ids)
	total := len(ids)

	start := (page - 1) * size
	if start >= total {
		return [][]byte{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return s.resolve(ctx, ids[start:end]), total, nil
}

const defaultPageSize = 10

// Delete removes the record, every index entry that references it and
// its membership entry. The steps are not atomic; All tolerates the
// in-between states.
func (s *Store) Delete(ctx context.Context, id string) error {
	payload, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	fields, err := s.fields(payload)
	if err != nil {
		return fmt.Errorf("delete %s %q: index fields: %w", s.spec.Type, id, err)
	}

	for _, field := range s.spec.Unique {
		val := fields[field]
		if val == "" {
			continue
		}
		key := uniqueKey(s.spec.Type, field, val)
		// Only drop the entry if it still points at this id; a
		// concurrent writer may have re-claimed the value.
		existing, err := s.kv.Get(ctx, key)
		if errors.Is(err, storage.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("delete %s %q: check %s index: %w", s.spec.Type, id, field, err)
		}
		if existing != id {
			continue
		}
		if err := s.kv.Del(ctx, key); err != nil {
			return fmt.Errorf("delete %s %q: drop %s index: %w", s.spec.Type, id, field, err)
		}
	}

	for _, ref := range s.spec.Owners {
		val := fields[ref.Field]
		if val == "" {
			continue
		}
		if err := s.kv.SRem(ctx, ownerKey(ref.OwnerType, val, ref.Collection), id); err != nil {
			return fmt.Errorf("delete %s %q: leave %s set: %w", s.spec.Type, id, ref.Collection, err)
		}
	}

	if err := s.kv.SRem(ctx, idSetKey(s.spec.Type), id); err != nil {
		return fmt.Errorf("delete %s %q: deregister id: %w", s.spec.Type, id, err)
	}
	if err := s.kv.Del(ctx, recordKey(s.spec.Type, id)); err != nil {
		return fmt.Errorf("delete %s %q: %w", s.spec.Type, id, err)
	}
	return nil
}

// IDByUnique resolves a unique index entry to an id.
func (s *Store) IDByUnique(ctx context.Context, field, value string) (string, error) {
	id, err := s.kv.Get(ctx, uniqueKey(s.spec.Type, field, value))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", fmt.Errorf("%s by %s=%q: %w", s.spec.Type, field, value, storage.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("find %s by %s: %w", s.spec.Type, field, err)
	}
	return id, nil
}

// IDsByOwner returns the child ids recorded under a parent's
// collection set.
func (s *Store) IDsByOwner(ctx context.Context, ownerType, ownerID, collection string) ([]string, error) {
	ids, err := s.kv.SMembers(ctx, ownerKey(ownerType, ownerID, collection))
	if err != nil {
		return nil, fmt.Errorf("list %s of %s %q: %w", collection, ownerType, ownerID, err)
	}
	return ids, nil
}

// resolve maps ids to their records, dropping any id that cannot be
// resolved.
func (s *Store) resolve(ctx context.Context, ids []string) [][]byte {
	records := make([][]byte, 0, len(ids))
	for _, id := range ids {
		val, err := s.kv.Get(ctx, recordKey(s.spec.Type, id))
		if err != nil {
			s.log.Debugw("skipping unresolvable id", "type", s.spec.Type, "id", id, "error", err)
			continue
		}
		records = append(records, []byte(val))
	}
	return records
}

// sortIDs orders ids numerically where possible so pages are stable
// against an unchanged set; the membership set itself has no order.
func sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.ParseInt(ids[i], 10, 64)
		b, errB := strconv.ParseInt(ids[j], 10, 64)
		if errA != nil || errB != nil {
			return ids[i] < ids[j]
		}
		return a < b
	})
}
