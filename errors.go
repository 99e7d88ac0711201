package storage

import "errors"

// Common errors shared by the key-value, document store, cache and
// session layers.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidStoreType = errors.New("invalid store type")

	// ErrKeyNotFound is returned by the key-value layer when a key does
	// not exist (the redis.Nil equivalent).
	ErrKeyNotFound = errors.New("key not found")

	// ErrNotFound is returned by the document store when no record or
	// index entry exists for the requested id or value.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned on a unique-index violation when strict
	// uniqueness is enabled. Without it, concurrent writers to the same
	// unique value race and the last write wins.
	ErrConflict = errors.New("unique index conflict")

	// ErrStoreUnavailable wraps every transport or timeout failure from
	// the key-value store.
	ErrStoreUnavailable = errors.New("key-value store unavailable")

	// ErrInvalidSession is returned for missing, expired or evicted
	// sessions, and for any store failure on the validation path.
	ErrInvalidSession = errors.New("invalid session")

	// ErrNotOwner is returned when a caller tries to delete a session
	// that belongs to a different user.
	ErrNotOwner = errors.New("session not owned by user")
)
