// Package docstore implements a generic document repository on top of
// the key-value primitives: store-generated ids, a membership set per
// entity type for enumeration, unique secondary indexes and
// parent-owned collection sets for foreign-key lookups. The store has
// no queries and no transactions, so all of that is emulated here with
// plain get/set/incr/set-ops calls; multi-step operations are not
// atomic and the resulting consistency windows are part of the
// contract, not bugs to lock away.
package docstore

// Spec declares, per entity type, which record fields carry secondary
// indexes. Index maintenance is driven entirely by this declaration so
// the logic exists once instead of being copied per entity.
type Spec struct {
	// Type is the entity type name, used as the key prefix.
	Type string

	// Unique lists fields with a unique index
	// (<type>:index:<field>:<value> -> id). Uniqueness is check-then-set
	// unless StrictUnique is enabled on the store.
	Unique []string

	// Owners lists fields referencing a parent entity; each maintains a
	// set <ownerType>:<ownerId>:<collection> of child ids.
	Owners []OwnerRef
}

// OwnerRef describes one parent-owned collection set.
type OwnerRef struct {
	// Field is the record field holding the parent id.
	Field string
	// OwnerType is the parent entity type.
	OwnerType string
	// Collection names the child set under the parent.
	Collection string
}

// Record is the minimal contract an entity must satisfy to be stored.
type Record interface {
	// RecordID returns the record's id, empty if not yet persisted.
	RecordID() string
	// SetRecordID assigns the store-generated id.
	SetRecordID(id string)
	// IndexValues returns the current value of every declared index
	// field. Empty values produce no index entry.
	IndexValues() map[string]string
}

func recordKey(typ, id string) string { return typ + ":" + id }

func idSetKey(typ string) string { return typ + ":ids" }

func counterKey(typ string) string { return typ + ":id" }

func uniqueKey(typ, field, v string) string { return typ + ":index:" + field + ":" + v }

func ownerKey(ownerType, ownerID, collection string) string {
	return ownerType + ":" + ownerID + ":" + collection
}
