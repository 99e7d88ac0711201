// Package session implements session lifecycle and device trust on the
// key-value store: session records with a sliding TTL, a capped
// most-recent-first list of session ids per user, and a per-user block
// set of device fingerprints.
//
// The package carries two opposite failure policies on purpose.
// Validation is fail-closed: if the store cannot answer, the session
// is invalid and access is denied. The device block check before login
// is fail-open: if the store cannot answer, the login is allowed. Auth
// correctness favors denial, login convenience favors availability.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	storage "github.com/quang159258/restaurant-storage"
	"github.com/quang159258/restaurant-storage/kv"
)

const (
	// Key prefix for session records.
	sessionKeyPrefix = "session:"
	// Default TTL for session records (24 hours).
	defaultTTL = 24 * time.Hour
	// Default cap on concurrent sessions per user.
	defaultMaxSessionsPerUser = 3
	// Default inactivity threshold for session listings.
	defaultInactivityThreshold = 30 * time.Minute
)

// Manager owns session records, the per-user bounded session lists and
// the per-user device block sets.
type Manager struct {
	store      kv.Store
	maxPerUser int
	ttl        time.Duration
	inactivity time.Duration
	log        *zap.SugaredLogger
	now        func() time.Time
}

// NewManager creates a session manager on the given key-value store.
func NewManager(store kv.Store, opts ...ManagerOption) *Manager {
	config := &managerConfig{}
	for _, opt := range opts {
		opt(config)
	}
	if config.maxSessionsPerUser <= 0 {
		config.maxSessionsPerUser = defaultMaxSessionsPerUser
	}
	if config.ttl <= 0 {
		config.ttl = defaultTTL
	}
	if config.inactivityThreshold <= 0 {
		config.inactivityThreshold = defaultInactivityThreshold
	}
	if config.logger == nil {
		config.logger = zap.NewNop().Sugar()
	}
	if config.now == nil {
		config.now = time.Now
	}
	return &Manager{
		store:      store,
		maxPerUser: config.maxSessionsPerUser,
		ttl:        config.ttl,
		inactivity: config.inactivityThreshold,
		log:        config.logger,
		now:        config.now,
	}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

func userSessionsKey(uid string) string { return "user:" + uid + ":sessions" }

func blockedDevicesKey(uid string) string { return "user:" + uid + ":blocked-devices" }

// Create opens a new session for the user, pushes its id to the head
// of the user's bounded list and, if the list now exceeds the cap,
// evicts from the tail. An evicted session's record is deleted, so it
// is immediately invalid.
//
// Callers on the login path should consult IsDeviceBlocked first;
// Create itself does not check the block set.
func (m *Manager) Create(ctx context.Context, userID, userAgent, clientIP string) (string, error) {
	now := m.now()
	rec := Record{
		ID:           uuid.NewString(),
		UserID:       userID,
		CreatedAt:    now,
		LastAccessAt: now,
		UserAgent:    userAgent,
		ClientIP:     clientIP,
	}
	if err := m.write(ctx, &rec); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	if err := m.store.LPush(ctx, userSessionsKey(userID), rec.ID); err != nil {
		return "", fmt.Errorf("create session: register: %w", err)
	}
	m.trim(ctx, userID)
	return rec.ID, nil
}

// trim evicts tail sessions until the user's list is back under the
// cap. Push-then-trim is two calls, so a concurrent login burst can
// exceed the cap by one until the next trim; eviction failures are
// logged and retried by the next Create.
func (m *Manager) trim(ctx context.Context, userID string) {
	key := userSessionsKey(userID)
	for {
		n, err := m.store.LLen(ctx, key)
		if err != nil || n <= int64(m.maxPerUser) {
			return
		}
		tail, err := m.store.RPop(ctx, key)
		if err != nil {
			m.log.Warnw("session eviction failed", "user_id", userID, "error", err)
			return
		}
		if err := m.store.Del(ctx, sessionKey(tail)); err != nil {
			m.log.Warnw("evicted session record not deleted",
				"user_id", userID, "session_id", tail, "error", err)
		}
	}
}

// Validate checks a session id and returns the owning user id,
// sliding LastAccessAt and the record TTL on success.
//
// Fail-closed: a missing record, an unreadable record and an
// unreachable store all yield ErrInvalidSession. The store being down
// must deny access here, never pass it through.
func (m *Manager) Validate(ctx context.Context, sessionID string) (string, error) {
	rec, err := m.load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			m.log.Warnw("session validation degraded to deny", "session_id", sessionID, "error", err)
		}
		return "", fmt.Errorf("validate %q: %w", sessionID, storage.ErrInvalidSession)
	}
	rec.LastAccessAt = m.now()
	if err := m.write(ctx, rec); err != nil {
		m.log.Warnw("session refresh failed, denying", "session_id", sessionID, "error", err)
		return "", fmt.Errorf("validate %q: %w", sessionID, storage.ErrInvalidSession)
	}
	return rec.UserID, nil
}

// Refresh slides the session's LastAccessAt and TTL. Same fail-closed
// semantics as Validate.
func (m *Manager) Refresh(ctx context.Context, sessionID string) error {
	_, err := m.Validate(ctx, sessionID)
	return err
}

// List enumerates the user's bounded session list most-recent-first,
// classifying each entry active or inactive against the inactivity
// threshold and marking the one matching currentSessionID. Ids whose
// record is gone (cap-evicted or expired) are dropped and pruned from
// the list.
func (m *Manager) List(ctx context.Context, userID, currentSessionID string) ([]Info, error) {
	key := userSessionsKey(userID)
	ids, err := m.store.LRange(ctx, key, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("list sessions of %q: %w", userID, err)
	}

	now := m.now()
	infos := make([]Info, 0, len(ids))
	for _, id := range ids {
		rec, err := m.load(ctx, id)
		if errors.Is(err, storage.ErrKeyNotFound) {
			// Stale list entry; self-heal.
			if err := m.store.LRem(ctx, key, 0, id); err != nil {
				m.log.Debugw("stale session id not pruned", "session_id", id, "error", err)
			}
			continue
		}
		if err != nil {
			m.log.Debugw("session skipped in listing", "session_id", id, "error", err)
			continue
		}
		infos = append(infos, Info{
			Record:      *rec,
			Fingerprint: Fingerprint(rec.UserAgent, rec.ClientIP),
			Active:      now.Sub(rec.LastAccessAt) <= m.inactivity,
			Current:     id == currentSessionID,
		})
	}
	return infos, nil
}

// Delete removes one of the user's own sessions. Returns false if the
// session does not exist, and ErrNotOwner if it belongs to someone
// else.
func (m *Manager) Delete(ctx context.Context, userID, sessionID string) (bool, error) {
	rec, err := m.load(ctx, sessionID)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete session %q: %w", sessionID, err)
	}
	if rec.UserID != userID {
		return false, fmt.Errorf("delete session %q: %w", sessionID, storage.ErrNotOwner)
	}
	return true, m.remove(ctx, rec)
}

// DeleteAllForUser destroys every session of the user, bounded list
// included.
func (m *Manager) DeleteAllForUser(ctx context.Context, userID string) error {
	key := userSessionsKey(userID)
	ids, err := m.store.LRange(ctx, key, 0, -1)
	if err != nil {
		return fmt.Errorf("delete sessions of %q: %w", userID, err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, key)
	if err := m.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("delete sessions of %q: %w", userID, err)
	}
	return nil
}

// AdminForceDelete destroys a session regardless of ownership, for
// privileged operators. Returns ErrNotFound if no such session exists.
func (m *Manager) AdminForceDelete(ctx context.Context, sessionID string) error {
	rec, err := m.load(ctx, sessionID)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return fmt.Errorf("force delete %q: %w", sessionID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("force delete %q: %w", sessionID, err)
	}
	return m.remove(ctx, rec)
}

// BlockDevice adds the device's fingerprint to the user's block set
// and cascades: every open session of the user whose stored client
// signals hash to the same fingerprint is destroyed. Sessions from the
// user's other devices are untouched.
func (m *Manager) BlockDevice(ctx context.Context, userID, userAgent, clientIP string) error {
	fp := Fingerprint(userAgent, clientIP)
	if err := m.store.SAdd(ctx, blockedDevicesKey(userID), fp); err != nil {
		return fmt.Errorf("block device for %q: %w", userID, err)
	}

	ids, err := m.store.LRange(ctx, userSessionsKey(userID), 0, -1)
	if err != nil {
		return fmt.Errorf("block device for %q: scan sessions: %w", userID, err)
	}
	for _, id := range ids {
		rec, err := m.load(ctx, id)
		if err != nil {
			continue
		}
		if Fingerprint(rec.UserAgent, rec.ClientIP) != fp {
			continue
		}
		if err := m.remove(ctx, rec); err != nil {
			return fmt.Errorf("block device for %q: cascade: %w", userID, err)
		}
	}
	return nil
}

// UnblockDevice removes the device's fingerprint from the user's
// block set.
func (m *Manager) UnblockDevice(ctx context.Context, userID, userAgent, clientIP string) error {
	fp := Fingerprint(userAgent, clientIP)
	if err := m.store.SRem(ctx, blockedDevicesKey(userID), fp); err != nil {
		return fmt.Errorf("unblock device for %q: %w", userID, err)
	}
	return nil
}

// UnblockAllDevices clears the user's block set.
func (m *Manager) UnblockAllDevices(ctx context.Context, userID string) error {
	if err := m.store.Del(ctx, blockedDevicesKey(userID)); err != nil {
		return fmt.Errorf("unblock devices for %q: %w", userID, err)
	}
	return nil
}

// IsDeviceBlocked reports whether the device's fingerprint is in the
// user's block set.
//
// Fail-open: if the store cannot answer, the device is reported not
// blocked and the login proceeds.
func (m *Manager) IsDeviceBlocked(ctx context.Context, userID, userAgent, clientIP string) bool {
	blocked, err := m.store.SIsMember(ctx, blockedDevicesKey(userID), Fingerprint(userAgent, clientIP))
	if err != nil {
		m.log.Warnw("device block check degraded to allow", "user_id", userID, "error", err)
		return false
	}
	return blocked
}

// ListBlockedDevices returns the user's blocked fingerprints.
func (m *Manager) ListBlockedDevices(ctx context.Context, userID string) ([]string, error) {
	fps, err := m.store.SMembers(ctx, blockedDevicesKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list blocked devices of %q: %w", userID, err)
	}
	return fps, nil
}

// load reads and deserializes a session record. Missing keys surface
// as ErrKeyNotFound for callers to map to their own policy.
func (m *Manager) load(ctx context.Context, sessionID string) (*Record, error) {
	val, err := m.store.Get(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("decode session %q: %w", sessionID, err)
	}
	return &rec, nil
}

// write serializes the record and resets its TTL.
func (m *Manager) write(ctx context.Context, rec *Record) error {
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session %q: %w", rec.ID, err)
	}
	return m.store.Set(ctx, sessionKey(rec.ID), string(val), m.ttl)
}

// remove deletes the record and its bounded-list entry.
func (m *Manager) remove(ctx context.Context, rec *Record) error {
	if err := m.store.Del(ctx, sessionKey(rec.ID)); err != nil {
		return err
	}
	if err := m.store.LRem(ctx, userSessionsKey(rec.UserID), 0, rec.ID); err != nil {
		m.log.Debugw("session list entry not pruned", "session_id", rec.ID, "error", err)
	}
	return nil
}
