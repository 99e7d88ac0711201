package session

import "time"

// Record represents all serializable session state.
//
// PERSISTED TO THE KEY-VALUE STORE:
// - ID: unique session identifier
// - UserID: owning user
// - CreatedAt, LastAccessAt: timestamps; LastAccessAt slides on every
//   validated access
// - UserAgent, ClientIP: client signals captured at login, the inputs
//   to the device fingerprint
type Record struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessAt time.Time `json:"last_access_at"`
	UserAgent    string    `json:"user_agent"`
	ClientIP     string    `json:"client_ip"`
}

// Info is one entry of a user's session listing.
type Info struct {
	Record

	// Fingerprint is the device fingerprint recomputed from the stored
	// client signals.
	Fingerprint string `json:"fingerprint"`

	// Active reports whether the session has been used within the
	// inactivity threshold. Independent of cap-based eviction.
	Active bool `json:"active"`

	// Current marks the session the caller is asking from.
	Current bool `json:"current"`
}
