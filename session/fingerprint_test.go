package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quang159258/restaurant-storage/session"
)

func TestFingerprintDeterministic(t *testing.T) {
	a := session.Fingerprint("Chrome/1", "1.2.3.4")
	b := session.Fingerprint("Chrome/1", "1.2.3.4")
	assert.Equal(t, a, b)
	assert.Len(t, a, 32, "hex-encoded 128-bit digest")
}

func TestFingerprintDistinguishesInputs(t *testing.T) {
	base := session.Fingerprint("Chrome/1", "1.2.3.4")
	assert.NotEqual(t, base, session.Fingerprint("Safari/2", "1.2.3.4"))
	assert.NotEqual(t, base, session.Fingerprint("Chrome/1", "4.3.2.1"))
}

func TestFingerprintBoundary(t *testing.T) {
	// The separator keeps shifted concatenations apart.
	assert.NotEqual(t,
		session.Fingerprint("ab", "c"),
		session.Fingerprint("a", "bc"))
}
