package session

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/xxh3"
)

// Fingerprint derives the device fingerprint from the client's user
// agent and IP. It is a pure function: identical inputs always hash to
// the identical fingerprint, which is what block-listing and the
// block-cascade rely on. A NUL separator keeps ("ab","c") and
// ("a","bc") distinct.
func Fingerprint(userAgent, clientIP string) string {
	h := xxh3.New()
	// Writes to the hasher cannot fail.
	_, _ = h.WriteString(userAgent)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(clientIP)

	sum := h.Sum128()
	b := make([]byte, 16)
	binary.LittleEndian.PutUint64(b[0:8], sum.Lo)
	binary.LittleEndian.PutUint64(b[8:16], sum.Hi)
	return hex.EncodeToString(b)
}
