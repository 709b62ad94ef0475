// Package id generates request IDs, session IDs and opaque random tokens.
package id

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"time"
)

// Crockford's Base32 alphabet (excludes I, L, O, U).
const crockfordBase32 = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewULID returns a 26-character ULID: 48-bit millisecond timestamp followed
// by 80 random bits, both Crockford Base32 encoded. ULIDs sort by creation time.
func NewULID() string {
	return ulidAt(time.Now())
}

func ulidAt(t time.Time) string {
	var entropy [10]byte
	if _, err := rand.Read(entropy[:]); err != nil {
		binary.BigEndian.PutUint64(entropy[:8], uint64(time.Now().UnixNano()))
	}

	var out [26]byte

	ms := uint64(t.UnixMilli())
	for i := 9; i >= 0; i-- {
		out[i] = crockfordBase32[ms&0x1F]
		ms >>= 5
	}

	// 80 random bits are exactly 16 five-bit groups.
	hi := uint64(entropy[0])<<32 | uint64(binary.BigEndian.Uint32(entropy[1:5]))
	lo := uint64(binary.BigEndian.Uint32(entropy[5:9]))<<8 | uint64(entropy[9])
	for i := 25; i >= 18; i-- {
		out[i] = crockfordBase32[lo&0x1F]
		lo >>= 5
	}
	for i := 17; i >= 10; i-- {
		out[i] = crockfordBase32[hi&0x1F]
		hi >>= 5
	}

	return string(out[:])
}

// NewToken returns n random bytes encoded as unpadded URL-safe base64.
// Used for session tokens, authorization codes and OAuth state.
func NewToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
