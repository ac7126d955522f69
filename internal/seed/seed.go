// Package seed turns user-facing seed strings into the single random source a run draws from.
package seed

import (
	"encoding/binary"
	"math/rand"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// Parse maps a seed string to an int64. Decimal strings are used as-is so a
// numeric seed reproduces the same run; any other string is hashed with BLAKE2b.
func Parse(s string) int64 {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	sum := blake2b.Sum256([]byte(s))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// NewRand returns the random source for a seed string
func NewRand(s string) *rand.Rand {
	return rand.New(rand.NewSource(Parse(s)))
}
