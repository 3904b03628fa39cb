// Package entropy provides the randomness sources behind competitions and
// casting: a seeded deterministic source for replayable seasons, a crypto
// source, and an optional random.org-backed pool for live seasons.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mrand "math/rand"
)

// Source yields uniform floats in [0, 1).
type Source interface {
	Float() float64
}

// Range returns a uniform float in [lo, hi).
func Range(src Source, lo, hi float64) float64 {
	return lo + src.Float()*(hi-lo)
}

// IntN returns a uniform int in [0, n). n must be positive.
func IntN(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	v := int(math.Floor(src.Float() * float64(n)))
	if v >= n {
		v = n - 1
	}
	return v
}

// SeededSource is a deterministic source. Same seed, same season.
type SeededSource struct {
	rng *mrand.Rand
}

// NewSeeded creates a deterministic source from a seed.
func NewSeeded(seed int64) *SeededSource {
	return &SeededSource{rng: mrand.New(mrand.NewSource(seed))}
}

// Float returns the next deterministic draw.
func (s *SeededSource) Float() float64 {
	return s.rng.Float64()
}

// CryptoSource draws from crypto/rand.
type CryptoSource struct{}

// Float returns a uniform float in [0, 1) from the OS entropy pool.
func (CryptoSource) Float() float64 {
	return cryptoFloat()
}

func cryptoFloat() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Should never happen; 0.5 is a safe neutral draw.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}
