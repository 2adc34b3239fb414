// Package randutil builds reproducible random sources for shuffling.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a generator whose sequence is fully determined by seed.
// PCG needs two 64-bit words; both are derived from seed with splitmix64.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(u), splitmix(u+goldenRatio64)))
}

// Seed returns a fresh seed for callers that were not given one. Log it so
// the run can be replayed with New.
func Seed() int64 {
	return time.Now().UnixNano()
}

func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
