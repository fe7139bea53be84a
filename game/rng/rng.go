// Package rng provides the battle's only source of randomness: generators
// seeded from a single base seed, with independent sub-streams derived per
// draw so that unrelated rolls never perturb each other.
package rng

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
)

// New returns a generator for the given seed. Seed 0 is coerced to 1 so a
// zero-value configuration still produces a usable stream.
func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	return rand.New(rand.NewSource(seed))
}

// Derive returns a generator whose seed is a pure function of
// (base, round, actorID, purpose). Each independent draw in a battle takes
// its own derived stream instead of advancing a shared one, so the order in
// which draws happen never changes unrelated outcomes.
func Derive(base int64, round int, actorID, purpose string) *rand.Rand {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(base))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(round))
	h.Write(buf[:])
	h.Write([]byte(actorID))
	h.Write([]byte{0})
	h.Write([]byte(purpose))
	return New(int64(h.Sum64()))
}
