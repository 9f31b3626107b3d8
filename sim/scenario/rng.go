package scenario

import (
	"hash/fnv"
	"math/rand"
)

// partitionedRNG hands out one deterministic RNG per event name.
//
// Seeds are derived as seed XOR fnv1a64(name), so adding or removing an
// event leaves the jitter of every other event unchanged.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type partitionedRNG struct {
	seed   int64
	events map[string]*rand.Rand
}

func newPartitionedRNG(seed int64) *partitionedRNG {
	return &partitionedRNG{
		seed:   seed,
		events: make(map[string]*rand.Rand),
	}
}

// forEvent returns the RNG for the named event, creating it on first use.
// Never returns nil.
func (p *partitionedRNG) forEvent(name string) *rand.Rand {
	if rng, ok := p.events[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(p.seed ^ fnv1a64(name)))
	p.events[name] = rng
	return rng
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
