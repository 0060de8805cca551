package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"hash/fnv"
	"math/rand"
)

// RNG provides deterministic random number generation for a single stream (a
// blueprint generator call, a turn roll, ...). Each stream derives its own seed
// from a master seed so that independent streams never interleave draws, and
// replays are reproducible across runs and across languages that agree on the
// hash functions below.
type RNG struct {
	seed   uint64
	name   string
	source *rand.Rand
}

// HashLocationID derives the 64-bit master seed for a location id using
// FNV-1a over its UTF-8 bytes. This is the determinism contract of spec §6:
// every implementation that shares this hash function shares save compatibility.
func HashLocationID(locationID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(locationID))
	return h.Sum64()
}

// New creates a stream-specific RNG by deriving a sub-seed from the master seed.
// The derivation combines masterSeed, a stream name, and an optional salt (e.g. a
// serialized config or turn counter) via SHA-256, taking the first 8 bytes as the
// uint64 seed. This guarantees:
//  1. identical inputs always produce the same sequence (determinism)
//  2. distinct streams are independent (isolation)
//  3. salt changes shift the sequence (sensitivity)
func New(masterSeed uint64, name string, salt []byte) *RNG {
	h := sha256.New()

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], masterSeed)
	h.Write(buf[:])
	h.Write([]byte(name))
	h.Write(salt)

	sum := h.Sum(nil)
	derived := binary.BigEndian.Uint64(sum[:8])

	return &RNG{
		seed:   derived,
		name:   name,
		source: rand.New(rand.NewSource(int64(derived))),
	}
}

// ForLocation creates the generator-stage RNG for a location id: the master seed
// is the FNV-1a hash of the id, and the stream name identifies the pipeline stage
// (e.g. "blueprint", "context").
func ForLocation(locationID, stage string) *RNG {
	return New(HashLocationID(locationID), stage, nil)
}

// ForTurn creates the per-turn roll RNG seeded from (location id, turn count),
// per spec §9's replay contract: success rolls and critical-failure sampling must
// be reproducible given identical recorded LM outputs.
func ForTurn(locationID string, turnCount int) *RNG {
	var salt [8]byte
	binary.BigEndian.PutUint64(salt[:], uint64(turnCount))
	return New(HashLocationID(locationID), "turn", salt[:])
}

// Seed returns the derived seed for this stream. Useful for debugging and logs.
func (r *RNG) Seed() uint64 { return r.seed }

// Name returns the stream name this RNG was created for.
func (r *RNG) Name() string { return r.name }

// Uint64 returns a pseudo-random 64-bit unsigned integer.
func (r *RNG) Uint64() uint64 {
	return r.source.Uint64()
}

// Intn returns a pseudo-random integer in [0, n). Panics if n <= 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn argument must be positive")
	}
	return r.source.Intn(n)
}

// Float64 returns a pseudo-random float64 in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	return r.source.Float64()
}

// Shuffle pseudo-randomizes the order of elements in slice.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.source.Shuffle(n, swap)
}

// IntRange returns a pseudo-random integer in [min, max]. Panics if min > max.
func (r *RNG) IntRange(min, max int) int {
	if min > max {
		panic("rng: IntRange min must be <= max")
	}
	if min == max {
		return min
	}
	return min + r.source.Intn(max-min+1)
}

// Bool returns a pseudo-random boolean value.
func (r *RNG) Bool() bool {
	return r.source.Intn(2) == 1
}

// RollD6 simulates a single six-sided die roll, returning a value in [1, 6].
// Used by the action executor's success-probability gate (spec §4.C6).
func (r *RNG) RollD6() int {
	return r.source.Intn(6) + 1
}

// WeightedChoice selects an index from weights using weighted random selection.
// Weights must be non-negative. Returns -1 if all weights are zero or weights is
// empty.
func (r *RNG) WeightedChoice(weights []float64) int {
	if len(weights) == 0 {
		return -1
	}

	total := 0.0
	for _, w := range weights {
		if w < 0 {
			panic("rng: WeightedChoice weights must be non-negative")
		}
		total += w
	}
	if total == 0 {
		return -1
	}

	randVal := r.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if randVal < cumulative {
			return i
		}
	}
	return len(weights) - 1
}
