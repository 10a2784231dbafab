package engine

import "math/rand/v2"

// countingSource is a PCG stream that counts the words it hands out, so
// the stream can be rebuilt by replaying that many words.
type countingSource struct {
	pcg   *rand.PCG
	drawn int64
}

func (s *countingSource) Uint64() uint64 {
	s.drawn++
	return s.pcg.Uint64()
}

// RNG is the engine's single random source. It is fully determined by
// its seed and Position, which is what a save records.
type RNG struct {
	seed int64
	src  *countingSource
	r    *rand.Rand
}

// NewRNG creates a deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	src := &countingSource{pcg: rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)}
	return &RNG{seed: seed, src: src, r: rand.New(src)}
}

// RestoreRNG rebuilds the RNG a session had after position source words.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for range position {
		rng.src.Uint64()
	}
	return rng
}

// Intn returns a uniform integer in [0, n). It panics if n <= 0.
func (r *RNG) Intn(n int) int {
	return r.r.IntN(n)
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns how many source words have been consumed.
func (r *RNG) Position() int64 {
	return r.src.drawn
}
