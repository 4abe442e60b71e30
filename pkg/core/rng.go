package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// Int64 returns a non-negative pseudo-random int64.
func (r *RNG) Int64() int64 { return r.r.Int64() }

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }

// CellFloat64 returns a uniform value in [0, 1) that depends only on the run
// seed, the step number and the cell index. Draws are independent of the order
// in which cells are visited, so parallel and sequential runs agree.
func CellFloat64(seed int64, step, index int) float64 {
	var src rand.PCG
	src.Seed(uint64(seed), uint64(step)<<32^uint64(uint32(index)))
	return float64(src.Uint64()>>11) / (1 << 53)
}
