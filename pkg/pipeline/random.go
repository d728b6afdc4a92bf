package pipeline

import (
	"golang.org/x/exp/rand"
)

// DefaultSeed is the selection seed used when none is configured
const DefaultSeed = 42

// RandomSource picks candidate parameters. It is seeded once and consumed in
// file order, so two runs over the same file list and the same candidates
// draw the same parameters for the same positions.
type RandomSource struct {
	rng *rand.Rand
}

// NewRandomSource returns a source seeded with seed
func NewRandomSource(seed uint64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform index in [0, n)
func (r *RandomSource) Intn(n int) int {
	return r.rng.Intn(n)
}

// pick returns a uniformly chosen element of values
func pick[T any](r *RandomSource, values []T) T {
	return values[r.Intn(len(values))]
}
