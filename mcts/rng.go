package mcts

import "math/rand"

// DefaultRNG is the concrete random source shared by epsilon-greedy child
// selection (Tree.SelectChild) and the Random value estimator. Backed by
// math/rand, its method set happens to satisfy both this package's
// epsilonSource interface and gonum's stat/distuv Source requirement
// (Uint64/Seed), so one instance serves both without depending on
// golang.org/x/exp/rand directly.
type DefaultRNG struct {
	r *rand.Rand
}

// NewDefaultRNG builds a DefaultRNG seeded with seed.
func NewDefaultRNG(seed int64) *DefaultRNG {
	return &DefaultRNG{r: rand.New(rand.NewSource(seed))}
}

// Float32 returns a pseudo-random number in [0,1).
func (d *DefaultRNG) Float32() float32 { return d.r.Float32() }

// Intn returns a pseudo-random number in [0,n).
func (d *DefaultRNG) Intn(n int) int { return d.r.Intn(n) }

// Uint64 satisfies gonum's distuv Source requirement.
func (d *DefaultRNG) Uint64() uint64 { return d.r.Uint64() }

// Seed satisfies gonum's distuv Source requirement.
func (d *DefaultRNG) Seed(seed uint64) { d.r.Seed(int64(seed)) }
