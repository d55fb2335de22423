package sga

import (
	"math/rand"
	"time"
)

// Random is the uniform random source shared by selection and the operators.
// Draws consume state, so a Random must be used by one goroutine at a time.
type Random interface {
	// Float64 returns a uniform draw in [0,1).
	Float64() float64
	// Seed restarts the stream deterministically.
	Seed(seed int64)
	// Randomize restarts the stream from a time-derived seed.
	Randomize()
}

// RandSource adapts math/rand to the Random interface.
type RandSource struct {
	rng *rand.Rand
}

// NewRandom creates a seeded random source for reproducible runs.
func NewRandom(seed int64) *RandSource {
	return &RandSource{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (r *RandSource) Float64() float64 {
	return r.rng.Float64()
}

func (r *RandSource) Seed(seed int64) {
	r.rng.Seed(seed)
}

func (r *RandSource) Randomize() {
	r.Seed(time.Now().UnixNano())
}

// Flip returns true with the given probability.
func Flip(r Random, probability float64) bool {
	return r.Float64() < probability
}

// Between returns a uniform integer in [low, high].
func Between(r Random, low, high int) int {
	if low >= high {
		return low
	}
	n := low + int(r.Float64()*float64(high-low+1))
	if n > high {
		n = high
	}
	return n
}
