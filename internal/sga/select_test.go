package sga

import (
	"math"
	"testing"
)

func uniformPopulation(size int, fitness float64) []Individual {
	pop := make([]Individual, size)
	for i := range pop {
		pop[i].Fitness = fitness
	}
	return pop
}

func TestRoulette_UniformFitnessIsUniform(t *testing.T) {
	const (
		size   = 4
		trials = 40000
	)
	pop := uniformPopulation(size, 2.5)
	rnd := NewRandom(1)
	counts := make([]int, size)

	for i := 0; i < trials; i++ {
		counts[Roulette{}.Select(rnd, pop, 2.5*size)]++
	}

	for j, c := range counts {
		freq := float64(c) / trials
		if math.Abs(freq-1.0/size) > 0.02 {
			t.Errorf("Index %d selected with frequency %.4f, want %.4f +/- 0.02", j, freq, 1.0/size)
		}
	}
}

func TestRoulette_ProportionalToFitness(t *testing.T) {
	pop := []Individual{{Fitness: 1}, {Fitness: 3}}
	rnd := NewRandom(5)
	hits := 0
	const trials = 20000
	for i := 0; i < trials; i++ {
		if (Roulette{}).Select(rnd, pop, 4) == 1 {
			hits++
		}
	}
	freq := float64(hits) / trials
	if math.Abs(freq-0.75) > 0.02 {
		t.Errorf("Expected heavier member selected ~75%% of the time, got %.4f", freq)
	}
}

func TestRoulette_ZeroSumReturnsValidIndex(t *testing.T) {
	pop := uniformPopulation(6, 0)
	rnd := NewRandom(9)
	for i := 0; i < 100; i++ {
		j := Roulette{}.Select(rnd, pop, 0)
		if j < 0 || j >= len(pop) {
			t.Fatalf("Index %d out of range for population of %d", j, len(pop))
		}
	}
}

func TestRoulette_ShortfallReturnsLastIndex(t *testing.T) {
	// A cached sum larger than the real total leaves the draw unmatched.
	pop := uniformPopulation(5, 1)
	j := Roulette{}.Select(constRandom(0.999), pop, 100)
	if j != len(pop)-1 {
		t.Errorf("Expected last index %d, got %d", len(pop)-1, j)
	}
}

func TestRoulette_NaNSumReturnsLastIndex(t *testing.T) {
	pop := uniformPopulation(3, 1)
	j := Roulette{}.Select(constRandom(0.5), pop, math.NaN())
	if j != 2 {
		t.Errorf("Expected last index for NaN draw, got %d", j)
	}
}
