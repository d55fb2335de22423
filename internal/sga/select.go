package sga

// Selector picks one parent index from the current generation.
type Selector interface {
	Select(rnd Random, pop []Individual, sumFitness float64) int
}

// Roulette implements fitness-proportionate selection.
type Roulette struct{}

// Select spins the wheel once. It returns the first index whose partial
// fitness sum reaches the draw, or the last index when rounding leaves the
// draw unmatched. A zero sumFitness yields index 0.
func (Roulette) Select(rnd Random, pop []Individual, sumFitness float64) int {
	spin := rnd.Float64() * sumFitness
	partsum := 0.0
	for j := range pop {
		partsum += pop[j].Fitness
		if partsum >= spin {
			return j
		}
	}
	return len(pop) - 1
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(rnd Random, pop []Individual, sumFitness float64) int

func (f SelectorFunc) Select(rnd Random, pop []Individual, sumFitness float64) int {
	return f(rnd, pop, sumFitness)
}
