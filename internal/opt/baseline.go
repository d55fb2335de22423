package opt

import (
	"fmt"
	"log/slog"
	"math"
)

// Baseline is the reference optimum of a fitness function over the
// phenotype interval [0, Upper].
type Baseline struct {
	X       float64 `json:"x"`       // continuous optimum
	Fitness float64 `json:"fitness"` // fitness at X
	Upper   float64 `json:"upper"`   // largest phenotype

	// Phenotypes of a binary chromosome are integers, so the best integer
	// neighbour of X is what an SGA can actually reach.
	IntX       float64 `json:"intX"`
	IntFitness float64 `json:"intFitness"`
}

// FindBaseline maximizes fitness over [0, upper] by minimizing its negation
// with o.
func FindBaseline(o Optimizer, fitness func(x float64) float64, upper float64) (Baseline, error) {
	if o == nil {
		return Baseline{}, fmt.Errorf("optimizer cannot be nil")
	}
	if fitness == nil {
		return Baseline{}, fmt.Errorf("fitness function cannot be nil")
	}
	if !(upper > 0) {
		return Baseline{}, fmt.Errorf("upper bound must be positive, got %g", upper)
	}

	clamp := func(x float64) float64 {
		return math.Min(math.Max(x, 0), upper)
	}
	eval := func(p []float64) float64 {
		return -fitness(clamp(p[0]))
	}

	best, _ := o.Run(eval, []float64{0}, []float64{upper}, 1)
	if len(best) == 0 {
		return Baseline{}, fmt.Errorf("optimizer returned no position")
	}

	b := Baseline{Upper: upper}
	b.X = clamp(best[0])
	b.Fitness = fitness(b.X)

	b.IntX = clamp(math.Floor(b.X))
	b.IntFitness = fitness(b.IntX)
	if up := clamp(math.Ceil(b.X)); fitness(up) > b.IntFitness {
		b.IntX, b.IntFitness = up, fitness(up)
	}

	slog.Debug("Baseline computed",
		"x", b.X,
		"fitness", b.Fitness,
		"intX", b.IntX,
		"intFitness", b.IntFitness,
	)
	return b, nil
}

// Gap returns how far max falls short of the integer baseline, relative to
// it. It is 0 when max reaches the baseline.
func (b Baseline) Gap(max float64) float64 {
	if b.IntFitness == 0 {
		return 0
	}
	return math.Max(0, (b.IntFitness-max)/math.Abs(b.IntFitness))
}
