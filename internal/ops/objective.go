package ops

import (
	"fmt"
	"math"
	"sort"
)

// Objective maps a phenotype to a fitness value. Roulette selection needs
// non-negative values with a positive population total.
type Objective interface {
	Name() string
	Value(x float64) float64
}

// Square is f(x) = x*x.
type Square struct{}

func (Square) Name() string            { return "square" }
func (Square) Value(x float64) float64 { return x * x }

// Identity is f(x) = x.
type Identity struct{}

func (Identity) Name() string            { return "identity" }
func (Identity) Value(x float64) float64 { return x }

// Power is Goldberg's f(x) = (x/Coef)^N, normalized so the largest
// phenotype scores 1.
type Power struct {
	Coef float64
	N    float64
}

// NewPower returns the classic (x/(2^L-1))^10 objective for chromosome
// length L.
func NewPower(length int) Power {
	return Power{Coef: MaxPhenotype(length), N: 10}
}

func (Power) Name() string { return "power" }

func (p Power) Value(x float64) float64 {
	if p.Coef == 0 {
		return 0
	}
	return math.Pow(x/p.Coef, p.N)
}

// ObjectiveByName builds an objective for chromosomes of the given length.
func ObjectiveByName(name string, length int) (Objective, error) {
	switch name {
	case "", "power":
		return NewPower(length), nil
	case "square":
		return Square{}, nil
	case "identity":
		return Identity{}, nil
	default:
		return nil, fmt.Errorf("unknown objective: %s (want one of %v)", name, ObjectiveNames())
	}
}

// ObjectiveNames lists the names accepted by ObjectiveByName.
func ObjectiveNames() []string {
	names := []string{"power", "square", "identity"}
	sort.Strings(names)
	return names
}
