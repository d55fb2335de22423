package sga

import "fmt"

// Offspring is the result of one crossover.
type Offspring struct {
	Site    CrossSite
	Child1  Individual
	Child2  Individual
	Crossed bool // counted in Counters.NCross
}

// Operators is the capability set a concrete configuration supplies. The
// engine defines no encoding of its own.
type Operators interface {
	// Decode maps a chromosome to its phenotype.
	Decode(chrom Chromosome) float64
	// Crossover recombines two parents into two new children. The children
	// must not share chromosome memory with the parents.
	Crossover(rnd Random, parent1, parent2 *Individual) Offspring
	// Mutate perturbs the allele at locus in place and reports whether it
	// changed.
	Mutate(rnd Random, locus int, chrom Chromosome) bool
	// Evaluate returns the objective value of a decoded individual.
	Evaluate(ind *Individual) float64
}

// Initializer is implemented by operator sets that build their own random
// chromosomes for the initial population. Without it the engine fills each
// allele with a fair coin flip.
type Initializer interface {
	Generate(rnd Random, length int) Chromosome
}

// Funcs assembles an operator set from plain functions. Every field is
// required.
type Funcs struct {
	DecodeFunc    func(chrom Chromosome) float64
	CrossoverFunc func(rnd Random, parent1, parent2 *Individual) Offspring
	MutateFunc    func(rnd Random, locus int, chrom Chromosome) bool
	EvaluateFunc  func(ind *Individual) float64
}

// Validate reports the first missing function.
func (f Funcs) Validate() error {
	switch {
	case f.DecodeFunc == nil:
		return fmt.Errorf("%w: decode", ErrMissingOperator)
	case f.CrossoverFunc == nil:
		return fmt.Errorf("%w: crossover", ErrMissingOperator)
	case f.MutateFunc == nil:
		return fmt.Errorf("%w: mutate", ErrMissingOperator)
	case f.EvaluateFunc == nil:
		return fmt.Errorf("%w: evaluate", ErrMissingOperator)
	}
	return nil
}

func (f Funcs) Decode(chrom Chromosome) float64 {
	return f.DecodeFunc(chrom)
}

func (f Funcs) Crossover(rnd Random, parent1, parent2 *Individual) Offspring {
	return f.CrossoverFunc(rnd, parent1, parent2)
}

func (f Funcs) Mutate(rnd Random, locus int, chrom Chromosome) bool {
	return f.MutateFunc(rnd, locus, chrom)
}

func (f Funcs) Evaluate(ind *Individual) float64 {
	return f.EvaluateFunc(ind)
}

// validateOperators rejects nil operator sets and incomplete Funcs values.
func validateOperators(ops Operators) error {
	if ops == nil {
		return fmt.Errorf("%w: operator set is nil", ErrMissingOperator)
	}
	if v, ok := ops.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}
