package ops

import (
	"fmt"

	"github.com/cwbudde/sgafit/internal/sga"
)

// Binary is a complete operator set over bit-string chromosomes.
type Binary struct {
	Cross     Crossover
	Mutation  Mutation
	Objective Objective
}

// NewBinary assembles the standard SGA operators for cfg: named crossover at
// cfg.PCross, bit-flip mutation at cfg.PMutation and the named objective.
// Chromosomes longer than MaxChromLength are rejected.
func NewBinary(cfg sga.Config, crossover, objective string) (*Binary, error) {
	if err := CheckLength(cfg.ChromLength); err != nil {
		return nil, err
	}
	cross, err := CrossoverByName(crossover, cfg.PCross)
	if err != nil {
		return nil, err
	}
	obj, err := ObjectiveByName(objective, cfg.ChromLength)
	if err != nil {
		return nil, err
	}
	return &Binary{
		Cross:     cross,
		Mutation:  BitFlip{P: cfg.PMutation},
		Objective: obj,
	}, nil
}

// Validate rejects a Binary with a missing component.
func (b *Binary) Validate() error {
	switch {
	case b.Cross == nil:
		return fmt.Errorf("%w: crossover", sga.ErrMissingOperator)
	case b.Mutation == nil:
		return fmt.Errorf("%w: mutation", sga.ErrMissingOperator)
	case b.Objective == nil:
		return fmt.Errorf("%w: objective", sga.ErrMissingOperator)
	}
	return nil
}

func (b *Binary) Decode(chrom sga.Chromosome) float64 {
	return DecodeBinary(chrom)
}

func (b *Binary) Crossover(rnd sga.Random, parent1, parent2 *sga.Individual) sga.Offspring {
	site, c1, c2, crossed := b.Cross.Cross(rnd, parent1.Chrom, parent2.Chrom)
	return sga.Offspring{
		Site:    site,
		Child1:  sga.Individual{Chrom: c1, MaxLen: parent1.MaxLen},
		Child2:  sga.Individual{Chrom: c2, MaxLen: parent2.MaxLen},
		Crossed: crossed,
	}
}

func (b *Binary) Mutate(rnd sga.Random, locus int, chrom sga.Chromosome) bool {
	return b.Mutation.Mutate(rnd, locus, chrom)
}

func (b *Binary) Evaluate(ind *sga.Individual) float64 {
	return b.Objective.Value(ind.X)
}

// Generate fills a chromosome with fair coin flips.
func (b *Binary) Generate(rnd sga.Random, length int) sga.Chromosome {
	chrom := sga.NewChromosome(length)
	for j := 0; j < length; j++ {
		allele := 0
		if sga.Flip(rnd, 0.5) {
			allele = 1
		}
		chrom.Set(j, allele)
	}
	return chrom
}
