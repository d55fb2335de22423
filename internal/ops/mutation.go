package ops

import "github.com/cwbudde/sgafit/internal/sga"

// Mutation perturbs one locus of a chromosome in place.
type Mutation interface {
	Mutate(rnd sga.Random, locus int, chrom sga.Chromosome) bool
}

// BitFlip inverts a binary allele with probability P.
type BitFlip struct {
	P float64
}

func (m BitFlip) Mutate(rnd sga.Random, locus int, chrom sga.Chromosome) bool {
	if !sga.Flip(rnd, m.P) {
		return false
	}
	if chrom[locus] == 0 {
		chrom[locus] = 1
	} else {
		chrom[locus] = 0
	}
	return true
}

// NoMutation leaves every allele unchanged.
type NoMutation struct{}

func (NoMutation) Mutate(sga.Random, int, sga.Chromosome) bool { return false }
