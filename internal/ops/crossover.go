package ops

import (
	"fmt"

	"github.com/cwbudde/sgafit/internal/sga"
)

// Crossover recombines two parent chromosomes.
type Crossover interface {
	Name() string
	Cross(rnd sga.Random, parent1, parent2 sga.Chromosome) (site sga.CrossSite, child1, child2 sga.Chromosome, crossed bool)
}

// SinglePoint swaps the tails of two parents after a random locus. With
// probability 1-P no recombination happens and the site is the chromosome
// length.
type SinglePoint struct {
	P float64
}

func (SinglePoint) Name() string { return "single" }

func (c SinglePoint) Cross(rnd sga.Random, parent1, parent2 sga.Chromosome) (sga.CrossSite, sga.Chromosome, sga.Chromosome, bool) {
	length := min(parent1.Len(), parent2.Len())
	jcross := length
	crossed := false
	if sga.Flip(rnd, c.P) && length > 1 {
		jcross = sga.Between(rnd, 1, length-1)
		crossed = true
	}

	child1 := sga.NewChromosome(length)
	child2 := sga.NewChromosome(length)
	for j := 0; j < jcross; j++ {
		child1.Set(j, parent1.At(j))
		child2.Set(j, parent2.At(j))
	}
	for j := jcross; j < length; j++ {
		child1.Set(j, parent2.At(j))
		child2.Set(j, parent1.At(j))
	}
	return sga.CrossSite{Start: jcross, End: length}, child1, child2, crossed
}

// TwoPoint exchanges the segment [Start, End) between two parents with
// probability P.
type TwoPoint struct {
	P float64
}

func (TwoPoint) Name() string { return "two" }

func (c TwoPoint) Cross(rnd sga.Random, parent1, parent2 sga.Chromosome) (sga.CrossSite, sga.Chromosome, sga.Chromosome, bool) {
	length := min(parent1.Len(), parent2.Len())
	site := sga.CrossSite{Start: length, End: length}
	crossed := false
	if sga.Flip(rnd, c.P) && length > 1 {
		a := sga.Between(rnd, 0, length-1)
		b := sga.Between(rnd, 0, length-1)
		if a > b {
			a, b = b, a
		}
		site = sga.CrossSite{Start: a, End: b + 1}
		crossed = true
	}

	child1 := parent1.Clone()[:length]
	child2 := parent2.Clone()[:length]
	for j := site.Start; j < site.End; j++ {
		child1[j], child2[j] = parent2.At(j), parent1.At(j)
	}
	return site, child1, child2, crossed
}

// Copy produces exact copies of the parents with site (0,0). It never
// counts as a crossover.
type Copy struct{}

func (Copy) Name() string { return "copy" }

func (Copy) Cross(_ sga.Random, parent1, parent2 sga.Chromosome) (sga.CrossSite, sga.Chromosome, sga.Chromosome, bool) {
	return sga.CrossSite{}, parent1.Clone(), parent2.Clone(), false
}

// CrossoverByName builds a crossover operator using crossover probability p.
func CrossoverByName(name string, p float64) (Crossover, error) {
	switch name {
	case "", "single":
		return SinglePoint{P: p}, nil
	case "two":
		return TwoPoint{P: p}, nil
	case "copy":
		return Copy{}, nil
	default:
		return nil, fmt.Errorf("unknown crossover: %s (want single, two or copy)", name)
	}
}
