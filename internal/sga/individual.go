package sga

import "fmt"

// CrossSite records the loci at which two parents were recombined.
// The zero value marks an individual from the initial generation.
type CrossSite struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s CrossSite) String() string {
	return fmt.Sprintf("(%d,%d)", s.Start, s.End)
}

// Individual is a single population member.
type Individual struct {
	Chrom   Chromosome `json:"chrom"`
	X       float64    `json:"x"`       // decoded phenotype
	Fitness float64    `json:"fitness"` // objective value
	Parent1 int        `json:"parent1"` // index into the prior generation
	Parent2 int        `json:"parent2"`
	XSite   CrossSite  `json:"xsite"`
	MaxLen  int        `json:"max"` // configured chromosome length
}

// Clone returns a copy that shares no memory with ind.
func (ind Individual) Clone() Individual {
	ind.Chrom = ind.Chrom.Clone()
	return ind
}

func (ind Individual) String() string {
	return fmt.Sprintf("(%d,%d)\t%s\t%s\t%g\t%g", ind.Parent1, ind.Parent2, ind.XSite, ind.Chrom, ind.X, ind.Fitness)
}
