package sga

// binaryFuncs is the trivial configuration used across engine tests:
// binary-to-integer decode, x*x objective, children copied from parents and
// no mutation.
func binaryFuncs() Funcs {
	return Funcs{
		DecodeFunc: func(chrom Chromosome) float64 {
			x := 0.0
			for _, a := range chrom {
				x = x*2 + float64(a)
			}
			return x
		},
		CrossoverFunc: func(_ Random, p1, p2 *Individual) Offspring {
			return Offspring{
				Child1: Individual{Chrom: p1.Chrom.Clone()},
				Child2: Individual{Chrom: p2.Chrom.Clone()},
			}
		},
		MutateFunc: func(Random, int, Chromosome) bool { return false },
		EvaluateFunc: func(ind *Individual) float64 {
			return ind.X * ind.X
		},
	}
}

func testConfig(popsize, lchrom, maxgen int) Config {
	return Config{
		PopSize:     popsize,
		ChromLength: lchrom,
		MaxGen:      maxgen,
		PCross:      0.6,
		PMutation:   0.033,
		Seed:        42,
	}
}

// constRandom always returns the same draw.
type constRandom float64

func (c constRandom) Float64() float64 { return float64(c) }
func (constRandom) Seed(int64)         {}
func (constRandom) Randomize()         {}
