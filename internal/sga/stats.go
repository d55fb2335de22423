package sga

// Stats summarizes one population snapshot.
type Stats struct {
	SumFitness float64 `json:"sumFitness"`
	Max        float64 `json:"max"`
	Min        float64 `json:"min"`
	Avg        float64 `json:"avg"`
	SumX       float64 `json:"sumX"`
	MaxX       float64 `json:"maxX"`
	MinX       float64 `json:"minX"`
	AvgX       float64 `json:"avgX"`
}

// Counters are operator event counts.
type Counters struct {
	NMutation int `json:"nMutation"`
	NCross    int `json:"nCross"`
}

// Add returns the element-wise sum.
func (c Counters) Add(o Counters) Counters {
	return Counters{
		NMutation: c.NMutation + o.NMutation,
		NCross:    c.NCross + o.NCross,
	}
}

// ComputeStatistics evaluates every member of pop with eval, storing the
// result in its Fitness, and returns the aggregate fitness and phenotype
// statistics. The first member seeds the running max and min.
func ComputeStatistics(pop []Individual, eval func(*Individual) float64) (Stats, error) {
	if len(pop) == 0 {
		return Stats{}, ErrEmptyPopulation
	}

	first := &pop[0]
	first.Fitness = eval(first)
	s := Stats{
		SumFitness: first.Fitness,
		Max:        first.Fitness,
		Min:        first.Fitness,
		SumX:       first.X,
		MaxX:       first.X,
		MinX:       first.X,
	}

	for i := 1; i < len(pop); i++ {
		p := &pop[i]
		p.Fitness = eval(p)
		s.SumFitness += p.Fitness
		s.Max = max(s.Max, p.Fitness)
		s.Min = min(s.Min, p.Fitness)
		s.SumX += p.X
		s.MaxX = max(s.MaxX, p.X)
		s.MinX = min(s.MinX, p.X)
	}

	n := float64(len(pop))
	s.Avg = s.SumFitness / n
	s.AvgX = s.SumX / n
	return s, nil
}
