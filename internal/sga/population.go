package sga

// Population holds two non-overlapping generations of equal size.
// Current is read by selection; Next is filled by a generation step.
type Population struct {
	Current []Individual
	Next    []Individual
}

// NewPopulation allocates both buffers with size empty slots.
func NewPopulation(size int) *Population {
	return &Population{
		Current: make([]Individual, size),
		Next:    make([]Individual, size),
	}
}

// Size returns the number of slots per generation.
func (p *Population) Size() int {
	return len(p.Current)
}

// Filled reports whether every slot of Next holds a chromosome.
func (p *Population) Filled() bool {
	for i := range p.Next {
		if p.Next[i].Chrom == nil {
			return false
		}
	}
	return true
}

// Promote makes Next the new Current. The old Current is discarded and a
// fresh empty Next is started, so no individual is shared between
// generations.
func (p *Population) Promote() {
	current := make([]Individual, len(p.Next))
	for i := range p.Next {
		current[i] = p.Next[i].Clone()
	}
	p.Current = current
	p.Next = make([]Individual, len(current))
}

// CloneCurrent returns a deep copy of the current generation.
func (p *Population) CloneCurrent() []Individual {
	return cloneAll(p.Current)
}

// CloneNext returns a deep copy of the next generation buffer.
func (p *Population) CloneNext() []Individual {
	return cloneAll(p.Next)
}

func cloneAll(in []Individual) []Individual {
	out := make([]Individual, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
