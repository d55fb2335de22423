package sga

// Snapshot is a read-only copy of the engine state handed to observers.
type Snapshot struct {
	// Gen is the index of the generation step that produced Next. It is 0
	// for the initial snapshot.
	Gen     int          `json:"gen"`
	Initial bool         `json:"initial"`
	Config  Config       `json:"config"`
	Stats   Stats        `json:"stats"`
	Counts  Counters     `json:"counts"` // accumulated during this generation
	Totals  Counters     `json:"totals"` // accumulated over the run
	Current []Individual `json:"current,omitempty"`
	Next    []Individual `json:"next,omitempty"`
}

// Best returns the fittest member of the newest generation in the snapshot.
func (s Snapshot) Best() (Individual, bool) {
	pop := s.Next
	if s.Initial || len(pop) == 0 {
		pop = s.Current
	}
	if len(pop) == 0 {
		return Individual{}, false
	}
	best := pop[0]
	for _, ind := range pop[1:] {
		if ind.Fitness > best.Fitness {
			best = ind
		}
	}
	return best, true
}

// Observer receives the initial snapshot and one snapshot per generation.
// A returned error aborts the run.
type Observer interface {
	Initial(snap Snapshot) error
	Generation(snap Snapshot) error
}

// NopObserver discards every snapshot.
type NopObserver struct{}

func (NopObserver) Initial(Snapshot) error    { return nil }
func (NopObserver) Generation(Snapshot) error { return nil }
