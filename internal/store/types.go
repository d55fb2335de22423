package store

import (
	"fmt"
	"time"

	"github.com/cwbudde/sgafit/internal/sga"
)

// RunConfig is the persisted description of an SGA run: the engine
// parameters plus the names of the operators used.
type RunConfig struct {
	PopSize     int     `json:"popSize"`
	ChromLength int     `json:"chromLength"`
	MaxGen      int     `json:"maxGen"`
	PCross      float64 `json:"pCross"`
	PMutation   float64 `json:"pMutation"`
	Seed        int64   `json:"seed"`
	Objective   string  `json:"objective"`          // power, square, identity
	Crossover   string  `json:"crossover"`          // single, two, copy
	Patience    int     `json:"patience,omitempty"` // early stop after N stale generations (0 = disabled)
}

// EngineConfig returns the engine parameters of the run.
func (c RunConfig) EngineConfig() sga.Config {
	return sga.Config{
		PopSize:     c.PopSize,
		ChromLength: c.ChromLength,
		MaxGen:      c.MaxGen,
		PCross:      c.PCross,
		PMutation:   c.PMutation,
		Seed:        c.Seed,
	}
}

// RunRecord is the saved outcome of a completed run.
//
// The record keeps the configuration, the initial and final statistics and
// the best individual of the last generation, not the full population.
// Because runs are deterministic for a given seed, a stored configuration
// can be replayed to reproduce every generation.
type RunRecord struct {
	// RunID is the unique identifier for this run
	RunID string `json:"runId"`

	// Config holds the parameters needed to replay the run
	Config RunConfig `json:"config"`

	// Initial holds the statistics of the seeded population
	Initial sga.Stats `json:"initial"`

	// Final holds the statistics of the last generation
	Final sga.Stats `json:"final"`

	// Best is the fittest member of the last generation
	Best sga.Individual `json:"best"`

	// Generations is the number of completed generations
	Generations int `json:"generations"`

	// Totals are the operator counts accumulated over the run
	Totals sga.Counters `json:"totals"`

	// Converged is set when the run stopped early on stagnation
	Converged bool `json:"converged,omitempty"`

	// StaleGenerations counts the trailing generations without significant
	// improvement (convergence detection only)
	StaleGenerations int `json:"staleGenerations,omitempty"`

	// Timestamp records when this record was created
	Timestamp time.Time `json:"timestamp"`
}

// RunInfo contains metadata about a stored run without the best chromosome.
type RunInfo struct {
	RunID       string    `json:"runId"`
	Timestamp   time.Time `json:"timestamp"`
	Generations int       `json:"generations"`
	MaxFitness  float64   `json:"maxFitness"`
	AvgFitness  float64   `json:"avgFitness"`
	Objective   string    `json:"objective"`
	PopSize     int       `json:"popSize"`
	ChromLength int       `json:"chromLength"`
}

// NewRunRecord creates a record from the state of a finished engine.
func NewRunRecord(runID string, config RunConfig, initial sga.Stats, engine *sga.Engine) *RunRecord {
	return &RunRecord{
		RunID:       runID,
		Config:      config,
		Initial:     initial,
		Final:       engine.Stats(),
		Best:        engine.Best(),
		Generations: engine.Gen(),
		Totals:      engine.Totals(),
		Converged:   engine.Converged(),
		Timestamp:   time.Now(),

		StaleGenerations: engine.StaleGenerations(),
	}
}

// ToInfo converts a full RunRecord to RunInfo (metadata only).
func (r *RunRecord) ToInfo() RunInfo {
	return RunInfo{
		RunID:       r.RunID,
		Timestamp:   r.Timestamp,
		Generations: r.Generations,
		MaxFitness:  r.Final.Max,
		AvgFitness:  r.Final.Avg,
		Objective:   r.Config.Objective,
		PopSize:     r.Config.PopSize,
		ChromLength: r.Config.ChromLength,
	}
}

// Validate checks if the record has valid data.
// Returns an error if any required field is missing or invalid.
func (r *RunRecord) Validate() error {
	if r.RunID == "" {
		return &ValidationError{Field: "RunID", Reason: "cannot be empty"}
	}
	if r.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if r.Generations < 0 {
		return &ValidationError{Field: "Generations", Reason: "cannot be negative"}
	}
	if r.Generations > r.Config.MaxGen {
		return &ValidationError{
			Field:  "Generations",
			Reason: fmt.Sprintf("exceeds maxGen %d", r.Config.MaxGen),
		}
	}
	if err := r.Config.EngineConfig().Validate(); err != nil {
		return &ValidationError{Field: "Config", Reason: err.Error()}
	}
	if r.Config.Objective == "" {
		return &ValidationError{Field: "Config.Objective", Reason: "cannot be empty"}
	}
	if r.Config.Crossover == "" {
		return &ValidationError{Field: "Config.Crossover", Reason: "cannot be empty"}
	}
	if r.Best.Chrom.Len() != r.Config.ChromLength {
		return &ValidationError{
			Field:  "Best.Chrom",
			Reason: fmt.Sprintf("length mismatch: expected %d alleles", r.Config.ChromLength),
		}
	}
	return nil
}

// ValidationError represents a run record validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}

// IsCompatible checks whether config describes the same search as the
// stored run, so that its results can be compared.
func (r *RunRecord) IsCompatible(config RunConfig) error {
	if r.Config.PopSize != config.PopSize {
		return &CompatibilityError{
			Field:    "PopSize",
			Expected: fmt.Sprintf("%d", r.Config.PopSize),
			Actual:   fmt.Sprintf("%d", config.PopSize),
		}
	}
	if r.Config.ChromLength != config.ChromLength {
		return &CompatibilityError{
			Field:    "ChromLength",
			Expected: fmt.Sprintf("%d", r.Config.ChromLength),
			Actual:   fmt.Sprintf("%d", config.ChromLength),
		}
	}
	if r.Config.Objective != config.Objective {
		return &CompatibilityError{
			Field:    "Objective",
			Expected: r.Config.Objective,
			Actual:   config.Objective,
		}
	}
	if r.Config.Crossover != config.Crossover {
		return &CompatibilityError{
			Field:    "Crossover",
			Expected: r.Config.Crossover,
			Actual:   config.Crossover,
		}
	}
	return nil
}

// CompatibilityError represents a run configuration mismatch.
type CompatibilityError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *CompatibilityError) Error() string {
	return "compatibility error: " + e.Field + " mismatch (expected " + e.Expected + ", got " + e.Actual + ")"
}
