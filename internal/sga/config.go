package sga

// Config holds the run parameters of a simple genetic algorithm. It is
// passed by value into the engine and never modified afterwards.
type Config struct {
	PopSize     int     `json:"popSize"`     // must be positive and even
	ChromLength int     `json:"chromLength"` // alleles per chromosome
	MaxGen      int     `json:"maxGen"`      // generations to run
	PCross      float64 `json:"pCross"`      // consumed by the crossover operator
	PMutation   float64 `json:"pMutation"`   // consumed by the mutation operator
	Seed        int64   `json:"seed"`
}

// DefaultConfig returns the parameters used in Goldberg's SGA examples.
func DefaultConfig() Config {
	return Config{
		PopSize:     30,
		ChromLength: 10,
		MaxGen:      20,
		PCross:      0.6,
		PMutation:   0.033,
		Seed:        42,
	}
}

// Validate checks every parameter and returns a *ConfigError for the first
// one that is out of range.
func (c Config) Validate() error {
	if c.PopSize <= 0 {
		return &ConfigError{Field: "PopSize", Reason: "must be positive"}
	}
	// Generation steps fill the next buffer two slots at a time.
	if c.PopSize%2 != 0 {
		return &ConfigError{Field: "PopSize", Reason: "must be even"}
	}
	if c.ChromLength <= 0 {
		return &ConfigError{Field: "ChromLength", Reason: "must be positive"}
	}
	if c.MaxGen <= 0 {
		return &ConfigError{Field: "MaxGen", Reason: "must be positive"}
	}
	if c.PCross < 0 || c.PCross > 1 {
		return &ConfigError{Field: "PCross", Reason: "must be in [0,1]"}
	}
	if c.PMutation < 0 || c.PMutation > 1 {
		return &ConfigError{Field: "PMutation", Reason: "must be in [0,1]"}
	}
	return nil
}
