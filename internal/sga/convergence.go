package sga

import (
	"log/slog"
	"math"
)

// ConvergenceConfig defines when a run counts as stagnated.
type ConvergenceConfig struct {
	// Enabled controls whether convergence detection is active
	Enabled bool

	// Patience is the number of consecutive generations without a
	// significant improvement of the maximum fitness before stopping
	Patience int

	// Threshold is the minimum relative improvement required to count as progress
	// Relative improvement = (newMax - lastMax) / |lastMax|
	Threshold float64
}

// DefaultConvergenceConfig returns sensible defaults for convergence detection
func DefaultConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{
		Enabled:   true,
		Patience:  10,
		Threshold: 0.001,
	}
}

// ConvergenceTracker watches the per-generation maximum fitness.
type ConvergenceTracker struct {
	config          ConvergenceConfig
	history         []float64
	best            float64 // best maximum fitness ever seen
	lastSignificant float64
	staleCount      int
}

// NewConvergenceTracker creates a new convergence tracker with the given config
func NewConvergenceTracker(config ConvergenceConfig) *ConvergenceTracker {
	return &ConvergenceTracker{
		config:          config,
		history:         []float64{},
		best:            math.Inf(-1),
		lastSignificant: math.Inf(-1),
	}
}

// Update records a generation's maximum fitness and returns true once the
// run has gone Patience generations without significant improvement.
func (c *ConvergenceTracker) Update(maxFitness float64) bool {
	if !c.config.Enabled {
		return false
	}

	c.history = append(c.history, maxFitness)
	if maxFitness > c.best {
		c.best = maxFitness
	}

	if len(c.history) == 1 {
		c.lastSignificant = maxFitness
		return false
	}

	var improvement float64
	switch {
	case c.lastSignificant == 0:
		improvement = math.Inf(1)
		if maxFitness <= 0 {
			improvement = 0
		}
	default:
		improvement = (maxFitness - c.lastSignificant) / math.Abs(c.lastSignificant)
	}

	if improvement >= c.config.Threshold {
		c.lastSignificant = maxFitness
		c.staleCount = 0
		slog.Debug("Fitness improvement detected",
			"max_fitness", maxFitness,
			"relative_improvement", improvement,
		)
		return false
	}

	c.staleCount++
	slog.Debug("No significant fitness improvement",
		"max_fitness", maxFitness,
		"last_significant", c.lastSignificant,
		"stale_count", c.staleCount,
		"patience", c.config.Patience,
	)

	if c.staleCount >= c.config.Patience {
		slog.Info("Convergence detected - stopping early",
			"stale_count", c.staleCount,
			"patience", c.config.Patience,
			"best_fitness", c.best,
		)
		return true
	}
	return false
}

// Best returns the best maximum fitness seen so far
func (c *ConvergenceTracker) Best() float64 {
	return c.best
}

// StaleCount returns the current number of generations without improvement
func (c *ConvergenceTracker) StaleCount() int {
	return c.staleCount
}
