package sga

import "errors"

var (
	// ErrMissingOperator is returned when an operator set lacks one of
	// decode, crossover, mutate or evaluate.
	ErrMissingOperator = errors.New("missing genetic operator")

	// ErrEmptyPopulation is returned when statistics are requested for a
	// population with no members.
	ErrEmptyPopulation = errors.New("population is empty")

	// ErrDegenerateFitness is returned when the current population's total
	// fitness is not positive, which leaves roulette selection undefined.
	ErrDegenerateFitness = errors.New("total fitness must be positive for roulette selection")

	// ErrBadOffspring is returned when an operator produces a child whose
	// chromosome does not have the configured length.
	ErrBadOffspring = errors.New("offspring chromosome has wrong length")
)

// ErrInvalidConfig matches any *ConfigError via errors.Is.
var ErrInvalidConfig = &ConfigError{}

// ConfigError reports an invalid run parameter.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "invalid configuration"
	}
	return "invalid configuration: " + e.Field + " " + e.Reason
}

func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok
}
