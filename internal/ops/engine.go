package ops

import "github.com/cwbudde/sgafit/internal/sga"

// NewEngine builds an engine over the binary operators named by crossover
// and objective, seeded from cfg.Seed. A positive patience stops the run
// after that many generations without improvement of the maximum fitness.
func NewEngine(cfg sga.Config, crossover, objective string, patience int) (*sga.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	operators, err := NewBinary(cfg, crossover, objective)
	if err != nil {
		return nil, err
	}

	var opts []sga.Option
	if patience > 0 {
		conv := sga.DefaultConvergenceConfig()
		conv.Patience = patience
		opts = append(opts, sga.WithConvergence(conv))
	}
	return sga.NewEngine(cfg, operators, sga.NewRandom(cfg.Seed), opts...)
}
