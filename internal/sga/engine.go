package sga

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// Engine runs a simple genetic algorithm (Goldberg, 1989) over two
// non-overlapping populations.
type Engine struct {
	cfg      Config
	ops      Operators
	selector Selector
	rnd      Random
	pop      *Population

	stats     Stats
	counts    Counters // current generation
	totals    Counters // whole run
	gen       int      // index of the next generation step
	converged bool

	convergence *ConvergenceTracker
}

// Option customizes an Engine at construction time.
type Option func(*Engine)

// WithSelector replaces roulette-wheel selection.
func WithSelector(s Selector) Option {
	return func(e *Engine) {
		if s != nil {
			e.selector = s
		}
	}
}

// WithConvergence enables early stopping on stagnating maximum fitness.
func WithConvergence(cfg ConvergenceConfig) Option {
	return func(e *Engine) {
		e.convergence = NewConvergenceTracker(cfg)
	}
}

// NewEngine validates the configuration and operator set, seeds a random
// initial population and computes its statistics, so the engine is ready to
// report before any generation runs.
func NewEngine(cfg Config, ops Operators, rnd Random, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateOperators(ops); err != nil {
		return nil, err
	}
	if rnd == nil {
		return nil, &ConfigError{Field: "Random", Reason: "cannot be nil"}
	}

	e := &Engine{
		cfg:      cfg,
		ops:      ops,
		selector: Roulette{},
		rnd:      rnd,
		pop:      NewPopulation(cfg.PopSize),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.initializePop(); err != nil {
		return nil, err
	}

	stats, err := ComputeStatistics(e.pop.Current, e.ops.Evaluate)
	if err != nil {
		return nil, err
	}
	e.stats = stats

	slog.Debug("Initial population seeded",
		"popsize", cfg.PopSize,
		"lchrom", cfg.ChromLength,
		"max", stats.Max,
		"avg", stats.Avg,
	)
	return e, nil
}

func (e *Engine) initializePop() error {
	gen, custom := e.ops.(Initializer)
	for i := range e.pop.Current {
		var chrom Chromosome
		if custom {
			chrom = gen.Generate(e.rnd, e.cfg.ChromLength)
		} else {
			chrom = NewChromosome(e.cfg.ChromLength)
			for locus := 0; locus < e.cfg.ChromLength; locus++ {
				allele := 0
				if Flip(e.rnd, 0.5) {
					allele = 1
				}
				chrom.Set(locus, allele)
			}
		}
		if chrom.Len() != e.cfg.ChromLength {
			return fmt.Errorf("%w: initial member %d has %d alleles, want %d",
				ErrBadOffspring, i, chrom.Len(), e.cfg.ChromLength)
		}
		e.pop.Current[i] = Individual{
			Chrom:  chrom,
			X:      e.ops.Decode(chrom),
			MaxLen: e.cfg.ChromLength,
		}
	}
	return nil
}

// Step creates the next generation through selection, crossover and
// mutation. Children are decoded but evaluated only by the statistics pass.
func (e *Engine) Step() error {
	if !(e.stats.SumFitness > 0) {
		return fmt.Errorf("%w: got %g", ErrDegenerateFitness, e.stats.SumFitness)
	}

	e.counts = Counters{}
	minX, maxX := math.Inf(1), math.Inf(-1)

	for j := 0; j < e.cfg.PopSize; j += 2 {
		// Self-mating is allowed.
		mate1, err := e.selectMate()
		if err != nil {
			return err
		}
		mate2, err := e.selectMate()
		if err != nil {
			return err
		}

		off := e.ops.Crossover(e.rnd, &e.pop.Current[mate1], &e.pop.Current[mate2])
		if off.Crossed {
			e.counts.NCross++
		}

		child1, child2 := off.Child1, off.Child2
		for _, c := range []*Individual{&child1, &child2} {
			if c.Chrom.Len() != e.cfg.ChromLength {
				return fmt.Errorf("%w: got %d alleles, want %d",
					ErrBadOffspring, c.Chrom.Len(), e.cfg.ChromLength)
			}
			e.mutation(c.Chrom)
			c.X = e.ops.Decode(c.Chrom)
			c.Fitness = 0
			c.Parent1 = mate1
			c.Parent2 = mate2
			c.XSite = off.Site
			c.MaxLen = e.cfg.ChromLength
		}

		e.pop.Next[j] = child1
		e.pop.Next[j+1] = child2

		minX = min(minX, child1.X, child2.X)
		maxX = max(maxX, child1.X, child2.X)
	}

	e.stats.MinX = minX
	e.stats.MaxX = maxX
	e.totals = e.totals.Add(e.counts)
	return nil
}

func (e *Engine) selectMate() (int, error) {
	idx := e.selector.Select(e.rnd, e.pop.Current, e.stats.SumFitness)
	if idx < 0 || idx >= len(e.pop.Current) {
		return 0, fmt.Errorf("selector returned index %d outside population of %d", idx, len(e.pop.Current))
	}
	return idx, nil
}

// mutation applies the mutate operator to every locus.
func (e *Engine) mutation(chrom Chromosome) {
	for locus := 0; locus < chrom.Len(); locus++ {
		if e.ops.Mutate(e.rnd, locus, chrom) {
			e.counts.NMutation++
		}
	}
}

// Run executes the configured number of generations. After every step the
// new generation is evaluated, handed to obs and promoted to current.
// Observer errors end the run and are returned to the caller.
func (e *Engine) Run(ctx context.Context, obs Observer) error {
	if obs == nil {
		obs = NopObserver{}
	}

	slog.Info("Starting SGA run",
		"popsize", e.cfg.PopSize,
		"lchrom", e.cfg.ChromLength,
		"maxgen", e.cfg.MaxGen,
		"pcross", e.cfg.PCross,
		"pmutation", e.cfg.PMutation,
	)

	if err := obs.Initial(e.Snapshot()); err != nil {
		return fmt.Errorf("failed to report initial population: %w", err)
	}

	for e.gen < e.cfg.MaxGen {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := e.RunGeneration(obs); err != nil {
			return err
		}
		if e.converged {
			break
		}
	}

	if e.convergence != nil {
		slog.Debug("Convergence tracker state",
			"best_max", e.convergence.Best(),
			"stale_generations", e.convergence.StaleCount(),
			"converged", e.converged,
		)
	}
	slog.Info("SGA run complete",
		"generations", e.gen,
		"max", e.stats.Max,
		"avg", e.stats.Avg,
		"nmutation", e.totals.NMutation,
		"ncross", e.totals.NCross,
	)
	return nil
}

// RunGeneration performs one step, evaluates the new generation, reports it
// and promotes it.
func (e *Engine) RunGeneration(obs Observer) error {
	if obs == nil {
		obs = NopObserver{}
	}
	if err := e.Step(); err != nil {
		return fmt.Errorf("generation %d: %w", e.gen, err)
	}

	stats, err := ComputeStatistics(e.pop.Next, e.ops.Evaluate)
	if err != nil {
		return fmt.Errorf("generation %d: %w", e.gen, err)
	}
	e.stats = stats

	slog.Debug("Generation complete",
		"gen", e.gen,
		"max", stats.Max,
		"min", stats.Min,
		"avg", stats.Avg,
		"nmutation", e.counts.NMutation,
		"ncross", e.counts.NCross,
	)

	if err := obs.Generation(e.snapshot(false)); err != nil {
		return fmt.Errorf("failed to report generation %d: %w", e.gen, err)
	}

	e.pop.Promote()
	e.gen++

	if e.convergence != nil && e.convergence.Update(stats.Max) {
		e.converged = true
	}
	return nil
}

// Snapshot returns a copy of the current state. Before any generation has
// run it describes the initial population.
func (e *Engine) Snapshot() Snapshot {
	return e.snapshot(e.gen == 0)
}

func (e *Engine) snapshot(initial bool) Snapshot {
	snap := Snapshot{
		Initial: initial,
		Config:  e.cfg,
		Stats:   e.stats,
		Totals:  e.totals,
		Current: e.pop.CloneCurrent(),
	}
	if initial {
		return snap
	}
	snap.Gen = e.gen
	snap.Counts = e.counts
	if !e.pop.Filled() {
		// Already promoted; the newest generation is Current.
		snap.Gen = e.gen - 1
		return snap
	}
	snap.Next = e.pop.CloneNext()
	return snap
}

// Config returns the run parameters.
func (e *Engine) Config() Config {
	return e.cfg
}

// Stats returns the statistics of the newest generation.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Counts returns the operator counts of the last generation step.
func (e *Engine) Counts() Counters {
	return e.counts
}

// Totals returns the operator counts accumulated over the run.
func (e *Engine) Totals() Counters {
	return e.totals
}

// Gen returns the number of completed generations.
func (e *Engine) Gen() int {
	return e.gen
}

// Converged reports whether the convergence tracker stopped the run early.
func (e *Engine) Converged() bool {
	return e.converged
}

// StaleGenerations returns the number of consecutive generations without a
// significant improvement of the maximum fitness, 0 when convergence
// detection is off.
func (e *Engine) StaleGenerations() int {
	if e.convergence == nil {
		return 0
	}
	return e.convergence.StaleCount()
}

// Population exposes both buffers. Callers must not modify it while a run
// is in progress.
func (e *Engine) Population() *Population {
	return e.pop
}

// Best returns a copy of the fittest member of the current generation.
func (e *Engine) Best() Individual {
	best := 0
	for i := range e.pop.Current {
		if e.pop.Current[i].Fitness > e.pop.Current[best].Fitness {
			best = i
		}
	}
	return e.pop.Current[best].Clone()
}
