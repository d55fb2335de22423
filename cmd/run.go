package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/cwbudde/sgafit/internal/ops"
	"github.com/cwbudde/sgafit/internal/report"
	"github.com/cwbudde/sgafit/internal/sga"
	"github.com/cwbudde/sgafit/internal/store"
	"github.com/spf13/cobra"
)

var (
	popSize     int
	chromLength int
	maxGen      int
	pCross      float64
	pMutation   float64
	seed        int64
	objective   string
	crossover   string
	outDir      string
	silent      bool
	verbose     bool
	interactive bool
	patience    int
	saveRun     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simple genetic algorithm",
	Long: `Runs the SGA for the configured number of generations and writes
fitnessReport.txt and objectiveFunctionReport.txt to the output directory.
With --save the run record and a JSONL generation trace are kept in the
run store for later replay.`,
	RunE: runSGA,
}

func init() {
	runCmd.Flags().IntVar(&popSize, "pop", 30, "Population size (even)")
	runCmd.Flags().IntVar(&chromLength, "lchrom", 10, "Chromosome length")
	runCmd.Flags().IntVar(&maxGen, "maxgen", 20, "Number of generations")
	runCmd.Flags().Float64Var(&pCross, "pcross", 0.6, "Crossover probability")
	runCmd.Flags().Float64Var(&pMutation, "pmutation", 0.033, "Mutation probability")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	runCmd.Flags().StringVar(&objective, "objective", "power", "Objective function: power, square, identity")
	runCmd.Flags().StringVar(&crossover, "crossover", "single", "Crossover operator: single, two, copy")
	runCmd.Flags().StringVar(&outDir, "out", ".", "Directory for the result logs")
	runCmd.Flags().BoolVar(&silent, "silent", false, "Suppress the console report")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "Print the full population every generation (overrides --silent)")
	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for the run parameters")
	runCmd.Flags().IntVar(&patience, "patience", 0, "Stop after N generations without improvement (0 = run all generations)")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "Save the run record and trace to the run store")
	addStoreFlags(runCmd)

	rootCmd.AddCommand(runCmd)
}

func runSGA(cmd *cobra.Command, args []string) error {
	cfg := store.RunConfig{
		PopSize:     popSize,
		ChromLength: chromLength,
		MaxGen:      maxGen,
		PCross:      pCross,
		PMutation:   pMutation,
		Seed:        seed,
		Objective:   objective,
		Crossover:   crossover,
		Patience:    patience,
	}
	if interactive {
		if err := promptConfig(cmd.InOrStdin(), cmd.OutOrStdout(), &cfg); err != nil {
			return err
		}
	}

	opts := runOptions{
		OutDir:  outDir,
		Console: cmd.OutOrStdout(),
		Silent:  silent,
		Verbose: verbose,
	}

	var runStore store.Store
	if saveRun {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer store.CloseIfSupported(s)
		runStore = s
		opts.RunID = store.NewRunID()
		opts.TraceDir = dataDir
	}

	outcome, err := executeRun(cmd.Context(), cfg, opts)
	if err != nil {
		return err
	}

	stats := outcome.Engine.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s and %s to %s (max %.3f, avg %.3f after %d generations)\n",
		report.FitnessLogName, report.PhenotypeLogName, outcome.LogDir, stats.Max, stats.Avg, outcome.Engine.Gen())

	if runStore != nil {
		record := store.NewRunRecord(opts.RunID, cfg, outcome.Initial, outcome.Engine)
		if err := runStore.SaveRun(opts.RunID, record); err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved run %s\n", opts.RunID)
	}
	return nil
}

// runOptions selects the observers attached to a run.
type runOptions struct {
	OutDir  string    // result logs; empty skips them
	Console io.Writer // console report; nil skips it
	Silent  bool
	Verbose bool

	// A JSONL trace is written when both are set.
	TraceDir string
	RunID    string
}

type runOutcome struct {
	Engine  *sga.Engine
	Initial sga.Stats
	LogDir  string // where the result logs went, empty if none
}

// executeRun builds the engine for cfg and runs it to completion with the
// observers selected by o.
func executeRun(ctx context.Context, cfg store.RunConfig, o runOptions) (*runOutcome, error) {
	engine, err := ops.NewEngine(cfg.EngineConfig(), cfg.Crossover, cfg.Objective, cfg.Patience)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	var (
		observers []sga.Observer
		closers   []io.Closer
		logDir    string
	)
	closeAll := func() error {
		var first error
		for _, c := range closers {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
		closers = nil
		return first
	}
	defer closeAll()

	if o.Console != nil {
		observers = append(observers, report.NewConsole(o.Console, o.Silent, o.Verbose, version))
	}
	if o.OutDir != "" {
		results, err := report.NewResultLog(o.OutDir)
		if err != nil {
			return nil, err
		}
		observers = append(observers, results)
		closers = append(closers, results)
		logDir = results.Dir()
	}
	if o.TraceDir != "" && o.RunID != "" {
		trace, err := store.NewTraceWriter(o.TraceDir, o.RunID, false)
		if err != nil {
			return nil, err
		}
		trace.IncludeBest = true
		observers = append(observers, trace)
		closers = append(closers, trace)
	}

	initial := engine.Stats()
	if err := engine.Run(ctx, report.Multi(observers...)); err != nil {
		return nil, err
	}
	if err := closeAll(); err != nil {
		return nil, fmt.Errorf("failed to close run output: %w", err)
	}

	slog.Debug("Run finished", "run_id", o.RunID, "generations", engine.Gen(), "converged", engine.Converged())
	return &runOutcome{Engine: engine, Initial: initial, LogDir: logDir}, nil
}
