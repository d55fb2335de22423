package main

import (
	"context"
	"fmt"

	"github.com/cwbudde/sgafit/internal/sga"
	"github.com/cwbudde/sgafit/internal/store"
	"github.com/spf13/cobra"
)

var (
	replayOutDir  string
	replayReport  bool
	replayVerbose bool
	replaySeed    int64
)

var replayCmd = &cobra.Command{
	Use:   "replay <run-id>",
	Short: "Re-run a stored run and compare the result",
	Long: `Loads a stored run, executes its configuration again and checks that the
final statistics, operator counts and best chromosome match the record.
With --seed the run is repeated under a different seed and the two results
are compared instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayOutDir, "out", "", "Directory for the result logs (empty = no logs)")
	replayCmd.Flags().BoolVar(&replayReport, "report", false, "Print the console report")
	replayCmd.Flags().BoolVar(&replayVerbose, "verbose", false, "Print the full population every generation")
	replayCmd.Flags().Int64Var(&replaySeed, "seed", 0, "Replay under this seed instead of the stored one")
	addStoreFlags(replayCmd)
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	runStore, err := openStore()
	if err != nil {
		return err
	}
	defer store.CloseIfSupported(runStore)

	record, err := runStore.LoadRun(args[0])
	if err != nil {
		return err
	}

	cfg := record.Config
	reseeded := cmd.Flags().Changed("seed")
	if reseeded {
		cfg.Seed = replaySeed
	}

	out := cmd.OutOrStdout()
	opts := runOptions{
		OutDir:  replayOutDir,
		Console: out,
		Silent:  !replayReport,
		Verbose: replayVerbose,
	}
	engine, diffs, err := replayRecord(cmd.Context(), record, cfg, opts)
	if err != nil {
		return err
	}

	if reseeded {
		fmt.Fprintf(out, "Seed %d: max %.6f avg %.6f after %d generations\n",
			cfg.Seed, engine.Stats().Max, engine.Stats().Avg, engine.Gen())
		fmt.Fprintf(out, "Seed %d: max %.6f avg %.6f after %d generations (stored)\n",
			record.Config.Seed, record.Final.Max, record.Final.Avg, record.Generations)
		return nil
	}

	if len(diffs) > 0 {
		for _, d := range diffs {
			fmt.Fprintf(out, "  %s\n", d)
		}
		return fmt.Errorf("replay of %s diverged from the stored result", record.RunID)
	}
	fmt.Fprintf(out, "Replay of %s matches the stored result (%d generations, max %.6f)\n",
		record.RunID, engine.Gen(), engine.Stats().Max)
	return nil
}

// replayRecord runs cfg, which must be compatible with the record, and lists
// the differences between the outcome and the record.
func replayRecord(ctx context.Context, record *store.RunRecord, cfg store.RunConfig, o runOptions) (*sga.Engine, []string, error) {
	if err := record.IsCompatible(cfg); err != nil {
		return nil, nil, err
	}
	outcome, err := executeRun(ctx, cfg, o)
	if err != nil {
		return nil, nil, err
	}
	return outcome.Engine, compareRecord(record, outcome.Engine), nil
}

func compareRecord(record *store.RunRecord, engine *sga.Engine) []string {
	var diffs []string
	if got := engine.Gen(); got != record.Generations {
		diffs = append(diffs, fmt.Sprintf("generations: stored %d, replayed %d", record.Generations, got))
	}
	if got := engine.Stats(); got != record.Final {
		diffs = append(diffs, fmt.Sprintf("final stats: stored max %.6f avg %.6f, replayed max %.6f avg %.6f",
			record.Final.Max, record.Final.Avg, got.Max, got.Avg))
	}
	if got := engine.Totals(); got != record.Totals {
		diffs = append(diffs, fmt.Sprintf("operator totals: stored %d/%d, replayed %d/%d",
			record.Totals.NCross, record.Totals.NMutation, got.NCross, got.NMutation))
	}
	if got := engine.Best().Chrom.String(); got != record.Best.Chrom.String() {
		diffs = append(diffs, fmt.Sprintf("best chromosome: stored %s, replayed %s", record.Best.Chrom, got))
	}
	return diffs
}
