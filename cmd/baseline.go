package main

import (
	"fmt"

	"github.com/cwbudde/sgafit/internal/ops"
	"github.com/cwbudde/sgafit/internal/opt"
	"github.com/cwbudde/sgafit/internal/store"
	"github.com/spf13/cobra"
)

var (
	baselineLChrom    int
	baselineObjective string
	baselineIters     int
	baselinePop       int
	baselineSeed      int64
	baselineRun       string
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Compute a reference optimum with the Mayfly optimizer",
	Long: `Searches the phenotype interval [0, 2^lchrom - 1] of an objective with the
Mayfly metaheuristic and reports the continuous and integer optimum. With
--run the objective and chromosome length are taken from a stored run and
its final maximum fitness is compared against the baseline.`,
	RunE: runBaseline,
}

func init() {
	baselineCmd.Flags().IntVar(&baselineLChrom, "lchrom", 10, "Chromosome length")
	baselineCmd.Flags().StringVar(&baselineObjective, "objective", "power", "Objective function: power, square, identity")
	baselineCmd.Flags().IntVar(&baselineIters, "iters", 200, "Mayfly iterations")
	baselineCmd.Flags().IntVar(&baselinePop, "pop", opt.MinPopSize, "Mayfly population size")
	baselineCmd.Flags().Int64Var(&baselineSeed, "seed", 42, "Random seed")
	baselineCmd.Flags().StringVar(&baselineRun, "run", "", "Compare against a stored run")
	addStoreFlags(baselineCmd)
	rootCmd.AddCommand(baselineCmd)
}

func runBaseline(cmd *cobra.Command, args []string) error {
	length, objName := baselineLChrom, baselineObjective

	var record *store.RunRecord
	if baselineRun != "" {
		runStore, err := openStore()
		if err != nil {
			return err
		}
		defer store.CloseIfSupported(runStore)

		record, err = runStore.LoadRun(baselineRun)
		if err != nil {
			return err
		}
		length, objName = record.Config.ChromLength, record.Config.Objective
	}

	if err := ops.CheckLength(length); err != nil {
		return err
	}
	obj, err := ops.ObjectiveByName(objName, length)
	if err != nil {
		return err
	}

	upper := ops.MaxPhenotype(length)
	b, err := opt.FindBaseline(opt.NewMayfly(baselineIters, baselinePop, baselineSeed), obj.Value, upper)
	if err != nil {
		return fmt.Errorf("failed to compute baseline: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Objective %s over [0, %.0f]\n", obj.Name(), upper)
	fmt.Fprintf(out, "  Mayfly optimum: x=%.3f fitness=%.6f\n", b.X, b.Fitness)
	fmt.Fprintf(out, "  Best integer:   x=%.0f fitness=%.6f\n", b.IntX, b.IntFitness)

	if record != nil {
		fmt.Fprintf(out, "  Run %s: max fitness %.6f (gap %.2f%%)\n",
			shortID(record.RunID), record.Final.Max, 100*b.Gap(record.Final.Max))
	}
	return nil
}
