package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/sgafit/internal/store"
	"github.com/spf13/cobra"
)

var (
	storeKind     string
	dataDir       string
	keepLast      int
	olderThanDays int
	forceClean    bool
	showTrace     bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored runs",
	Long: `Manage runs saved with "run --save" or by the server, including listing,
inspecting and cleaning old runs.`,
}

var listRunsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored runs",
	Long:  `Display all stored runs with run ID, timestamp, generations, fitness and size on disk.`,
	RunE:  runListRuns,
}

var showRunCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowRun,
}

var cleanRunsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean old runs",
	Long: `Delete stored runs based on retention policy.
You can keep the newest N runs or delete runs older than N days.`,
	RunE: runCleanRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.AddCommand(listRunsCmd)
	runsCmd.AddCommand(showRunCmd)
	runsCmd.AddCommand(cleanRunsCmd)

	addStoreFlags(runsCmd)

	showRunCmd.Flags().BoolVar(&showTrace, "trace", false, "Print the per-generation trace when available")

	cleanRunsCmd.Flags().IntVar(&keepLast, "keep-last", 0, "Keep only the newest N runs (0 = keep all)")
	cleanRunsCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete runs older than N days (0 = no age limit)")
	cleanRunsCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

// addStoreFlags registers the run store selection on cmd and its children.
func addStoreFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&storeKind, "store", store.BackendFS, "Run store backend (fs, sqlite)")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "Base directory for stored runs")
}

func openStore() (store.Store, error) {
	s, err := store.NewStore(storeKind, dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store: %w", err)
	}
	return s, nil
}

func runListRuns(cmd *cobra.Command, args []string) error {
	runStore, err := openStore()
	if err != nil {
		return err
	}
	defer store.CloseIfSupported(runStore)

	infos, err := runStore.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No runs found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tTIMESTAMP\tOBJECTIVE\tPOP\tLCHROM\tGENS\tMAX\tAVG\tSIZE")
	fmt.Fprintln(w, "------\t---------\t---------\t---\t------\t----\t---\t---\t----")

	for _, info := range infos {
		sizeStr := "unknown"
		if size, err := getDirSize(store.RunDir(dataDir, info.RunID)); err == nil {
			sizeStr = formatBytes(size)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.3f\t%.3f\t%s\n",
			shortID(info.RunID),
			info.Timestamp.Format("2006-01-02 15:04:05"),
			info.Objective,
			info.PopSize,
			info.ChromLength,
			info.Generations,
			info.MaxFitness,
			info.AvgFitness,
			sizeStr,
		)
	}

	w.Flush()

	fmt.Fprintf(out, "\nTotal runs: %d\n", len(infos))
	return nil
}

func runShowRun(cmd *cobra.Command, args []string) error {
	runStore, err := openStore()
	if err != nil {
		return err
	}
	defer store.CloseIfSupported(runStore)

	record, err := runStore.LoadRun(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printRunRecord(out, record)

	if !showTrace {
		return nil
	}
	entries, err := readTrace(dataDir, record.RunID)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintln(out, "\nNo trace recorded for this run.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GEN\tMAX\tAVG\tMIN\tNCROSS\tNMUTATION\tBEST")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%d\t%d\t%s\n",
			e.Gen, e.Stats.Max, e.Stats.Avg, e.Stats.Min,
			e.Counts.NCross, e.Counts.NMutation, e.Best)
	}
	return w.Flush()
}

func printRunRecord(out io.Writer, r *store.RunRecord) {
	c := r.Config
	fmt.Fprintf(out, "Run: %s\n", r.RunID)
	fmt.Fprintf(out, "Saved: %s\n", r.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "  Population: %d\n", c.PopSize)
	fmt.Fprintf(out, "  Chromosome length: %d\n", c.ChromLength)
	fmt.Fprintf(out, "  Max generations: %d\n", c.MaxGen)
	fmt.Fprintf(out, "  Crossover: %s (p=%.3f)\n", c.Crossover, c.PCross)
	fmt.Fprintf(out, "  Mutation: p=%.3f\n", c.PMutation)
	fmt.Fprintf(out, "  Objective: %s\n", c.Objective)
	fmt.Fprintf(out, "  Seed: %d\n", c.Seed)
	if c.Patience > 0 {
		fmt.Fprintf(out, "  Patience: %d\n", c.Patience)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Result:")
	fmt.Fprintf(out, "  Generations: %d", r.Generations)
	if r.Converged {
		fmt.Fprintf(out, " (converged after %d stale generations)", r.StaleGenerations)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Max fitness: %.6f -> %.6f\n", r.Initial.Max, r.Final.Max)
	fmt.Fprintf(out, "  Avg fitness: %.6f -> %.6f\n", r.Initial.Avg, r.Final.Avg)
	fmt.Fprintf(out, "  Best: %s (x=%.0f, fitness=%.6f)\n", r.Best.Chrom, r.Best.X, r.Best.Fitness)
	fmt.Fprintf(out, "  Crossovers: %d, mutations: %d\n", r.Totals.NCross, r.Totals.NMutation)
}

func readTrace(baseDir, runID string) ([]store.TraceEntry, error) {
	reader, err := store.NewTraceReader(baseDir, runID)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return reader.ReadAll()
}

func runCleanRuns(cmd *cobra.Command, args []string) error {
	if keepLast == 0 && olderThanDays == 0 {
		return fmt.Errorf("must specify either --keep-last or --older-than")
	}

	runStore, err := openStore()
	if err != nil {
		return err
	}
	defer store.CloseIfSupported(runStore)

	infos, err := runStore.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		fmt.Fprintln(out, "No runs to clean.")
		return nil
	}

	toDelete := selectRunsForDeletion(infos, keepLast, olderThanDays, time.Now())
	if len(toDelete) == 0 {
		fmt.Fprintln(out, "No runs match deletion criteria.")
		return nil
	}

	fmt.Fprintf(out, "Found %d run(s) to delete:\n", len(toDelete))
	for _, info := range toDelete {
		fmt.Fprintf(out, "  - %s (%d generations, %s)\n",
			shortID(info.RunID),
			info.Generations,
			info.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}

	if !forceClean && !confirm(cmd.InOrStdin(), out, "\nProceed with deletion? [y/N]: ") {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	deleted := 0
	failed := 0
	for _, info := range toDelete {
		if err := deleteRun(runStore, info.RunID); err != nil {
			slog.Error("Failed to delete run", "run_id", info.RunID, "error", err)
			failed++
		} else {
			slog.Info("Deleted run", "run_id", info.RunID)
			deleted++
		}
	}

	fmt.Fprintf(out, "\nDeleted %d run(s), %d failed.\n", deleted, failed)
	return nil
}

// deleteRun removes the record and, for backends that keep the record
// outside the run directory, the trace left next to it.
func deleteRun(runStore store.Store, runID string) error {
	if err := runStore.DeleteRun(runID); err != nil {
		return err
	}
	if _, ok := runStore.(*store.FSStore); ok {
		return nil
	}
	if err := store.DeleteTrace(dataDir, runID); err != nil {
		return err
	}
	os.Remove(store.RunDir(dataDir, runID))
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.TrimSpace(response)
	return response == "y" || response == "Y"
}

// selectRunsForDeletion returns the runs older than olderThanDays plus the
// runs beyond the newest keepLast, each at most once.
func selectRunsForDeletion(infos []store.RunInfo, keepLast, olderThanDays int, now time.Time) []store.RunInfo {
	var toDelete []store.RunInfo
	selected := make(map[string]bool)

	if olderThanDays > 0 {
		cutoff := now.AddDate(0, 0, -olderThanDays)
		for _, info := range infos {
			if info.Timestamp.Before(cutoff) {
				toDelete = append(toDelete, info)
				selected[info.RunID] = true
			}
		}
	}

	if keepLast > 0 && len(infos) > keepLast {
		sorted := make([]store.RunInfo, len(infos))
		copy(sorted, infos)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		})

		for _, info := range sorted[:len(sorted)-keepLast] {
			if !selected[info.RunID] {
				toDelete = append(toDelete, info)
				selected[info.RunID] = true
			}
		}
	}

	return toDelete
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}

// getDirSize calculates the total size of a directory
func getDirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}

// formatBytes formats bytes as human-readable string
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
