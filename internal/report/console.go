// Package report formats SGA snapshots for humans and appends them to the
// per-run result logs.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/cwbudde/sgafit/internal/sga"
)

var rule = strings.Repeat("-", 132)

// Console prints the parameter banner, per-generation summaries and, in
// verbose mode, a side-by-side dump of the outgoing and incoming
// populations.
type Console struct {
	w       io.Writer
	silent  bool
	verbose bool
	version string
}

// NewConsole creates a console reporter. Silent suppresses output unless
// verbose is also set.
func NewConsole(w io.Writer, silent, verbose bool, version string) *Console {
	return &Console{w: w, silent: silent, verbose: verbose, version: version}
}

func (c *Console) enabled() bool {
	return !c.silent || c.verbose
}

// Initial prints the run parameters and the statistics of the seeded
// population.
func (c *Console) Initial(snap sga.Snapshot) error {
	if !c.enabled() {
		return nil
	}
	cfg, s := snap.Config, snap.Stats

	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "      A Simple Genetic Algorithm in Go - SGAFit - v %s\n", c.version)
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "     SGA Parameters")
	fmt.Fprintln(&b, "     --------------")
	fmt.Fprintf(&b, "  Population Size (popsize)          : %d\n", cfg.PopSize)
	fmt.Fprintf(&b, "  Chromosome length (lchrom)         : %d\n", cfg.ChromLength)
	fmt.Fprintf(&b, "  Max # of generations (maxgen)      : %d\n", cfg.MaxGen)
	fmt.Fprintf(&b, "  Crossover probability (pcross)     : %.3f\n", cfg.PCross)
	fmt.Fprintf(&b, "  Mutation probability (pmutation)   : %.3f\n", cfg.PMutation)
	fmt.Fprintf(&b, "  Random seed (seed)                 : %d\n", cfg.Seed)
	fmt.Fprintln(&b, "     Initial Generation Statistics")
	fmt.Fprintln(&b, "     --------------")
	fmt.Fprintf(&b, "  Initial Population maximum fitness : %.3f\n", s.Max)
	fmt.Fprintf(&b, "  Initial Population average fitness : %.3f\n", s.Avg)
	fmt.Fprintf(&b, "  Initial Population minimum fitness : %.3f\n", s.Min)
	fmt.Fprintf(&b, "  Initial Population sum of fitness  : %.3f\n", s.SumFitness)
	fmt.Fprintf(&b, "  Initial Population maximum x       : %.3f\n", s.MaxX)
	fmt.Fprintf(&b, "  Initial Population average x       : %.3f\n", s.AvgX)
	fmt.Fprintf(&b, "  Initial Population minimum x       : %.3f\n", s.MinX)
	fmt.Fprintf(&b, "  Initial Population sum of x        : %.3f\n", s.SumX)
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(c.w, b.String())
	return err
}

// Generation prints the summary lines for one generation.
func (c *Console) Generation(snap sga.Snapshot) error {
	if !c.enabled() {
		return nil
	}

	var b strings.Builder
	if c.verbose {
		writePopulationReport(&b, snap)
	}
	s, n := snap.Stats, snap.Counts
	fmt.Fprintf(&b, " Generation %d & Accumulation Statistics:\t max:%.3f\t min:%.3f\tsumfitness:%.15f\tavg:%.3f\tnmutation:%d\tncross:%d\n",
		snap.Gen, s.Max, s.Min, s.SumFitness, s.Avg, n.NMutation, n.NCross)
	fmt.Fprintf(&b, " Generation %d & Accumulation Statistics:\t max:%.2f\t min:%.2f\tsumx:%.2f\tavg:%.2f\tnmutation:%d\tncross:%d\n",
		snap.Gen, s.MaxX, s.MinX, s.SumX, s.AvgX, n.NMutation, n.NCross)
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(c.w, b.String())
	return err
}

func writePopulationReport(b *strings.Builder, snap sga.Snapshot) {
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, " Population Report")
	fmt.Fprintf(b, " Generation %d\t\t\t\t\t\t\tGeneration %d\n", snap.Gen, snap.Gen+1)
	fmt.Fprintln(b, rule)
	fmt.Fprintln(b, "#\tstring\tx\tfitness\t|\t#\tparents\txsite\tstring\tx\tfitness")

	for i := 0; i < len(snap.Current) || i < len(snap.Next); i++ {
		if i < len(snap.Current) {
			old := snap.Current[i]
			fmt.Fprintf(b, "%d)\t%s\t%g\t%.15f\t|", i, old.Chrom, old.X, old.Fitness)
		} else {
			fmt.Fprint(b, "\t\t\t\t|")
		}
		if i < len(snap.Next) {
			nw := snap.Next[i]
			fmt.Fprintf(b, "\t%d)\t(%d,%d)\t%s\t%s\t%g\t%.15f",
				i, nw.Parent1, nw.Parent2, nw.XSite, nw.Chrom, nw.X, nw.Fitness)
		}
		fmt.Fprintln(b)
	}
	fmt.Fprintln(b, rule)
}
