package report

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/cwbudde/sgafit/internal/sga"
)

const (
	// FitnessLogName holds one fitness row per generation.
	FitnessLogName = "fitnessReport.txt"
	// PhenotypeLogName holds one phenotype row per generation.
	PhenotypeLogName = "objectiveFunctionReport.txt"

	fitnessHeader   = "gen,max,min,sumfitness,avg,nmutation,ncross"
	phenotypeHeader = "gen,maxx,minx,sumx,avgx,nmutation,ncross"
)

// ResultLog writes the two per-run result logs. Row 0 holds the initial
// statistics with blank counts; the row for generation gen is labelled
// gen+1. It is safe for concurrent use.
type ResultLog struct {
	mu        sync.Mutex
	dir       string
	fitness   *os.File
	phenotype *os.File
	fw        *bufio.Writer
	pw        *bufio.Writer
}

// NewResultLog creates (or truncates) both logs in dir. The directory is
// created if it doesn't exist.
func NewResultLog(dir string) (*ResultLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	fitness, err := os.Create(filepath.Join(dir, FitnessLogName))
	if err != nil {
		return nil, fmt.Errorf("failed to create fitness log: %w", err)
	}
	phenotype, err := os.Create(filepath.Join(dir, PhenotypeLogName))
	if err != nil {
		fitness.Close()
		return nil, fmt.Errorf("failed to create phenotype log: %w", err)
	}

	return &ResultLog{
		dir:       dir,
		fitness:   fitness,
		phenotype: phenotype,
		fw:        bufio.NewWriter(fitness),
		pw:        bufio.NewWriter(phenotype),
	}, nil
}

// Initial writes the headers and row 0.
func (l *ResultLog) Initial(snap sga.Snapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := snap.Stats
	if _, err := fmt.Fprintf(l.fw, "%s\n0,%f,%f,%f,%f,,\n", fitnessHeader, s.Max, s.Min, s.SumFitness, s.Avg); err != nil {
		return fmt.Errorf("failed to write fitness log: %w", err)
	}
	if _, err := fmt.Fprintf(l.pw, "%s\n0,%f,%f,%f,%f,,\n", phenotypeHeader, s.MaxX, s.MinX, s.SumX, s.AvgX); err != nil {
		return fmt.Errorf("failed to write phenotype log: %w", err)
	}
	return l.flush()
}

// Generation appends the row for one generation.
func (l *ResultLog) Generation(snap sga.Snapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, n := snap.Stats, snap.Counts
	label := snap.Gen + 1
	if _, err := fmt.Fprintf(l.fw, "%d,%f,%f,%f,%f,%d,%d\n", label, s.Max, s.Min, s.SumFitness, s.Avg, n.NMutation, n.NCross); err != nil {
		return fmt.Errorf("failed to write fitness log: %w", err)
	}
	if _, err := fmt.Fprintf(l.pw, "%d,%f,%f,%f,%f,%d,%d\n", label, s.MaxX, s.MinX, s.SumX, s.AvgX, n.NMutation, n.NCross); err != nil {
		return fmt.Errorf("failed to write phenotype log: %w", err)
	}
	return l.flush()
}

// flush pushes buffered rows to disk so a crashed run keeps every
// completed generation.
func (l *ResultLog) flush() error {
	if err := l.fw.Flush(); err != nil {
		return fmt.Errorf("failed to flush fitness log: %w", err)
	}
	if err := l.pw.Flush(); err != nil {
		return fmt.Errorf("failed to flush phenotype log: %w", err)
	}
	return nil
}

// Dir returns the output directory.
func (l *ResultLog) Dir() string {
	return l.dir
}

// Close flushes and closes both logs.
func (l *ResultLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	flushErr := l.flush()
	ferr := l.fitness.Close()
	perr := l.phenotype.Close()

	switch {
	case flushErr != nil:
		return flushErr
	case ferr != nil:
		return fmt.Errorf("failed to close fitness log: %w", ferr)
	case perr != nil:
		return fmt.Errorf("failed to close phenotype log: %w", perr)
	}

	slog.Debug("Result logs closed", "dir", l.dir)
	return nil
}
