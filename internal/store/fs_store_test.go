package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/sgafit/internal/sga"
)

// setupTestStore creates a temporary directory and returns an FSStore for testing.
func setupTestStore(t *testing.T) (*FSStore, string) {
	t.Helper()

	tempDir := t.TempDir()
	store, err := NewFSStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	return store, tempDir
}

func testRunConfig() RunConfig {
	return RunConfig{
		PopSize:     30,
		ChromLength: 10,
		MaxGen:      20,
		PCross:      0.6,
		PMutation:   0.033,
		Seed:        42,
		Objective:   "power",
		Crossover:   "single",
	}
}

// createTestRecord creates a run record with test data.
func createTestRecord(runID string) *RunRecord {
	return &RunRecord{
		RunID:  runID,
		Config: testRunConfig(),
		Initial: sga.Stats{
			SumFitness: 3.2, Max: 0.7, Min: 0.0001, Avg: 0.106,
		},
		Final: sga.Stats{
			SumFitness: 21.5, Max: 0.98, Min: 0.31, Avg: 0.716,
		},
		Best: sga.Individual{
			Chrom:   sga.Chromosome{1, 1, 1, 1, 1, 1, 1, 1, 0, 1},
			X:       1021,
			Fitness: 0.98,
			MaxLen:  10,
		},
		Generations: 20,
		Totals:      sga.Counters{NMutation: 193, NCross: 181},
		Timestamp:   time.Now(),
	}
}

func TestNewFSStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewFSStore(dir)
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	if store.BaseDir() != dir {
		t.Errorf("BaseDir = %q, want %q", store.BaseDir(), dir)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("Base directory was not created: %v", err)
	}
}

func TestFSStore_SaveWritesRunFile(t *testing.T) {
	store, dir := setupTestStore(t)

	if err := store.SaveRun("run-1", createTestRecord("run-1")); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	path := filepath.Join(dir, "runs", "run-1", "run.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("run.json not written: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp file left behind after save")
	}
}

func TestFSStore_DeleteRemovesTrace(t *testing.T) {
	store, dir := setupTestStore(t)

	if err := store.SaveRun("run-1", createTestRecord("run-1")); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	tw, err := NewTraceWriter(dir, "run-1", false)
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := store.DeleteRun("run-1"); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	if _, err := os.Stat(RunDir(dir, "run-1")); !os.IsNotExist(err) {
		t.Error("Run directory still exists after delete")
	}
}

func TestFSStore_ListSkipsCorruptAndTraceOnly(t *testing.T) {
	store, dir := setupTestStore(t)

	if err := store.SaveRun("good", createTestRecord("good")); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	corrupt := RunDir(dir, "corrupt")
	if err := os.MkdirAll(corrupt, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(corrupt, "run.json"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(RunDir(dir, "trace-only"), 0755); err != nil {
		t.Fatal(err)
	}

	infos, err := store.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(infos) != 1 || infos[0].RunID != "good" {
		t.Fatalf("ListRuns = %+v, want only the good run", infos)
	}
}

func TestFSStore_LoadCorruptRecord(t *testing.T) {
	store, dir := setupTestStore(t)

	runDir := RunDir(dir, "bad")
	if err := os.MkdirAll(runDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "run.json"), []byte("[]x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := store.LoadRun("bad")
	if err == nil {
		t.Fatal("Expected error for corrupt record")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("Corrupt record should not be reported as not found")
	}
}
