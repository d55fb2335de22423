package store

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/cwbudde/sgafit/internal/ops"
	"github.com/cwbudde/sgafit/internal/sga"
)

func TestTraceWriter_WriteAndRead(t *testing.T) {
	dir := t.TempDir()

	tw, err := NewTraceWriter(dir, "trace-run", false)
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		entry := TraceEntry{
			Gen:       i,
			Stats:     sga.Stats{Max: float64(i) * 0.1},
			Counts:    sga.Counters{NMutation: i, NCross: 2 * i},
			Timestamp: time.Now(),
		}
		if err := tw.Write(entry); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	tr, err := NewTraceReader(dir, "trace-run")
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer tr.Close()

	entries, err := tr.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Gen != i || e.Counts.NCross != 2*i {
			t.Errorf("entry %d = %+v", i, e)
		}
	}
}

func TestTraceWriter_Append(t *testing.T) {
	dir := t.TempDir()

	for round := 0; round < 2; round++ {
		tw, err := NewTraceWriter(dir, "app", round > 0)
		if err != nil {
			t.Fatalf("NewTraceWriter failed: %v", err)
		}
		if err := tw.Write(TraceEntry{Gen: round}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := tw.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}

	tr, err := NewTraceReader(dir, "app")
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer tr.Close()
	entries, err := tr.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected 2 entries after append, got %d", len(entries))
	}
}

func TestTraceWriter_ObservesRun(t *testing.T) {
	dir := t.TempDir()
	cfg := sga.Config{PopSize: 6, ChromLength: 8, MaxGen: 4, PCross: 0.6, PMutation: 0.033, Seed: 3}

	operators, err := ops.NewBinary(cfg, "single", "square")
	if err != nil {
		t.Fatalf("NewBinary failed: %v", err)
	}
	engine, err := sga.NewEngine(cfg, operators, sga.NewRandom(cfg.Seed))
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	tw, err := NewTraceWriter(dir, "observed", false)
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}
	tw.IncludeBest = true
	if err := engine.Run(context.Background(), tw); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	tr, err := NewTraceReader(dir, "observed")
	if err != nil {
		t.Fatalf("NewTraceReader failed: %v", err)
	}
	defer tr.Close()
	entries, err := tr.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	if len(entries) != cfg.MaxGen+1 {
		t.Fatalf("Expected %d entries, got %d", cfg.MaxGen+1, len(entries))
	}
	for i, e := range entries {
		if e.Gen != i {
			t.Errorf("entry %d labelled %d", i, e.Gen)
		}
		if e.Best.Len() != cfg.ChromLength {
			t.Errorf("entry %d best has %d alleles", i, e.Best.Len())
		}
	}
	if entries[0].Counts != (sga.Counters{}) {
		t.Errorf("initial entry has counts %+v", entries[0].Counts)
	}
	last := entries[len(entries)-1]
	if last.Stats != engine.Stats() {
		t.Errorf("last entry stats %+v, engine %+v", last.Stats, engine.Stats())
	}
}

func TestTraceReader_NotFound(t *testing.T) {
	_, err := NewTraceReader(t.TempDir(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("NewTraceReader error = %v, want ErrNotFound", err)
	}
}

func TestTraceReader_CorruptLine(t *testing.T) {
	dir := t.TempDir()
	tw, err := NewTraceWriter(dir, "bad", false)
	if err != nil {
		t.Fatal(err)
	}
	tw.Close()
	if err := os.WriteFile(tw.Path(), []byte("{\"gen\":0}\nnot json\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tr, err := NewTraceReader(dir, "bad")
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	if _, err := tr.Read(); err != nil {
		t.Fatalf("first Read failed: %v", err)
	}
	if _, err := tr.Read(); err == nil || err == io.EOF {
		t.Fatalf("Expected decode error, got %v", err)
	}
}

func TestDeleteTrace(t *testing.T) {
	dir := t.TempDir()
	tw, err := NewTraceWriter(dir, "del", false)
	if err != nil {
		t.Fatal(err)
	}
	tw.Close()

	if err := DeleteTrace(dir, "del"); err != nil {
		t.Fatalf("DeleteTrace failed: %v", err)
	}
	if _, err := os.Stat(tw.Path()); !os.IsNotExist(err) {
		t.Error("Trace file still exists")
	}
	if err := DeleteTrace(dir, "del"); err != nil {
		t.Errorf("DeleteTrace on missing file = %v, want nil", err)
	}
}
