package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// Both backends must satisfy the same contract.
func openBackends(t *testing.T) map[string]Store {
	t.Helper()

	backends := map[string]Store{}
	for _, kind := range []string{BackendFS, BackendSQLite} {
		s, err := NewStore(kind, filepath.Join(t.TempDir(), kind))
		if err != nil {
			t.Fatalf("NewStore(%q) failed: %v", kind, err)
		}
		t.Cleanup(func() {
			if err := CloseIfSupported(s); err != nil {
				t.Errorf("close %s store: %v", kind, err)
			}
		})
		backends[kind] = s
	}
	return backends
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	for kind, s := range openBackends(t) {
		t.Run(kind, func(t *testing.T) {
			want := createTestRecord("run-rt")
			if err := s.SaveRun(want.RunID, want); err != nil {
				t.Fatalf("SaveRun failed: %v", err)
			}

			got, err := s.LoadRun(want.RunID)
			if err != nil {
				t.Fatalf("LoadRun failed: %v", err)
			}
			if got.RunID != want.RunID || got.Generations != want.Generations {
				t.Errorf("Loaded %+v, want %+v", got, want)
			}
			if got.Config != want.Config {
				t.Errorf("Config = %+v, want %+v", got.Config, want.Config)
			}
			if got.Final != want.Final || got.Totals != want.Totals {
				t.Errorf("Final/Totals mismatch: %+v / %+v", got.Final, got.Totals)
			}
			if got.Best.Chrom.String() != want.Best.Chrom.String() {
				t.Errorf("Best chrom = %s, want %s", got.Best.Chrom, want.Best.Chrom)
			}
			if !got.Timestamp.Equal(want.Timestamp) {
				t.Errorf("Timestamp = %v, want %v", got.Timestamp, want.Timestamp)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Loaded record invalid: %v", err)
			}
		})
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	for kind, s := range openBackends(t) {
		t.Run(kind, func(t *testing.T) {
			rec := createTestRecord("run-ow")
			if err := s.SaveRun(rec.RunID, rec); err != nil {
				t.Fatalf("SaveRun failed: %v", err)
			}
			rec.Generations = 5
			if err := s.SaveRun(rec.RunID, rec); err != nil {
				t.Fatalf("second SaveRun failed: %v", err)
			}

			got, err := s.LoadRun(rec.RunID)
			if err != nil {
				t.Fatalf("LoadRun failed: %v", err)
			}
			if got.Generations != 5 {
				t.Errorf("Generations = %d, want 5", got.Generations)
			}

			infos, err := s.ListRuns()
			if err != nil {
				t.Fatalf("ListRuns failed: %v", err)
			}
			if len(infos) != 1 {
				t.Errorf("ListRuns returned %d runs, want 1", len(infos))
			}
		})
	}
}

func TestStore_NotFound(t *testing.T) {
	for kind, s := range openBackends(t) {
		t.Run(kind, func(t *testing.T) {
			_, err := s.LoadRun("missing")
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("LoadRun error = %v, want ErrNotFound", err)
			}
			var nf *NotFoundError
			if !errors.As(err, &nf) || nf.RunID != "missing" {
				t.Errorf("Expected NotFoundError for 'missing', got %v", err)
			}

			if err := s.DeleteRun("missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("DeleteRun error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	for kind, s := range openBackends(t) {
		t.Run(kind, func(t *testing.T) {
			infos, err := s.ListRuns()
			if err != nil {
				t.Fatalf("ListRuns on empty store failed: %v", err)
			}
			if len(infos) != 0 {
				t.Fatalf("Expected empty list, got %d", len(infos))
			}

			base := time.Now()
			for i, id := range []string{"old", "new", "mid"} {
				rec := createTestRecord(id)
				rec.Timestamp = base.Add(time.Duration([]int{0, 2, 1}[i]) * time.Hour)
				if err := s.SaveRun(id, rec); err != nil {
					t.Fatalf("SaveRun(%s) failed: %v", id, err)
				}
			}

			infos, err = s.ListRuns()
			if err != nil {
				t.Fatalf("ListRuns failed: %v", err)
			}
			var order []string
			for _, info := range infos {
				order = append(order, info.RunID)
			}
			if len(order) != 3 || order[0] != "new" || order[1] != "mid" || order[2] != "old" {
				t.Errorf("ListRuns order = %v, want [new mid old]", order)
			}
			if infos[0].Objective != "power" || infos[0].PopSize != 30 {
				t.Errorf("Info metadata not populated: %+v", infos[0])
			}
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for kind, s := range openBackends(t) {
		t.Run(kind, func(t *testing.T) {
			if err := s.SaveRun("gone", createTestRecord("gone")); err != nil {
				t.Fatalf("SaveRun failed: %v", err)
			}
			if err := s.DeleteRun("gone"); err != nil {
				t.Fatalf("DeleteRun failed: %v", err)
			}
			if _, err := s.LoadRun("gone"); !errors.Is(err, ErrNotFound) {
				t.Errorf("LoadRun after delete = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_RejectsEmptyInput(t *testing.T) {
	for kind, s := range openBackends(t) {
		t.Run(kind, func(t *testing.T) {
			if err := s.SaveRun("", createTestRecord("x")); err == nil {
				t.Error("Expected error for empty runID")
			}
			if err := s.SaveRun("x", nil); err == nil {
				t.Error("Expected error for nil record")
			}
			if _, err := s.LoadRun(""); err == nil {
				t.Error("Expected error for empty runID on load")
			}
		})
	}
}

func TestNewStore_UnknownBackend(t *testing.T) {
	if _, err := NewStore("redis", t.TempDir()); err == nil {
		t.Fatal("Expected error for unknown backend")
	}
}

func TestNewRunID_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewRunID()
		if id == "" || seen[id] {
			t.Fatalf("NewRunID returned duplicate or empty id %q", id)
		}
		seen[id] = true
	}
}

func TestNotFoundError_Message(t *testing.T) {
	if got := (&NotFoundError{RunID: "abc"}).Error(); got != "run not found: abc" {
		t.Errorf("Error() = %q", got)
	}
	if got := ErrNotFound.Error(); got != "run not found" {
		t.Errorf("Error() = %q", got)
	}
}
