package store

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// Store defines the interface for run record persistence operations.
// Implementations must be thread-safe and handle concurrent access gracefully.
//
// Error handling conventions:
//   - Return nil error on success
//   - Return ErrNotFound if the run doesn't exist (for Load/Delete)
//   - Return descriptive errors for I/O, serialization, or validation failures
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// SaveRun saves the record of a completed run.
	// If a record already exists for this runID, it is overwritten.
	SaveRun(runID string, record *RunRecord) error

	// LoadRun retrieves the record for the given run.
	// Returns ErrNotFound if no record exists for this runID.
	LoadRun(runID string) (*RunRecord, error)

	// ListRuns returns metadata for all stored runs.
	// The returned slice may be empty if no runs exist.
	ListRuns() ([]RunInfo, error)

	// DeleteRun removes the record for the given run.
	// Returns ErrNotFound if no record exists for this runID.
	DeleteRun(runID string) error
}

// Backend names accepted by NewStore.
const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
)

// SQLiteFileName is the database file used by the sqlite backend inside the
// data directory.
const SQLiteFileName = "runs.db"

// NewStore opens the store backend named kind rooted at baseDir.
func NewStore(kind, baseDir string) (Store, error) {
	switch kind {
	case "", BackendFS:
		return NewFSStore(baseDir)
	case BackendSQLite:
		return OpenSQLiteStore(filepath.Join(baseDir, SQLiteFileName))
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// CloseIfSupported closes stores that hold resources.
func CloseIfSupported(s Store) error {
	closer, ok := s.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.New().String()
}

// ErrNotFound is returned when a requested run does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing run error.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	if e.RunID != "" {
		return "run not found: " + e.RunID
	}
	return "run not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
