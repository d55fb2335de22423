package server

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cwbudde/sgafit/internal/sga"
	"github.com/cwbudde/sgafit/internal/store"
)

// JobState represents the current state of a job
type JobState string

const (
	StatePending   JobState = "pending"
	StateRunning   JobState = "running"
	StateCompleted JobState = "completed"
	StateFailed    JobState = "failed"
	StateCancelled JobState = "cancelled"
)

// JobConfig is an alias to avoid duplication with store.RunConfig
type JobConfig = store.RunConfig

// GenerationStats is one row of a job's history. Gen follows the result log
// labelling: 0 for the initial population, gen+1 after generation step gen.
type GenerationStats struct {
	Gen    int          `json:"gen"`
	Stats  sga.Stats    `json:"stats"`
	Counts sga.Counters `json:"counts"`
}

// Job represents a background SGA run
type Job struct {
	ID         string          `json:"id"`
	State      JobState        `json:"state"`
	Config     JobConfig       `json:"config"`
	Generation int             `json:"generation"` // completed generations
	Initial    sga.Stats       `json:"initial"`
	Stats      sga.Stats       `json:"stats"`
	Totals     sga.Counters    `json:"totals"`
	Best       *sga.Individual `json:"best,omitempty"`
	Converged  bool            `json:"converged,omitempty"`
	Saved      bool            `json:"saved,omitempty"`
	StartTime  time.Time       `json:"startTime"`
	EndTime    *time.Time      `json:"endTime,omitempty"`
	Error      string          `json:"error,omitempty"`

	History    []GenerationStats `json:"-"`
	Population []sga.Individual  `json:"-"`

	cancel context.CancelFunc
}

// Finished reports whether the job reached a terminal state.
func (j *Job) Finished() bool {
	return j.State == StateCompleted || j.State == StateFailed || j.State == StateCancelled
}

// JobManager manages the lifecycle of jobs
type JobManager struct {
	mu          sync.RWMutex
	jobs        map[string]*Job
	broadcaster *EventBroadcaster
}

// NewJobManager creates a new JobManager
func NewJobManager() *JobManager {
	return &JobManager{
		jobs:        make(map[string]*Job),
		broadcaster: NewEventBroadcaster(),
	}
}

// CreateJob creates a new job with the given configuration
func (jm *JobManager) CreateJob(config JobConfig) *Job {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job := &Job{
		ID:        store.NewRunID(),
		State:     StatePending,
		Config:    config,
		StartTime: time.Now(),
	}

	jm.jobs[job.ID] = job
	cp := *job
	return &cp
}

// GetJob returns a copy of the job with the given ID. History and
// Population are shared but never modified in place.
func (jm *JobManager) GetJob(id string) (*Job, bool) {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	job, exists := jm.jobs[id]
	if !exists {
		return nil, false
	}
	cp := *job
	return &cp, true
}

// ListJobs returns copies of all jobs, oldest first
func (jm *JobManager) ListJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	jobs := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		cp := *job
		jobs = append(jobs, &cp)
	}
	sort.Slice(jobs, func(i, k int) bool {
		return jobs[i].StartTime.Before(jobs[k].StartTime)
	})
	return jobs
}

// UpdateJob atomically updates a job using the provided function
func (jm *JobManager) UpdateJob(id string, updateFn func(*Job)) error {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	job, exists := jm.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}

	updateFn(job)
	return nil
}

// GetRunningJobs returns all jobs currently in the running state
func (jm *JobManager) GetRunningJobs() []*Job {
	jm.mu.RLock()
	defer jm.mu.RUnlock()

	runningJobs := make([]*Job, 0)
	for _, job := range jm.jobs {
		if job.State == StateRunning {
			cp := *job
			runningJobs = append(runningJobs, &cp)
		}
	}
	return runningJobs
}

// setCancel records the function that stops the job's worker.
func (jm *JobManager) setCancel(id string, cancel context.CancelFunc) {
	jm.UpdateJob(id, func(j *Job) {
		j.cancel = cancel
	})
}

// CancelJob stops a pending or running job. It returns false if the job
// does not exist or already finished.
func (jm *JobManager) CancelJob(id string) bool {
	jm.mu.RLock()
	job, exists := jm.jobs[id]
	var cancel context.CancelFunc
	finished := true
	if exists {
		cancel = job.cancel
		finished = job.Finished()
	}
	jm.mu.RUnlock()

	if !exists || finished || cancel == nil {
		return false
	}
	cancel()
	return true
}
