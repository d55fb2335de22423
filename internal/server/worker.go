package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/sgafit/internal/ops"
	"github.com/cwbudde/sgafit/internal/sga"
	"github.com/cwbudde/sgafit/internal/store"
)

// runJob executes an SGA job in the background.
// If runStore is not nil, the completed run is saved under the job ID.
func runJob(ctx context.Context, jm *JobManager, runStore store.Store, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	})
	if err != nil {
		return err
	}

	slog.Info("Starting job",
		"job_id", jobID,
		"popsize", job.Config.PopSize,
		"lchrom", job.Config.ChromLength,
		"maxgen", job.Config.MaxGen,
		"objective", job.Config.Objective,
	)

	engine, err := newJobEngine(job.Config)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	start := time.Now()
	initial := engine.Stats()
	obs := &jobObserver{jm: jm, jobID: jobID}

	if err := engine.Run(ctx, obs); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			markJobCancelled(jm, jobID)
			return err
		}
		markJobFailed(jm, jobID, err)
		return err
	}
	elapsed := time.Since(start)

	best := engine.Best()
	saved := false
	if runStore != nil {
		record := store.NewRunRecord(jobID, job.Config, initial, engine)
		if err := runStore.SaveRun(jobID, record); err != nil {
			slog.Error("Failed to save run", "job_id", jobID, "error", err)
		} else {
			saved = true
		}
	}

	endTime := time.Now()
	var final *Job
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Generation = engine.Gen()
		j.Stats = engine.Stats()
		j.Totals = engine.Totals()
		j.Best = &best
		j.Converged = engine.Converged()
		j.Saved = saved
		j.EndTime = &endTime
		cp := *j
		final = &cp
	})
	if err != nil {
		return err
	}

	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"generations", engine.Gen(),
		"max", engine.Stats().Max,
		"avg", engine.Stats().Avg,
		"converged", engine.Converged(),
	)

	jm.broadcaster.Broadcast(progressFromJob(final))
	return nil
}

// newJobEngine builds the operators and engine for a job configuration.
func newJobEngine(config JobConfig) (*sga.Engine, error) {
	return ops.NewEngine(config.EngineConfig(), config.Crossover, config.Objective, config.Patience)
}

// jobObserver mirrors engine progress into the job and its stream.
type jobObserver struct {
	jm    *JobManager
	jobID string
}

func (o *jobObserver) Initial(snap sga.Snapshot) error {
	return o.record(0, snap, func(j *Job) {
		j.Initial = snap.Stats
	})
}

func (o *jobObserver) Generation(snap sga.Snapshot) error {
	return o.record(snap.Gen+1, snap, func(j *Job) {
		j.Generation = snap.Gen + 1
	})
}

func (o *jobObserver) record(label int, snap sga.Snapshot, update func(*Job)) error {
	pop := snap.Next
	if len(pop) == 0 {
		pop = snap.Current
	}
	row := GenerationStats{Gen: label, Stats: snap.Stats, Counts: snap.Counts}

	var event ProgressEvent
	err := o.jm.UpdateJob(o.jobID, func(j *Job) {
		update(j)
		j.Stats = snap.Stats
		j.Totals = snap.Totals
		j.History = append(j.History, row)
		j.Population = pop
		if best, ok := snap.Best(); ok {
			j.Best = &best
		}
		event = progressFromJob(j)
	})
	if err != nil {
		return err
	}

	o.jm.broadcaster.Broadcast(event)
	return nil
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	var final *Job
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
		cp := *j
		final = &cp
	})
	slog.Error("Job failed", "job_id", jobID, "error", err)
	if final != nil {
		jm.broadcaster.Broadcast(progressFromJob(final))
	}
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	var final *Job
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
		cp := *j
		final = &cp
	})
	slog.Info("Job cancelled", "job_id", jobID)
	if final != nil {
		jm.broadcaster.Broadcast(progressFromJob(final))
	}
}
