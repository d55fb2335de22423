package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cwbudde/sgafit/internal/store"
)

func TestRunJob_Success(t *testing.T) {
	jm := NewJobManager()
	config := testJobConfig()
	job := jm.CreateJob(config)

	if err := runJob(context.Background(), jm, nil, job.ID); err != nil {
		t.Fatalf("runJob should succeed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCompleted {
		t.Errorf("Job should be completed, got %s", updated.State)
	}
	if updated.Generation != config.MaxGen {
		t.Errorf("Expected %d generations, got %d", config.MaxGen, updated.Generation)
	}
	if updated.EndTime == nil {
		t.Error("EndTime should be set")
	}
	if updated.Best == nil || updated.Best.Chrom.Len() != config.ChromLength {
		t.Errorf("Best should hold a %d-allele chromosome, got %+v", config.ChromLength, updated.Best)
	}
	if updated.Best.Fitness != updated.Stats.Max {
		t.Errorf("Best fitness %v should equal max %v", updated.Best.Fitness, updated.Stats.Max)
	}
	if updated.Saved {
		t.Error("Job without store should not be marked saved")
	}

	// One history row for the initial population plus one per generation.
	if len(updated.History) != config.MaxGen+1 {
		t.Fatalf("Expected %d history rows, got %d", config.MaxGen+1, len(updated.History))
	}
	for i, row := range updated.History {
		if row.Gen != i {
			t.Errorf("history row %d labelled %d", i, row.Gen)
		}
	}
	if updated.History[0].Stats != updated.Initial {
		t.Error("First history row should hold the initial statistics")
	}
	if len(updated.Population) != config.PopSize {
		t.Errorf("Expected population of %d, got %d", config.PopSize, len(updated.Population))
	}
}

func TestRunJob_Deterministic(t *testing.T) {
	jm := NewJobManager()
	a := jm.CreateJob(testJobConfig())
	b := jm.CreateJob(testJobConfig())

	if err := runJob(context.Background(), jm, nil, a.ID); err != nil {
		t.Fatal(err)
	}
	if err := runJob(context.Background(), jm, nil, b.ID); err != nil {
		t.Fatal(err)
	}

	ja, _ := jm.GetJob(a.ID)
	jb, _ := jm.GetJob(b.ID)
	if ja.Stats != jb.Stats || ja.Totals != jb.Totals {
		t.Errorf("Same seed produced different runs: %+v vs %+v", ja.Stats, jb.Stats)
	}
}

func TestRunJob_SavesToStore(t *testing.T) {
	runStore, err := store.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())
	if err := runJob(context.Background(), jm, runStore, job.ID); err != nil {
		t.Fatalf("runJob failed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if !updated.Saved {
		t.Error("Job should be marked saved")
	}

	record, err := runStore.LoadRun(job.ID)
	if err != nil {
		t.Fatalf("LoadRun failed: %v", err)
	}
	if err := record.Validate(); err != nil {
		t.Errorf("Saved record invalid: %v", err)
	}
	if record.Final != updated.Stats {
		t.Errorf("Saved final stats %+v, job %+v", record.Final, updated.Stats)
	}
}

func TestRunJob_InvalidConfig(t *testing.T) {
	jm := NewJobManager()
	config := testJobConfig()
	config.PopSize = 7
	job := jm.CreateJob(config)

	if err := runJob(context.Background(), jm, nil, job.ID); err == nil {
		t.Fatal("runJob should fail for odd popsize")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("Job should be failed, got %s", updated.State)
	}
	if updated.Error == "" {
		t.Error("Error should be set")
	}
}

func TestRunJob_Cancellation(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runJob(ctx, jm, nil, job.ID)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCancelled {
		t.Errorf("Job should be cancelled, got %s", updated.State)
	}
}

func TestRunJob_NotFound(t *testing.T) {
	if err := runJob(context.Background(), NewJobManager(), nil, "missing"); err == nil {
		t.Fatal("Expected error for missing job")
	}
}

func TestRunJob_ConvergenceStopsEarly(t *testing.T) {
	jm := NewJobManager()
	config := testJobConfig()
	config.MaxGen = 200
	config.Patience = 2
	job := jm.CreateJob(config)

	if err := runJob(context.Background(), jm, nil, job.ID); err != nil {
		t.Fatalf("runJob failed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if !updated.Converged {
		t.Fatal("Expected the run to converge")
	}
	if updated.Generation >= config.MaxGen {
		t.Errorf("Converged run used all %d generations", updated.Generation)
	}
}

func TestRunJob_BroadcastsProgress(t *testing.T) {
	jm := NewJobManager()
	config := testJobConfig()
	config.MaxGen = 3
	job := jm.CreateJob(config)

	ch := jm.broadcaster.Subscribe(job.ID)
	defer jm.broadcaster.Unsubscribe(job.ID, ch)

	if err := runJob(context.Background(), jm, nil, job.ID); err != nil {
		t.Fatalf("runJob failed: %v", err)
	}

	// Initial, three generations and the completion event.
	var events []ProgressEvent
	timeout := time.After(time.Second)
	for len(events) < config.MaxGen+2 {
		select {
		case e := <-ch:
			events = append(events, e)
		case <-timeout:
			t.Fatalf("Received %d events, want %d", len(events), config.MaxGen+2)
		}
	}
	for i := 0; i <= config.MaxGen; i++ {
		if events[i].Gen != i || events[i].State != StateRunning {
			t.Errorf("event %d = gen %d state %s", i, events[i].Gen, events[i].State)
		}
	}
	last := events[len(events)-1]
	if last.State != StateCompleted || last.Gen != config.MaxGen {
		t.Errorf("final event = gen %d state %s", last.Gen, last.State)
	}
}
