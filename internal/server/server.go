package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cwbudde/sgafit/internal/ops"
	"github.com/cwbudde/sgafit/internal/sga"
	"github.com/cwbudde/sgafit/internal/store"
)

// Job defaults applied to zero-valued request fields.
const (
	DefaultPopSize     = 30
	DefaultChromLength = 10
	DefaultMaxGen      = 20
	DefaultPCross      = 0.6
	DefaultPMutation   = 0.033
	DefaultObjective   = "power"
	DefaultCrossover   = "single"
)

// Upper bounds on job requests. Chromosome length is bounded by
// ops.MaxChromLength.
const (
	MaxJobPopSize = 10000
	MaxJobMaxGen  = 100000
)

// Server represents the HTTP server
type Server struct {
	jobManager *JobManager
	store      store.Store
	addr       string
	server     *http.Server

	// jobs run under baseCtx so Shutdown can stop them
	baseCtx    context.Context
	cancelJobs context.CancelFunc
	workers    sync.WaitGroup
}

// NewServer creates a new HTTP server. runStore may be nil, in which case
// completed runs are kept in memory only.
func NewServer(addr string, runStore store.Store) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		jobManager: NewJobManager(),
		store:      runStore,
		addr:       addr,
		baseCtx:    ctx,
		cancelJobs: cancel,
	}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Register UI routes
	mux.HandleFunc("/", s.handleIndex)

	// Register API routes
	mux.HandleFunc("/api/v1/jobs", s.handleJobs)
	mux.HandleFunc("/api/v1/jobs/", s.handleJobsWithID)

	return s.loggingMiddleware(s.corsMiddleware(mux))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	slog.Info("Starting HTTP server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown cancels running jobs, waits for their workers and gracefully
// shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down HTTP server", "running_jobs", len(s.jobManager.GetRunningJobs()))
	s.cancelJobs()

	done := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleJobs handles /api/v1/jobs
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateJob(w, r)
	case http.MethodGet:
		s.handleListJobs(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleJobsWithID handles /api/v1/jobs/:id/*
func (s *Server) handleJobsWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Job ID required", http.StatusBadRequest)
		return
	}

	jobID := parts[0]
	sub := ""
	if len(parts) > 1 {
		sub = parts[1]
	}

	if sub == "cancel" {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleCancelJob(w, r, jobID)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch sub {
	case "", "status":
		s.handleGetJobStatus(w, r, jobID)
	case "stream":
		s.handleJobStream(w, r, jobID)
	case "history":
		s.handleGetHistory(w, r, jobID)
	case "population":
		s.handleGetPopulation(w, r, jobID)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// applyDefaults fills zero-valued fields of a job request.
func applyDefaults(config *JobConfig) {
	if config.PopSize <= 0 {
		config.PopSize = DefaultPopSize
	}
	if config.ChromLength <= 0 {
		config.ChromLength = DefaultChromLength
	}
	if config.MaxGen <= 0 {
		config.MaxGen = DefaultMaxGen
	}
	if config.PCross == 0 {
		config.PCross = DefaultPCross
	}
	if config.PMutation == 0 {
		config.PMutation = DefaultPMutation
	}
	if config.Objective == "" {
		config.Objective = DefaultObjective
	}
	if config.Crossover == "" {
		config.Crossover = DefaultCrossover
	}
}

// validateJobConfig rejects configurations the engine or operators would
// refuse, so bad requests fail before a job is created.
func validateJobConfig(config JobConfig) error {
	if err := config.EngineConfig().Validate(); err != nil {
		return err
	}
	if config.PopSize > MaxJobPopSize {
		return &sga.ConfigError{Field: "PopSize", Reason: fmt.Sprintf("must be at most %d", MaxJobPopSize)}
	}
	if config.MaxGen > MaxJobMaxGen {
		return &sga.ConfigError{Field: "MaxGen", Reason: fmt.Sprintf("must be at most %d", MaxJobMaxGen)}
	}
	if _, err := ops.NewBinary(config.EngineConfig(), config.Crossover, config.Objective); err != nil {
		return err
	}
	if config.Patience < 0 {
		return fmt.Errorf("patience cannot be negative")
	}
	return nil
}

// handleCreateJob handles POST /api/v1/jobs
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var config JobConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	applyDefaults(&config)
	if err := validateJobConfig(config); err != nil {
		http.Error(w, fmt.Sprintf("Invalid job config: %v", err), http.StatusBadRequest)
		return
	}

	job := s.startJob(config)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(job)
}

// startJob creates a job and runs it in a background worker.
func (s *Server) startJob(config JobConfig) *Job {
	job := s.jobManager.CreateJob(config)

	ctx, cancel := context.WithCancel(s.baseCtx)
	s.jobManager.setCancel(job.ID, cancel)

	s.workers.Add(1)
	go func() {
		defer s.workers.Done()
		defer cancel()
		runJob(ctx, s.jobManager, s.store, job.ID)
	}()
	return job
}

// handleListJobs handles GET /api/v1/jobs
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.jobManager.ListJobs()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

// handleGetJobStatus handles GET /api/v1/jobs/:id/status
func (s *Server) handleGetJobStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	var elapsed time.Duration
	if job.EndTime != nil {
		elapsed = job.EndTime.Sub(job.StartTime)
	} else {
		elapsed = time.Since(job.StartTime)
	}

	// generations per second
	gps := float64(0)
	if elapsed.Seconds() > 0 {
		gps = float64(job.Generation) / elapsed.Seconds()
	}

	response := map[string]interface{}{
		"id":         job.ID,
		"state":      job.State,
		"config":     job.Config,
		"generation": job.Generation,
		"initial":    job.Initial,
		"stats":      job.Stats,
		"totals":     job.Totals,
		"best":       job.Best,
		"converged":  job.Converged,
		"saved":      job.Saved,
		"elapsed":    elapsed.Seconds(),
		"gps":        gps,
		"startTime":  job.StartTime,
		"endTime":    job.EndTime,
		"error":      job.Error,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleGetHistory handles GET /api/v1/jobs/:id/history
func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	history := job.History
	if history == nil {
		history = []GenerationStats{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}

// handleGetPopulation handles GET /api/v1/jobs/:id/population
func (s *Server) handleGetPopulation(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if len(job.Population) == 0 {
		http.Error(w, "No population yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"gen":        latestGen(job),
		"population": job.Population,
	})
}

func latestGen(job *Job) int {
	if n := len(job.History); n > 0 {
		return job.History[n-1].Gen
	}
	return 0
}

// handleCancelJob handles POST /api/v1/jobs/:id/cancel
func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request, jobID string) {
	if _, exists := s.jobManager.GetJob(jobID); !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	if !s.jobManager.CancelJob(jobID) {
		http.Error(w, "Job is not running", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// corsMiddleware adds CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
