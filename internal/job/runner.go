// internal/job/runner.go
package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"commit-scorer/internal/collector"
	custom_errors "commit-scorer/internal/errors"
)

// State is the lifecycle state of the collection job.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Collector runs one collection to completion.
type Collector interface {
	Collect(ctx context.Context, req collector.Request) (collector.Result, error)
}

// Status is a snapshot of the job. Params never carries credentials.
type Status struct {
	State      State              `json:"state"`
	IsRunning  bool               `json:"is_running"`
	Message    string             `json:"message"`
	Params     *collector.Request `json:"params,omitempty"`
	StartedAt  *time.Time         `json:"started_at,omitempty"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
	Found      int                `json:"found"`
	Saved      int                `json:"saved"`
}

// Runner allows at most one collection at a time. Requests made while a job is
// running are rejected, not queued.
type Runner struct {
	ctx       context.Context
	collector Collector
	logger    *slog.Logger

	mu     sync.Mutex
	status Status
	wg     sync.WaitGroup
}

// NewRunner creates a Runner. Jobs run under ctx, so cancelling it stops a running job.
func NewRunner(ctx context.Context, c Collector, logger *slog.Logger) *Runner {
	return &Runner{
		ctx:       ctx,
		collector: c,
		logger:    logger,
		status:    Status{State: StateIdle, Message: "No collection has run yet."},
	}
}

// Start launches a collection in the background. The returned channel is closed when
// the job finishes. It fails with ErrCollectionRunning while another job is active.
func (r *Runner) Start(req collector.Request) (<-chan struct{}, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.State == StateRunning {
		jobsTotal.WithLabelValues("rejected").Inc()
		return nil, custom_errors.ErrCollectionRunning
	}

	params := req
	params.Credentials = params.Credentials.Redacted()
	now := time.Now().UTC()
	r.status = Status{
		State:     StateRunning,
		IsRunning: true,
		Message:   "Collection started.",
		Params:    &params,
		StartedAt: &now,
	}

	done := make(chan struct{})
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(done)
		r.run(req)
	}()
	return done, nil
}

func (r *Runner) run(req collector.Request) {
	logger := r.logger.With("project", req.ProjectKey, "repo", req.RepoName, "branch", req.Branch)
	logger.Info("Collection job started")

	result, err := r.collector.Collect(r.ctx, req)

	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	r.status.IsRunning = false
	r.status.FinishedAt = &now
	r.status.Found = result.Found
	r.status.Saved = result.Saved
	if err != nil {
		r.status.State = StateFailed
		r.status.Message = "Collection failed: " + err.Error()
		jobsTotal.WithLabelValues(string(StateFailed)).Inc()
		logger.Error("Collection job failed", "error", err)
		return
	}
	r.status.State = StateCompleted
	r.status.Message = result.Message
	jobsTotal.WithLabelValues(string(StateCompleted)).Inc()
	logger.Info("Collection job completed", "found", result.Found, "saved", result.Saved)
}

// Status returns a copy of the current job status.
func (r *Runner) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.status
	if s.Params != nil {
		p := *s.Params
		s.Params = &p
	}
	return s
}

// Wait blocks until no job goroutine is left.
func (r *Runner) Wait() {
	r.wg.Wait()
}
