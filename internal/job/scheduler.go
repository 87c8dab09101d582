// internal/job/scheduler.go
package job

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"commit-scorer/internal/collector"
	custom_errors "commit-scorer/internal/errors"
	"commit-scorer/internal/model"
)

// Target is a repository (and optionally a branch) collected on a schedule.
type Target struct {
	ProjectKey string
	RepoName   string
	Branch     string
}

// Submitter starts a collection job.
type Submitter interface {
	Start(req collector.Request) (<-chan struct{}, error)
}

// Scheduler periodically submits collections for the configured targets.
type Scheduler struct {
	submitter Submitter
	logger    *slog.Logger
	targets   []Target
	interval  time.Duration
	since     time.Time
	creds     model.Credentials
	now       func() time.Time
}

// NewScheduler parses targets in 'PROJECT/repo' or 'PROJECT/repo@branch' form.
// Targets without a branch collect every branch.
func NewScheduler(submitter Submitter, logger *slog.Logger, targets []string, interval time.Duration, since time.Time, creds model.Credentials) (*Scheduler, error) {
	parsed, err := ParseTargets(targets)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		submitter: submitter,
		logger:    logger,
		targets:   parsed,
		interval:  interval,
		since:     since,
		creds:     creds,
		now:       time.Now,
	}, nil
}

// Start runs a cycle immediately and then on every tick until ctx is done.
// It returns at once when there is nothing to schedule.
func (s *Scheduler) Start(ctx context.Context) {
	if len(s.targets) == 0 || s.interval <= 0 {
		s.logger.Info("Scheduler disabled", "targets", len(s.targets), "interval", s.interval.String())
		return
	}
	if s.creds.Empty() {
		s.logger.Warn("Scheduler disabled, no remote API credentials configured")
		return
	}

	s.logger.Info("Starting scheduler", "interval", s.interval.String(), "targets", len(s.targets))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runCycle(ctx) // Initial run

	for {
		select {
		case <-ticker.C:
			s.runCycle(ctx)
		case <-ctx.Done():
			s.logger.Info("Scheduler shutting down", "reason", ctx.Err())
			return
		}
	}
}

// runCycle submits the targets one after another, waiting for each job to finish.
func (s *Scheduler) runCycle(ctx context.Context) {
	s.logger.Info("Starting new collection cycle")
	for _, t := range s.targets {
		if ctx.Err() != nil {
			return
		}
		logger := s.logger.With("project", t.ProjectKey, "repo", t.RepoName, "branch", t.Branch)

		done, err := s.submitter.Start(s.request(t))
		if errors.Is(err, custom_errors.ErrCollectionRunning) {
			logger.Warn("Skipping scheduled collection, another job is running")
			continue
		}
		if err != nil {
			logger.Error("Failed to start scheduled collection", "error", err)
			continue
		}

		select {
		case <-done:
		case <-ctx.Done():
			return
		}
	}
	s.logger.Info("Collection cycle finished")
}

func (s *Scheduler) request(t Target) collector.Request {
	return collector.Request{
		Credentials: s.creds,
		ProjectKey:  t.ProjectKey,
		RepoName:    t.RepoName,
		Branch:      t.Branch,
		Since:       s.since.UTC().Format(time.RFC3339),
		Until:       s.now().UTC().Format(time.RFC3339),
	}
}

// ParseTargets validates and splits configured collection targets.
func ParseTargets(targets []string) ([]Target, error) {
	var parsed []Target
	for _, raw := range targets {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		repoPart, branch, hasBranch := strings.Cut(raw, "@")
		parts := strings.Split(repoPart, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" || (hasBranch && branch == "") {
			return nil, &custom_errors.ErrInvalidTargetFormat{Target: raw}
		}
		if !hasBranch {
			branch = collector.AllBranches
		}
		parsed = append(parsed, Target{ProjectKey: parts[0], RepoName: parts[1], Branch: branch})
	}
	return parsed, nil
}
