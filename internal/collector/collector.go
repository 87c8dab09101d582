// internal/collector/collector.go
package collector

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"commit-scorer/internal/database"
	custom_errors "commit-scorer/internal/errors"
	"commit-scorer/internal/llm"
	"commit-scorer/internal/model"
	"commit-scorer/internal/scoring"
)

// AllBranches expands to every branch of the repository.
const AllBranches = "all"

const unknownAuthor = "N/A"

// Remote is the subset of the source-control client the collector needs.
// Methods return empty values when the remote call failed.
type Remote interface {
	ListBranches(ctx context.Context, projectKey, repoName string) []model.Branch
	IterCommits(ctx context.Context, projectKey, repoName, branch string, since time.Time) iter.Seq[model.CommitSummary]
	GetCommitDetails(ctx context.Context, projectKey, repoName, sha string) *model.CommitDetails
	GetCommitDiff(ctx context.Context, projectKey, repoName, sha string) *model.CommitDiff
}

// RemoteFactory builds a Remote for the credentials of one request.
type RemoteFactory func(creds model.Credentials) (Remote, error)

// Evaluator grades a commit with a language model.
type Evaluator interface {
	Score(ctx context.Context, diff, message string) llm.Evaluation
}

// Request describes one collection run.
type Request struct {
	Credentials model.Credentials `json:"-"`
	ProjectKey  string            `json:"project_key"`
	RepoName    string            `json:"repo_name"`
	Branch      string            `json:"branch_name"`
	Since       string            `json:"since"`
	Until       string            `json:"until"`
	TargetEmail string            `json:"target_email,omitempty"`
}

// Validate checks the fields a run cannot start without.
func (r Request) Validate() error {
	if r.Credentials.Empty() {
		return custom_errors.ErrMissingCredentials
	}
	if strings.TrimSpace(r.ProjectKey) == "" || strings.TrimSpace(r.RepoName) == "" {
		return errors.New("project_key and repo_name are required")
	}
	if _, err := r.window(); err != nil {
		return err
	}
	return nil
}

func (r Request) window() (window, error) {
	since, err := ParseDate("since", r.Since)
	if err != nil {
		return window{}, err
	}
	until, err := ParseDate("until", r.Until)
	if err != nil {
		return window{}, err
	}
	return window{since: since, until: until}, nil
}

// Result summarizes a finished run.
type Result struct {
	Found   int    `json:"found"`
	Saved   int    `json:"saved"`
	Message string `json:"message"`
}

// window is an inclusive [since, until] range.
type window struct {
	since time.Time
	until time.Time
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.since) && !t.After(w.until)
}

// target identifies the repository a run works on.
type target struct {
	projectKey  string
	repoName    string
	repoID      int64
	targetEmail string
	window      window
}

// Collector walks a repository's branches, scores new commits and persists them.
type Collector struct {
	store     database.Store
	newRemote RemoteFactory
	evaluator Evaluator
	logger    *slog.Logger
}

// New creates a Collector.
func New(store database.Store, newRemote RemoteFactory, evaluator Evaluator, logger *slog.Logger) *Collector {
	return &Collector{
		store:     store,
		newRemote: newRemote,
		evaluator: evaluator,
		logger:    logger,
	}
}

// Collect runs one collection. Remote failures skip the affected unit of work; invalid
// requests and store failures outside a single insert fail the run.
func (c *Collector) Collect(ctx context.Context, req Request) (Result, error) {
	logger := c.logger.With("project", req.ProjectKey, "repo", req.RepoName, "branch", req.Branch)
	logger.Info("Starting data collection", "since", req.Since, "until", req.Until, "target_email", req.TargetEmail)

	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	w, _ := req.window()

	remote, err := c.newRemote(req.Credentials)
	if err != nil {
		return Result{}, fmt.Errorf("create remote client: %w", err)
	}

	var repo database.Repository
	err = c.store.ExecTx(ctx, func(q database.Store) error {
		var err error
		repo, err = c.resolveRepository(ctx, q, req.ProjectKey, req.RepoName)
		return err
	})
	if err != nil {
		return Result{}, fmt.Errorf("resolve repository: %w", err)
	}

	t := target{
		projectKey:  req.ProjectKey,
		repoName:    req.RepoName,
		repoID:      repo.ID,
		targetEmail: strings.TrimSpace(req.TargetEmail),
		window:      w,
	}

	branches, err := c.resolveBranches(ctx, remote, req)
	if err != nil {
		return Result{}, err
	}
	logger.Info("Resolved branches", "count", len(branches), "repo_id", repo.ID)

	var result Result
	for _, branch := range branches {
		var found, saved int
		err := c.store.ExecTx(ctx, func(tx database.Store) error {
			var err error
			found, saved, err = c.collectBranch(ctx, tx, remote, t, branch)
			return err
		})
		if err != nil {
			return result, fmt.Errorf("collect branch %q: %w", branch, err)
		}
		result.Found += found
		result.Saved += saved
	}

	result.Message = fmt.Sprintf("Analysis finished. Found %d commits. Added to database: %d.", result.Found, result.Saved)
	logger.Info("Data collection finished", "found", result.Found, "saved", result.Saved)
	return result, nil
}

// resolveRepository looks up the project and repository rows and creates the missing ones.
func (c *Collector) resolveRepository(ctx context.Context, q database.Querier, projectKey, repoName string) (database.Repository, error) {
	_, err := q.GetProject(ctx, projectKey)
	if errors.Is(err, pgx.ErrNoRows) {
		c.logger.Info("Project not found in DB, creating new entry", "project", projectKey)
		_, err = q.CreateProject(ctx, database.CreateProjectParams{
			Key:         projectKey,
			Name:        projectKey,
			Description: textOrNull("Project " + projectKey),
		})
	}
	if err != nil {
		return database.Repository{}, err
	}

	repoID := model.RepositoryID(projectKey, repoName)
	repo, err := q.GetRepository(ctx, repoID)
	if errors.Is(err, pgx.ErrNoRows) {
		c.logger.Info("Repository not found in DB, creating new entry", "project", projectKey, "repo", repoName, "repo_id", repoID)
		return q.CreateRepository(ctx, database.CreateRepositoryParams{
			ID:         repoID,
			Name:       repoName,
			ProjectKey: projectKey,
		})
	}
	return repo, err
}

// resolveBranches materializes the branch list before any commit is fetched.
// A named branch is checked against the remote list when that list is available.
func (c *Collector) resolveBranches(ctx context.Context, remote Remote, req Request) ([]string, error) {
	var names []string
	for _, b := range remote.ListBranches(ctx, req.ProjectKey, req.RepoName) {
		if b.Name != "" {
			names = append(names, b.Name)
		}
	}

	if req.Branch != AllBranches {
		if len(names) > 0 && !slices.Contains(names, req.Branch) {
			return nil, &custom_errors.ErrUnknownBranch{Branch: req.Branch}
		}
		return []string{req.Branch}, nil
	}
	if len(names) == 0 {
		c.logger.Warn("No branches returned for repository", "project", req.ProjectKey, "repo", req.RepoName)
	}
	return names, nil
}

// collectBranch filters one branch's history, skips stored commits and persists the rest.
// Each insert runs in its own savepoint so a failed write does not poison the branch.
func (c *Collector) collectBranch(ctx context.Context, tx database.Store, remote Remote, t target, branch string) (found, saved int, err error) {
	logger := c.logger.With("project", t.projectKey, "repo", t.repoName, "branch", branch)

	for summary := range remote.IterCommits(ctx, t.projectKey, t.repoName, branch, t.window.since) {
		if summary.Hash == "" {
			commitsSkippedTotal.WithLabelValues("missing_hash").Inc()
			continue
		}
		date, ok := parseCommitDate(summary.CreatedAt)
		if !ok {
			logger.Warn("Skipping commit with unparsable date", "sha", summary.Hash, "created_at", summary.CreatedAt)
			commitsSkippedTotal.WithLabelValues("bad_date").Inc()
			continue
		}
		if !t.window.contains(date) {
			continue
		}
		if t.targetEmail != "" && !strings.EqualFold(summary.Author.Email, t.targetEmail) {
			continue
		}
		found++
		commitsFoundTotal.Inc()

		exists, err := tx.CommitExists(ctx, summary.Hash)
		if err != nil {
			return found, saved, fmt.Errorf("check commit %s: %w", shortSHA(summary.Hash), err)
		}
		if exists {
			commitsSkippedTotal.WithLabelValues("already_stored").Inc()
			continue
		}

		commit, ok := c.scoreCommit(ctx, remote, t, summary, date)
		if !ok {
			continue
		}

		err = tx.ExecTx(ctx, func(sp database.Store) error {
			return sp.CreateCommit(ctx, toCreateCommitParams(commit))
		})
		if err != nil {
			logger.Error("Failed to save commit, rolled back", "sha", shortSHA(commit.SHA), "error", err)
			commitsSkippedTotal.WithLabelValues("insert_failed").Inc()
			continue
		}
		saved++
		commitsSavedTotal.Inc()
	}

	if err := ctx.Err(); err != nil {
		return found, saved, err
	}
	logger.Info("Branch processed", "found", found, "saved", saved)
	return found, saved, nil
}

// scoreCommit fetches stats and diff and computes all scores. It reports false when the
// commit has to be skipped because the remote data is unavailable.
func (c *Collector) scoreCommit(ctx context.Context, remote Remote, t target, summary model.CommitSummary, date time.Time) (model.Commit, bool) {
	logger := c.logger.With("sha", shortSHA(summary.Hash))

	details := remote.GetCommitDetails(ctx, t.projectKey, t.repoName, summary.Hash)
	if details == nil {
		logger.Warn("Commit details unavailable, skipping")
		commitsSkippedTotal.WithLabelValues("details_unavailable").Inc()
		return model.Commit{}, false
	}
	diff := remote.GetCommitDiff(ctx, t.projectKey, t.repoName, summary.Hash)
	if diff == nil {
		logger.Warn("Commit diff unavailable, skipping")
		commitsSkippedTotal.WithLabelValues("diff_unavailable").Inc()
		return model.Commit{}, false
	}

	var stats model.CommitStats
	if details.Stats != nil {
		stats = *details.Stats
	}

	commit := model.Commit{
		SHA:          summary.Hash,
		Message:      summary.Message,
		AuthorName:   summary.Author.Name,
		AuthorEmail:  summary.Author.Email,
		CommitDate:   date,
		AddedLines:   max(stats.Additions, 0),
		DeletedLines: max(stats.Deletions, 0),
		RepositoryID: t.repoID,
		ProjectKey:   t.projectKey,
	}
	if commit.AuthorName == "" {
		commit.AuthorName = unknownAuthor
	}

	kpi := scoring.Deterministic(commit.AddedLines, commit.DeletedLines)
	commit.Difficulty = kpi.Difficulty
	commit.Quality = kpi.Quality
	commit.Size = kpi.Size

	var evaluation llm.Evaluation
	content, err := diff.Decode()
	if err != nil {
		logger.Warn("Could not decode commit diff, scoring deterministically only", "error", err)
	} else {
		commit.Content = content
		evaluation = c.evaluator.Score(ctx, content, commit.Message)
	}

	commit.LLMSize = evaluation.Scores.Ptr(llm.CriterionSize)
	commit.LLMQuality = evaluation.Scores.Ptr(llm.CriterionQuality)
	commit.LLMComplexity = evaluation.Scores.Ptr(llm.CriterionComplexity)
	commit.LLMComment = evaluation.Scores.Ptr(llm.CriterionComment)
	commit.LLMTotal = evaluation.Scores.Ptr(llm.CriterionSum)
	commit.LLMReply = evaluation.RawText
	commit.FinalScore = scoring.Combine(kpi, evaluation.Scores.Total())

	logger.Debug("Commit scored", "kpi", kpi, "model_total", evaluation.Scores.Total(), "final", commit.FinalScore)
	return commit, true
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
