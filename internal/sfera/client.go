// internal/sfera/client.go
package sfera

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"commit-scorer/internal/model"
)

const (
	// DefaultBaseURL is the public code API gateway of the platform.
	DefaultBaseURL = "https://gateway-codemetrics.saas.sferaplatform.ru/app/sourcecode/api/api/v2/"

	defaultPageSize  = 100
	defaultPageDelay = 100 * time.Millisecond

	maxRetries     = 3
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

// Options tune a Client. Zero values fall back to defaults; a negative PageDelay disables pacing.
type Options struct {
	BaseURL            string
	PageSize           int
	PageDelay          time.Duration
	InsecureSkipVerify bool
	HTTPClient         *http.Client
}

// Client talks to the source-control platform's REST API.
// Every call logs and swallows its own failures; callers receive an empty result instead.
type Client struct {
	http     *http.Client
	baseURL  *url.URL
	creds    model.Credentials
	logger   *slog.Logger
	pageSize int
	pacer    *rate.Limiter
	// wait is swapped in tests to skip retry backoff.
	wait func(ctx context.Context, d time.Duration) error
}

// NewClient creates and configures a new Client instance authenticated with basic auth.
func NewClient(creds model.Credentials, logger *slog.Logger, opts Options) (*Client, error) {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", base, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if opts.InsecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // the platform gateway serves a private CA
		}
		httpClient = &http.Client{Transport: transport}
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	pacing := rate.Every(defaultPageDelay)
	switch {
	case opts.PageDelay > 0:
		pacing = rate.Every(opts.PageDelay)
	case opts.PageDelay < 0:
		pacing = rate.Inf
	}

	return &Client{
		http:     httpClient,
		baseURL:  baseURL,
		creds:    creds,
		logger:   logger,
		pageSize: pageSize,
		pacer:    rate.NewLimiter(pacing, 1),
		wait:     sleepContext,
	}, nil
}

type listResponse[T any] struct {
	Data []T `json:"data"`
	Page struct {
		NextCursor string `json:"next_cursor"`
	} `json:"page"`
}

type itemResponse[T any] struct {
	Data *T `json:"data"`
}

// ListProjects returns all projects visible to the credentials.
func (c *Client) ListProjects(ctx context.Context) []model.RemoteProject {
	var resp listResponse[model.RemoteProject]
	if err := c.get(ctx, "projects", "projects", nil, &resp); err != nil {
		return nil
	}
	return resp.Data
}

// ListRepositories returns the repositories of a project.
func (c *Client) ListRepositories(ctx context.Context, projectKey string) []model.RemoteRepository {
	var resp listResponse[model.RemoteRepository]
	if err := c.get(ctx, "repositories", reposPath(projectKey), nil, &resp); err != nil {
		return nil
	}
	return resp.Data
}

// ListBranches returns the branches of a repository.
func (c *Client) ListBranches(ctx context.Context, projectKey, repoName string) []model.Branch {
	var resp listResponse[model.Branch]
	if err := c.get(ctx, "branches", repoPath(projectKey, repoName, "branches"), nil, &resp); err != nil {
		return nil
	}
	return resp.Data
}

// IterCommits lazily walks the commit history of a branch page by page.
// Paging stops on an empty page, a missing next cursor, or, when since is set, a page whose
// oldest commit predates since. The since check only saves requests; callers still filter.
func (c *Client) IterCommits(ctx context.Context, projectKey, repoName, branch string, since time.Time) iter.Seq[model.CommitSummary] {
	return func(yield func(model.CommitSummary) bool) {
		logger := c.logger.With("project", projectKey, "repo", repoName, "branch", branch)
		endpoint := repoPath(projectKey, repoName, "commits")
		cursor := ""
		total := 0

		for {
			if err := c.pacer.Wait(ctx); err != nil {
				logger.Warn("Stopped paging commits", "error", err)
				return
			}

			query := url.Values{}
			query.Set("limit", strconv.Itoa(c.pageSize))
			if cursor != "" {
				query.Set("cursor", cursor)
			}
			if branch != "" {
				query.Set("rev", branch)
			}

			var page listResponse[model.CommitSummary]
			if err := c.get(ctx, "commits", endpoint, query, &page); err != nil {
				return
			}
			if len(page.Data) == 0 {
				logger.Debug("Received empty commits page")
				return
			}
			total += len(page.Data)
			logger.Debug("Fetched commits page", "count", len(page.Data), "total", total)

			for _, commit := range page.Data {
				if !yield(commit) {
					return
				}
			}

			if !since.IsZero() {
				if oldest, ok := oldestCommitDate(page.Data); ok && oldest.Before(since) {
					logger.Debug("Reached commits older than since", "since", since, "oldest", oldest)
					return
				}
			}

			cursor = page.Page.NextCursor
			if cursor == "" {
				logger.Debug("Reached end of commit history")
				return
			}
		}
	}
}

// ListCommits collects IterCommits into a slice.
func (c *Client) ListCommits(ctx context.Context, projectKey, repoName, branch string, since time.Time) []model.CommitSummary {
	return slices.Collect(c.IterCommits(ctx, projectKey, repoName, branch, since))
}

// GetCommitDetails fetches metadata and line stats of a commit.
// A response without a stats block yields zero counts; nil means the call failed.
func (c *Client) GetCommitDetails(ctx context.Context, projectKey, repoName, sha string) *model.CommitDetails {
	var resp itemResponse[model.CommitDetails]
	if err := c.get(ctx, "commit_details", repoPath(projectKey, repoName, "commits", sha), nil, &resp); err != nil {
		return nil
	}
	details := resp.Data
	if details == nil {
		details = &model.CommitDetails{Hash: sha}
	}
	if details.Stats == nil {
		details.Stats = &model.CommitStats{}
	}
	return details
}

// GetCommitDiff fetches the base64-encoded patch of a commit; nil means the call failed.
func (c *Client) GetCommitDiff(ctx context.Context, projectKey, repoName, sha string) *model.CommitDiff {
	var resp itemResponse[model.CommitDiff]
	if err := c.get(ctx, "commit_diff", repoPath(projectKey, repoName, "commits", sha, "diff"), nil, &resp); err != nil {
		return nil
	}
	if resp.Data == nil {
		return &model.CommitDiff{}
	}
	return resp.Data
}

// get performs a GET with retries and decodes the JSON body into out.
// Errors are logged here and counted; the caller only learns that the call failed.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	err := c.doGet(ctx, path, query, out)
	if err != nil {
		requestsTotal.WithLabelValues(endpoint, "error").Inc()
		c.logger.Error("Remote API request failed", "endpoint", endpoint, "path", path, "error", err)
		return err
	}
	requestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

func (c *Client) doGet(ctx context.Context, path string, query url.Values, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return err
	}
	target := c.baseURL.ResolveReference(ref)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			if err := c.wait(ctx, backoffForAttempt(attempt-1)); err != nil {
				return err
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if c.creds.Username != "" {
			req.SetBasicAuth(c.creds.Username, c.creds.Password)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if isTransientStatus(resp.StatusCode) {
			lastErr = &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 512)}
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return lastErr
}

// StatusError is a non-2xx response from the remote API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

func isTransientStatus(statusCode int) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	return statusCode >= 500 && statusCode <= 599
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func backoffForAttempt(attempt int) time.Duration {
	backoff := initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
		if backoff > maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

func oldestCommitDate(commits []model.CommitSummary) (time.Time, bool) {
	var oldest time.Time
	found := false
	for _, c := range commits {
		t, err := model.ParseTimestamp(c.CreatedAt)
		if err != nil {
			continue
		}
		if !found || t.Before(oldest) {
			oldest = t
			found = true
		}
	}
	return oldest, found
}

func reposPath(projectKey string) string {
	return "projects/" + url.PathEscape(projectKey) + "/repos"
}

func repoPath(projectKey, repoName string, rest ...string) string {
	parts := []string{reposPath(projectKey), url.PathEscape(repoName)}
	for _, r := range rest {
		parts = append(parts, url.PathEscape(r))
	}
	return strings.Join(parts, "/")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
