// internal/api/handler.go
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"commit-scorer/internal/collector"
	"commit-scorer/internal/database"
	"commit-scorer/internal/job"
	"commit-scorer/internal/model"
)

const (
	defaultTopLimit    = 10
	defaultCommitLimit = 50
	maxLimit           = 100
)

// JobRunner starts collections and reports on them.
type JobRunner interface {
	Start(req collector.Request) (<-chan struct{}, error)
	Status() job.Status
}

// Browser lists what the remote platform hosts.
type Browser interface {
	ListProjects(ctx context.Context) []model.RemoteProject
	ListRepositories(ctx context.Context, projectKey string) []model.RemoteRepository
	ListBranches(ctx context.Context, projectKey, repoName string) []model.Branch
}

// BrowserFactory builds a Browser for the credentials of one request.
type BrowserFactory func(creds model.Credentials) (Browser, error)

// Handler is the container for API dependencies.
type Handler struct {
	db           database.Querier
	runner       JobRunner
	newBrowser   BrowserFactory
	defaultCreds model.Credentials
	logger       *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
// defaultCreds are used when a request carries no remote credentials.
func NewRouter(db database.Querier, runner JobRunner, newBrowser BrowserFactory, defaultCreds model.Credentials, logger *slog.Logger) http.Handler {
	h := &Handler{
		db:           db,
		runner:       runner,
		newBrowser:   newBrowser,
		defaultCreds: defaultCreds,
		logger:       logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// API Routes
	r.Get("/health", h.healthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Post("/collections", h.startCollection)
		r.Get("/collections/status", h.collectionStatus)

		r.Post("/remote/projects", h.listRemoteProjects)
		r.Post("/remote/repositories", h.listRemoteRepositories)
		r.Post("/remote/branches", h.listRemoteBranches)

		r.Get("/commits", h.listCommits)
		r.Get("/commits/{sha}", h.getCommit)
		r.Get("/stats/summary", h.getSummary)
		r.Get("/stats/top-committers", h.getTopCommitters)
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listCommits returns stored commits, newest first.
// GET /v1/commits?author_email=&limit=&offset=
func (h *Handler) listCommits(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, defaultCommitLimit)
	if !ok {
		return
	}
	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		var err error
		offset, err = strconv.Atoi(s)
		if err != nil || offset < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'offset' parameter. Must be a non-negative integer.")
			return
		}
	}

	params := database.ListCommitsParams{Limit: int32(limit), Offset: int32(offset)}
	if email := r.URL.Query().Get("author_email"); email != "" {
		params.AuthorEmail = pgtype.Text{String: email, Valid: true}
	}

	commits, err := h.db.ListCommits(r.Context(), params)
	if err != nil {
		h.logger.Error("Failed to list commits", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	views := make([]commitView, 0, len(commits))
	for _, c := range commits {
		views = append(views, newCommitView(c, false))
	}
	respondWithJSON(w, http.StatusOK, views)
}

// getCommit returns one stored commit with all of its scores.
// GET /v1/commits/{sha}
func (h *Handler) getCommit(w http.ResponseWriter, r *http.Request) {
	sha := chi.URLParam(r, "sha")

	commit, err := h.db.GetCommit(r.Context(), sha)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondWithError(w, http.StatusNotFound, "Commit not found")
			return
		}
		h.logger.Error("Failed to get commit", "sha", sha, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, newCommitView(commit, true))
}

// getSummary returns totals over all stored commits.
// GET /v1/stats/summary
func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.db.GetCommitSummary(r.Context())
	if err != nil {
		h.logger.Error("Failed to get commit summary", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, summaryView{
		TotalCommits:       summary.TotalCommits,
		TotalLinesAdded:    summary.TotalLinesAdded,
		TotalLinesDeleted:  summary.TotalLinesDeleted,
		ActiveContributors: summary.ActiveContributors,
		FirstCommitDate:    timePtr(summary.FirstCommitDate),
		LastCommitDate:     timePtr(summary.LastCommitDate),
	})
}

// getTopCommitters handles the request for top commit authors.
// GET /v1/stats/top-committers?limit=N
func (h *Handler) getTopCommitters(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r, defaultTopLimit)
	if !ok {
		return
	}

	authors, err := h.db.GetTopNCommitAuthors(r.Context(), int32(limit))
	if err != nil {
		h.logger.Error("Failed to get top commit authors", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if authors == nil {
		authors = []database.GetTopNCommitAuthorsRow{}
	}

	respondWithJSON(w, http.StatusOK, authors)
}

// parseLimit reads ?limit=, writing a 400 response and returning false when it is invalid.
func parseLimit(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return fallback, true
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > maxLimit {
		respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter. Must be an integer between 1 and 100.")
		return 0, false
	}
	return limit, true
}
