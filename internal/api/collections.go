// internal/api/collections.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"commit-scorer/internal/collector"
	custom_errors "commit-scorer/internal/errors"
	"commit-scorer/internal/model"
)

type credentialsRequest struct {
	Username string `json:"sfera_username"`
	Password string `json:"sfera_password"`
}

type collectionRequest struct {
	credentialsRequest
	ProjectKey  string `json:"project_key"`
	RepoName    string `json:"repo_name"`
	BranchName  string `json:"branch_name"`
	Since       string `json:"since"`
	Until       string `json:"until"`
	TargetEmail string `json:"target_email"`
}

type remoteRequest struct {
	credentialsRequest
	ProjectKey string `json:"project_key"`
	RepoName   string `json:"repo_name"`
}

// credentials falls back to the configured account when the request carries none.
func (h *Handler) credentials(req credentialsRequest) model.Credentials {
	creds := model.Credentials{Username: strings.TrimSpace(req.Username), Password: req.Password}
	if creds.Empty() {
		return h.defaultCreds
	}
	return creds
}

// startCollection accepts a collection job and runs it in the background.
// POST /v1/collections
func (h *Handler) startCollection(w http.ResponseWriter, r *http.Request) {
	var body collectionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	req := collector.Request{
		Credentials: h.credentials(body.credentialsRequest),
		ProjectKey:  strings.TrimSpace(body.ProjectKey),
		RepoName:    strings.TrimSpace(body.RepoName),
		Branch:      strings.TrimSpace(body.BranchName),
		Since:       body.Since,
		Until:       body.Until,
		TargetEmail: body.TargetEmail,
	}
	if req.Branch == "" {
		req.Branch = collector.AllBranches
	}
	if err := req.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.runner.Start(req); err != nil {
		if errors.Is(err, custom_errors.ErrCollectionRunning) {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("Failed to start collection", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info("Collection accepted", "project", req.ProjectKey, "repo", req.RepoName, "branch", req.Branch)
	respondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Data collection started in the background."})
}

// collectionStatus reports the state of the last or current job.
// GET /v1/collections/status
func (h *Handler) collectionStatus(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.runner.Status())
}

// listRemoteProjects proxies the project listing of the remote platform.
// POST /v1/remote/projects
func (h *Handler) listRemoteProjects(w http.ResponseWriter, r *http.Request) {
	_, browser, ok := h.browserFor(w, r)
	if !ok {
		return
	}

	projects := browser.ListProjects(r.Context())
	names := make([]string, 0, len(projects))
	for _, p := range projects {
		if name := p.Identifier(); name != "" {
			names = append(names, name)
		}
	}
	respondWithJSON(w, http.StatusOK, map[string][]string{"projects": names})
}

// listRemoteRepositories proxies the repository listing of a remote project.
// POST /v1/remote/repositories
func (h *Handler) listRemoteRepositories(w http.ResponseWriter, r *http.Request) {
	body, browser, ok := h.browserFor(w, r)
	if !ok {
		return
	}
	if body.ProjectKey == "" {
		respondWithError(w, http.StatusBadRequest, "project_key is required")
		return
	}

	repos := browser.ListRepositories(r.Context(), body.ProjectKey)
	names := make([]string, 0, len(repos))
	for _, repo := range repos {
		if repo.Name != "" {
			names = append(names, repo.Name)
		}
	}
	respondWithJSON(w, http.StatusOK, map[string][]string{"repositories": names})
}

// listRemoteBranches proxies the branch listing of a remote repository.
// POST /v1/remote/branches
func (h *Handler) listRemoteBranches(w http.ResponseWriter, r *http.Request) {
	body, browser, ok := h.browserFor(w, r)
	if !ok {
		return
	}
	if body.ProjectKey == "" || body.RepoName == "" {
		respondWithError(w, http.StatusBadRequest, "project_key and repo_name are required")
		return
	}

	branches := browser.ListBranches(r.Context(), body.ProjectKey, body.RepoName)
	names := make([]string, 0, len(branches))
	for _, b := range branches {
		if b.Name != "" {
			names = append(names, b.Name)
		}
	}
	respondWithJSON(w, http.StatusOK, map[string][]string{"branches": names})
}

// browserFor decodes a remote request and builds a client for its credentials.
// It writes the error response itself and returns false on failure.
func (h *Handler) browserFor(w http.ResponseWriter, r *http.Request) (remoteRequest, Browser, bool) {
	var body remoteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return body, nil, false
	}
	body.ProjectKey = strings.TrimSpace(body.ProjectKey)
	body.RepoName = strings.TrimSpace(body.RepoName)

	creds := h.credentials(body.credentialsRequest)
	if creds.Empty() {
		respondWithError(w, http.StatusBadRequest, custom_errors.ErrMissingCredentials.Error())
		return body, nil, false
	}

	browser, err := h.newBrowser(creds)
	if err != nil {
		h.logger.Error("Failed to create remote client", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return body, nil, false
	}
	return body, browser, true
}
