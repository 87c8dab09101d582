// internal/collector/collector_test.go
package collector

import (
	"context"
	"encoding/base64"
	"errors"
	"iter"
	"log/slog"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"commit-scorer/internal/database"
	custom_errors "commit-scorer/internal/errors"
	"commit-scorer/internal/llm"
	"commit-scorer/internal/model"
)

type fakeRemote struct {
	branches []model.Branch
	commits  map[string][]model.CommitSummary
	details  map[string]*model.CommitDetails
	diffs    map[string]*model.CommitDiff
	iterated []string
}

func (f *fakeRemote) ListBranches(_ context.Context, _, _ string) []model.Branch {
	return f.branches
}

func (f *fakeRemote) IterCommits(_ context.Context, _, _, branch string, _ time.Time) iter.Seq[model.CommitSummary] {
	f.iterated = append(f.iterated, branch)
	return slices.Values(f.commits[branch])
}

func (f *fakeRemote) GetCommitDetails(_ context.Context, _, _, sha string) *model.CommitDetails {
	return f.details[sha]
}

func (f *fakeRemote) GetCommitDiff(_ context.Context, _, _, sha string) *model.CommitDiff {
	return f.diffs[sha]
}

type fakeEvaluator struct {
	evaluation llm.Evaluation
	calls      int
}

func (f *fakeEvaluator) Score(_ context.Context, _, _ string) llm.Evaluation {
	f.calls++
	return f.evaluation
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func summary(sha, email, createdAt string) model.CommitSummary {
	return model.CommitSummary{
		Hash:      sha,
		Message:   "change " + sha,
		Author:    model.Author{Name: "Dev " + sha, Email: email},
		CreatedAt: createdAt,
	}
}

// remoteWith builds a remote where every listed commit has stats and a diff.
func remoteWith(commits map[string][]model.CommitSummary) *fakeRemote {
	r := &fakeRemote{
		commits: commits,
		details: map[string]*model.CommitDetails{},
		diffs:   map[string]*model.CommitDiff{},
	}
	for _, list := range commits {
		for _, c := range list {
			r.details[c.Hash] = &model.CommitDetails{Hash: c.Hash, Stats: &model.CommitStats{Additions: 60, Deletions: 20}}
			r.diffs[c.Hash] = &model.CommitDiff{Content: base64.StdEncoding.EncodeToString([]byte("+line for " + c.Hash))}
		}
	}
	return r
}

func baseRequest() Request {
	return Request{
		Credentials: model.Credentials{Username: "user", Password: "secret"},
		ProjectKey:  "PROJ",
		RepoName:    "repo",
		Branch:      "main",
		Since:       "2024-01-01",
		Until:       "2024-01-31T23:59:59Z",
	}
}

// expectExistingRepository sets up the lookups for a project and repository already stored.
func expectExistingRepository(store *database.MockStore) {
	store.On("GetProject", mock.Anything, "PROJ").Return(database.Project{Key: "PROJ"}, nil).Once()
	store.On("GetRepository", mock.Anything, model.RepositoryID("PROJ", "repo")).
		Return(database.Repository{ID: model.RepositoryID("PROJ", "repo"), Name: "repo", ProjectKey: "PROJ"}, nil).Once()
}

func newCollector(store database.Store, remote Remote, evaluator Evaluator) *Collector {
	factory := func(model.Credentials) (Remote, error) { return remote, nil }
	return New(store, factory, evaluator, newTestLogger())
}

func TestCollector_Collect(t *testing.T) {
	ctx := context.Background()

	t.Run("creates project and repository and saves new commits", func(t *testing.T) {
		store := new(database.MockStore)
		remote := remoteWith(map[string][]model.CommitSummary{
			"main": {
				summary("aaa1111", "dev@example.com", "2024-01-10T10:00:00Z"),
				summary("bbb2222", "dev@example.com", "2024-01-05T10:00:00Z"),
			},
		})
		evaluator := &fakeEvaluator{evaluation: llm.Evaluation{
			Scores:  llm.Scores{llm.CriterionSize: 4, llm.CriterionQuality: 4, llm.CriterionComplexity: 4, llm.CriterionComment: 4, llm.CriterionSum: 16},
			RawText: "Size: 4 ...",
		}}
		repoID := model.RepositoryID("PROJ", "repo")

		store.On("GetProject", mock.Anything, "PROJ").Return(database.Project{}, pgx.ErrNoRows).Once()
		store.On("CreateProject", mock.Anything, mock.MatchedBy(func(p database.CreateProjectParams) bool {
			return p.Key == "PROJ" && p.Name == "PROJ" && p.Description.String == "Project PROJ"
		})).Return(database.Project{Key: "PROJ"}, nil).Once()
		store.On("GetRepository", mock.Anything, repoID).Return(database.Repository{}, pgx.ErrNoRows).Once()
		store.On("CreateRepository", mock.Anything, database.CreateRepositoryParams{ID: repoID, Name: "repo", ProjectKey: "PROJ"}).
			Return(database.Repository{ID: repoID, Name: "repo", ProjectKey: "PROJ"}, nil).Once()
		store.On("CommitExists", mock.Anything, "aaa1111").Return(false, nil).Once()
		store.On("CommitExists", mock.Anything, "bbb2222").Return(true, nil).Once()
		store.On("CreateCommit", mock.Anything, mock.MatchedBy(func(p database.CreateCommitParams) bool {
			return p.Sha == "aaa1111" &&
				p.RepositoryID == repoID &&
				p.AddedLines == 60 && p.DeletedLines == 20 &&
				p.KpiDifficulty == 2.4 && p.KpiQuality == 4.76 && p.KpiSize == 4 &&
				p.LlmTotalScore.Valid && p.LlmTotalScore.Int32 == 16 &&
				p.FinalScore == 13.58 &&
				p.CommitContent.String == "+line for aaa1111"
		})).Return(nil).Once()

		c := newCollector(store, remote, evaluator)
		result, err := c.Collect(ctx, baseRequest())

		require.NoError(t, err)
		assert.Equal(t, 2, result.Found)
		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, "Analysis finished. Found 2 commits. Added to database: 1.", result.Message)
		assert.Equal(t, 1, evaluator.calls)
		store.AssertExpectations(t)
	})

	t.Run("date range is inclusive at both ends", func(t *testing.T) {
		store := new(database.MockStore)
		remote := remoteWith(map[string][]model.CommitSummary{
			"main": {
				summary("after", "", "2024-01-31T23:59:59.000001Z"),
				summary("atuntil", "", "2024-01-31T23:59:59Z"),
				summary("atsince", "", "2024-01-01T00:00:00Z"),
				summary("before", "", "2023-12-31T23:59:59.999999Z"),
			},
		})
		expectExistingRepository(store)
		store.On("CommitExists", mock.Anything, mock.Anything).Return(false, nil)
		store.On("CreateCommit", mock.Anything, mock.Anything).Return(nil)

		c := newCollector(store, remote, &fakeEvaluator{})
		result, err := c.Collect(ctx, baseRequest())

		require.NoError(t, err)
		assert.Equal(t, 2, result.Found)
		assert.Equal(t, 2, result.Saved)
		store.AssertCalled(t, "CommitExists", mock.Anything, "atuntil")
		store.AssertCalled(t, "CommitExists", mock.Anything, "atsince")
		store.AssertNotCalled(t, "CommitExists", mock.Anything, "after")
		store.AssertNotCalled(t, "CommitExists", mock.Anything, "before")
	})

	t.Run("filters by author email case-insensitively", func(t *testing.T) {
		store := new(database.MockStore)
		remote := remoteWith(map[string][]model.CommitSummary{
			"main": {
				summary("mine", "Dev@Example.com", "2024-01-10T10:00:00Z"),
				summary("theirs", "other@example.com", "2024-01-11T10:00:00Z"),
			},
		})
		expectExistingRepository(store)
		store.On("CommitExists", mock.Anything, "mine").Return(false, nil).Once()
		store.On("CreateCommit", mock.Anything, mock.Anything).Return(nil).Once()

		req := baseRequest()
		req.TargetEmail = "dev@example.COM"
		c := newCollector(store, remote, &fakeEvaluator{})
		result, err := c.Collect(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Found)
		assert.Equal(t, 1, result.Saved)
		store.AssertExpectations(t)
	})

	t.Run("all expands to every named branch", func(t *testing.T) {
		store := new(database.MockStore)
		remote := remoteWith(map[string][]model.CommitSummary{
			"main":    {summary("m1", "", "2024-01-10T10:00:00Z")},
			"develop": {summary("d1", "", "2024-01-12T10:00:00Z")},
		})
		remote.branches = []model.Branch{{Name: "main"}, {Name: ""}, {Name: "develop"}}
		expectExistingRepository(store)
		store.On("CommitExists", mock.Anything, mock.Anything).Return(false, nil)
		store.On("CreateCommit", mock.Anything, mock.Anything).Return(nil)

		req := baseRequest()
		req.Branch = AllBranches
		c := newCollector(store, remote, &fakeEvaluator{})
		result, err := c.Collect(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, []string{"main", "develop"}, remote.iterated)
		assert.Equal(t, 2, result.Found)
		assert.Equal(t, 2, result.Saved)
	})

	t.Run("skips commits whose details or diff are unavailable", func(t *testing.T) {
		store := new(database.MockStore)
		remote := remoteWith(map[string][]model.CommitSummary{
			"main": {
				summary("nodetails", "", "2024-01-10T10:00:00Z"),
				summary("nodiff", "", "2024-01-11T10:00:00Z"),
				summary("ok", "", "2024-01-12T10:00:00Z"),
			},
		})
		delete(remote.details, "nodetails")
		delete(remote.diffs, "nodiff")
		expectExistingRepository(store)
		store.On("CommitExists", mock.Anything, mock.Anything).Return(false, nil)
		store.On("CreateCommit", mock.Anything, mock.MatchedBy(func(p database.CreateCommitParams) bool {
			return p.Sha == "ok"
		})).Return(nil).Once()

		c := newCollector(store, remote, &fakeEvaluator{})
		result, err := c.Collect(ctx, baseRequest())

		require.NoError(t, err)
		assert.Equal(t, 3, result.Found)
		assert.Equal(t, 1, result.Saved)
		store.AssertExpectations(t)
	})

	t.Run("continues after a failed insert", func(t *testing.T) {
		store := new(database.MockStore)
		remote := remoteWith(map[string][]model.CommitSummary{
			"main": {
				summary("bad", "", "2024-01-10T10:00:00Z"),
				summary("good", "", "2024-01-11T10:00:00Z"),
			},
		})
		expectExistingRepository(store)
		store.On("CommitExists", mock.Anything, mock.Anything).Return(false, nil)
		store.On("CreateCommit", mock.Anything, mock.MatchedBy(func(p database.CreateCommitParams) bool {
			return p.Sha == "bad"
		})).Return(errors.New("constraint violation")).Once()
		store.On("CreateCommit", mock.Anything, mock.MatchedBy(func(p database.CreateCommitParams) bool {
			return p.Sha == "good"
		})).Return(nil).Once()

		c := newCollector(store, remote, &fakeEvaluator{})
		result, err := c.Collect(ctx, baseRequest())

		require.NoError(t, err)
		assert.Equal(t, 2, result.Found)
		assert.Equal(t, 1, result.Saved)
		store.AssertExpectations(t)
	})

	t.Run("skips entries without hash or with an unparsable date", func(t *testing.T) {
		store := new(database.MockStore)
		remote := remoteWith(map[string][]model.CommitSummary{
			"main": {
				summary("", "", "2024-01-10T10:00:00Z"),
				summary("baddate", "", "yesterday"),
			},
		})
		expectExistingRepository(store)

		c := newCollector(store, remote, &fakeEvaluator{})
		result, err := c.Collect(ctx, baseRequest())

		require.NoError(t, err)
		assert.Equal(t, 0, result.Found)
		store.AssertNotCalled(t, "CommitExists", mock.Anything, mock.Anything)
	})

	t.Run("falls back to the deterministic score without a model total", func(t *testing.T) {
		store := new(database.MockStore)
		remote := remoteWith(map[string][]model.CommitSummary{
			"main": {summary("solo", "", "2024-01-10T10:00:00Z")},
		})
		expectExistingRepository(store)
		store.On("CommitExists", mock.Anything, "solo").Return(false, nil).Once()
		store.On("CreateCommit", mock.Anything, mock.MatchedBy(func(p database.CreateCommitParams) bool {
			return p.FinalScore == 11.16 && !p.LlmTotalScore.Valid && !p.LlmEvaluationText.Valid
		})).Return(nil).Once()

		c := newCollector(store, remote, &fakeEvaluator{})
		_, err := c.Collect(ctx, baseRequest())

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("fails before touching the store on an invalid date", func(t *testing.T) {
		store := new(database.MockStore)
		req := baseRequest()
		req.Since = "01/02/2024"

		c := newCollector(store, remoteWith(nil), &fakeEvaluator{})
		_, err := c.Collect(ctx, req)

		var dateErr *custom_errors.ErrInvalidDate
		require.ErrorAs(t, err, &dateErr)
		assert.Equal(t, "since", dateErr.Field)
		store.AssertNotCalled(t, "GetProject", mock.Anything, mock.Anything)
	})

	t.Run("fails on a branch the remote does not have", func(t *testing.T) {
		store := new(database.MockStore)
		remote := remoteWith(map[string][]model.CommitSummary{})
		remote.branches = []model.Branch{{Name: "master"}, {Name: "develop"}}
		expectExistingRepository(store)

		c := newCollector(store, remote, &fakeEvaluator{})
		_, err := c.Collect(ctx, baseRequest())

		var branchErr *custom_errors.ErrUnknownBranch
		require.ErrorAs(t, err, &branchErr)
		assert.Equal(t, "main", branchErr.Branch)
		assert.Empty(t, remote.iterated)
	})

	t.Run("fails without credentials", func(t *testing.T) {
		req := baseRequest()
		req.Credentials = model.Credentials{Username: "user"}

		c := newCollector(new(database.MockStore), remoteWith(nil), &fakeEvaluator{})
		_, err := c.Collect(ctx, req)

		assert.ErrorIs(t, err, custom_errors.ErrMissingCredentials)
	})

	t.Run("stops when a store lookup fails", func(t *testing.T) {
		store := new(database.MockStore)
		remote := remoteWith(map[string][]model.CommitSummary{
			"main": {summary("x", "", "2024-01-10T10:00:00Z")},
		})
		expectExistingRepository(store)
		store.On("CommitExists", mock.Anything, "x").Return(false, errors.New("connection reset")).Once()

		c := newCollector(store, remote, &fakeEvaluator{})
		_, err := c.Collect(ctx, baseRequest())

		assert.ErrorContains(t, err, "connection reset")
		store.AssertNotCalled(t, "CreateCommit", mock.Anything, mock.Anything)
	})
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"2024-01-02", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2024-01-02T03:04:05", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2024-01-02 03:04:05", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2024-01-02T03:04:05.123456+03:00", time.Date(2024, 1, 2, 0, 4, 5, 123456000, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseDate("since", tt.value)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseDate("until", "")
	assert.Error(t, err)
}
