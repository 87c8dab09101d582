// internal/api/response.go
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"commit-scorer/internal/database"
	"commit-scorer/internal/scoring"
)

type modelScores struct {
	Size       *int32 `json:"size"`
	Quality    *int32 `json:"quality"`
	Complexity *int32 `json:"complexity"`
	Comment    *int32 `json:"comment"`
	Total      *int32 `json:"total"`
	Reply      string `json:"reply,omitempty"`
}

type commitView struct {
	SHA             string      `json:"sha"`
	Message         string      `json:"message"`
	AuthorName      string      `json:"author_name"`
	AuthorEmail     string      `json:"author_email,omitempty"`
	CommitDate      *time.Time  `json:"commit_date"`
	AddedLines      int32       `json:"added_lines"`
	DeletedLines    int32       `json:"deleted_lines"`
	Deterministic   scoring.KPI `json:"deterministic"`
	Model           modelScores `json:"model"`
	FinalScore      float64     `json:"final_score"`
	NormalizedScore float64     `json:"normalized_score"`
	ProjectKey      string      `json:"project_key,omitempty"`
	RepositoryID    int64       `json:"repository_id"`
	Content         string      `json:"content,omitempty"`
}

// newCommitView maps a stored commit for output. Diff content and the raw model
// reply are only included when detailed is set.
func newCommitView(c database.Commit, detailed bool) commitView {
	v := commitView{
		SHA:          c.Sha,
		Message:      c.Message,
		AuthorName:   c.AuthorName,
		AuthorEmail:  c.AuthorEmail.String,
		CommitDate:   timePtr(c.CommitDate),
		AddedLines:   c.AddedLines,
		DeletedLines: c.DeletedLines,
		Deterministic: scoring.KPI{
			Difficulty: c.KpiDifficulty,
			Quality:    c.KpiQuality,
			Size:       int(c.KpiSize),
		},
		Model: modelScores{
			Size:       int4Ptr(c.LlmScoreSize),
			Quality:    int4Ptr(c.LlmScoreQuality),
			Complexity: int4Ptr(c.LlmScoreComplexity),
			Comment:    int4Ptr(c.LlmScoreComment),
			Total:      int4Ptr(c.LlmTotalScore),
		},
		FinalScore:      c.FinalScore,
		NormalizedScore: scoring.Normalize(c.FinalScore),
		ProjectKey:      c.ProjectKey.String,
		RepositoryID:    c.RepositoryID,
	}
	if detailed {
		v.Content = c.CommitContent.String
		v.Model.Reply = c.LlmEvaluationText.String
	}
	return v
}

type summaryView struct {
	TotalCommits       int64      `json:"total_commits"`
	TotalLinesAdded    int64      `json:"total_lines_added"`
	TotalLinesDeleted  int64      `json:"total_lines_deleted"`
	ActiveContributors int64      `json:"active_contributors"`
	FirstCommitDate    *time.Time `json:"first_commit_date"`
	LastCommitDate     *time.Time `json:"last_commit_date"`
}

func timePtr(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func int4Ptr(v pgtype.Int4) *int32 {
	if !v.Valid {
		return nil
	}
	return &v.Int32
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
