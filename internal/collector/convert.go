// internal/collector/convert.go
package collector

import (
	"github.com/jackc/pgx/v5/pgtype"

	"commit-scorer/internal/database"
	"commit-scorer/internal/model"
)

func toCreateCommitParams(c model.Commit) database.CreateCommitParams {
	return database.CreateCommitParams{
		Sha:                c.SHA,
		Message:            c.Message,
		AuthorName:         c.AuthorName,
		AuthorEmail:        textOrNull(c.AuthorEmail),
		CommitDate:         pgtype.Timestamptz{Time: c.CommitDate, Valid: !c.CommitDate.IsZero()},
		CommitContent:      textOrNull(c.Content),
		AddedLines:         int32(c.AddedLines),
		DeletedLines:       int32(c.DeletedLines),
		KpiDifficulty:      c.Difficulty,
		KpiQuality:         c.Quality,
		KpiSize:            int32(c.Size),
		LlmScoreSize:       int4OrNull(c.LLMSize),
		LlmScoreQuality:    int4OrNull(c.LLMQuality),
		LlmScoreComplexity: int4OrNull(c.LLMComplexity),
		LlmScoreComment:    int4OrNull(c.LLMComment),
		LlmTotalScore:      int4OrNull(c.LLMTotal),
		LlmEvaluationText:  textOrNull(c.LLMReply),
		FinalScore:         c.FinalScore,
		RepositoryID:       c.RepositoryID,
		ProjectKey:         textOrNull(c.ProjectKey),
	}
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func int4OrNull(v *int) pgtype.Int4 {
	if v == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*v), Valid: true}
}
