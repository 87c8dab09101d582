// internal/llm/scorer.go
package llm

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"

	"commit-scorer/internal/scoring"
)

const (
	minCriterionScore = 1
	maxCriterionScore = 5
)

// maxDiffChars bounds how much of a diff is sent to the model.
const maxDiffChars = 4000

const truncationMarker = "\n... [content truncated]"

// Criterion names one field of a model evaluation.
type Criterion string

const (
	CriterionSize       Criterion = "size"
	CriterionQuality    Criterion = "quality"
	CriterionComplexity Criterion = "complexity"
	CriterionComment    Criterion = "comment"
	CriterionSum        Criterion = "sum"
)

// SubCriteria are the independently judged criteria, in prompt order.
var SubCriteria = []Criterion{CriterionSize, CriterionQuality, CriterionComplexity, CriterionComment}

// Scores holds whatever fields could be parsed from a reply. Missing fields are absent keys.
type Scores map[Criterion]int

// Ptr returns the score of c as a pointer, nil when absent.
func (s Scores) Ptr(c Criterion) *int {
	v, ok := s[c]
	if !ok {
		return nil
	}
	return &v
}

// Total is the reported sum when present, otherwise the sum of the parsed sub-scores.
// It is zero when nothing was parsed.
func (s Scores) Total() int {
	if sum, ok := s[CriterionSum]; ok {
		return sum
	}
	total := 0
	for _, c := range SubCriteria {
		total += s[c]
	}
	return total
}

// Evaluation is the outcome of scoring one commit.
type Evaluation struct {
	Scores  Scores
	RawText string
}

// Completer sends a prompt to a language model and returns its free-text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Scorer evaluates commits with a language model.
type Scorer struct {
	completer Completer
	logger    *slog.Logger
}

// NewScorer creates a Scorer. A nil completer disables model scoring.
func NewScorer(completer Completer, logger *slog.Logger) *Scorer {
	if completer == nil {
		logger.Warn("Language model is not configured, model scoring is disabled")
	}
	return &Scorer{completer: completer, logger: logger}
}

// Enabled reports whether a completer is configured.
func (s *Scorer) Enabled() bool {
	return s != nil && s.completer != nil
}

// Score asks the model to grade a diff and its commit message.
// It returns an empty Evaluation when the model is unavailable or the call fails.
func (s *Scorer) Score(ctx context.Context, diff, message string) Evaluation {
	if !s.Enabled() {
		evaluationsTotal.WithLabelValues("disabled").Inc()
		return Evaluation{}
	}

	reply, err := s.completer.Complete(ctx, BuildPrompt(diff, message))
	if err != nil {
		evaluationsTotal.WithLabelValues("error").Inc()
		s.logger.Error("Language model request failed", "error", err)
		return Evaluation{}
	}
	s.logger.Debug("Language model replied", "reply", reply)

	scores := ParseScores(reply)
	if len(scores) == 0 {
		evaluationsTotal.WithLabelValues("unparsable").Inc()
		s.logger.Warn("Language model reply contained no scores")
	} else {
		evaluationsTotal.WithLabelValues("ok").Inc()
	}
	return Evaluation{Scores: scores, RawText: reply}
}

var scorePatterns = map[Criterion]*regexp.Regexp{
	CriterionSize:       labelPattern(`size|размер`, `\d`),
	CriterionQuality:    labelPattern(`quality|качество`, `\d`),
	CriterionComplexity: labelPattern(`complexity|сложность`, `\d`),
	CriterionComment:    labelPattern(`comment|комментарий`, `\d`),
	CriterionSum:        labelPattern(`sum|total|сумма`, `\d+`),
}

// labelPattern matches "Label: N" anywhere in the text, allowing markdown emphasis
// between the label, the colon and the value.
func labelPattern(labels, value string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:` + labels + `)[\s*_]*:[\s*_]*(` + value + `)`)
}

// ParseScores extracts each criterion independently. Fields that cannot be found or fall
// outside their range are omitted, so an out-of-range sum falls back to the sub-scores.
func ParseScores(text string) Scores {
	scores := Scores{}
	for c, re := range scorePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil || !inRange(c, v) {
			continue
		}
		scores[c] = v
	}
	return scores
}

func inRange(c Criterion, v int) bool {
	if c == CriterionSum {
		return v >= 0 && v <= scoring.MaxModel
	}
	return v >= minCriterionScore && v <= maxCriterionScore
}
