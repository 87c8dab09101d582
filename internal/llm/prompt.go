// internal/llm/prompt.go
package llm

import (
	"strings"
	"unicode/utf8"
)

const rubric = `You are a strict team lead who is precise in grading. Do not average scores and follow the criteria literally. Grade the following commit STRICTLY by the criteria below.

GRADING RULES:
1. SIZE - count the total number of added and deleted lines in the commit:
   1 point - fewer than 10 changed lines
   2 points - 10-20 changed lines
   3 points - 20-50 changed lines
   4 points - 50-80 changed lines
   5 points - more than 80 changed lines

2. QUALITY - analyze the content of the changes:
   1-2 points - the changes clearly introduce new bugs or make the code worse
   3 points - the changes are neutral but could have been implemented better
   4-5 points - the changes improve the code and introduce no bugs

3. COMPLEXITY - grade the complexity of the implementation:
   1 point - trivial changes (typos, renames)
   2 points - simple changes (formatting adjustments, small edits)
   3 points - medium complexity (refactoring, adding features)
   4-5 points - complex changes (architectural edits, complex logic)

4. COMMENT - grade the presence and structure of the commit message:
   1 point - the message describes the code poorly or is missing
   2 points - minimal description
   3 points - the message is adequate
   4 points - the message is long but not specific
   5 points - the message fully reflects all changes in the code

IMPORTANT:
- Grade EACH criterion INDEPENDENTLY
- Count the REAL number of lines in the commit
- Do not average scores across criteria
- Grade strictly according to the metrics
`

const answerFormat = `Answer STRICTLY and ONLY in this format:
Size: X
Quality: Y
Complexity: Z
Comment: U
Sum: (sum of all previous values)`

// BuildPrompt renders the evaluation request for one commit.
func BuildPrompt(diff, message string) string {
	var b strings.Builder
	b.WriteString(rubric)
	b.WriteString("\nCOMMIT MESSAGE:\n")
	if strings.TrimSpace(message) == "" {
		b.WriteString("(empty)")
	} else {
		b.WriteString(message)
	}
	b.WriteString("\n\nCOMMIT TO ANALYZE:\n")
	b.WriteString(TruncateDiff(diff))
	b.WriteString("\n\n")
	b.WriteString(answerFormat)
	return b.String()
}

// TruncateDiff cuts diff to maxDiffChars characters and appends a marker when it was cut.
func TruncateDiff(diff string) string {
	if utf8.RuneCountInString(diff) <= maxDiffChars {
		return diff
	}
	n := 0
	for i := range diff {
		if n == maxDiffChars {
			return diff[:i] + truncationMarker
		}
		n++
	}
	return diff
}
