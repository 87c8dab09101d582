// internal/collector/dates.go
package collector

import (
	"time"

	custom_errors "commit-scorer/internal/errors"
	"commit-scorer/internal/model"
)

// ParseDate parses an ISO-8601 date or timestamp. Values without a zone are taken as UTC.
func ParseDate(field, value string) (time.Time, error) {
	t, err := model.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, &custom_errors.ErrInvalidDate{Field: field, Value: value, Err: err}
	}
	return t, nil
}

// parseCommitDate reads the created_at field of a commit summary.
func parseCommitDate(value string) (time.Time, bool) {
	t, err := model.ParseTimestamp(value)
	return t, err == nil
}
