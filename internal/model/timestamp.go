// internal/model/timestamp.go
package model

import (
	"errors"
	"strings"
	"time"
)

// TimestampLayouts are the date formats accepted from the remote API and from requests.
// Values without a zone are taken as UTC.
var TimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// ParseTimestamp parses value with the first matching layout in TimestampLayouts.
func ParseTimestamp(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, errors.New("empty value")
	}
	var lastErr error
	for _, layout := range TimestampLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
