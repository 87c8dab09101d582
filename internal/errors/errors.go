// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrCollectionRunning is returned when a collection is requested while another one is active.
	ErrCollectionRunning = errors.New("a data collection job is already running")

	// ErrMissingCredentials is returned when no remote API credentials were supplied or configured.
	ErrMissingCredentials = errors.New("remote API credentials were not provided")
)

// ErrInvalidTargetFormat is returned when a collection target in the config is not in
// 'PROJECT/repo' or 'PROJECT/repo@branch' format.
type ErrInvalidTargetFormat struct {
	Target string
}

func (e *ErrInvalidTargetFormat) Error() string {
	return fmt.Sprintf("invalid collection target: %q, expected 'PROJECT/repo' or 'PROJECT/repo@branch'", e.Target)
}

// ErrUnknownBranch is returned when a named branch does not exist in the remote repository.
type ErrUnknownBranch struct {
	Branch string
}

func (e *ErrUnknownBranch) Error() string {
	return fmt.Sprintf("branch %q not found in repository", e.Branch)
}

// ErrInvalidDate is returned when a since/until bound cannot be parsed.
type ErrInvalidDate struct {
	Field string
	Value string
	Err   error
}

func (e *ErrInvalidDate) Error() string {
	return fmt.Sprintf("invalid %s date %q: %v", e.Field, e.Value, e.Err)
}

func (e *ErrInvalidDate) Unwrap() error {
	return e.Err
}
