// Package apperr defines the error taxonomy shared by the API, MCP, and
// inbox surfaces.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError describes a single change-set contract violation.
type ValidationError struct {
	Path   string `json:"path"`
	Value  any    `json:"value,omitempty"`
	Reason string `json:"reason"`
}

func (e ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (got %v)", e.Path, e.Reason, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// ValidationErrors aggregates every violation found in one change-set.
// The orchestrator aborts before any mutation when it sees one.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Error()
	}
	return "invalid change-set: " + strings.Join(msgs, "; ")
}

// ParseError means the raw assistant output was not valid JSON. It is
// fatal for the apply and surfaced verbatim to the caller.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "parse assistant output: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a change-set validation failure.
func IsValidation(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// IsParse reports whether err is an assistant-output parse failure.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
