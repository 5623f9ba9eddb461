package orchestrator

import (
	"fmt"
	"strings"

	apperrors "audio-pipeline/internal/app/errors"
)

// Policy decides what one failed item does to the rest of its batch.
type Policy string

const (
	// PolicyAbort stops at the first failure and reports only that failure.
	PolicyAbort Policy = "abort"
	// PolicyIsolate reports every item with its own outcome.
	PolicyIsolate Policy = "isolate"
)

// ParsePolicy accepts "abort", "isolate" or "" (abort).
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAbort:
		return PolicyAbort, nil
	case PolicyIsolate:
		return PolicyIsolate, nil
	}
	return "", apperrors.InvalidField("policy", fmt.Sprintf("%q is not one of isolate, abort", s))
}

// BatchError is the single error of an aborted batch.
type BatchError struct {
	BatchID  string
	Index    int
	Filename string
	Err      error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %s aborted at %q: %v", e.BatchID, e.Filename, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrBatchAborted) hold for every BatchError.
func (e *BatchError) Is(target error) bool {
	return target == apperrors.ErrBatchAborted
}
