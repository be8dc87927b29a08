package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBusy is returned when a run is requested while another is in flight.
var ErrBusy = errors.New("a prediction run is already in progress, retry shortly")

// ErrNoBatch is returned when results are requested before any run completed.
var ErrNoBatch = errors.New("no prediction batch has been computed yet")

// ValidationError describes a malformed or incomplete upload. The pipeline
// never proceeds past one.
type ValidationError struct {
	Message        string   `json:"message"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	DuplicateIDs   []string `json:"duplicate_ids,omitempty"`
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if len(e.MissingColumns) > 0 {
		parts = append(parts, "missing columns: "+strings.Join(e.MissingColumns, ", "))
	}
	if len(e.DuplicateIDs) > 0 {
		parts = append(parts, "duplicate ids: "+strings.Join(e.DuplicateIDs, ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ExecReason classifies why a scoring process run failed
type ExecReason string

const (
	ReasonTimeout         ExecReason = "timeout"
	ReasonCrash           ExecReason = "crash"
	ReasonMissingOutput   ExecReason = "missing-output"
	ReasonMalformedOutput ExecReason = "malformed-output"
)

// ExecutionError is a structured scoring failure. It is recovered locally
// by the fallback simulator unless fallback is disabled.
type ExecutionError struct {
	Reason ExecReason
	Err    error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scoring execution failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("scoring execution failed (%s)", e.Reason)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// NewExecutionError wraps err with a failure classification.
func NewExecutionError(reason ExecReason, err error) *ExecutionError {
	return &ExecutionError{Reason: reason, Err: err}
}
