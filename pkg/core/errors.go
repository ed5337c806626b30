// Package core provides the tokentrace client for recording and querying
// LLM token usage.
package core

import (
	"errors"
	"fmt"
)

// Predefined errors for common failure scenarios.
var (
	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates that a connection to the storage backend failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrInvalidInput indicates that the provided input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorageOperation indicates that a storage operation failed.
	ErrStorageOperation = errors.New("storage operation failed")
)

// TrackerError wraps errors with operation context.
//
// It provides additional context about which operation failed,
// making error messages more informative for debugging.
//
// Example:
//
//	err := &TrackerError{
//	    Op:  "Track",
//	    Err: ErrStorageOperation,
//	}
//	// Error() returns: "tokentrace: Track: storage operation failed"
type TrackerError struct {
	// Op is the name of the operation that failed.
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message.
//
// The format is: "tokentrace: <Op>: <Err>"
func (e *TrackerError) Error() string {
	return fmt.Sprintf("tokentrace: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
//
// This allows using errors.Is() and errors.As() with TrackerError.
func (e *TrackerError) Unwrap() error {
	return e.Err
}

// NewTrackerError creates a new TrackerError wrapping the given error.
//
// If err is nil, returns nil. This allows safe error wrapping:
//
//	if err != nil {
//	    return NewTrackerError("Track", err)
//	}
func NewTrackerError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TrackerError{
		Op:  op,
		Err: err,
	}
}
