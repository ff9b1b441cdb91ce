// Package core provides the main Mnemosyne client orchestrating the
// museum pipeline: analysis, clustering, layout, scene assembly, and
// session recovery.
package core

import (
	"errors"
	"fmt"
)

// Predefined errors for common failure scenarios.
var (
	// ErrSessionNotFound indicates that a session could not be found in
	// the registry or recovered from any snapshot store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoFiles indicates that a session has no uploaded files to work on.
	ErrNoFiles = errors.New("no files in session")

	// ErrNoArtifacts indicates that a session has no analyzed artifacts yet.
	ErrNoArtifacts = errors.New("no artifacts in session")

	// ErrInvalidCategory indicates an unknown content category value.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrNoEntries indicates that the archive holds no entries for a category.
	ErrNoEntries = errors.New("no archive entries for category")

	// ErrInvalidScene indicates that a built scene failed structural
	// validation. This is a construction bug, not a user-triggerable
	// runtime condition.
	ErrInvalidScene = errors.New("scene failed validation")

	// ErrStorageOperation indicates that a snapshot store operation failed.
	ErrStorageOperation = errors.New("storage operation failed")
)

// Error wraps errors with operation context.
//
// It provides additional context about which operation failed, making
// error messages more informative for debugging.
//
// Example:
//
//	err := &Error{
//	    Op:  "BuildScene",
//	    Err: ErrSessionNotFound,
//	}
//	// Error() returns: "mnemosyne: BuildScene: session not found"
type Error struct {
	// Op is the name of the operation that failed.
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message.
//
// The format is: "mnemosyne: <Op>: <Err>"
func (e *Error) Error() string {
	return fmt.Sprintf("mnemosyne: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
//
// This allows using errors.Is() and errors.As() with Error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error wrapping the given error.
//
// If err is nil, returns nil. This allows safe error wrapping:
//
//	if err != nil {
//	    return NewError("BuildScene", err)
//	}
//
// Parameters:
//   - op: Name of the operation (e.g., "Analyze", "BuildScene")
//   - err: The underlying error to wrap
//
// Returns an Error, or nil if err is nil.
func NewError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{
		Op:  op,
		Err: err,
	}
}
