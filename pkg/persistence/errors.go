// Package persistence provides standardized error types for storage
// operations.
package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkflowNotFound indicates a workflow was not found by the given ID.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrRunNotFound indicates a workflow run was not found by the given ID.
	ErrRunNotFound = errors.New("workflow run not found")
)

// StorageError wraps storage failures with the operation and entity context.
type StorageError struct {
	Op     string // Operation being performed (e.g. "GetByID", "Save")
	Entity string // "workflow" or "run"
	ID     int64  // Entity ID if applicable
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s failed for %s %d: %v", e.Op, e.Entity, e.ID, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewWorkflowError wraps a workflow storage failure with context.
func NewWorkflowError(op string, id int64, err error) *StorageError {
	return &StorageError{Op: op, Entity: "workflow", ID: id, Err: err}
}

// NewRunError wraps a run storage failure with context.
func NewRunError(op string, id int64, err error) *StorageError {
	return &StorageError{Op: op, Entity: "run", ID: id, Err: err}
}

// IsWorkflowNotFound checks if an error indicates a missing workflow.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsRunNotFound checks if an error indicates a missing run.
func IsRunNotFound(err error) bool {
	return errors.Is(err, ErrRunNotFound)
}
