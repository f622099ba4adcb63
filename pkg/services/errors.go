// Package services provides the business operations behind the console API.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors. Validation errors map to 400 responses; not-found
// conditions are surfaced through the persistence error types.
var (
	ErrWorkflowNil      = errors.New("workflow cannot be nil")
	ErrRunNil           = errors.New("run cannot be nil")
	ErrInvalidCategory  = errors.New("invalid target company category")
	ErrInvalidFrequency = errors.New("invalid schedule frequency")
	ErrDuplicateStageID = errors.New("duplicate stage ID")
)

// ServiceError wraps service-level errors with operation context.
type ServiceError struct {
	Op      string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, message string, err error) *ServiceError {
	return &ServiceError{Op: op, Message: message, Err: err}
}

// IsValidationError checks if an error should surface as HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrWorkflowNil) ||
		errors.Is(err, ErrRunNil) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidFrequency) ||
		errors.Is(err, ErrDuplicateStageID)
}
