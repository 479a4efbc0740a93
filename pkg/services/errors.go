// Package services provides the graph build service layer and its error types.
package services

import (
	"errors"
	"fmt"

	"github.com/arewm/pipegraph/pkg/store"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest    = errors.New("invalid request")
	ErrPipelineRunNil    = errors.New("pipeline run cannot be nil")
	ErrNamespaceRequired = errors.New("namespace is required")
	ErrRunNameRequired   = errors.New("pipeline run name is required")
	ErrTaskRunNotInRun   = errors.New("task run does not belong to the pipeline run")

	// Not Found Errors (404 Not Found).
	ErrSnapshotNotFound = store.ErrSnapshotNotFound
	ErrTaskRunNotFound  = errors.New("task run not found")
	ErrTaskNotFound     = errors.New("pipeline task not found")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
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

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrPipelineRunNil) ||
		errors.Is(err, ErrNamespaceRequired) ||
		errors.Is(err, ErrRunNameRequired) ||
		errors.Is(err, ErrTaskRunNotInRun)
}

// IsNotFoundError checks if an error should return HTTP 404.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrSnapshotNotFound) ||
		errors.Is(err, ErrTaskRunNotFound) ||
		errors.Is(err, ErrTaskNotFound)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
