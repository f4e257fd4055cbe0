// Package apperrors defines the application-level error types of deepzoom
// and the process exit codes they map to.
//
// All types implement Unwrap where they carry a cause, so errors.Is and
// errors.As reach the engine sentinels (bigfixed.ErrOutOfRange,
// service.ErrLimitExceeded, ...) through them.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Successful execution.
	ExitErrorGeneric  = 1   // Any other failure.
	ExitErrorTimeout  = 2   // The configured timeout elapsed.
	ExitErrorConfig   = 4   // Invalid flags, environment or input values.
	ExitErrorCanceled = 130 // Interrupted (SIGINT/SIGTERM).
)

// ConfigError reports invalid user configuration.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: The ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ComputationError wraps a failure of one engine operation.
type ComputationError struct {
	// Operation is "iterate", "tile", "orbit" or "mosaic".
	Operation string
	Cause     error
}

func (e ComputationError) Error() string {
	if e.Operation == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

// Unwrap returns the cause.
func (e ComputationError) Unwrap() error { return e.Cause }

// NewComputationError wraps cause for op. It returns nil for a nil cause.
func NewComputationError(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return ComputationError{Operation: op, Cause: cause}
}

// ServerError reports a failure of the HTTP server.
type ServerError struct {
	Message string
	Cause   error
}

func (e ServerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the cause, which may be nil.
func (e ServerError) Unwrap() error { return e.Cause }

// NewServerError creates a ServerError with a message and optional cause.
func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// WrapError adds context to err with fmt.Errorf and %w. It returns nil for
// a nil err.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err is a cancellation or deadline error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ValidationError reports an invalid request field.
type ValidationError struct {
	Field   string
	Message string
	// Value is the rejected value, if any.
	Value any
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}
