// Package errs provides structured, user-friendly errors with machine-parseable codes.
package errs

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-parseable error identifier.
type ErrorCode string

const (
	// General
	ErrUnknown    ErrorCode = "ERR-000"
	ErrInternal   ErrorCode = "ERR-001"
	ErrConfig     ErrorCode = "ERR-002"
	ErrValidation ErrorCode = "ERR-003"

	// Host errors
	ErrHostUnreachable ErrorCode = "ERR-HOST-001"
	ErrHostConnect     ErrorCode = "ERR-HOST-002"
	ErrHostKeyMismatch ErrorCode = "ERR-HOST-003"

	// Service errors
	ErrServiceNotFound ErrorCode = "ERR-SVC-001"
	ErrServiceInstall  ErrorCode = "ERR-SVC-002"
	ErrServiceRestart  ErrorCode = "ERR-SVC-003"
	ErrServiceStatus   ErrorCode = "ERR-SVC-004"

	// Release errors
	ErrReleaseList   ErrorCode = "ERR-REL-001"
	ErrReleaseSwitch ErrorCode = "ERR-REL-002"
	ErrReleasePrune  ErrorCode = "ERR-REL-003"

	// State errors
	ErrStateRead  ErrorCode = "ERR-STATE-001"
	ErrStateWrite ErrorCode = "ERR-STATE-002"
)

// SkiffError is the standard structured error type used across all Skiff packages.
type SkiffError struct {
	Code     ErrorCode // Machine-parseable error code
	Op       string    // Operation chain, e.g., "release.switch.restart"
	Resource string    // Resource identifier (service name, release id, host)
	Cause    error     // Wrapped upstream error
	Advice   string    // Human-readable remediation hint
}

func (e *SkiffError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("[%s] %s (%s): %v", e.Code, e.Op, e.Resource, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Op, e.Cause)
}

func (e *SkiffError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the formatted user-facing error message with remediation advice.
func (e *SkiffError) UserMessage() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Op)
	if e.Resource != "" {
		msg += fmt.Sprintf(" (resource: %s)", e.Resource)
	}
	if e.Advice != "" {
		msg += fmt.Sprintf("\n  → %s", e.Advice)
	}
	return msg
}

// New creates a new SkiffError.
func New(code ErrorCode, op string, cause error) *SkiffError {
	return &SkiffError{Code: code, Op: op, Cause: cause}
}

// Newf creates a new SkiffError with a formatted message as the cause.
func Newf(code ErrorCode, op, format string, args ...any) *SkiffError {
	return &SkiffError{Code: code, Op: op, Cause: fmt.Errorf(format, args...)}
}

// WithResource sets the resource identifier on a SkiffError.
func (e *SkiffError) WithResource(resource string) *SkiffError {
	e.Resource = resource
	return e
}

// WithAdvice sets the human-readable remediation hint on a SkiffError.
func (e *SkiffError) WithAdvice(advice string) *SkiffError {
	e.Advice = advice
	return e
}

// Wrap wraps an existing error as a SkiffError at a new operation boundary.
func Wrap(err error, code ErrorCode, op string) *SkiffError {
	if err == nil {
		return nil
	}
	return &SkiffError{Code: code, Op: op, Cause: err}
}

// IsCode reports whether err is a SkiffError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var se *SkiffError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// AsSkiff extracts the *SkiffError from err, or returns nil.
func AsSkiff(err error) *SkiffError {
	var se *SkiffError
	if errors.As(err, &se) {
		return se
	}
	return nil
}
