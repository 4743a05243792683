// Package apperr defines the error taxonomy shared by the session engine:
// machine-readable codes plus optional field/cause context, so controllers
// can map failures to HTTP statuses without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown           Code = "UNKNOWN"
	CodeValidation        Code = "VALIDATION_ERROR"
	CodePreflightFailure  Code = "PREFLIGHT_FAILURE"
	CodeNetwork           Code = "NETWORK_ERROR"
	CodeFeedbackTimeout   Code = "FEEDBACK_TIMEOUT"
	CodeFatalSession      Code = "FATAL_SESSION_ERROR"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInvalidTransition Code = "INVALID_STATUS_TRANSITION"
)

// Error carries a code, an optional offending field (validation errors cite
// the field that failed) and an optional wrapped cause.
type Error struct {
	Code    Code
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %s", e.Code, e.Field, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports a bad configuration value, citing the offending field.
func Validation(field, message string) *Error {
	return &Error{Code: CodeValidation, Field: field, Message: message}
}

// Preflight reports a mandatory environment check failure blocking session start.
func Preflight(message string) *Error {
	return &Error{Code: CodePreflightFailure, Message: message}
}

// Network wraps a transient transport failure talking to the backend.
func Network(message string, err error) *Error {
	return &Error{Code: CodeNetwork, Message: message, Err: err}
}

// FeedbackTimeout reports that scoring did not arrive within the polling bound.
// The completed session remains valid.
func FeedbackTimeout(message string) *Error {
	return &Error{Code: CodeFeedbackTimeout, Message: message}
}

// FatalSession reports an irrecoverable backend failure mid-flow; the session
// transitions to Aborted rather than staying in an undefined state.
func FatalSession(message string, err error) *Error {
	return &Error{Code: CodeFatalSession, Message: message, Err: err}
}

// Unauthorized reports a missing or expired bearer credential.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// NotFound reports an unknown session or resource.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// InvalidTransition reports an attempted backward or illegal status change.
func InvalidTransition(from, to string) *Error {
	return &Error{Code: CodeInvalidTransition, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// CodeOf extracts the taxonomy code from err, or CodeUnknown.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}
