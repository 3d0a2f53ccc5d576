// Package errors provides structured error types for plugfetch.
//
// Every failure surfaced by the registry client carries a machine-readable
// [Code] so callers can branch on the failure class without parsing messages:
//
//	info, err := client.Get(ctx, "@org/pkg", "^1.2.0")
//	if errors.Is(err, errors.ErrCodeVersionNotFound) {
//	    // no published version satisfies the request
//	}
//
// Wrapped causes stay reachable through the standard library's errors.Is and
// errors.As, so a cancelled context still matches context.Canceled.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// ErrCodeInvalidInput marks an empty or unsafe package name.
	ErrCodeInvalidInput Code = "INVALID_INPUT"

	// ErrCodeEmptyResponse marks a registry response without a body.
	ErrCodeEmptyResponse Code = "EMPTY_RESPONSE"

	// ErrCodeInvalidMetadata marks a metadata document missing name or versions.
	ErrCodeInvalidMetadata Code = "INVALID_METADATA"

	// ErrCodeVersionNotFound marks a request no published version satisfies.
	ErrCodeVersionNotFound Code = "VERSION_NOT_FOUND"

	// ErrCodeInvalidDistTarball marks package info without a tarball URL.
	ErrCodeInvalidDistTarball Code = "INVALID_DIST_TARBALL"

	// ErrCodeTransport marks network and HTTP failures, including cancellation.
	ErrCodeTransport Code = "TRANSPORT_FAILURE"

	// ErrCodeExtraction marks a failure while unpacking a tarball.
	ErrCodeExtraction Code = "EXTRACTION_FAILURE"

	// ErrCodeInvalidConfig marks an unreadable or contradictory config file.
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// Only the outermost *Error in the chain is consulted.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix.
// For a wrapped cause the cause text is appended, since it usually
// carries the detail a user needs (HTTP status, path).
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}
