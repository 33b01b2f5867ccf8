// Package errors provides structured error types for hasse.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Separation of recoverable lookup misses from hard failures
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes fall into two families that callers are expected to tell apart:
//
//   - LOOKUP_MISS: an expected, recoverable "no match" (unknown vertex,
//     face not present). Callers may fall back to another strategy.
//   - Everything else (INVARIANT_VIOLATION, DIMENSION_MISMATCH, ...) is a
//     hard stop that is surfaced to the user unchanged.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLookupMiss, "vertex node not found: %d", v)
//	if errors.IsLookupMiss(err) {
//	    // try a different search
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDimensionMismatch, origErr, "migrate %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Recoverable lookup failures
	ErrCodeLookupMiss Code = "LOOKUP_MISS"
	ErrCodeNotFound   Code = "NOT_FOUND"

	// Structural failures
	ErrCodeInvariantViolation Code = "INVARIANT_VIOLATION"
	ErrCodeDimensionMismatch  Code = "DIMENSION_MISMATCH"
	ErrCodeConflict           Code = "CONFLICT"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeWrongType     Code = "WRONG_OBJECT_TYPE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsLookupMiss reports whether err is a recoverable "no match" signal.
func IsLookupMiss(err error) bool {
	return Is(err, ErrCodeLookupMiss) || Is(err, ErrCodeNotFound)
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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix. Context
// added around a wrapped *Error, such as the id in
// fmt.Errorf("%w: %d", ErrUnknownNode, id), is kept.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	full, inner := err.Error(), e.Error()
	if i := strings.Index(full, inner); i >= 0 && full != inner {
		return full[:i] + e.Message + full[i+len(inner):]
	}
	return e.Message
}
