// Package errors provides structured error types for the chartkit application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow the three-stage structure of the system:
//   - Validation codes: malformed or degenerate upload data
//   - Render codes: unsatisfiable chart configuration
//   - Export codes: serialization and filesystem failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLengthMismatch, "group %q has %d values, want %d", name, got, want)
//	if errors.Is(err, errors.ErrCodeLengthMismatch) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeWriteFailure, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Dataset validation errors
	ErrCodeMissingField      Code = "MISSING_FIELD"
	ErrCodeLengthMismatch    Code = "LENGTH_MISMATCH"
	ErrCodeEmptyDataset      Code = "EMPTY_DATASET"
	ErrCodeDuplicateCategory Code = "DUPLICATE_CATEGORY"

	// Render errors
	ErrCodeUnsupportedKind  Code = "UNSUPPORTED_KIND"
	ErrCodeInsufficientData Code = "INSUFFICIENT_DATA"
	ErrCodeFigureReleased   Code = "FIGURE_RELEASED"

	// Export errors
	ErrCodeNoFormatSelected  Code = "NO_FORMAT_SELECTED"
	ErrCodeInvalidResolution Code = "INVALID_RESOLUTION"
	ErrCodeWriteFailure      Code = "WRITE_FAILURE"

	// Configuration and input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidScheme Code = "INVALID_SCHEME"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err carries one of the dataset validation codes.
// The CLI and API use this to distinguish bad uploads (client error) from
// render or export faults.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeMissingField, ErrCodeLengthMismatch, ErrCodeEmptyDataset, ErrCodeDuplicateCategory:
		return true
	}
	return false
}

// IsRender reports whether err carries one of the render error codes.
func IsRender(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnsupportedKind, ErrCodeInsufficientData, ErrCodeFigureReleased:
		return true
	}
	return false
}
