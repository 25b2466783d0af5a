// Package errors provides structured error types for hxm.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and core packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes follow the failure taxonomy of the tool: configuration problems
// (a required manifest field absent for the declared kind), cache-state
// problems (unreadable markers, corrupt repositories), external-tool
// failures (git), download failures, and interactive-input failures.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingField, "%s: url required for git dependencies", name)
//	if errors.Is(err, errors.ErrCodeMissingField) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDownload, origErr, "fetching %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors: the manifest declares something incoherent.
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeMissingField    Code = "MISSING_FIELD"
	ErrCodeUnknownLibrary  Code = "UNKNOWN_LIBRARY"

	// Cache-state errors: the cache directory disagrees with itself.
	ErrCodeCacheState   Code = "CACHE_STATE"
	ErrCodeNotInstalled Code = "NOT_INSTALLED"

	// External-tool errors.
	ErrCodeGit      Code = "GIT_FAILED"
	ErrCodeDownload Code = "DOWNLOAD_FAILED"

	// Interactive-input errors.
	ErrCodeInput Code = "INPUT"

	// Unsupported dependency kinds or operations.
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
