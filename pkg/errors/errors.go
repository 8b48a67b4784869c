// Package errors provides structured error types for levelforge.
//
// Every core operation either completes or fails with exactly one *Error
// whose Code tells the caller what went wrong. Front-ends (the CLI, the
// HTTP API, the terminal editor) decide how to present the error; the core
// never prints.
//
// # Error Codes
//
//   - NOT_FOUND: a level text file that must exist does not
//   - INVALID_ARGUMENT: bad dimensions, bad level names, bad directions
//   - OUT_OF_RANGE: cell coordinates outside the grid
//   - IO_ERROR: read, write, mkdir or remove failures
//   - DUPLICATE_NAME: creating a level whose text file already exists
//   - INVALID_CONFIG: a configuration file that cannot be used
//
// # Usage
//
//	err := errors.New(errors.ErrCodeOutOfRange, "cell (%d,%d) outside %dx%d", r, c, rows, cols)
//	if errors.Is(err, errors.ErrCodeOutOfRange) {
//	    // Handle bad coordinates
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the level pipeline.
const (
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"
	ErrCodeOutOfRange      Code = "OUT_OF_RANGE"
	ErrCodeIO              Code = "IO_ERROR"
	ErrCodeDuplicateName   Code = "DUPLICATE_NAME"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
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
