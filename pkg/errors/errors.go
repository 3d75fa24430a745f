// Package errors provides structured error types for actdiag.
//
// Every failure that reaches the command line carries a machine-readable
// [Code]. The CLI maps codes to exit statuses and to the dedicated
// diagnostics for text-encoding problems; everything else is reported with
// its message text.
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: rejected before the pipeline starts (usage errors)
//   - *_NOT_FOUND: missing files
//   - SYNTAX, BUILD: structural errors from the parser and builder
//   - ENCODING, RENDER, IO: failures while drawing or writing output
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // usage error
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

// Error codes for different error categories.
const (
	// Usage errors, detected before any side effect.
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeUnsupported   Code = "UNSUPPORTED"

	// Input errors
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeInvalidEncoding Code = "INVALID_ENCODING"

	// Structural errors from the collaborators
	ErrCodeSyntax Code = "SYNTAX"
	ErrCodeBuild  Code = "BUILD"

	// Rendering and output errors
	ErrCodeEncoding Code = "ENCODING"
	ErrCodeRender   Code = "RENDER"
	ErrCodeIO       Code = "IO"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// usageCodes are the codes the resolver reports before the pipeline starts.
var usageCodes = map[Code]bool{
	ErrCodeInvalidInput:  true,
	ErrCodeInvalidFormat: true,
	ErrCodeInvalidConfig: true,
	ErrCodeUnsupported:   true,
}

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Cause == nil:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	case e.Message == "":
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
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
// It walks the whole error chain, so a code attached by an inner
// collaborator is still found after the pipeline adds stage context.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the chain holds no *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsUsage reports whether err is a usage error raised during option
// resolution.
func IsUsage(err error) bool {
	return usageCodes[GetCode(err)]
}

// UserMessage returns a user-friendly message for the error.
// For *Error types the code prefix is dropped and the cause, if any, is
// appended after a colon. For other errors the error string is returned
// as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	if e.Message == "" {
		return UserMessage(e.Cause)
	}
	return e.Message + ": " + UserMessage(e.Cause)
}
