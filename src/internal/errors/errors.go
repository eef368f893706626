// Package errors provides coded error types for the blocklist builder.
//
// Errors carry an ErrorCode so callers (the pipeline, the HTTP API and the CLI)
// can classify failures without string matching. Recoverable conditions such as
// unparsable lines, validation rejections and missing source files never become
// errors; they are surfaced as counts by the components that absorb them.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeConfig indicates a configuration-related error.
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeList indicates an error reading or fetching a source list.
	ErrCodeList ErrorCode = "LIST_ERROR"

	// ErrCodeValidation indicates a validation error.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeFormat indicates an unknown output format or a failed write.
	ErrCodeFormat ErrorCode = "FORMAT_ERROR"

	// ErrCodeBuild indicates an unexpected failure while building one list.
	ErrCodeBuild ErrorCode = "BUILD_ERROR"

	// ErrCodeConsistency indicates output formats of a list disagree in entry count.
	ErrCodeConsistency ErrorCode = "CONSISTENCY_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewListError creates a new source list error.
func NewListError(message string, cause error) *Error {
	return Wrap(ErrCodeList, message, cause)
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, cause error) *Error {
	return Wrap(ErrCodeValidation, message, cause)
}

// NewFormatError creates a new format error.
func NewFormatError(message string, cause error) *Error {
	return Wrap(ErrCodeFormat, message, cause)
}

// NewBuildError creates a new build failure error.
func NewBuildError(message string, cause error) *Error {
	return Wrap(ErrCodeBuild, message, cause)
}

// NewConsistencyError creates a new consistency mismatch error.
func NewConsistencyError(message string, cause error) *Error {
	return Wrap(ErrCodeConsistency, message, cause)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}

// As is errors.As from the standard library.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
