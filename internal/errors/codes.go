package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type for reasoning and tool operations.
type ErrorCode string

const (
	// ErrCodeConfigInvalid indicates the process configuration is unusable.
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
	// ErrCodeNotFound indicates a referenced conversation or collection does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeLLMUnavailable indicates the language model call failed.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
)

// Error represents a structured error for reasoning operations.
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

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Convenience constructors for common error types.

// ConfigInvalid creates a configuration error.
func ConfigInvalid(msg string) *Error {
	return &Error{Code: ErrCodeConfigInvalid, Message: msg}
}

// ConfigInvalidf creates a configuration error with formatting.
func ConfigInvalidf(format string, args ...any) *Error {
	return &Error{Code: ErrCodeConfigInvalid, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf creates a not-found error with formatting.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Message: msg}
}

// LLMUnavailable creates an LLM unavailable error.
func LLMUnavailable(msg string, cause error) *Error {
	return &Error{Code: ErrCodeLLMUnavailable, Message: msg, Cause: cause}
}

// IsCode checks if an error, anywhere in its chain, carries the code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
