// Package errors provides typed error definitions for rapydo.
// Every fatal condition of the resolution engine surfaces as a RapydoError
// carrying a code, so the command layer can render it and exit.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique identifier for different error types
type ErrorCode string

const (
	// Configuration errors
	ErrMissingConfig ErrorCode = "MISSING_CONFIG"
	ErrInvalidConfig ErrorCode = "INVALID_CONFIG"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrValidation    ErrorCode = "VALIDATION_FAILED"

	// Compose errors
	ErrComposeRender ErrorCode = "COMPOSE_RENDER"

	// Build graph errors
	ErrDockerfileParse ErrorCode = "DOCKERFILE_PARSE"
	ErrMissingImage    ErrorCode = "MISSING_IMAGE_NAME"

	// Git errors
	ErrUntrackedPath   ErrorCode = "UNTRACKED_PATH"
	ErrGitRepoNotFound ErrorCode = "GIT_REPO_NOT_FOUND"
	ErrGitQuery        ErrorCode = "GIT_QUERY"

	// Image and registry errors
	ErrImageUnavailable    ErrorCode = "IMAGE_UNAVAILABLE"
	ErrRegistryUnreachable ErrorCode = "REGISTRY_UNREACHABLE"
	ErrRegistryDenied      ErrorCode = "REGISTRY_ACCESS_DENIED"

	// Internal errors
	ErrInternal ErrorCode = "INTERNAL_ERROR"
)

// RapydoError represents a structured error with additional context
type RapydoError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *RapydoError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Details)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error
func (e *RapydoError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *RapydoError) WithContext(key string, value interface{}) *RapydoError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new RapydoError
func New(code ErrorCode, message string) *RapydoError {
	return &RapydoError{
		Code:    code,
		Message: message,
	}
}

// NewWithDetails creates a new RapydoError with details
func NewWithDetails(code ErrorCode, message, details string) *RapydoError {
	return &RapydoError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Wrap creates a new RapydoError that wraps an existing error
func Wrap(code ErrorCode, message string, cause error) *RapydoError {
	return &RapydoError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithDetails creates a new RapydoError with details that wraps an existing error
func WrapWithDetails(code ErrorCode, message, details string, cause error) *RapydoError {
	return &RapydoError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// IsRapydoError checks if an error is, or wraps, a RapydoError
func IsRapydoError(err error) bool {
	var re *RapydoError
	return stderrors.As(err, &re)
}

// GetCode extracts the error code from an error chain, if any
func GetCode(err error) ErrorCode {
	var re *RapydoError
	if stderrors.As(err, &re) {
		return re.Code
	}
	return ""
}

// HasCode checks if an error has a specific error code
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}
