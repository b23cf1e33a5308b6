// Package errors provides unified error handling for the service.
// It implements structured error types with error codes, HTTP status mapping,
// and retryable detection.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Authentication/Authorization constructors ---

// InvalidCredentials creates the single error returned for every failed
// login. The message is identical whether the identifier was unknown or the
// password did not verify.
func InvalidCredentials() *AppError {
	return New(ErrCodeInvalidCredentials, "Invalid username or password.", http.StatusUnauthorized)
}

// InvalidRefresh creates the single client-visible error for every rejected
// refresh token. Unknown, expired, rotated and revoked all collapse here;
// the distinction is logged internally only.
func InvalidRefresh() *AppError {
	return New(ErrCodeInvalidRefresh, "Invalid or expired refresh token.", http.StatusUnauthorized)
}

// Unauthenticated creates an AppError for a missing, malformed or expired
// access token.
func Unauthenticated() *AppError {
	return New(ErrCodeUnauthenticated, "Authentication required.", http.StatusUnauthorized)
}

// Forbidden creates an AppError for an authenticated caller that does not own
// the requested record.
func Forbidden() *AppError {
	return New(ErrCodeForbidden, "You do not have access to this resource.", http.StatusForbidden)
}

// MalformedToken creates an AppError for a token that could not be parsed.
func MalformedToken() *AppError {
	return New(ErrCodeMalformedToken, "Malformed token.", http.StatusUnauthorized)
}

// --- Resource constructors ---

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"resource": resource},
	}
}

// AlreadyExists creates a new AppError for a uniqueness conflict.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with these values already exists.", resource),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"resource": resource},
	}
}

// Validation creates a new AppError for invalid input.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// --- Internal constructors ---

// Internal creates a new AppError for an unexpected internal failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An internal error occurred.",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// Database creates a new AppError for a failed store operation.
func Database(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabaseError, Message: "A storage error occurred.",
		HTTPStatus: http.StatusInternalServerError,
		Retryable:  true,
		Details:    map[string]any{"operation": operation},
		Cause:      cause,
	}
}
