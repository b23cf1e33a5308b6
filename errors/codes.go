package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Authentication/Authorization errors
const (
	// ErrCodeInvalidCredentials indicates login failed. Unknown identifier and
	// wrong password both map here so the response carries no distinguishing
	// signal.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrCodeInvalidRefresh is the umbrella over unknown, expired, rotated,
	// revoked and malformed refresh tokens.
	ErrCodeInvalidRefresh ErrorCode = "INVALID_REFRESH"
	// ErrCodeUnauthenticated indicates a bad, expired or missing access token.
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	// ErrCodeForbidden indicates the caller is authenticated but does not own
	// the record.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeMalformedToken indicates a token that could not be decoded at all.
	ErrCodeMalformedToken ErrorCode = "MALFORMED_TOKEN"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeConflict indicates a conflict with the current state of the resource.
	ErrCodeConflict ErrorCode = "CONFLICT"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeDatabaseError indicates a database error.
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeDatabaseError: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
