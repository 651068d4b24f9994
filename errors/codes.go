package errors

// ErrorCode is a machine-readable error code returned in API error bodies.
type ErrorCode string

// Availability errors. These are safe for a client to retry.
const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
)

// Resource errors
const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Request errors
const (
	// ErrCodeInvalidInput indicates a malformed or missing field.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeUnsupportedMedia indicates an upload with a content type outside the whitelist.
	ErrCodeUnsupportedMedia ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	// ErrCodePayloadTooLarge indicates an upload above the configured size limit.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
)

// Authentication errors
const (
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
)

// Internal errors
const (
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeProcessingFailed is returned when a dictation could not be transcribed or formatted.
	ErrCodeProcessingFailed ErrorCode = "PROCESSING_FAILED"
	ErrCodeDatabaseError    ErrorCode = "DATABASE_ERROR"
	ErrCodeExternalService  ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeDatabaseError:      true,
	ErrCodeExternalService:    true,
	ErrCodeProcessingFailed:   true,
}

// IsRetryableCode reports whether the code marks a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
