package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection/Availability errors (retryable)
const (
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the client is rate limited.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeServiceUnavailable indicates no backend can take the request.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
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
	// ErrCodeExternalService indicates an error from an external service.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// Transcription job errors (terminal, never retried by the poller)
const (
	// ErrCodeTranscriptionFailed indicates the service marked the job FAILED.
	ErrCodeTranscriptionFailed ErrorCode = "TRANSCRIPTION_FAILED"
	// ErrCodeTranscriptionTimeout indicates the polling budget ran out.
	ErrCodeTranscriptionTimeout ErrorCode = "TRANSCRIPTION_TIMEOUT"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:              true,
	ErrCodeRateLimited:          true,
	ErrCodeServiceUnavailable:   true,
	ErrCodeExternalService:      true,
	ErrCodeInternal:             false,
	ErrCodeTranscriptionFailed:  false,
	ErrCodeTranscriptionTimeout: false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
