package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable != false {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeRateLimited, "slow down", http.StatusTooManyRequests)
	if !err.Retryable {
		t.Error("RATE_LIMITED should be retryable")
	}
}

func TestAppError_NotFound_EmptyID(t *testing.T) {
	err := NotFound("recording", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
	if err.Details["resource"] != "recording" {
		t.Errorf("expected resource=recording, got %v", err.Details["resource"])
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := ExternalServiceError("transcription", nil).WithCause(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := InvalidInput("user_id", "is required").WithDetails(map[string]any{"hint": "set --user"})
	if err.Details["field"] != "user_id" {
		t.Errorf("expected field=user_id, got %v", err.Details["field"])
	}
	if err.Details["hint"] != "set --user" {
		t.Errorf("expected hint to be merged, got %v", err.Details["hint"])
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := Validation("bad").WithDetail("k", "v")
	if err.Details["k"] != "v" {
		t.Errorf("expected k=v, got %v", err.Details["k"])
	}
}

func TestTranscriptionErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		code    ErrorCode
		message string
		status  int
	}{
		{"failed", TranscriptionFailed("job-1"), ErrCodeTranscriptionFailed, "Transcription failed", http.StatusBadGateway},
		{"timed out", TranscriptionTimedOut("job-1", 60), ErrCodeTranscriptionTimeout, "Transcription timed out", http.StatusGatewayTimeout},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, tc.err.Message)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Retryable {
				t.Error("terminal transcription errors must not be retryable")
			}
			if tc.err.Details["job_name"] != "job-1" {
				t.Errorf("expected job_name detail, got %v", tc.err.Details["job_name"])
			}
		})
	}
}

func TestHasCode_Wrapped(t *testing.T) {
	err := fmt.Errorf("poll job-1: %w", TranscriptionFailed("job-1"))
	if !HasCode(err, ErrCodeTranscriptionFailed) {
		t.Error("expected HasCode to see through wrapping")
	}
	if HasCode(err, ErrCodeTranscriptionTimeout) {
		t.Error("expected HasCode to reject a different code")
	}
	if HasCode(fmt.Errorf("plain"), ErrCodeTranscriptionFailed) {
		t.Error("expected HasCode to reject non-AppErrors")
	}
}

func TestErrorCode_IsRetryableCode_Table(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeTimeout, true},
		{ErrCodeRateLimited, true},
		{ErrCodeExternalService, true},
		{ErrCodeInternal, false},
		{ErrCodeInvalidInput, false},
		{ErrCodeTranscriptionFailed, false},
		{ErrCodeTranscriptionTimeout, false},
	}
	for _, tc := range tests {
		if got := IsRetryableCode(tc.code); got != tc.want {
			t.Errorf("IsRetryableCode(%s) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Internal(fmt.Errorf("boom")))
	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed")
	}
	if appErr.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", appErr.Code)
	}
	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("expected AsAppError to fail for plain errors")
	}
}

func TestAppError_ImplementsErrorInterface(t *testing.T) {
	var err error = Timeout("poll")
	if !strings.HasPrefix(err.Error(), string(ErrCodeTimeout)) {
		t.Errorf("expected message to start with code, got %q", err.Error())
	}
}
