package jobs

import (
	stderrors "errors"
	"strings"

	"github.com/kbukum/transcribekit/errors"
	"github.com/kbukum/transcribekit/httpclient"
)

// IsRateLimited reports whether a status query was rejected for rate limiting.
//
// Typed errors decide by their code: an httpclient.Error must be a 429 and an
// AppError must be RATE_LIMITED. Errors from other HTTP stacks fall back to a
// case-insensitive "429" or "rate limit" substring match.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if httpclient.IsRateLimit(err) || errors.HasCode(err, errors.ErrCodeRateLimited) {
		return true
	}
	var httpErr *httpclient.Error
	if _, typed := errors.AsAppError(err); typed || stderrors.As(err, &httpErr) {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}
