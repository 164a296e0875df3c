// Package errors provides unified error handling for transcribekit.
//
// AppError carries a machine-readable code, a user-facing message, an HTTP
// status hint and a retryable flag. Transcription jobs that end badly surface
// as TRANSCRIPTION_FAILED or TRANSCRIPTION_TIMEOUT; use HasCode to branch on
// them after wrapping:
//
//	if errors.HasCode(err, errors.ErrCodeTranscriptionTimeout) {
//	    // offer a re-recording
//	}
package errors
