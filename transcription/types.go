package transcription

import "strings"

// Status is the server-side state of a transcription job.
type Status string

// Job states reported by the transcription API. StatusUnknown stands in
// for any string the client does not recognise.
const (
	StatusUnknown    Status = ""
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// ParseStatus maps a wire value onto a Status. Matching ignores case and
// surrounding space; anything unrecognised is StatusUnknown.
func ParseStatus(s string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusInProgress:
		return StatusInProgress
	case StatusCompleted:
		return StatusCompleted
	case StatusFailed:
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// Terminal reports whether the job has stopped changing.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// String returns the wire value, or "UNKNOWN" for the zero value.
func (s Status) String() string {
	if s == StatusUnknown {
		return "UNKNOWN"
	}
	return string(s)
}

// Job identifies one submitted transcription. It is fixed once submitted.
type Job struct {
	JobName string `json:"jobName"`
	S3Key   string `json:"s3Key"`
	UserID  string `json:"userId"`
	Format  string `json:"format"`
}

// Result is one status query answer. Transcript is only set once Status is COMPLETED.
type Result struct {
	Status     Status `json:"status"`
	Transcript string `json:"transcript,omitempty"`
}

// TranscriptionRequest holds parameters for a transcription call.
// Audio takes precedence over AudioPath when both are set.
type TranscriptionRequest struct {
	// Audio is the raw recording.
	Audio []byte `json:"-"`
	// AudioPath is a file to read the recording from when Audio is empty.
	AudioPath string `json:"audio_path,omitempty"`
	// UserID scopes the job on services that partition work per user.
	UserID string `json:"user_id,omitempty"`
	// Format is the audio container, e.g. "webm" or "wav".
	Format string `json:"format,omitempty"`
	// Language is the expected language of the audio (e.g. "en").
	Language string `json:"language,omitempty"`
	// Model is the transcription model to use.
	Model string `json:"model,omitempty"`
}

// TranscriptionResponse holds the result of a transcription call.
type TranscriptionResponse struct {
	// Text is the full transcription text.
	Text string `json:"text"`
	// JobName is set by job-based backends.
	JobName string `json:"job_name,omitempty"`
	// Segments contains time-aligned transcript segments.
	Segments []Segment `json:"segments,omitempty"`
	// Duration is the audio duration in seconds.
	Duration float64 `json:"duration,omitempty"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
