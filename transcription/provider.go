package transcription

import (
	"context"
	"fmt"
	"os"

	"github.com/kbukum/transcribekit/errors"
	"github.com/kbukum/transcribekit/provider"
)

// Provider is the interface that transcription backends must implement.
type Provider interface {
	provider.Provider

	// Transcribe turns a recording into text.
	Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error)
}

// LoadAudio returns the request's audio, reading AudioPath when Audio is empty.
func LoadAudio(req TranscriptionRequest) ([]byte, error) {
	if len(req.Audio) > 0 {
		return req.Audio, nil
	}
	if req.AudioPath == "" {
		return nil, errors.InvalidInput("audio", "no audio data or path given")
	}
	data, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.InvalidInput("audio", "file is empty")
	}
	return data, nil
}
