package transcription

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kbukum/transcribekit/errors"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in       string
		want     Status
		terminal bool
	}{
		{"IN_PROGRESS", StatusInProgress, false},
		{"COMPLETED", StatusCompleted, true},
		{"FAILED", StatusFailed, true},
		{" completed ", StatusCompleted, true},
		{"QUEUED", StatusUnknown, false},
		{"", StatusUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseStatus(tt.in)
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got.Terminal() != tt.terminal {
				t.Errorf("Terminal() = %v, want %v", got.Terminal(), tt.terminal)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	if StatusUnknown.String() != "UNKNOWN" {
		t.Errorf("got %q", StatusUnknown.String())
	}
	if StatusFailed.String() != "FAILED" {
		t.Errorf("got %q", StatusFailed.String())
	}
}

func TestLoadAudio(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answer.webm")
	if err := os.WriteFile(path, []byte("from-file"), 0o600); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty.webm")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		req     TranscriptionRequest
		want    string
		wantErr bool
	}{
		{"bytes win", TranscriptionRequest{Audio: []byte("inline"), AudioPath: path}, "inline", false},
		{"path", TranscriptionRequest{AudioPath: path}, "from-file", false},
		{"empty file", TranscriptionRequest{AudioPath: empty}, "", true},
		{"nothing", TranscriptionRequest{}, "", true},
		{"missing file", TranscriptionRequest{AudioPath: filepath.Join(dir, "nope")}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadAudio(tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := LoadAudio(TranscriptionRequest{}); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}
