package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/transcribekit/bootstrap"
	"github.com/kbukum/transcribekit/errors"
	"github.com/kbukum/transcribekit/logger"
	"github.com/kbukum/transcribekit/storage/local"
	"github.com/kbukum/transcribekit/transcription"
	"github.com/kbukum/transcribekit/transcription/archive"
	"github.com/kbukum/transcribekit/transcription/transcribetest"
)

type harness struct {
	cli    *cli
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	dir    string
	config string
}

// newHarness writes a config pointing at apiURL plus any extra YAML.
func newHarness(t *testing.T, apiURL, extra string) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := "name: transcribe\n" +
		"logging:\n  level: error\n" +
		"api:\n  base_url: " + apiURL + "\n  timeout: 5s\n" +
		"storage:\n  provider: local\n  base_path: " + filepath.Join(dir, "store") + "\n" +
		extra
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	h := &harness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, dir: dir, config: path}
	h.cli = &cli{
		stdout:  h.stdout,
		stderr:  h.stderr,
		appOpts: []bootstrap.Option{bootstrap.WithLogger(logger.Nop()), bootstrap.WithSignals()},
	}
	return h
}

func (h *harness) audio(t *testing.T, name, data string) string {
	t.Helper()
	p := filepath.Join(h.dir, name)
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func (h *harness) run(args ...string) error {
	return h.cli.run(context.Background(), append(args, "--config", h.config))
}

func completed(text string) transcribetest.Option {
	return transcribetest.WithResults(transcription.Result{Status: transcription.StatusCompleted, Transcript: text})
}

func TestRunCommand(t *testing.T) {
	srv := transcribetest.NewServer(t, completed("the transcript"))
	h := newHarness(t, srv.URL(), "")

	if err := h.run("run", "--file", h.audio(t, "talk.webm", "audio-bytes"), "--user", "user-1"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := h.stdout.String(); got != "the transcript\n" {
		t.Errorf("stdout = %q", got)
	}
	starts := srv.Starts()
	if len(starts) != 1 {
		t.Fatalf("start calls = %d", len(starts))
	}
	want := transcription.Job{JobName: "job-1", S3Key: "k1", UserID: "user-1", Format: "webm"}
	if starts[0] != want {
		t.Errorf("start = %+v, want %+v", starts[0], want)
	}
	if data, _, ok := srv.Upload("k1"); !ok || string(data) != "audio-bytes" {
		t.Errorf("uploaded %q, %v", data, ok)
	}
	if _, err := os.Stat(filepath.Join(h.dir, "store")); !os.IsNotExist(err) {
		t.Error("storage should not be touched without --archive")
	}
}

func TestRunCommandArchives(t *testing.T) {
	srv := transcribetest.NewServer(t, completed("kept"))
	h := newHarness(t, srv.URL(), "")

	err := h.run("run", "--file", h.audio(t, "memo.wav", "riff"), "--user", "user-2", "--archive")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(h.dir, "store", "recordings", "user-2", "*.wav"))
	if len(matches) != 1 {
		t.Fatalf("archived files = %v", matches)
	}
	if !strings.Contains(h.stderr.String(), "archived recording as recordings/user-2/") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
	if starts := srv.Starts(); len(starts) != 1 || starts[0].Format != "wav" {
		t.Errorf("start calls = %+v", starts)
	}
}

func TestRetryCommand(t *testing.T) {
	srv := transcribetest.NewServer(t, completed("second try"))
	h := newHarness(t, srv.URL(), "")

	store, err := local.NewStorage(filepath.Join(h.dir, "store"))
	if err != nil {
		t.Fatal(err)
	}
	key, err := archive.New(store, archive.WithLogger(logger.Nop())).
		Save(context.Background(), "user-3", "ogg", []byte("old audio"))
	if err != nil {
		t.Fatal(err)
	}

	if err := h.run("retry", "--key", key); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got := h.stdout.String(); got != "second try\n" {
		t.Errorf("stdout = %q", got)
	}
	starts := srv.Starts()
	if len(starts) != 1 || starts[0].UserID != "user-3" || starts[0].Format != "ogg" {
		t.Errorf("start calls = %+v", starts)
	}
	if data, _, _ := srv.Upload("k1"); string(data) != "old audio" {
		t.Errorf("uploaded %q", data)
	}
}

func TestRunAndRetryEncryptedArchive(t *testing.T) {
	srv := transcribetest.NewServer(t, completed("sealed"))
	h := newHarness(t, srv.URL(), "archive:\n  prefix: kept\n  encryption:\n    algorithm: chacha20-poly1305\n    key: s3cret\n")

	if err := h.run("run", "--file", h.audio(t, "a.webm", "voice"), "--user", "user-4", "--archive"); err != nil {
		t.Fatalf("run: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(h.dir, "store", "kept", "user-4", "*.webm"))
	if len(matches) != 1 {
		t.Fatalf("archived files = %v", matches)
	}
	raw, _ := os.ReadFile(matches[0])
	if bytes.Contains(raw, []byte("voice")) {
		t.Error("archived recording is not encrypted")
	}

	rel, _ := filepath.Rel(filepath.Join(h.dir, "store"), matches[0])
	h.stdout.Reset()
	if err := h.run("retry", "--key", filepath.ToSlash(rel)); err != nil {
		t.Fatalf("retry: %v", err)
	}
	uploads := srv.Starts()
	if len(uploads) != 2 || uploads[1].UserID != "user-4" {
		t.Errorf("start calls = %+v", uploads)
	}
	if data, _, _ := srv.Upload("k1"); string(data) != "voice" {
		t.Errorf("retry uploaded %q, want decrypted audio", data)
	}
}

func TestPollCommand(t *testing.T) {
	srv := transcribetest.NewServer(t, completed("resumed"))
	h := newHarness(t, srv.URL(), "")

	if err := h.run("poll", "--job", "job-9", "--user", "user-1"); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if got := h.stdout.String(); got != "resumed\n" {
		t.Errorf("stdout = %q", got)
	}
	if srv.ResultCalls() != 1 || len(srv.Starts()) != 0 {
		t.Errorf("result calls = %d, starts = %d", srv.ResultCalls(), len(srv.Starts()))
	}
}

func TestPollCommandFailedJob(t *testing.T) {
	srv := transcribetest.NewServer(t, transcribetest.WithResults(transcription.Result{Status: transcription.StatusFailed}))
	h := newHarness(t, srv.URL(), "")

	err := h.run("poll", "--job", "job-1", "--user", "user-1")
	if !errors.HasCode(err, errors.ErrCodeTranscriptionFailed) {
		t.Fatalf("expected TRANSCRIPTION_FAILED, got %v", err)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q", h.stdout.String())
	}

	fields := exitFields(err)
	if fields["code"] != string(errors.ErrCodeTranscriptionFailed) {
		t.Errorf("code = %v", fields["code"])
	}
	if fields["job_name"] != "job-1" || fields["retryable"] != false {
		t.Errorf("fields = %v", fields)
	}
}

func TestExitFieldsPlainError(t *testing.T) {
	fields := exitFields(errMissingCommand)
	if _, ok := fields["code"]; ok {
		t.Errorf("unexpected code for a plain error: %v", fields)
	}
	if fields[logger.FieldError] != "missing command" {
		t.Errorf("error field = %v", fields[logger.FieldError])
	}
}

func TestApplicationRegistersComponentLoggers(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "info", Format: logger.FormatJSON}, "transcribe", &buf)

	if _, err := newApplication(validConfig(), false, bootstrap.WithLogger(log), bootstrap.WithSignals()); err != nil {
		t.Fatalf("newApplication: %v", err)
	}
	defer logger.RegisterDefaults(logger.Nop(), componentLoggers...)

	logger.Get("provider").Info("selected")
	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if line[logger.FieldComponent] != "provider" || line["message"] != "selected" {
		t.Errorf("log line = %v", line)
	}
}

func TestRunCommandWithWhisper(t *testing.T) {
	sidecar := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"text": "from whisper"})
	}))
	defer sidecar.Close()
	srv := transcribetest.NewServer(t)
	h := newHarness(t, srv.URL(), "whisper:\n  url: "+sidecar.URL+"\n  timeout: 5s\n")

	err := h.run("run", "--file", h.audio(t, "a.wav", "riff"), "--user", "u", "--provider", "whisper")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := h.stdout.String(); got != "from whisper\n" {
		t.Errorf("stdout = %q", got)
	}
	if len(srv.Starts()) != 0 {
		t.Error("job API should not be used when whisper is pinned")
	}
}

func TestCommandErrors(t *testing.T) {
	srv := transcribetest.NewServer(t)
	h := newHarness(t, srv.URL(), "")

	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"run without file", []string{"run", "--user", "u"}, errors.ErrCodeInvalidInput},
		{"run without user", []string{"run", "--file", "x.webm"}, errors.ErrCodeInvalidInput},
		{"poll without job", []string{"poll", "--user", "u"}, errors.ErrCodeInvalidInput},
		{"retry without key", []string{"retry"}, errors.ErrCodeInvalidInput},
		{"retry missing recording", []string{"retry", "--key", "recordings/u/none.webm"}, errors.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := h.run(tt.args...); !errors.HasCode(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}

	for _, args := range [][]string{{}, {"transcribe-everything"}, {"run", "--bogus"}} {
		if err := h.cli.run(context.Background(), args); err == nil {
			t.Errorf("run(%v) should fail", args)
		}
	}
}

func TestInvalidConfigFails(t *testing.T) {
	h := newHarness(t, "not-a-url", "")
	err := h.run("poll", "--job", "j", "--user", "u")
	if err == nil || !strings.Contains(err.Error(), "api.base_url") {
		t.Fatalf("expected api.base_url validation error, got %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t, "http://localhost", "")
	if err := h.cli.run(context.Background(), []string{"version"}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(h.stdout.String(), "transcribekit ") {
		t.Errorf("stdout = %q", h.stdout.String())
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]string{
		"talk.webm":       "webm",
		"/tmp/MEMO.WAV":   "wav",
		"recording":       "webm",
		"dir.v2/take.mp4": "mp4",
	}
	for in, want := range tests {
		if got := formatOf(in); got != want {
			t.Errorf("formatOf(%q) = %q, want %q", in, got, want)
		}
	}
}
