package jobs

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/transcribekit/errors"
	"github.com/kbukum/transcribekit/httpclient"
	"github.com/kbukum/transcribekit/transcription/transcribetest"
)

type fakeUploadPresigner struct {
	path        string
	contentType string
	expiry      time.Duration
	err         error
}

func (f *fakeUploadPresigner) PresignPut(_ context.Context, path, contentType string, expiry time.Duration) (string, error) {
	f.path, f.contentType, f.expiry = path, contentType, expiry
	if f.err != nil {
		return "", f.err
	}
	return "https://bucket.example/" + path + "?X-Amz-Signature=abc", nil
}

func TestS3PresignerBuildsKey(t *testing.T) {
	store := &fakeUploadPresigner{}
	p := NewS3Presigner(store, "uploads", 10*time.Minute)
	p.newName = func() string { return "2b1f" }

	target, err := p.Presign(context.Background(), "user-1", "webm")
	if err != nil {
		t.Fatalf("Presign: %v", err)
	}
	if target.JobName != "2b1f" {
		t.Errorf("job name = %q", target.JobName)
	}
	if target.S3Key != "uploads/user-1/2b1f.webm" {
		t.Errorf("key = %q", target.S3Key)
	}
	if !strings.HasPrefix(target.UploadURL, "https://bucket.example/uploads/user-1/2b1f.webm") {
		t.Errorf("url = %q", target.UploadURL)
	}
	if store.contentType != "audio/webm" || store.expiry != 10*time.Minute {
		t.Errorf("signed with %q for %v", store.contentType, store.expiry)
	}
}

func TestS3PresignerDefaults(t *testing.T) {
	store := &fakeUploadPresigner{}
	p := NewS3Presigner(store, "", 0)

	a, err := p.Presign(context.Background(), "u", "wav")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := p.Presign(context.Background(), "u", "wav")
	if a.JobName == b.JobName {
		t.Error("expected unique job names")
	}
	if !strings.HasPrefix(a.S3Key, "u/") || !strings.HasSuffix(a.S3Key, ".wav") {
		t.Errorf("key = %q", a.S3Key)
	}
	if store.expiry != 15*time.Minute {
		t.Errorf("expiry = %v, want 15m", store.expiry)
	}
}

func TestS3PresignerRejectsForeignPrefix(t *testing.T) {
	for _, user := range []string{"a/../b", "../user-2", "team/user-1"} {
		store := &fakeUploadPresigner{}
		p := NewS3Presigner(store, "uploads", time.Minute)
		_, err := p.Presign(context.Background(), user, "webm")
		if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Presign(%q): expected INVALID_INPUT, got %v", user, err)
		}
		if store.path != "" {
			t.Errorf("Presign(%q) signed %q", user, store.path)
		}
	}
}

func TestS3PresignerError(t *testing.T) {
	boom := stderrors.New("no credentials")
	p := NewS3Presigner(&fakeUploadPresigner{err: boom}, "uploads", time.Minute)
	if _, err := p.Presign(context.Background(), "u", "webm"); !stderrors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
}

func TestS3PresignerWithUploadFlow(t *testing.T) {
	srv := transcribetest.NewServer(t)
	store := &urlPresigner{base: srv.UploadURL("")}
	hc, err := httpclient.New(httpclient.Config{BaseURL: srv.URL(), Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(hc, WithPresigner(NewS3Presigner(store, "rec", time.Minute)))

	job, err := client.UploadAndSubmit(context.Background(), UploadRequest{Audio: []byte("a"), UserID: "user-1"})
	if err != nil {
		t.Fatalf("UploadAndSubmit: %v", err)
	}
	if _, _, ok := srv.Upload(job.S3Key); !ok {
		t.Errorf("nothing uploaded under %q", job.S3Key)
	}
	for _, r := range srv.Requests() {
		if r.Path == PathPresignedURL {
			t.Error("S3 presigner must not call the presigned-url endpoint")
		}
	}
	if starts := srv.Starts(); len(starts) != 1 || starts[0].S3Key != job.S3Key {
		t.Errorf("start calls = %+v", starts)
	}
}

// urlPresigner signs nothing; it points uploads at the fake server.
type urlPresigner struct{ base string }

func (u *urlPresigner) PresignPut(_ context.Context, path, _ string, _ time.Duration) (string, error) {
	return u.base + path, nil
}

func TestAPIPresignerRejectsIncompleteResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"uploadUrl":"https://x/put","s3Key":"k1"}`))
	}))
	defer ts.Close()

	hc, err := httpclient.New(httpclient.Config{BaseURL: ts.URL})
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewAPIPresigner(hc).Presign(context.Background(), "user-1", "webm")
	if !errors.HasCode(err, errors.ErrCodeExternalService) {
		t.Fatalf("expected EXTERNAL_SERVICE_ERROR, got %v", err)
	}
}
