package httpclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func newAuthRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://example.com", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return req
}

func TestBearerAuth(t *testing.T) {
	req := newAuthRequest(t)
	if err := BearerAuth("my-token").apply(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer my-token" {
		t.Errorf("got %q, want %q", got, "Bearer my-token")
	}
}

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"default header", "", "X-API-Key"},
		{"custom header", "X-Transcribe-Key", "X-Transcribe-Key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newAuthRequest(t)
			if err := APIKeyAuth("secret-key", tt.header).apply(req); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := req.Header.Get(tt.want); got != "secret-key" {
				t.Errorf("%s = %q, want %q", tt.want, got, "secret-key")
			}
		})
	}
}

func TestTokenAuth(t *testing.T) {
	calls := 0
	auth := TokenAuth(func(ctx context.Context) (string, error) {
		calls++
		return "minted", nil
	})

	req := newAuthRequest(t)
	if err := auth.apply(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer minted" {
		t.Errorf("got %q, want %q", got, "Bearer minted")
	}
	if calls != 1 {
		t.Errorf("expected 1 token call, got %d", calls)
	}
}

func TestTokenAuth_Error(t *testing.T) {
	errSign := errors.New("sign failed")
	auth := TokenAuth(func(ctx context.Context) (string, error) { return "", errSign })

	err := auth.apply(newAuthRequest(t))
	if !errors.Is(err, errSign) {
		t.Errorf("expected wrapped sign error, got %v", err)
	}

	if err := (&AuthConfig{Type: AuthTokenSource}).apply(newAuthRequest(t)); err == nil {
		t.Error("expected error for token auth without a source")
	}
}

func TestNilAndNoneAuth(t *testing.T) {
	for _, auth := range []*AuthConfig{nil, NoAuth()} {
		req := newAuthRequest(t)
		if err := auth.apply(req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := req.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no Authorization header, got %q", got)
		}
	}
}
