package jwt

import (
	"context"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/transcribekit/logger"
)

func newTestTokens(t *testing.T, cfg Config) *ServiceTokens {
	t.Helper()
	svc, err := NewServiceTokens(&cfg)
	if err != nil {
		t.Fatalf("NewServiceTokens: %v", err)
	}
	return svc
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"ok", Config{Secret: "s"}, ""},
		{"missing secret", Config{}, "secret is required"},
		{"rsa rejected", Config{Secret: "s", Method: "RS256"}, "unsupported signing method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.ApplyDefaults()
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestServiceTokens_RoundTrip(t *testing.T) {
	svc := newTestTokens(t, Config{
		Secret:   "top-secret",
		Issuer:   "transcribekit",
		Audience: []string{"transcribe-api"},
		TTL:      time.Minute,
	})

	token, err := svc.GenerateFor("user-1")
	if err != nil {
		t.Fatalf("GenerateFor: %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject user-1, got %q", claims.Subject)
	}
	if claims.Scope != "transcribe" {
		t.Errorf("expected scope transcribe, got %q", claims.Scope)
	}
	if claims.ID == "" {
		t.Error("expected a token ID")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Minute {
		t.Errorf("expected 1m lifetime, got %v", got)
	}
}

func TestServiceTokens_RejectsWrongSecret(t *testing.T) {
	signer := newTestTokens(t, Config{Secret: "a"})
	verifier := newTestTokens(t, Config{Secret: "b"})

	token, err := signer.GenerateFor("user-1")
	if err != nil {
		t.Fatalf("GenerateFor: %v", err)
	}
	if _, err := verifier.Parse(token); err == nil {
		t.Error("expected signature verification to fail")
	}
}

func TestServiceTokens_RejectsExpired(t *testing.T) {
	svc := newTestTokens(t, Config{Secret: "s", TTL: time.Minute})
	token, err := svc.GenerateFor("user-1")
	if err != nil {
		t.Fatalf("GenerateFor: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := svc.Parse(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestServiceTokens_RejectsOtherAlgorithm(t *testing.T) {
	svc := newTestTokens(t, Config{Secret: "s"})
	other := gojwt.NewWithClaims(gojwt.SigningMethodHS512, &ServiceClaims{})
	token, err := other.SignedString([]byte("s"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Parse(token); err == nil {
		t.Error("expected HS512 token to be rejected by an HS256 service")
	}
}

func TestServiceTokens_TokenSourceUsesContextUser(t *testing.T) {
	svc := newTestTokens(t, Config{Secret: "s"})
	source := svc.TokenSource()

	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{"with user", logger.ContextWithUserID(context.Background(), "user-9"), "user-9"},
		{"without user", context.Background(), DefaultSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := source(tt.ctx)
			if err != nil {
				t.Fatalf("source: %v", err)
			}
			claims, err := svc.Parse(token)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if claims.Subject != tt.want {
				t.Errorf("expected subject %q, got %q", tt.want, claims.Subject)
			}
		})
	}
}
