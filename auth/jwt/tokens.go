package jwt

import (
	"context"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/transcribekit/httpclient"
	"github.com/kbukum/transcribekit/logger"
)

// DefaultSubject is used when a request carries no user ID.
const DefaultSubject = "transcribekit"

// ServiceClaims are the claims carried by service tokens.
type ServiceClaims struct {
	gojwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}

// ServiceTokens mints ServiceClaims tokens.
type ServiceTokens struct {
	*Service[*ServiceClaims]
}

// NewServiceTokens creates a token minter for API calls.
func NewServiceTokens(cfg *Config) (*ServiceTokens, error) {
	svc, err := NewService(cfg, func() *ServiceClaims { return &ServiceClaims{} })
	if err != nil {
		return nil, err
	}
	return &ServiceTokens{Service: svc}, nil
}

// GenerateFor signs a fresh token for subject with a unique ID and the configured TTL.
func (t *ServiceTokens) GenerateFor(subject string) (string, error) {
	now := t.now()
	claims := &ServiceClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    t.cfg.Issuer,
			Audience:  t.cfg.Audience,
			IssuedAt:  gojwt.NewNumericDate(now),
			NotBefore: gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(t.cfg.TTL)),
		},
		Scope: "transcribe",
	}
	return t.Generate(claims)
}

// TokenSource returns an httpclient.TokenSource that mints a token per request.
// The subject is the user ID stored in the request context, if any.
func (t *ServiceTokens) TokenSource() httpclient.TokenSource {
	return func(ctx context.Context) (string, error) {
		subject, ok := logger.UserIDFromContext(ctx)
		if !ok {
			subject = DefaultSubject
		}
		return t.GenerateFor(subject)
	}
}
