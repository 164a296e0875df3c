package httpclient

import (
	"context"
	"fmt"
	"net/http"
)

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthBearer uses a static Bearer token.
	AuthBearer
	// AuthAPIKey sends an API key in a header.
	AuthAPIKey
	// AuthTokenSource mints a Bearer token per request.
	AuthTokenSource
)

// TokenSource returns a bearer token for an outgoing request.
type TokenSource func(ctx context.Context) (string, error)

// AuthConfig configures request authentication.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType
	// Token is the bearer token (AuthBearer).
	Token string
	// Key is the API key value (AuthAPIKey).
	Key string
	// Name is the header name (AuthAPIKey). Defaults to "X-API-Key".
	Name string
	// Source produces tokens (AuthTokenSource).
	Source TokenSource
}

// NoAuth disables authentication, including any client-level default.
func NoAuth() *AuthConfig {
	return &AuthConfig{Type: AuthNone}
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// APIKeyAuth creates an API key auth config sent via the given header.
// An empty header name means "X-API-Key".
func APIKeyAuth(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, Name: headerName}
}

// TokenAuth creates an auth config that asks source for a bearer token on every request.
func TokenAuth(source TokenSource) *AuthConfig {
	return &AuthConfig{Type: AuthTokenSource, Source: source}
}

// apply applies authentication to an HTTP request.
func (a *AuthConfig) apply(req *http.Request) error {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthAPIKey:
		name := a.Name
		if name == "" {
			name = "X-API-Key"
		}
		req.Header.Set(name, a.Key)
	case AuthTokenSource:
		if a.Source == nil {
			return fmt.Errorf("httpclient: token auth without a source")
		}
		token, err := a.Source(req.Context())
		if err != nil {
			return fmt.Errorf("httpclient: obtain token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}
