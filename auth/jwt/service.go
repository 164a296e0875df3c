// Package jwt signs and verifies short-lived service tokens for the
// transcription API.
//
// The service is parameterized by a claims type T, which must implement
// jwt.Claims (typically by embedding jwt.RegisteredClaims). ServiceClaims is
// the type used for API calls:
//
//	svc, err := jwt.NewServiceTokens(&cfg)
//	token, err := svc.GenerateFor("user-123")
//	claims, err := svc.Parse(token)
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Service provides JWT token generation and parsing for claims type T.
type Service[T gojwt.Claims] struct {
	cfg      Config
	newEmpty func() T
	now      func() time.Time
}

// NewService creates a new JWT service.
// The newEmpty function returns a zero-value instance of T for parsing.
func NewService[T gojwt.Claims](cfg *Config, newEmpty func() T) (*Service[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	return &Service[T]{cfg: *cfg, newEmpty: newEmpty, now: time.Now}, nil
}

// Generate signs claims as they are.
func (s *Service[T]) Generate(claims T) (string, error) {
	token := gojwt.NewWithClaims(s.cfg.signingMethod(), claims)
	signed, err := token.SignedString(s.cfg.key())
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// Parse validates and parses a JWT token string into claims of type T.
// It verifies the signature, expiry, and optionally issuer/audience.
func (s *Service[T]) Parse(tokenString string) (T, error) {
	var zero T
	claims := s.newEmpty()
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		return zero, fmt.Errorf("jwt: parse token: %w", err)
	}
	if !token.Valid {
		return zero, errors.New("jwt: invalid token")
	}
	parsed, ok := token.Claims.(T)
	if !ok {
		return zero, errors.New("jwt: unexpected claims type")
	}
	return parsed, nil
}

// keyFunc is the jwt.Keyfunc used during token parsing.
func (s *Service[T]) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("jwt: unexpected signing method: %s", token.Method.Alg())
	}
	return s.cfg.key(), nil
}

// parserOptions returns jwt.ParserOption based on config.
func (s *Service[T]) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
		gojwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if len(s.cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience[0]))
	}
	return opts
}
