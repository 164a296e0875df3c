package auth

import (
	"fmt"

	"github.com/kbukum/transcribekit/auth/jwt"
	"github.com/kbukum/transcribekit/httpclient"
)

// Mode selects how requests to the transcription API are authenticated.
type Mode string

const (
	ModeNone   Mode = "none"
	ModeBearer Mode = "bearer"
	ModeAPIKey Mode = "api_key"
	ModeJWT    Mode = "jwt"
)

// Config holds API authentication settings loaded from YAML/env via mapstructure.
type Config struct {
	// Mode is none, bearer, api_key or jwt. Defaults to none.
	Mode Mode `yaml:"mode" mapstructure:"mode"`

	// Token is the static bearer token (ModeBearer).
	Token string `yaml:"token" mapstructure:"token"`

	// APIKey and APIKeyHeader configure ModeAPIKey.
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	APIKeyHeader string `yaml:"api_key_header" mapstructure:"api_key_header"`

	// JWT configures minted service tokens (ModeJWT).
	JWT jwt.Config `yaml:"jwt" mapstructure:"jwt"`
}

// ApplyDefaults sets sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeNone
	}
	if c.Mode == ModeJWT {
		c.JWT.ApplyDefaults()
	}
}

// Validate checks the settings required by the selected mode.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeNone:
	case ModeBearer:
		if c.Token == "" {
			return fmt.Errorf("auth: token is required for bearer mode")
		}
	case ModeAPIKey:
		if c.APIKey == "" {
			return fmt.Errorf("auth: api_key is required for api_key mode")
		}
	case ModeJWT:
		if err := c.JWT.Validate(); err != nil {
			return fmt.Errorf("auth: jwt: %w", err)
		}
	default:
		return fmt.Errorf("auth: unknown mode %q", c.Mode)
	}
	return nil
}

// HTTPAuth builds the httpclient auth for the configured mode. Nil means no auth.
func (c *Config) HTTPAuth() (*httpclient.AuthConfig, error) {
	switch c.Mode {
	case ModeBearer:
		return httpclient.BearerAuth(c.Token), nil
	case ModeAPIKey:
		return httpclient.APIKeyAuth(c.APIKey, c.APIKeyHeader), nil
	case ModeJWT:
		jwtCfg := c.JWT
		tokens, err := jwt.NewServiceTokens(&jwtCfg)
		if err != nil {
			return nil, err
		}
		return httpclient.TokenAuth(tokens.TokenSource()), nil
	default:
		return nil, nil
	}
}
