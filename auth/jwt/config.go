package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod defines supported JWT signing algorithms.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// Config configures service token signing. The transcription API shares an
// HMAC secret with its clients, so only HS* methods are supported.
type Config struct {
	// Secret is the HMAC signing key.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// Method is the signing algorithm (default: HS256).
	Method SigningMethod `yaml:"method" mapstructure:"method"`

	// Issuer is the "iss" claim (optional).
	Issuer string `yaml:"issuer" mapstructure:"issuer"`

	// Audience is the "aud" claim (optional).
	Audience []string `yaml:"audience" mapstructure:"audience"`

	// TTL is the lifetime of each token (default: 5m).
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	switch c.Method {
	case HS256, HS384, HS512:
	default:
		return errors.New("unsupported signing method: " + string(c.Method))
	}
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	if c.TTL < 0 {
		return errors.New("ttl must not be negative")
	}
	return nil
}

// signingMethod returns the golang-jwt SigningMethod instance.
func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return gojwt.SigningMethodHS256
	}
}

func (c *Config) key() []byte {
	return []byte(c.Secret)
}
