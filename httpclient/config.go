package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/transcribekit/resilience"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config configures the HTTP client.
type Config struct {
	// Name identifies the client in logs and health reports.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is the base URL prepended to relative request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds each request. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Auth configures default authentication applied to all requests.
	// Individual requests can override this.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// CircuitBreaker configures circuit breaker behavior. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`

	// RateLimiter configures client-side pacing. Nil disables it.
	RateLimiter *resilience.RateLimiterConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "http"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	return nil
}

// DefaultCircuitBreakerConfig returns a circuit breaker config that only
// counts server, connection and timeout errors as failures. A 429 or 4xx
// means the API is up and answering.
func DefaultCircuitBreakerConfig(name string) *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(name)
	cfg.IsFailure = func(err error) bool {
		return IsServerError(err) || IsConnection(err) || IsTimeout(err)
	}
	return &cfg
}

// DefaultRateLimiterConfig returns a default rate limiter config.
func DefaultRateLimiterConfig(name string) *resilience.RateLimiterConfig {
	cfg := resilience.DefaultRateLimiterConfig(name)
	return &cfg
}
