package main

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/kbukum/transcribekit/auth"
	"github.com/kbukum/transcribekit/config"
	"github.com/kbukum/transcribekit/encryption"
	"github.com/kbukum/transcribekit/httpclient"
	"github.com/kbukum/transcribekit/observability"
	"github.com/kbukum/transcribekit/storage"
	"github.com/kbukum/transcribekit/transcription/archive"
	"github.com/kbukum/transcribekit/transcription/jobs"
	"github.com/kbukum/transcribekit/transcription/whisper"
	"github.com/kbukum/transcribekit/validation"
	"github.com/kbukum/transcribekit/version"
)

const serviceName = "transcribe"

// Presigner modes.
const (
	PresignerAPI = "api"
	PresignerS3  = "s3"
)

// AppConfig is the full configuration of the transcribe command.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	API       APIConfig            `yaml:"api" mapstructure:"api"`
	Polling   jobs.PollConfig      `yaml:"polling" mapstructure:"polling"`
	Presigner PresignerConfig      `yaml:"presigner" mapstructure:"presigner"`
	Storage   storage.Config       `yaml:"storage" mapstructure:"storage"`
	Archive   ArchiveConfig        `yaml:"archive" mapstructure:"archive"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
	Provider  ProviderConfig       `yaml:"provider" mapstructure:"provider"`

	// Whisper holds raw settings for the whisper provider factory.
	Whisper map[string]any `yaml:"whisper" mapstructure:"whisper"`
}

// APIConfig describes the transcription job API.
type APIConfig struct {
	BaseURL string            `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration     `yaml:"timeout" mapstructure:"timeout"`
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	Auth    auth.Config       `yaml:"auth" mapstructure:"auth"`

	// CircuitBreaker fails fast after repeated server errors.
	CircuitBreaker bool `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`
	// RateLimit paces outbound calls in requests per second; zero disables it.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// PresignerConfig selects where upload URLs come from.
type PresignerConfig struct {
	Mode   string        `yaml:"mode" mapstructure:"mode"`
	Prefix string        `yaml:"prefix" mapstructure:"prefix"`
	Expiry time.Duration `yaml:"expiry" mapstructure:"expiry"`
}

// ArchiveConfig controls how kept recordings are stored.
type ArchiveConfig struct {
	Prefix     string            `yaml:"prefix" mapstructure:"prefix"`
	Encryption encryption.Config `yaml:"encryption" mapstructure:"encryption"`
}

// ProviderConfig selects the transcription backend.
type ProviderConfig struct {
	// Name pins a provider. Empty means the first available one in Priority.
	Name     string   `yaml:"name" mapstructure:"name"`
	Priority []string `yaml:"priority" mapstructure:"priority"`
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	c.ServiceConfig.ApplyDefaults()

	if c.API.Timeout <= 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.API.Headers == nil {
		c.API.Headers = map[string]string{}
	}
	if _, ok := c.API.Headers["User-Agent"]; !ok {
		c.API.Headers["User-Agent"] = version.UserAgent()
	}
	c.API.Auth.ApplyDefaults()

	c.Polling.ApplyDefaults()

	if c.Presigner.Mode == "" {
		c.Presigner.Mode = PresignerAPI
	}
	if c.Presigner.Prefix == "" {
		c.Presigner.Prefix = "uploads"
	}

	c.Storage.ApplyDefaults()
	if c.Presigner.Expiry <= 0 {
		c.Presigner.Expiry = c.Storage.PresignExpiry
	}

	if c.Archive.Prefix == "" {
		c.Archive.Prefix = archive.DefaultPrefix
	}
	c.Archive.Encryption.ApplyDefaults()

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Name
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = c.Version
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	c.Telemetry.ApplyDefaults()

	if len(c.Provider.Priority) == 0 {
		c.Provider.Priority = []string{jobs.ProviderName}
	}
}

// Validate checks every section and joins the failures.
func (c *AppConfig) Validate() error {
	var errs []error
	if err := c.ServiceConfig.Validate(); err != nil {
		errs = append(errs, err)
	}

	providers := []string{jobs.ProviderName, whisper.ProviderName}
	v := validation.New().
		Required("api.base_url", c.API.BaseURL).
		URL("api.base_url", c.API.BaseURL).
		Positive("api.timeout", c.API.Timeout).
		Custom(c.API.RateLimit >= 0, "api.rate_limit", "must not be negative").
		OneOf("presigner.mode", c.Presigner.Mode, []string{PresignerAPI, PresignerS3}).
		Custom(c.Presigner.Mode != PresignerS3 || c.Storage.Provider == storage.ProviderS3,
			"presigner.mode", "s3 requires storage.provider s3")
	if c.Provider.Name != "" {
		v.OneOf("provider.name", c.Provider.Name, providers)
	}
	for _, name := range c.Provider.Priority {
		if !slices.Contains(providers, name) {
			v.AddError("provider.priority", fmt.Sprintf("unknown provider %q", name))
		}
	}
	if err := v.Err(); err != nil {
		errs = append(errs, err)
	}

	for name, check := range map[string]func() error{
		"api.auth":  c.API.Auth.Validate,
		"polling":   c.Polling.Validate,
		"storage":   c.Storage.Validate,
		"archive":   c.Archive.Encryption.Validate,
		"telemetry": c.Telemetry.Validate,
	} {
		if err := check(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Providers returns the provider names to initialize, pinned one first.
func (c *AppConfig) Providers() []string {
	names := slices.Clone(c.Provider.Priority)
	if c.Provider.Name != "" && !slices.Contains(names, c.Provider.Name) {
		names = slices.Insert(names, 0, c.Provider.Name)
	}
	return names
}

// HTTPConfig builds the job API client config.
func (c *AppConfig) HTTPConfig() (httpclient.Config, error) {
	authCfg, err := c.API.Auth.HTTPAuth()
	if err != nil {
		return httpclient.Config{}, fmt.Errorf("api.auth: %w", err)
	}
	hc := httpclient.Config{
		Name:    "transcription-api",
		BaseURL: c.API.BaseURL,
		Timeout: c.API.Timeout,
		Auth:    authCfg,
		Headers: c.API.Headers,
	}
	if c.API.CircuitBreaker {
		hc.CircuitBreaker = httpclient.DefaultCircuitBreakerConfig(hc.Name)
	}
	if c.API.RateLimit > 0 {
		rl := httpclient.DefaultRateLimiterConfig(hc.Name)
		rl.Rate = c.API.RateLimit
		rl.Burst = max(1, int(c.API.RateLimit))
		hc.RateLimiter = rl
	}
	return hc, nil
}
