package observability

import (
	"time"

	"github.com/kbukum/transcribekit/validation"
)

// Config configures OpenTelemetry export. Telemetry is off unless Enabled is set;
// the global no-op providers stay in place in that case.
type Config struct {
	Enabled        bool   `yaml:"enabled" mapstructure:"enabled"`
	ServiceName    string `yaml:"service_name" mapstructure:"service_name"`
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	Environment    string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g. "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling ratio in [0, 1].
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
	// MetricInterval is how often metrics are pushed.
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// DefaultConfig returns development defaults with export disabled.
func DefaultConfig(serviceName string) Config {
	cfg := Config{ServiceName: serviceName}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "transcribekit"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "dev"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.MetricInterval <= 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Validate checks the configuration. A disabled config is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.New().
		Required("telemetry.service_name", c.ServiceName).
		Required("telemetry.endpoint", c.Endpoint).
		Range("telemetry.sample_rate", c.SampleRate, 0, 1).
		Positive("telemetry.metric_interval", c.MetricInterval).
		Err()
}
