package storage

import (
	"errors"
	"fmt"
	"time"
)

// Provider constants for supported storage backends.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// Default configuration values.
const (
	DefaultProvider      = ProviderLocal
	DefaultBasePath      = "./recordings-store"
	DefaultRegion        = "us-east-1"
	DefaultPresignExpiry = 15 * time.Minute
)

// Config holds storage configuration.
type Config struct {
	// Provider selects the storage backend: "local" or "s3".
	Provider string `yaml:"provider" mapstructure:"provider"`

	// BasePath is the root directory for local storage.
	BasePath string `yaml:"base_path" mapstructure:"base_path"`

	// Bucket is the S3 bucket name.
	Bucket string `yaml:"bucket" mapstructure:"bucket"`

	// Region is the AWS region for S3.
	Region string `yaml:"region" mapstructure:"region"`

	// Endpoint is a custom S3-compatible endpoint (e.g. MinIO).
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// AccessKey and SecretKey are static credentials. When empty the
	// default AWS credential chain is used.
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`

	// ForcePathStyle forces path-style URLs instead of virtual-hosted-style.
	ForcePathStyle bool `yaml:"force_path_style" mapstructure:"force_path_style"`

	// PresignExpiry bounds the lifetime of presigned upload URLs.
	PresignExpiry time.Duration `yaml:"presign_expiry" mapstructure:"presign_expiry"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.PresignExpiry <= 0 {
		c.PresignExpiry = DefaultPresignExpiry
	}
}

// Validate checks that the configuration is valid for the selected provider.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.BasePath == "" {
			return errors.New("storage: base_path is required for local provider")
		}
	case ProviderS3:
		var errs []error
		if c.Bucket == "" {
			errs = append(errs, errors.New("bucket is required"))
		}
		if c.Region == "" {
			errs = append(errs, errors.New("region is required"))
		}
		if (c.AccessKey == "") != (c.SecretKey == "") {
			errs = append(errs, errors.New("access_key and secret_key must be set together"))
		}
		if len(errs) > 0 {
			return fmt.Errorf("storage: invalid s3 config: %w", errors.Join(errs...))
		}
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	return nil
}
