package bootstrap

import (
	"github.com/kbukum/transcribekit/config"
)

// Config is the constraint for application configuration types. Any struct
// embedding config.ServiceConfig satisfies it via promoted methods, as long
// as it overrides ApplyDefaults and Validate for its own sections.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
