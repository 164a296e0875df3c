package jobs

import (
	"time"

	"github.com/kbukum/transcribekit/validation"
)

// DefaultSchedule is the base wait after each non-terminal status, indexed by attempt.
var DefaultSchedule = []time.Duration{
	500 * time.Millisecond,
	1000 * time.Millisecond,
	1500 * time.Millisecond,
	2000 * time.Millisecond,
	3000 * time.Millisecond,
	5000 * time.Millisecond,
}

const (
	DefaultMaxAttempts   = 60
	DefaultMaxJitter     = 500 * time.Millisecond
	DefaultRateLimitBase = time.Second
	DefaultRateLimitCap  = 10 * time.Second
)

// PollConfig bounds and paces a polling session.
type PollConfig struct {
	// MaxAttempts is the total number of status queries allowed.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
	// Schedule holds base waits by attempt index; the last entry repeats.
	Schedule []time.Duration `yaml:"schedule" mapstructure:"schedule"`
	// MaxJitter is the exclusive upper bound of the random extra wait.
	MaxJitter time.Duration `yaml:"max_jitter" mapstructure:"max_jitter"`
	// RateLimitBase and RateLimitCap shape the wait after a rate-limited query.
	RateLimitBase time.Duration `yaml:"rate_limit_base" mapstructure:"rate_limit_base"`
	RateLimitCap  time.Duration `yaml:"rate_limit_cap" mapstructure:"rate_limit_cap"`
}

// DefaultPollConfig returns the standard polling budget.
func DefaultPollConfig() PollConfig {
	var cfg PollConfig
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero-value fields.
func (c *PollConfig) ApplyDefaults() {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if len(c.Schedule) == 0 {
		c.Schedule = append([]time.Duration(nil), DefaultSchedule...)
	}
	if c.MaxJitter == 0 {
		c.MaxJitter = DefaultMaxJitter
	}
	if c.RateLimitBase == 0 {
		c.RateLimitBase = DefaultRateLimitBase
	}
	if c.RateLimitCap == 0 {
		c.RateLimitCap = DefaultRateLimitCap
	}
}

// Validate checks the configuration.
func (c *PollConfig) Validate() error {
	v := validation.New().
		Min("polling.max_attempts", c.MaxAttempts, 1).
		Custom(len(c.Schedule) > 0, "polling.schedule", "must not be empty").
		Custom(c.MaxJitter >= 0, "polling.max_jitter", "must not be negative").
		Positive("polling.rate_limit_base", c.RateLimitBase).
		Custom(c.RateLimitCap >= c.RateLimitBase, "polling.rate_limit_cap", "must be at least rate_limit_base")
	for _, d := range c.Schedule {
		if d < 0 {
			v.AddError("polling.schedule", "entries must not be negative")
			break
		}
	}
	return v.Err()
}
