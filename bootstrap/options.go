package bootstrap

import (
	"os"
	"time"

	"github.com/kbukum/transcribekit/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	signals         []os.Signal
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger instead of one built from the config.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithSignals replaces the signals that cancel a running task. An empty
// list disables signal handling.
func WithSignals(sigs ...os.Signal) Option {
	return func(o *appOptions) {
		o.signals = append([]os.Signal{}, sigs...)
	}
}
