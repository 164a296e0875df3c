package transcription

import "github.com/kbukum/transcribekit/provider"

// NewRegistry creates a provider registry for transcription backends.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}

// ManagerOption configures the transcription provider manager.
type ManagerOption func(*managerConfig)

type managerConfig struct {
	selector provider.Selector[Provider]
	registry *provider.Registry[Provider]
}

// WithSelector sets the provider selection strategy for the manager.
func WithSelector(s provider.Selector[Provider]) ManagerOption {
	return func(c *managerConfig) {
		c.selector = s
	}
}

// WithPriority selects the first available provider in the given order.
func WithPriority(names ...string) ManagerOption {
	return WithSelector(&provider.PrioritySelector[Provider]{Priority: names})
}

// WithRegistry shares an existing registry with the manager.
func WithRegistry(r *provider.Registry[Provider]) ManagerOption {
	return func(c *managerConfig) {
		c.registry = r
	}
}

// NewManager creates a manager for transcription providers. Without options it
// picks the first available provider by name.
func NewManager(opts ...ManagerOption) *provider.Manager[Provider] {
	cfg := &managerConfig{
		selector: &provider.HealthCheckSelector[Provider]{},
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.registry == nil {
		cfg.registry = NewRegistry()
	}
	return provider.NewManager(cfg.registry, cfg.selector)
}
