package provider

import "context"

// Provider is the base interface every swappable backend implements.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable reports whether the backend can take requests right now.
	IsAvailable(ctx context.Context) bool
}

// Factory builds a provider from a loosely typed settings map,
// usually a config section decoded by viper.
type Factory[T Provider] func(settings map[string]any) (T, error)
