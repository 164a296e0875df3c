package provider

import (
	"context"
	"maps"
	"slices"

	"github.com/kbukum/transcribekit/errors"
)

// Selector picks one provider out of the active set.
type Selector[T Provider] interface {
	Select(ctx context.Context, providers map[string]T) (T, error)
}

// errNoneAvailable is returned when every candidate reports unavailable.
func errNoneAvailable(candidates []string) error {
	return errors.ServiceUnavailable("transcription provider").WithDetail("candidates", candidates)
}

// PrioritySelector tries providers in a fixed order and returns the first available one.
// Names missing from the active set are skipped.
type PrioritySelector[T Provider] struct {
	Priority []string
}

// Select returns the first available provider in priority order.
func (s *PrioritySelector[T]) Select(ctx context.Context, providers map[string]T) (T, error) {
	for _, name := range s.Priority {
		if p, ok := providers[name]; ok && p.IsAvailable(ctx) {
			return p, nil
		}
	}
	var zero T
	return zero, errNoneAvailable(s.Priority)
}

// HealthCheckSelector returns the first available provider in name order.
type HealthCheckSelector[T Provider] struct{}

// Select probes providers alphabetically and returns the first that answers.
func (s *HealthCheckSelector[T]) Select(ctx context.Context, providers map[string]T) (T, error) {
	names := slices.Sorted(maps.Keys(providers))
	for _, name := range names {
		if p := providers[name]; p.IsAvailable(ctx) {
			return p, nil
		}
	}
	var zero T
	return zero, errNoneAvailable(names)
}
