package provider

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/kbukum/transcribekit/errors"
	"github.com/kbukum/transcribekit/logger"
)

// Manager owns the active providers of one kind and picks one per call,
// either the configured default or whatever the Selector chooses.
type Manager[T Provider] struct {
	mu          sync.RWMutex
	registry    *Registry[T]
	selector    Selector[T]
	providers   map[string]T
	defaultName string
	log         *logger.Logger
}

// NewManager creates a Manager backed by registry and selector.
func NewManager[T Provider](registry *Registry[T], selector Selector[T]) *Manager[T] {
	return &Manager[T]{
		registry:  registry,
		selector:  selector,
		providers: make(map[string]T),
		log:       logger.Get("provider"),
	}
}

// Register adds a factory to the underlying registry.
func (m *Manager[T]) Register(name string, factory Factory[T]) {
	m.registry.RegisterFactory(name, factory)
	m.log.Debug("factory registered", logger.Fields("provider", name))
}

// Initialize builds the named provider from its factory and activates it.
func (m *Manager[T]) Initialize(name string, settings map[string]any) error {
	instance, err := m.registry.Create(name, settings)
	if err != nil {
		return fmt.Errorf("initialize provider %q: %w", name, err)
	}
	m.Add(name, instance)
	return nil
}

// Add activates an already constructed provider under name.
func (m *Manager[T]) Add(name string, instance T) {
	m.mu.Lock()
	m.providers[name] = instance
	m.mu.Unlock()
	m.registry.Set(name, instance)
	m.log.Info("provider initialized", logger.Fields("provider", name))
}

// Get returns the default provider when one is set, otherwise asks the selector.
func (m *Manager[T]) Get(ctx context.Context) (T, error) {
	m.mu.RLock()
	defaultName := m.defaultName
	providers := maps.Clone(m.providers)
	m.mu.RUnlock()

	if defaultName != "" {
		if p, ok := providers[defaultName]; ok {
			return p, nil
		}
		var zero T
		return zero, errors.NotFound("provider", defaultName)
	}
	return m.selector.Select(ctx, providers)
}

// GetByName returns a specific active provider.
func (m *Manager[T]) GetByName(name string) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.providers[name]; ok {
		return p, nil
	}
	var zero T
	return zero, errors.NotFound("provider", name)
}

// SetDefault pins Get to the named provider.
func (m *Manager[T]) SetDefault(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[name]; !ok {
		return errors.InvalidInput("provider", fmt.Sprintf("%q is not initialized", name))
	}
	m.defaultName = name
	m.log.Info("default provider set", logger.Fields("provider", name))
	return nil
}

// Available returns the sorted names of all active providers.
func (m *Manager[T]) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.providers))
}
