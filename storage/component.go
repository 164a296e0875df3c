package storage

import (
	"context"
	"fmt"

	"github.com/kbukum/transcribekit/component"
	"github.com/kbukum/transcribekit/logger"
)

// Component wraps Storage and implements component.Component for lifecycle management.
type Component struct {
	storage Storage
	cfg     Config
	log     *logger.Logger
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a storage component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, log: log}
}

// Storage returns the underlying Storage, or nil if not started.
func (c *Component) Storage() Storage {
	return c.storage
}

// Name returns the component name.
func (c *Component) Name() string { return "storage" }

// Start initializes the storage backend.
func (c *Component) Start(ctx context.Context) error {
	s, err := New(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.storage = s
	return nil
}

// Stop releases the backend.
func (c *Component) Stop(_ context.Context) error {
	c.storage = nil
	return nil
}

// Health lists the archive prefix as a cheap liveness probe.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if c.storage == nil {
		h.Status = component.StatusUnhealthy
		h.Message = "storage not initialized"
		return h
	}
	if _, err := c.storage.Exists(ctx, ".health"); err != nil {
		h.Status = component.StatusUnhealthy
		h.Message = fmt.Sprintf("health probe failed: %v", err)
	}
	return h
}

// Describe returns a one-line summary of the backend.
func (c *Component) Describe() component.Description {
	details := "provider=" + c.cfg.Provider
	switch c.cfg.Provider {
	case ProviderS3:
		details += " bucket=" + c.cfg.Bucket
	case ProviderLocal:
		details += " path=" + c.cfg.BasePath
	}
	return component.Description{Name: "Storage", Type: "storage", Details: details}
}
