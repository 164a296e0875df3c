package httpclient

import (
	"context"

	"github.com/kbukum/transcribekit/component"
	"github.com/kbukum/transcribekit/resilience"
)

// Component wraps a Client with lifecycle management.
type Component struct {
	client *Client
	config Config
	opts   []Option
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a new HTTP client component.
// The client is created lazily in Start().
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	if c.config.Name == "" {
		return "http"
	}
	return c.config.Name
}

// Start builds the HTTP client.
func (c *Component) Start(_ context.Context) error {
	client, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

// Stop releases idle connections.
func (c *Component) Stop(_ context.Context) error {
	if c.client != nil {
		c.client.httpClient.CloseIdleConnections()
	}
	return nil
}

// Health reports unhealthy before Start or when the API is unreachable,
// and degraded while the circuit breaker is not closed.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.client == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case c.client.CircuitState() != resilience.StateClosed:
		h.Status = component.StatusDegraded
		h.Message = "circuit " + c.client.CircuitState().String()
	case !c.client.Ping(ctx):
		h.Status = component.StatusUnhealthy
		h.Message = "unreachable"
	}
	return h
}

// Describe returns a one-line summary of the component.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "http-client",
		Details: c.config.BaseURL,
	}
}

// Client returns the underlying client. Must be called after Start().
func (c *Component) Client() *Client {
	return c.client
}
