package observability

import (
	"context"
	"errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/transcribekit/component"
)

// Component manages the tracer and meter providers.
type Component struct {
	cfg Config
	tp  *sdktrace.TracerProvider
	mp  *sdkmetric.MeterProvider
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a telemetry component.
func NewComponent(cfg Config) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg}
}

// Name returns the component name.
func (c *Component) Name() string { return "telemetry" }

// Start installs the exporters when telemetry is enabled.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	tp, err := InitTracer(ctx, c.cfg)
	if err != nil {
		return err
	}
	mp, err := InitMeter(ctx, c.cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}
	c.tp, c.mp = tp, mp
	return nil
}

// Stop flushes and shuts down both providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
	}
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// Health is always healthy; export failures are reported by the SDK itself.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.cfg.Enabled {
		h.Message = "disabled"
	}
	return h
}

// Describe returns a one-line summary of the component.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = c.cfg.Endpoint
	}
	return component.Description{Name: c.Name(), Type: "telemetry", Details: details}
}
