package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/transcribekit/logger"
)

// InitMeter installs an OTLP/HTTP meter provider as the global provider.
// The caller must shut it down on exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))

	return mp, nil
}

// Meter returns the module meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}

// Outcome labels a finished transcription job.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeTimeout   Outcome = "timeout"
	OutcomeError     Outcome = "error"
	OutcomeCanceled  Outcome = "canceled"
)

// TranscriptionMetrics holds the polling instruments. A nil receiver records nothing.
type TranscriptionMetrics struct {
	attempts     metric.Int64Counter
	rateLimited  metric.Int64Counter
	jobs         metric.Int64Counter
	pollDuration metric.Float64Histogram
}

// NewTranscriptionMetrics creates the instruments on meter.
func NewTranscriptionMetrics(meter metric.Meter) (*TranscriptionMetrics, error) {
	attempts, err := meter.Int64Counter("transcription.poll.attempts",
		metric.WithDescription("Status queries issued while polling"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.poll.attempts counter: %w", err)
	}

	rateLimited, err := meter.Int64Counter("transcription.poll.rate_limited",
		metric.WithDescription("Status queries rejected by rate limiting"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.poll.rate_limited counter: %w", err)
	}

	jobs, err := meter.Int64Counter("transcription.jobs",
		metric.WithDescription("Polling sessions by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.jobs counter: %w", err)
	}

	pollDuration, err := meter.Float64Histogram("transcription.poll.duration",
		metric.WithDescription("Wall time from first status query to outcome"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.poll.duration histogram: %w", err)
	}

	return &TranscriptionMetrics{
		attempts:     attempts,
		rateLimited:  rateLimited,
		jobs:         jobs,
		pollDuration: pollDuration,
	}, nil
}

// RecordAttempt counts one status query.
func (m *TranscriptionMetrics) RecordAttempt(ctx context.Context) {
	if m == nil {
		return
	}
	m.attempts.Add(ctx, 1)
}

// RecordRateLimited counts one rate-limited status query.
func (m *TranscriptionMetrics) RecordRateLimited(ctx context.Context) {
	if m == nil {
		return
	}
	m.rateLimited.Add(ctx, 1)
}

// RecordOutcome counts a finished polling session and its duration.
func (m *TranscriptionMetrics) RecordOutcome(ctx context.Context, outcome Outcome, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrOutcome, string(outcome)))
	m.jobs.Add(ctx, 1, attrs)
	m.pollDuration.Record(ctx, d.Seconds(), attrs)
}
