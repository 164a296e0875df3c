package jobs

import (
	"context"
	stderrors "errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/transcribekit/errors"
	"github.com/kbukum/transcribekit/logger"
	"github.com/kbukum/transcribekit/observability"
	"github.com/kbukum/transcribekit/resilience"
	"github.com/kbukum/transcribekit/transcription"
)

// StatusFetcher answers one status query. *Client implements it.
type StatusFetcher interface {
	FetchResult(ctx context.Context, jobName, userID string) (transcription.Result, error)
}

// Poller waits for a job to finish. It holds no per-job state, so one
// Poller may serve any number of concurrent Poll calls.
type Poller struct {
	fetcher   StatusFetcher
	cfg       PollConfig
	schedule  resilience.StepBackoff
	rateLimit resilience.ExponentialBackoff
	jitter    resilience.Jitter
	sleeper   resilience.Sleeper
	metrics   *observability.TranscriptionMetrics
	log       *logger.Logger
	now       func() time.Time
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithSleeper replaces the real timer, mostly for tests.
func WithSleeper(s resilience.Sleeper) PollerOption {
	return func(p *Poller) {
		p.sleeper = s
	}
}

// WithJitter replaces the uniform jitter source.
func WithJitter(j resilience.Jitter) PollerOption {
	return func(p *Poller) {
		p.jitter = j
	}
}

// WithMetrics records polling metrics on m.
func WithMetrics(m *observability.TranscriptionMetrics) PollerOption {
	return func(p *Poller) {
		p.metrics = m
	}
}

// WithPollerLogger sets the poller logger.
func WithPollerLogger(l *logger.Logger) PollerOption {
	return func(p *Poller) {
		p.log = l
	}
}

// NewPoller creates a Poller. Zero fields in cfg take their defaults.
func NewPoller(fetcher StatusFetcher, cfg PollConfig, opts ...PollerOption) (*Poller, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Poller{
		fetcher:   fetcher,
		cfg:       cfg,
		schedule:  resilience.StepBackoff{Steps: cfg.Schedule},
		rateLimit: resilience.ExponentialBackoff{Base: cfg.RateLimitBase, Max: cfg.RateLimitCap},
		jitter:    resilience.UniformJitter,
		sleeper:   resilience.TimerSleeper{},
		log:       logger.Get("transcription"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Poll queries the job until it completes, fails or the attempt budget runs out.
//
// A COMPLETED job with a transcript returns the transcript. FAILED returns a
// TRANSCRIPTION_FAILED error at once. After MaxAttempts queries without either,
// Poll returns TRANSCRIPTION_TIMEOUT. A rate-limited query waits on the
// exponential backoff instead of the schedule and still uses up its attempt;
// on the last attempt the rate-limit error itself is returned. Any other
// query error is returned unchanged.
//
// The rate-limit exponent counts the queries made so far, not the zero-based
// attempt index: with the defaults a limit on attempt 0 waits 2s, on attempt 2
// waits min(10s, 1s*2^3) = 8s, and from attempt 3 on the 10s cap applies.
func (p *Poller) Poll(ctx context.Context, jobName, userID string) (transcript string, err error) {
	ctx = logger.ContextWithJobName(logger.ContextWithUserID(ctx, userID), jobName)
	ctx, span := observability.StartSpan(ctx, observability.SpanPoll,
		attribute.String(observability.AttrJobName, jobName),
		attribute.String(observability.AttrUserID, userID),
	)
	log := p.log.WithContext(ctx)
	start := p.now()
	attempts := 0

	defer func() {
		outcome := outcomeOf(err)
		span.SetAttributes(
			attribute.Int(observability.AttrAttempts, attempts),
			attribute.String(observability.AttrOutcome, string(outcome)),
		)
		observability.EndSpan(span, err)
		p.metrics.RecordOutcome(context.WithoutCancel(ctx), outcome, p.now().Sub(start))
		log.Info("polling finished", logger.Fields(
			"outcome", string(outcome),
			"attempts", attempts,
			logger.FieldDuration, p.now().Sub(start).Milliseconds(),
		))
	}()

	last := p.cfg.MaxAttempts - 1
	for attempt := 0; attempt <= last; attempt++ {
		attempts = attempt + 1
		p.metrics.RecordAttempt(ctx)

		result, qerr := p.fetcher.FetchResult(ctx, jobName, userID)
		if qerr != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if !IsRateLimited(qerr) {
				return "", qerr
			}
			p.metrics.RecordRateLimited(ctx)
			if attempt == last {
				return "", qerr
			}
			// The exponent counts queries made so far, so attempt 2 waits 8s.
			wait := p.rateLimit.Delay(attempt + 1)
			log.Warn("status query rate limited", logger.Fields(
				logger.FieldAttempt, attempt,
				"wait_ms", wait.Milliseconds(),
				logger.FieldError, qerr.Error(),
			))
			if err := p.sleeper.Sleep(ctx, wait); err != nil {
				return "", err
			}
			continue
		}

		log.Debug("job status", logger.Fields(logger.FieldAttempt, attempt, logger.FieldStatus, result.Status.String()))

		switch result.Status {
		case transcription.StatusCompleted:
			if result.Transcript != "" {
				return result.Transcript, nil
			}
			log.Warn("job completed without a transcript", logger.Fields(logger.FieldAttempt, attempt))
		case transcription.StatusFailed:
			return "", errors.TranscriptionFailed(jobName)
		case transcription.StatusUnknown:
			log.Warn("unrecognised job status", logger.Fields(logger.FieldAttempt, attempt))
		}

		if attempt == last {
			break
		}
		if err := p.sleeper.Sleep(ctx, p.Wait(attempt)); err != nil {
			return "", err
		}
	}

	return "", errors.TranscriptionTimedOut(jobName, attempts)
}

// Wait returns the pause after a non-terminal status at the given attempt:
// the scheduled base delay plus jitter.
func (p *Poller) Wait(attempt int) time.Duration {
	return p.schedule.Delay(attempt) + p.jitter(p.cfg.MaxJitter)
}

func outcomeOf(err error) observability.Outcome {
	switch {
	case err == nil:
		return observability.OutcomeCompleted
	case errors.HasCode(err, errors.ErrCodeTranscriptionFailed):
		return observability.OutcomeFailed
	case errors.HasCode(err, errors.ErrCodeTranscriptionTimeout):
		return observability.OutcomeTimeout
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return observability.OutcomeCanceled
	default:
		return observability.OutcomeError
	}
}
