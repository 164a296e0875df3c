package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures a rate limiter.
type RateLimiterConfig struct {
	// Name identifies this rate limiter for logging.
	Name string
	// Rate is the number of requests allowed per second.
	Rate float64
	// Burst is the maximum burst size.
	Burst int
}

// DefaultRateLimiterConfig returns sensible defaults.
func DefaultRateLimiterConfig(name string) RateLimiterConfig {
	return RateLimiterConfig{
		Name:  name,
		Rate:  10.0,
		Burst: 20,
	}
}

// RateLimiter is a token bucket used to pace outbound API calls on the client side.
type RateLimiter struct {
	config RateLimiterConfig

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 10.0
	}
	if config.Burst <= 0 {
		config.Burst = int(config.Rate)
	}

	return &RateLimiter{
		config:     config,
		tokens:     float64(config.Burst),
		lastRefill: time.Now(),
	}
}

// Allow reports whether a request may proceed now, consuming a token if so.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	wait := rl.reserve()
	if wait <= 0 {
		return nil
	}
	return TimerSleeper{}.Sleep(ctx, wait)
}

// Tokens returns the current number of available tokens.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return rl.tokens
}

func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.lastRefill = now

	rl.tokens += elapsed * rl.config.Rate
	if rl.tokens > float64(rl.config.Burst) {
		rl.tokens = float64(rl.config.Burst)
	}
}

// reserve takes one token, going into debt if needed, and returns how long
// the caller must wait for that debt to be repaid.
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	rl.tokens--
	if rl.tokens >= 0 {
		return 0
	}
	return time.Duration(-rl.tokens / rl.config.Rate * float64(time.Second))
}
