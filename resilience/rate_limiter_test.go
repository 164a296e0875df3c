package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimiter_AllowsBurst(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "api", Rate: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}
	if rl.Allow() {
		t.Error("request beyond burst should be rejected")
	}
}

func TestRateLimiter_WaitReturnsImmediatelyWithTokens(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "api", Rate: 1, Burst: 1})

	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestRateLimiter_WaitHonoursCancellation(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "api", Rate: 0.01, Burst: 1})
	_ = rl.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Name: "api"})

	if got := rl.Tokens(); got < 9.9 || got > 10 {
		t.Errorf("expected about 10 tokens, got %f", got)
	}
}
