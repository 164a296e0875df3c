package resilience

import (
	"context"
	"sync"
	"time"
)

// Sleeper pauses for a duration unless the context ends first.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// TimerSleeper sleeps on a real timer.
type TimerSleeper struct{}

// Sleep blocks for d or until ctx is done, whichever comes first.
// The timer is always stopped so a cancelled wait leaks nothing.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RecordingSleeper returns immediately and remembers every requested duration.
type RecordingSleeper struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

// Sleep records d. It still honours an already-cancelled context.
func (s *RecordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.sleeps = append(s.sleeps, d)
	s.mu.Unlock()
	return nil
}

// Sleeps returns a copy of the recorded durations in call order.
func (s *RecordingSleeper) Sleeps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.sleeps))
	copy(out, s.sleeps)
	return out
}

// Total returns the sum of all recorded durations.
func (s *RecordingSleeper) Total() time.Duration {
	var total time.Duration
	for _, d := range s.Sleeps() {
		total += d
	}
	return total
}
