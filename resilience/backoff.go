package resilience

import (
	"math"
	"math/rand/v2"
	"time"
)

// StepBackoff returns delays from a fixed schedule. Attempts past the end of
// the schedule reuse the last entry.
type StepBackoff struct {
	Steps []time.Duration
}

// Delay returns the base delay for the zero-based attempt index.
func (b StepBackoff) Delay(attempt int) time.Duration {
	if len(b.Steps) == 0 {
		return 0
	}
	if attempt < 0 {
		attempt = 0
	}
	return b.Steps[min(attempt, len(b.Steps)-1)]
}

// ExponentialBackoff doubles Base per attempt and caps the result at Max.
type ExponentialBackoff struct {
	Base time.Duration
	Max  time.Duration
}

// Delay returns min(Max, Base * 2^attempt) for the zero-based attempt index.
func (b ExponentialBackoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := float64(b.Base) * math.Pow(2, float64(attempt))
	if b.Max > 0 && d > float64(b.Max) {
		return b.Max
	}
	return time.Duration(d)
}

// Jitter produces a random extra delay in [0, limit).
type Jitter func(limit time.Duration) time.Duration

// UniformJitter is the default Jitter: uniformly distributed in [0, limit).
func UniformJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	return rand.N(limit)
}

// NoJitter always returns zero. Useful for deterministic tests.
func NoJitter(time.Duration) time.Duration { return 0 }
