// Package resilience provides the timing and fault-tolerance primitives used
// by the transcription client.
//
// This package includes:
//   - StepBackoff: fixed delay schedule, clamped to its last entry
//   - ExponentialBackoff: base * 2^attempt capped at a maximum
//   - Jitter: random extra delay in [0, max)
//   - Sleeper: context-aware waits, with a recording fake for tests
//   - CircuitBreaker: fails fast while the API is unhealthy
//   - RateLimiter: token bucket pacing for outbound calls
//
// A polling loop combines them like this:
//
//	schedule := resilience.StepBackoff{Steps: steps}
//	wait := schedule.Delay(attempt) + resilience.UniformJitter(500*time.Millisecond)
//	if err := sleeper.Sleep(ctx, wait); err != nil {
//	    return err
//	}
package resilience
