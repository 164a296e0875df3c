package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStepBackoff_Delay(t *testing.T) {
	b := StepBackoff{Steps: []time.Duration{
		500 * time.Millisecond,
		time.Second,
		1500 * time.Millisecond,
		2 * time.Second,
		3 * time.Second,
		5 * time.Second,
	}}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{-1, 500 * time.Millisecond},
		{0, 500 * time.Millisecond},
		{1, time.Second},
		{4, 3 * time.Second},
		{5, 5 * time.Second},
		{6, 5 * time.Second},
		{59, 5 * time.Second},
	}

	for _, tt := range tests {
		if got := b.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}

	if got := (StepBackoff{}).Delay(3); got != 0 {
		t.Errorf("empty schedule Delay = %v, want 0", got)
	}
}

func TestExponentialBackoff_Delay(t *testing.T) {
	b := ExponentialBackoff{Base: time.Second, Max: 10 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 10 * time.Second},
		{30, 10 * time.Second},
	}

	for _, tt := range tests {
		if got := b.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestUniformJitter_Range(t *testing.T) {
	limit := 500 * time.Millisecond
	for i := 0; i < 1000; i++ {
		got := UniformJitter(limit)
		if got < 0 || got >= limit {
			t.Fatalf("jitter %v outside [0, %v)", got, limit)
		}
	}
	if got := UniformJitter(0); got != 0 {
		t.Errorf("UniformJitter(0) = %v, want 0", got)
	}
}

func TestTimerSleeper_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := TimerSleeper{}.Sleep(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled sleep should return promptly")
	}
}

func TestTimerSleeper_Elapses(t *testing.T) {
	if err := (TimerSleeper{}).Sleep(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestRecordingSleeper(t *testing.T) {
	s := &RecordingSleeper{}
	ctx := context.Background()

	_ = s.Sleep(ctx, time.Second)
	_ = s.Sleep(ctx, 2*time.Second)

	got := s.Sleeps()
	if len(got) != 2 || got[0] != time.Second || got[1] != 2*time.Second {
		t.Errorf("unexpected sleeps %v", got)
	}
	if s.Total() != 3*time.Second {
		t.Errorf("Total = %v, want 3s", s.Total())
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := s.Sleep(cancelled, time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(s.Sleeps()) != 2 {
		t.Error("cancelled sleep should not be recorded")
	}
}
