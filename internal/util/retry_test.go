// ABOUTME: Tests for retry helpers
// ABOUTME: Verifies backoff bounds, retry counts, and permanent-error short-circuit
package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCalculateBackoff_ZeroAttempt(t *testing.T) {
	if d := CalculateBackoff(time.Second, 0); d != 0 {
		t.Errorf("CalculateBackoff(1s, 0) = %v, want 0", d)
	}
	if d := CalculateBackoff(time.Second, -1); d != 0 {
		t.Errorf("CalculateBackoff(1s, -1) = %v, want 0", d)
	}
}

func TestCalculateBackoff_Grows(t *testing.T) {
	base := 10 * time.Millisecond

	for attempt := 1; attempt <= 5; attempt++ {
		d := CalculateBackoff(base, attempt)
		expected := base * time.Duration(1<<uint(attempt))

		// Jitter is bounded by +-25% of the backoff
		min := expected - expected/4
		max := expected + expected/4
		if d < min || d > max {
			t.Errorf("attempt %d: backoff %v outside [%v, %v]", attempt, d, min, max)
		}
	}
}

func TestCalculateBackoff_Capped(t *testing.T) {
	d := CalculateBackoff(time.Second, 30)
	// Cap is 30s, jitter adds at most 25%
	if d > 38*time.Second {
		t.Errorf("backoff %v exceeds cap with jitter", d)
	}
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return errors.New("still broken")
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	sentinel := errors.New("bad request")
	calls := 0
	err := Do(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return Permanent(sentinel)
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("Do() error = %v, want %v", err, sentinel)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, 3, time.Minute, func() error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}
