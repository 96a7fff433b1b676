package clock

import (
	"context"
	"testing"
	"time"
)

func TestSystemClockPastDeadlineReturnsImmediately(t *testing.T) {
	c := New()
	start := time.Now()
	outcome := c.SleepUntil(context.Background(), start.Add(-time.Hour))
	if outcome != PastDeadline {
		t.Fatalf("outcome = %v, want PastDeadline", outcome)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Fatalf("SleepUntil with a past deadline took too long: %v", time.Since(start))
	}
}

func TestSystemClockReachesDeadline(t *testing.T) {
	c := New()
	outcome := c.SleepFor(context.Background(), 10*time.Millisecond)
	if outcome != Reached {
		t.Fatalf("outcome = %v, want Reached", outcome)
	}
}

func TestSystemClockCancellation(t *testing.T) {
	c := New()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	outcome := c.SleepFor(ctx, time.Hour)
	if outcome != Canceled {
		t.Fatalf("outcome = %v, want Canceled", outcome)
	}
}

func TestFakeClockAdvanceWakesWaiter(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)

	resultCh := make(chan Outcome, 1)
	go func() {
		resultCh <- f.SleepUntil(context.Background(), start.Add(time.Minute))
	}()

	// give the goroutine a chance to register as a waiter
	time.Sleep(10 * time.Millisecond)
	f.Advance(30 * time.Second)
	select {
	case <-resultCh:
		t.Fatal("should not have woken before the deadline")
	case <-time.After(10 * time.Millisecond):
	}

	f.Advance(31 * time.Second)
	select {
	case outcome := <-resultCh:
		if outcome != Reached {
			t.Fatalf("outcome = %v, want Reached", outcome)
		}
	case <-time.After(time.Second):
		t.Fatal("fake clock did not wake the waiter")
	}
}

func TestFakeClockPastDeadline(t *testing.T) {
	f := NewFake(time.Now())
	outcome := f.SleepUntil(context.Background(), f.Now().Add(-time.Second))
	if outcome != PastDeadline {
		t.Fatalf("outcome = %v, want PastDeadline", outcome)
	}
}
