package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("RealClock.Now() = %v, want between %v and %v", now, before, after)
	}
}

func TestRealClock_After(t *testing.T) {
	clock := RealClock{}
	select {
	case <-clock.After(time.Millisecond):
	case <-time.After(time.Second):
		t.Error("RealClock.After did not fire")
	}
}

func TestMockClock_Sleep(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)
	clock.Sleep(time.Second)
	clock.Sleep(2 * time.Second)

	waits := clock.Waits()
	if len(waits) != 2 {
		t.Fatalf("got %d waits, want 2", len(waits))
	}
	if waits[0] != time.Second || waits[1] != 2*time.Second {
		t.Errorf("got waits %v, want [1s 2s]", waits)
	}
	if !clock.Now().Equal(start) {
		t.Errorf("manual clock moved on Sleep: %v", clock.Now())
	}
}

func TestMockClock_After(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)
	ch := clock.After(time.Hour)

	select {
	case <-ch:
		t.Error("After channel received too early")
	default:
	}
	if clock.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", clock.Pending())
	}

	clock.Advance(30 * time.Minute)
	select {
	case <-ch:
		t.Error("After channel received before its deadline")
	default:
	}

	clock.Advance(30 * time.Minute)
	select {
	case got := <-ch:
		if !got.Equal(start.Add(time.Hour)) {
			t.Errorf("After delivered %v, want %v", got, start.Add(time.Hour))
		}
	default:
		t.Error("After channel did not receive after advance")
	}
	if clock.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", clock.Pending())
	}
}

func TestAutoMockClock(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewAutoMockClock(start)

	select {
	case <-clock.After(50 * time.Millisecond):
	default:
		t.Fatal("auto clock After should fire immediately")
	}
	clock.Sleep(50 * time.Millisecond)

	if got := clock.Since(start); got != 100*time.Millisecond {
		t.Errorf("Since(start) = %v, want 100ms", got)
	}
	if len(clock.Waits()) != 2 {
		t.Errorf("got %d waits, want 2", len(clock.Waits()))
	}
}
