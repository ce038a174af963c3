package prefs

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWritePolicyPureFunction(t *testing.T) {
	policy := WritePolicy{Quiet: 300 * time.Millisecond}
	t0 := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	if policy.ShouldFlush(t0, t0.Add(299*time.Millisecond)) {
		t.Error("write must not flush before the quiet interval elapses")
	}
	if !policy.ShouldFlush(t0, t0.Add(300*time.Millisecond)) {
		t.Error("write must flush exactly at the deadline")
	}

	// A later event moves the deadline: the old one no longer applies.
	t1 := t0.Add(200 * time.Millisecond)
	if policy.ShouldFlush(t1, t0.Add(350*time.Millisecond)) {
		t.Error("rescheduled write must honor the newer event's deadline")
	}
	if got, want := policy.Deadline(t1), t1.Add(300*time.Millisecond); !got.Equal(want) {
		t.Errorf("Deadline = %v, want %v", got, want)
	}
}

func TestDebouncedSaverCoalesces(t *testing.T) {
	var saves atomic.Int32
	saver := NewDebouncedSaver(20*time.Millisecond, func() { saves.Add(1) })

	for i := 0; i < 5; i++ {
		saver.Trigger()
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(60 * time.Millisecond)
	if got := saves.Load(); got != 1 {
		t.Fatalf("expected one coalesced save, got %d", got)
	}
}

func TestDebouncedSaverFlush(t *testing.T) {
	var saves atomic.Int32
	saver := NewDebouncedSaver(time.Hour, func() { saves.Add(1) })

	saver.Trigger()
	saver.Flush()

	if got := saves.Load(); got != 1 {
		t.Fatalf("expected flush to run the pending save, got %d", got)
	}

	// Nothing pending: Flush is a no-op.
	saver.Flush()
	if got := saves.Load(); got != 1 {
		t.Fatalf("expected no save without a pending write, got %d", got)
	}
}
