package prefs

import (
	"sync"
	"time"
)

// WritePolicy is the coalescing rule for debounced preference writes: each
// input event cancels the pending write and reschedules it one quiet interval
// later. Expressed as a pure function of timestamps so it can be tested
// without real timers.
type WritePolicy struct {
	Quiet time.Duration
}

// Deadline returns when a write scheduled by an input event at lastEvent
// should execute.
func (p WritePolicy) Deadline(lastEvent time.Time) time.Time {
	return lastEvent.Add(p.Quiet)
}

// ShouldFlush reports whether, at now, the write pending since lastEvent is
// due.
func (p WritePolicy) ShouldFlush(lastEvent, now time.Time) bool {
	return !now.Before(p.Deadline(lastEvent))
}

// DebouncedSaver coalesces rapid input events into a single save call.
type DebouncedSaver struct {
	mu     sync.Mutex
	policy WritePolicy
	timer  *time.Timer
	save   func()
}

// NewDebouncedSaver builds a saver; save runs once per quiet period no matter
// how many events arrive inside it.
func NewDebouncedSaver(quiet time.Duration, save func()) *DebouncedSaver {
	if save == nil {
		panic("prefs: save func required")
	}
	return &DebouncedSaver{policy: WritePolicy{Quiet: quiet}, save: save}
}

// Trigger records an input event, postponing any pending write.
func (d *DebouncedSaver) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.policy.Quiet, d.save)
}

// Flush cancels any pending write and runs the save immediately. Called on
// shutdown so the last keystrokes are not lost.
func (d *DebouncedSaver) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	d.timer = nil
	d.mu.Unlock()

	if pending {
		d.save()
	}
}
