package clock

import (
	"testing"
	"time"
)

// manualClock lets tests move time forward explicitly.
type manualClock struct {
	now time.Time
}

func (m *manualClock) Now() time.Time { return m.now }

func (m *manualClock) Advance(d time.Duration) { m.now = m.now.Add(d) }

func TestOracleCachesWithinInterval(t *testing.T) {
	mc := &manualClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local)}
	oracle := NewWithSource(mc.Now, time.Second)

	first := oracle.Now()

	// Less than the refresh interval: cached value must be returned even
	// though the source moved.
	mc.Advance(500 * time.Millisecond)
	if got := oracle.Now(); !got.Equal(first) {
		t.Fatalf("expected cached time %v, got %v", first, got)
	}

	mc.Advance(600 * time.Millisecond)
	if got := oracle.Now(); !got.Equal(mc.now) {
		t.Fatalf("expected refreshed time %v, got %v", mc.now, got)
	}
}

func TestOracleBucketAdvancesWithClock(t *testing.T) {
	mc := &manualClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local)}
	oracle := NewWithSource(mc.Now, time.Second)

	b1 := oracle.Bucket()
	mc.Advance(2 * time.Second)
	b2 := oracle.Bucket()

	if b2 <= b1 {
		t.Fatalf("expected bucket to advance, got %d then %d", b1, b2)
	}
}

func TestOracleDefaults(t *testing.T) {
	oracle := NewWithSource(nil, 0)
	if oracle.Now().IsZero() {
		t.Fatal("expected system clock fallback")
	}
}
