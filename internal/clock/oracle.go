package clock

import (
	"sync"
	"time"
)

// DefaultRefreshInterval bounds how often the oracle recomputes its cached
// timestamp. Filter predicates call Now once per slot per render, so the
// cached value keeps those calls from hammering the system clock.
const DefaultRefreshInterval = time.Second

// Oracle supplies the current wall-clock time with bounded staleness. It is
// not a correctness-critical cache: readers tolerate skew up to the refresh
// interval.
type Oracle struct {
	mu       sync.Mutex
	nowFn    func() time.Time
	interval time.Duration
	cached   time.Time
}

// New returns an oracle backed by the system clock.
func New() *Oracle {
	return NewWithSource(time.Now, DefaultRefreshInterval)
}

// NewWithSource returns an oracle with an injectable time source, used by
// tests that need to pin or advance the clock.
func NewWithSource(nowFn func() time.Time, interval time.Duration) *Oracle {
	if nowFn == nil {
		nowFn = time.Now
	}
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Oracle{nowFn: nowFn, interval: interval}
}

// Now returns the cached timestamp, recomputing it only when the underlying
// clock has advanced past the refresh interval.
func (o *Oracle) Now() time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.nowFn()
	if o.cached.IsZero() || now.Sub(o.cached) > o.interval {
		o.cached = now
	}
	return o.cached
}

// Bucket returns the cached time rounded to whole seconds, suitable as a
// memoization key component that expires as the clock advances.
func (o *Oracle) Bucket() int64 {
	return o.Now().Unix()
}
