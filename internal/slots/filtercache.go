package slots

import "fmt"

// FilterCache memoizes the most recent filtered view of a store. The key
// includes the oracle's time bucket so a cached result expires on its own
// once enough wall-clock time has passed for a slot to cross the past/future
// boundary; the source length alone cannot detect that.
type FilterCache struct {
	key     string
	result  []Slot
	lastHit bool
}

// NewFilterCache returns an empty cache.
func NewFilterCache() *FilterCache {
	return &FilterCache{}
}

// Filtered returns the visible subset of the store under the selection:
// not past, matching the date filter when set, matching the time filter when
// set. A repeated call with an unchanged store, selection, and time bucket
// returns the previously computed slice without re-filtering.
func (c *FilterCache) Filtered(store *Store, sel FilterSelection) []Slot {
	key := fmt.Sprintf("%s|%s|%d|%d", sel.Date, sel.Time, store.Len(), store.Oracle().Bucket())
	if c.result != nil && c.key == key {
		c.lastHit = true
		return c.result
	}
	c.lastHit = false

	out := make([]Slot, 0, store.Len())
	for _, s := range store.All() {
		if store.IsPast(s.AppointmentDate, s.AppointmentTime) {
			continue
		}
		if sel.Date != "" && s.AppointmentDate != sel.Date {
			continue
		}
		if sel.Time != "" && s.AppointmentTime != sel.Time {
			continue
		}
		out = append(out, s)
	}

	c.key = key
	c.result = out
	return out
}

// LastWasHit reports whether the most recent Filtered call was served from
// the memoized entry.
func (c *FilterCache) LastWasHit() bool {
	return c.lastHit
}

// Invalidate clears the stored entry. Callers invoke it on any mutation that
// affects membership: a new fetch, a filter change, or a debug toggle that
// changes visibility. Display-only toggles should not invalidate.
func (c *FilterCache) Invalidate() {
	c.key = ""
	c.result = nil
}
