package slots

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/oakpoint-health/booking-portal/internal/clock"
)

// Store owns the authoritative slot list. Slots are replaced wholesale on
// every successful fetch; references handed out before a replace must not be
// reused across that boundary.
type Store struct {
	oracle *clock.Oracle
	slots  []Slot
}

// NewStore builds a store whose past-appointment checks use the given oracle.
func NewStore(oracle *clock.Oracle) *Store {
	if oracle == nil {
		oracle = clock.New()
	}
	return &Store{oracle: oracle}
}

// ReplaceAll swaps in a new slot list, sorted by date then time of day with
// unparseable time labels last.
func (s *Store) ReplaceAll(in []Slot) {
	next := make([]Slot, len(in))
	copy(next, in)

	sort.SliceStable(next, func(i, j int) bool {
		if d := strings.Compare(next[i].AppointmentDate, next[j].AppointmentDate); d != 0 {
			return d < 0
		}
		return ClockMinutes(next[i].AppointmentTime) < ClockMinutes(next[j].AppointmentTime)
	})
	s.slots = next
}

// All returns the current slot list. Callers must treat it as read-only.
func (s *Store) All() []Slot {
	return s.slots
}

// Len reports the number of slots in the store.
func (s *Store) Len() int {
	return len(s.slots)
}

// Oracle exposes the store's time source for derived views.
func (s *Store) Oracle() *clock.Oracle {
	return s.oracle
}

// IsPast reports whether the (date, time) pair resolves to a moment at or
// before the oracle's current time. The comparison is deliberately inclusive:
// a slot whose moment equals "now" counts as past. Empty or unparseable
// inputs are never past.
func (s *Store) IsPast(date, timeLabel string) bool {
	if date == "" || timeLabel == "" {
		return false
	}
	c, ok := ParseClock(timeLabel)
	if !ok {
		return false
	}
	year, month, day, ok := splitISODate(date)
	if !ok {
		return false
	}

	moment := time.Date(year, time.Month(month), day, c.Hour, c.Minute, 0, 0, time.Local)
	return !moment.After(s.oracle.Now())
}

// UniqueTimes returns the distinct time labels present in the given slots,
// sorted ascending by time of day.
func UniqueTimes(in []Slot) []string {
	seen := make(map[string]struct{}, len(in))
	times := make([]string, 0, len(in))
	for _, s := range in {
		if s.AppointmentTime == "" {
			continue
		}
		if _, ok := seen[s.AppointmentTime]; ok {
			continue
		}
		seen[s.AppointmentTime] = struct{}{}
		times = append(times, s.AppointmentTime)
	}
	sort.SliceStable(times, func(i, j int) bool {
		return ClockMinutes(times[i]) < ClockMinutes(times[j])
	})
	return times
}

// ForDate returns the subset of slots on the given date, or all slots when
// date is empty. Used to build the time-filter option list.
func (s *Store) ForDate(date string) []Slot {
	if date == "" {
		return s.slots
	}
	out := make([]Slot, 0, len(s.slots))
	for _, sl := range s.slots {
		if sl.AppointmentDate == date {
			out = append(out, sl)
		}
	}
	return out
}

// splitISODate parses YYYY-MM-DD into plain integers. Going through integer
// components rather than time.Parse keeps the moment in local time and avoids
// the UTC-offset shift a string constructor would introduce.
func splitISODate(date string) (year, month, day int, ok bool) {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var err error
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(parts[1]); err != nil || month < 1 || month > 12 {
		return 0, 0, 0, false
	}
	if day, err = strconv.Atoi(parts[2]); err != nil || day < 1 || day > 31 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}
