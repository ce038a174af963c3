package main

import (
	"testing"
	"time"

	"github.com/oakpoint-health/booking-portal/internal/slots"
)

func TestUpcomingSlotsSkipsWeekends(t *testing.T) {
	// 2025-07-04 is a Friday; the next two days are the weekend.
	friday := time.Date(2025, 7, 4, 8, 0, 0, 0, time.UTC)

	got := upcomingSlots(friday, 3)

	for _, s := range got {
		day, err := time.Parse("2006-01-02", s.AppointmentDate)
		if err != nil {
			t.Fatalf("bad date %q: %v", s.AppointmentDate, err)
		}
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("weekend slot generated: %+v", s)
		}
		if s.Status != slots.StatusAvailable {
			t.Fatalf("expected AVAILABLE, got %+v", s)
		}
	}

	// Only Monday 2025-07-07 survives, with one slot per hour 9..17.
	if len(got) != 9 {
		t.Fatalf("expected 9 slots for the single weekday, got %d", len(got))
	}
}

func TestUpcomingSlotsDeterministicIDs(t *testing.T) {
	from := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

	first := upcomingSlots(from, 5)
	second := upcomingSlots(from, 5)

	if len(first) != len(second) {
		t.Fatalf("runs disagree on slot count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].AppointmentID != second[i].AppointmentID {
			t.Fatalf("IDs not deterministic: %q vs %q", first[i].AppointmentID, second[i].AppointmentID)
		}
	}
}

func TestClockLabel(t *testing.T) {
	cases := map[int]string{
		9:  "09:00 AM",
		12: "12:00 PM",
		13: "01:00 PM",
		17: "05:00 PM",
	}
	for hour, want := range cases {
		if got := clockLabel(hour); got != want {
			t.Errorf("clockLabel(%d) = %q, want %q", hour, got, want)
		}
	}
}
