package main

import (
	"fmt"
	"io"

	"github.com/oakpoint-health/booking-portal/internal/prefs"
	"github.com/oakpoint-health/booking-portal/internal/slots"
)

// consoleUI renders controller notifications to the terminal. It implements
// syncer.Reporter.
type consoleUI struct {
	out         io.Writer
	debug       prefs.DebugSettings
	cacheHeader string
}

func newConsoleUI(out io.Writer) *consoleUI {
	return &consoleUI{out: out}
}

func (u *consoleUI) OnStatusChanged(text string) {
	fmt.Fprintln(u.out, text)
}

func (u *consoleUI) OnSlotsChanged(visible []slots.Slot, total int) {
	u.renderSlots(visible, total)
}

func (u *consoleUI) OnError(kind, message string) {
	fmt.Fprintf(u.out, "[%s] %s\n", kind, message)
}

func (u *consoleUI) renderSlots(visible []slots.Slot, total int) {
	if len(visible) == 0 {
		return
	}
	fmt.Fprintf(u.out, "showing %d of %d slots:\n", len(visible), total)
	for _, s := range visible {
		if u.debug.ShowIDs {
			fmt.Fprintf(u.out, "  %s  %s  [%s]\n", s.AppointmentDate, s.AppointmentTime, s.AppointmentID)
		} else {
			fmt.Fprintf(u.out, "  %s  %s\n", s.AppointmentDate, s.AppointmentTime)
		}
	}
	if u.debug.ShowCache && u.cacheHeader != "" {
		fmt.Fprintf(u.out, "  (X-Cache: %s)\n", u.cacheHeader)
	}
}
