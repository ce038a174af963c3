package syncer

import "github.com/oakpoint-health/booking-portal/internal/slots"

// Error kinds passed to Reporter.OnError.
const (
	ErrKindNetwork    = "network"
	ErrKindAPI        = "api"
	ErrKindValidation = "validation"
)

// Reporter is the narrow surface the presentation layer consumes. The engine
// pushes state through it and never reads anything back.
type Reporter interface {
	OnStatusChanged(text string)
	OnSlotsChanged(visible []slots.Slot, total int)
	OnError(kind, message string)
}

// NopReporter discards all notifications.
type NopReporter struct{}

func (NopReporter) OnStatusChanged(string)          {}
func (NopReporter) OnSlotsChanged([]slots.Slot, int) {}
func (NopReporter) OnError(string, string)           {}
