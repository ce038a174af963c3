package slotapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/oakpoint-health/booking-portal/internal/slots"
)

// rawSlot accepts the field aliases seen across service deployments.
type rawSlot struct {
	AppointmentID   string `json:"appointmentId"`
	ID              string `json:"id"`
	SlotID          string `json:"slotId"`
	PK              string `json:"pk"`
	AppointmentDate string `json:"appointmentDate"`
	Date            string `json:"date"`
	AppointmentTime string `json:"appointmentTime"`
	Time            string `json:"time"`
	Status          string `json:"status"`
	SlotStatus      string `json:"slotStatus"`
}

type slotEnvelope struct {
	Slots []rawSlot `json:"slots"`
	Items []rawSlot `json:"items"`
}

// decodeSlots normalizes the accepted response shapes, in priority order:
// a top-level JSON array, then an object's "slots" key, then "items". An
// object with neither key decodes to an empty list rather than failing.
func decodeSlots(data []byte) ([]slots.Slot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []slots.Slot{}, nil
	}

	var raw []rawSlot
	if data[0] == '[' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("slotapi: decode slot array: %w", err)
		}
	} else {
		var env slotEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("slotapi: decode slot envelope: %w", err)
		}
		switch {
		case env.Slots != nil:
			raw = env.Slots
		case env.Items != nil:
			raw = env.Items
		}
	}

	out := make([]slots.Slot, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.normalize())
	}
	return out, nil
}

func (r rawSlot) normalize() slots.Slot {
	status := firstNonEmpty(r.Status, r.SlotStatus)
	if status == "" {
		status = slots.StatusUnknown
	}
	return slots.Slot{
		AppointmentID:   firstNonEmpty(r.AppointmentID, r.ID, r.SlotID, r.PK),
		AppointmentDate: firstNonEmpty(r.AppointmentDate, r.Date),
		AppointmentTime: firstNonEmpty(r.AppointmentTime, r.Time),
		Status:          status,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
