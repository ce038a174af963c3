package slots

// Slot statuses known to the portal. Other values returned by the service
// pass through verbatim.
const (
	StatusAvailable = "AVAILABLE"
	StatusPending   = "PENDING"
	StatusUnknown   = "UNKNOWN"
)

// Slot is one bookable appointment unit.
type Slot struct {
	AppointmentID   string `json:"appointmentId"`
	AppointmentDate string `json:"appointmentDate"` // YYYY-MM-DD
	AppointmentTime string `json:"appointmentTime"` // HH:MM AM|PM
	Status          string `json:"status"`
}

// FilterSelection is the user-chosen constraint narrowing visible slots. An
// empty string means no constraint on that axis.
type FilterSelection struct {
	Date string
	Time string
}
