package server

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/oakpoint-health/booking-portal/internal/slots"
)

// ErrSlotNotFound indicates the appointment id does not exist.
var ErrSlotNotFound = errors.New("server: slot not found")

// ErrSlotUnavailable indicates the slot exists but is no longer AVAILABLE;
// a concurrent booking won the race.
var ErrSlotUnavailable = errors.New("server: slot is not AVAILABLE")

// Booking carries a booking submission into the repository.
type Booking struct {
	AppointmentID string
	PatientName   string
	PatientEmail  string
	Notes         string
}

// SlotRepository persists appointment slots. Book must be conditional on the
// slot still being AVAILABLE so two clients cannot both claim it.
type SlotRepository interface {
	ListAvailable(ctx context.Context) ([]slots.Slot, error)
	Book(ctx context.Context, b Booking) error
	UpdateStatus(ctx context.Context, appointmentID, status string) error
	CreateIfAbsent(ctx context.Context, s slots.Slot) (bool, error)
}

// memoryRecord is a slot plus the booking details attached to it.
type memoryRecord struct {
	slot         slots.Slot
	patientName  string
	patientEmail string
	notes        string
}

// MemoryRepository is an in-process repository for development and tests.
type MemoryRepository struct {
	mu      sync.Mutex
	records map[string]*memoryRecord
}

var _ SlotRepository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]*memoryRecord)}
}

// ListAvailable returns AVAILABLE slots sorted by (date, time label), the
// same lexicographic order the service has always exposed.
func (r *MemoryRepository) ListAvailable(ctx context.Context) ([]slots.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]slots.Slot, 0, len(r.records))
	for _, rec := range r.records {
		if rec.slot.Status == slots.StatusAvailable {
			out = append(out, rec.slot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate < out[j].AppointmentDate
		}
		return out[i].AppointmentTime < out[j].AppointmentTime
	})
	return out, nil
}

func (r *MemoryRepository) Book(ctx context.Context, b Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[b.AppointmentID]
	if !ok || rec.slot.Status != slots.StatusAvailable {
		return ErrSlotUnavailable
	}
	rec.slot.Status = slots.StatusPending
	rec.patientName = b.PatientName
	rec.patientEmail = b.PatientEmail
	rec.notes = b.Notes
	return nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, appointmentID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[appointmentID]
	if !ok {
		return ErrSlotNotFound
	}
	rec.slot.Status = status
	return nil
}

func (r *MemoryRepository) CreateIfAbsent(ctx context.Context, s slots.Slot) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[s.AppointmentID]; ok {
		return false, nil
	}
	r.records[s.AppointmentID] = &memoryRecord{slot: s}
	return true, nil
}
