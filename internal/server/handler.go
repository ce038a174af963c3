package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/oakpoint-health/booking-portal/internal/slots"
	"github.com/oakpoint-health/booking-portal/pkg/logging"
)

// Handler serves the appointment slot API.
type Handler struct {
	repo   SlotRepository
	cache  *ListCache
	logger *logging.Logger
}

// NewHandler builds the API handler. cache is optional; without it every list
// request scans the table.
func NewHandler(repo SlotRepository, cache *ListCache, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("server: repository cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, cache: cache, logger: logger}
}

type bookRequest struct {
	AppointmentID string `json:"appointmentId"`
	PatientName   string `json:"patientName"`
	PatientEmail  string `json:"patientEmail"`
	Notes         string `json:"notes"`
}

type statusRequest struct {
	AppointmentID string `json:"appointmentId"`
	Status        string `json:"status"`
}

// ListSlots returns every AVAILABLE slot as a bare JSON array. With a cache
// configured, a fresh entry short-circuits the scan and the X-Cache header
// reports HIT or MISS for the portal's debug panel.
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if cached, ok := h.cache.Get(r.Context()); ok {
			w.Header().Set("X-Cache", "HIT")
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	available, err := h.repo.ListAvailable(r.Context())
	if err != nil {
		h.logger.Error("failed to list slots", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list appointment slots")
		return
	}
	if available == nil {
		available = []slots.Slot{}
	}

	if h.cache != nil {
		h.cache.Set(r.Context(), available)
	}
	w.Header().Set("X-Cache", "MISS")
	writeJSON(w, http.StatusOK, available)
}

// BookSlot claims an AVAILABLE slot for a patient. A slot someone else
// claimed first returns 409 so the client can refresh and pick again.
func (h *Handler) BookSlot(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	req.PatientEmail = strings.TrimSpace(req.PatientEmail)
	if req.AppointmentID == "" || req.PatientEmail == "" {
		writeError(w, http.StatusBadRequest, "appointmentId and patientEmail are required")
		return
	}

	err := h.repo.Book(r.Context(), Booking{
		AppointmentID: req.AppointmentID,
		PatientName:   strings.TrimSpace(req.PatientName),
		PatientEmail:  req.PatientEmail,
		Notes:         req.Notes,
	})
	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			writeError(w, http.StatusConflict, "Slot is not AVAILABLE (already booked or pending).")
			return
		}
		h.logger.Error("failed to book slot", "appointment_id", req.AppointmentID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to book appointment")
		return
	}

	h.logger.Info("slot booked", "appointment_id", req.AppointmentID)
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  slots.StatusPending,
		"message": "Booking submitted.",
	})
}

// UpdateStatus sets the status of an existing slot, for back-office tooling
// that confirms or releases pending bookings.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.AppointmentID = strings.TrimSpace(req.AppointmentID)
	req.Status = strings.TrimSpace(req.Status)
	if req.AppointmentID == "" || req.Status == "" {
		writeError(w, http.StatusBadRequest, "appointmentId and status are required")
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), req.AppointmentID, req.Status); err != nil {
		if errors.Is(err, ErrSlotNotFound) {
			writeError(w, http.StatusNotFound, "Appointment not found")
			return
		}
		h.logger.Error("failed to update slot status", "appointment_id", req.AppointmentID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update appointment status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Status updated",
		"status":  req.Status,
	})
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
