package slotapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oakpoint-health/booking-portal/internal/slots"
	"github.com/oakpoint-health/booking-portal/pkg/logging"
)

const (
	defaultTimeout = 20 * time.Second

	listPath = "/appointment-slot"
	bookPath = "/book-appointment"

	// CacheHeaderMissing is reported when the response carries no X-Cache
	// header, usually because CORS does not expose it. Display only.
	CacheHeaderMissing = "NOT_EXPOSED_BY_CORS"

	maxErrorBody = 300
)

// Client talks to the appointment-slot service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// ListResult is a slot snapshot plus the cache-diagnostic header that came
// with it.
type ListResult struct {
	Slots       []slots.Slot
	CacheHeader string
}

// BookingRequest is the body of a booking submission. Date, time, and notes
// are optional echoes the service stores when present.
type BookingRequest struct {
	AppointmentID   string `json:"appointmentId"`
	PatientName     string `json:"patientName"`
	PatientEmail    string `json:"patientEmail"`
	AppointmentDate string `json:"appointmentDate,omitempty"`
	AppointmentTime string `json:"appointmentTime,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// BookingResult is the service's best-effort answer; some deployments return
// an empty body, which counts as success.
type BookingResult struct {
	Status  string
	Message string
}

// NewClient builds a client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ListSlots fetches the current slot snapshot.
func (c *Client) ListSlots(ctx context.Context) (ListResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+listPath, nil)
	if err != nil {
		return ListResult{}, fmt.Errorf("slotapi: create list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ListResult{}, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	cacheHeader := resp.Header.Get("X-Cache")
	if cacheHeader == "" {
		cacheHeader = resp.Header.Get("x-cache")
	}
	if cacheHeader == "" {
		cacheHeader = CacheHeaderMissing
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ListResult{}, &NetworkError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ListResult{}, &APIError{Status: resp.StatusCode, Body: truncate(string(body))}
	}

	list, err := decodeSlots(body)
	if err != nil {
		return ListResult{}, err
	}
	c.logger.Debug("slots fetched", "count", len(list), "cache", cacheHeader)
	return ListResult{Slots: list, CacheHeader: cacheHeader}, nil
}

// Book submits a booking. The service is the source of truth for conflicts:
// it may reject even a well-formed request when the slot was taken
// concurrently.
func (c *Client) Book(ctx context.Context, br BookingRequest) (BookingResult, error) {
	payload, err := json.Marshal(br)
	if err != nil {
		return BookingResult{}, fmt.Errorf("slotapi: marshal booking: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+bookPath, bytes.NewReader(payload))
	if err != nil {
		return BookingResult{}, fmt.Errorf("slotapi: create book request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return BookingResult{}, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return BookingResult{}, &NetworkError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return BookingResult{}, &APIError{Status: resp.StatusCode, Body: truncate(string(body))}
	}

	// Empty or non-JSON bodies still mean the booking went through.
	var out struct {
		Status        string `json:"status"`
		BookingStatus string `json:"bookingStatus"`
		Message       string `json:"message"`
	}
	if len(bytes.TrimSpace(body)) > 0 {
		_ = json.Unmarshal(body, &out)
	}

	status := firstNonEmpty(out.Status, out.BookingStatus, slots.StatusPending)
	return BookingResult{Status: status, Message: out.Message}, nil
}

func truncate(s string) string {
	if len(s) > maxErrorBody {
		return s[:maxErrorBody]
	}
	return s
}
