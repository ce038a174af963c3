package syncer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/oakpoint-health/booking-portal/internal/slotapi"
	"github.com/oakpoint-health/booking-portal/internal/slots"
	"github.com/oakpoint-health/booking-portal/pkg/logging"
)

var syncerTracer = otel.Tracer("bookingportal.internal.syncer")

// Status messages pushed to the reporter. "No slots match" is distinct from
// "no slots at all" so the UI can tell an over-narrow filter from an empty
// calendar.
const (
	StatusLoading  = "Loading slots..."
	StatusLoaded   = "Loaded."
	StatusEmpty    = "No slots returned from the API."
	StatusNoMatch  = "No slots match the selected filters."
	StatusFailed   = "Failed to load slots."
	StatusBooking  = "Submitting booking..."
	StatusBooked   = "Booking submitted. Refreshing available slots..."
	StatusBookFail = "Booking failed."
)

// Practical email shape check: local-part@domain.tld. Advisory only; the
// service remains the source of truth for whether a booking goes through.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError blocks a booking before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("syncer: invalid %s: %s", e.Field, e.Reason)
}

// SlotService is the remote surface the controller consumes.
type SlotService interface {
	ListSlots(ctx context.Context) (slotapi.ListResult, error)
	Book(ctx context.Context, br slotapi.BookingRequest) (slotapi.BookingResult, error)
}

// State is read by the presentation layer to enable/disable controls.
type State struct {
	Loading         bool
	LastCacheHeader string
}

// Controller orchestrates remote fetch/book calls against the slot store and
// filter cache. It owns all shared mutable state: the store's list, the
// filter selection, and the loading flag.
type Controller struct {
	mu        sync.Mutex
	loading   bool
	lastCache string
	selection slots.FilterSelection

	store    *slots.Store
	cache    *slots.FilterCache
	svc      SlotService
	reporter Reporter
	logger   *logging.Logger
	metrics  *Metrics
}

// New wires a controller. Reporter, logger, and metrics may be nil.
func New(store *slots.Store, cache *slots.FilterCache, svc SlotService, reporter Reporter, logger *logging.Logger, metrics *Metrics) *Controller {
	if store == nil {
		panic("syncer: store required")
	}
	if cache == nil {
		cache = slots.NewFilterCache()
	}
	if svc == nil {
		panic("syncer: slot service required")
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Controller{
		store:    store,
		cache:    cache,
		svc:      svc,
		reporter: reporter,
		logger:   logger,
		metrics:  metrics,
	}
}

// State returns a snapshot of the sync state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Loading: c.loading, LastCacheHeader: c.lastCache}
}

// Selection returns the current filter selection.
func (c *Controller) Selection() slots.FilterSelection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection
}

// SetFilter replaces the filter selection, invalidates the cached view, and
// pushes the new visible set to the reporter.
func (c *Controller) SetFilter(sel slots.FilterSelection) {
	c.mu.Lock()
	c.selection = sel
	c.cache.Invalidate()
	c.mu.Unlock()

	c.publishVisible()
}

// ResetFilters clears both filter axes.
func (c *Controller) ResetFilters() {
	c.SetFilter(slots.FilterSelection{})
}

// Visible returns the filtered view under the current selection.
func (c *Controller) Visible() []slots.Slot {
	c.mu.Lock()
	visible := c.cache.Filtered(c.store, c.selection)
	hit := c.cache.LastWasHit()
	c.mu.Unlock()

	c.metrics.ObserveCacheLookup(hit)
	return visible
}

// TimeOptions returns the distinct time labels offered by the current date
// constraint, for building a time-filter picker.
func (c *Controller) TimeOptions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slots.UniqueTimes(c.store.ForDate(c.selection.Date))
}

// Refresh fetches a new slot snapshot and replaces the store wholesale. It is
// single-flight: when a refresh is already in flight the call is a no-op and
// the caller observes the in-flight one's eventual state. On failure the
// prior list and cache are left untouched; stale-but-valid data beats a blank
// view.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		c.logger.Debug("refresh already in flight, skipping")
		return nil
	}
	c.loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	ctx, span := syncerTracer.Start(ctx, "syncer.refresh")
	defer span.End()

	c.reporter.OnStatusChanged(StatusLoading)
	start := time.Now()

	res, err := c.svc.ListSlots(ctx)
	if err != nil {
		span.RecordError(err)
		kind := classify(err)
		c.metrics.ObserveRefresh(kind+"_error", time.Since(start).Seconds())
		c.logger.Warn("slot refresh failed", "kind", kind, "error", err)
		c.reporter.OnError(kind, err.Error())
		c.reporter.OnStatusChanged(StatusFailed)
		return err
	}

	c.mu.Lock()
	c.store.ReplaceAll(res.Slots)
	c.cache.Invalidate()
	c.lastCache = res.CacheHeader
	c.mu.Unlock()

	span.SetAttributes(
		attribute.Int("bookingportal.slot_count", len(res.Slots)),
		attribute.String("bookingportal.cache", res.CacheHeader),
	)
	c.metrics.ObserveRefresh("success", time.Since(start).Seconds())
	c.logger.Info("slots refreshed", "count", len(res.Slots), "cache", res.CacheHeader)

	c.publishVisible()
	return nil
}

// Book validates patient details, submits the booking, and refreshes on
// success so the store reflects the server's authoritative state. The store
// is never mutated on failure; there is no optimistic removal, and no
// automatic retry.
func (c *Controller) Book(ctx context.Context, appointmentID, patientName, patientEmail, notes string) error {
	ctx, span := syncerTracer.Start(ctx, "syncer.book",
		trace.WithAttributes(attribute.String("bookingportal.appointment_id", appointmentID)))
	defer span.End()

	if err := validatePatient(patientName, patientEmail); err != nil {
		c.metrics.ObserveBook("validation_error")
		c.reporter.OnError(ErrKindValidation, err.Error())
		return err
	}
	if strings.TrimSpace(appointmentID) == "" {
		err := &ValidationError{Field: "appointmentId", Reason: "must not be empty"}
		c.metrics.ObserveBook("validation_error")
		c.reporter.OnError(ErrKindValidation, err.Error())
		return err
	}

	br := slotapi.BookingRequest{
		AppointmentID: appointmentID,
		PatientName:   strings.TrimSpace(patientName),
		PatientEmail:  strings.TrimSpace(patientEmail),
		Notes:         strings.TrimSpace(notes),
	}
	// Echo the slot's date/time when we still hold it; the service stores
	// them alongside the booking.
	c.mu.Lock()
	for _, s := range c.store.All() {
		if s.AppointmentID == appointmentID {
			br.AppointmentDate = s.AppointmentDate
			br.AppointmentTime = s.AppointmentTime
			break
		}
	}
	c.mu.Unlock()

	c.reporter.OnStatusChanged(StatusBooking)

	res, err := c.svc.Book(ctx, br)
	if err != nil {
		span.RecordError(err)
		kind := classify(err)
		c.metrics.ObserveBook(kind + "_error")
		c.logger.Warn("booking failed", "appointment_id", appointmentID, "kind", kind, "error", err)
		c.reporter.OnError(kind, err.Error())
		c.reporter.OnStatusChanged(StatusBookFail)
		return err
	}

	c.metrics.ObserveBook("success")
	c.logger.Info("booking submitted", "appointment_id", appointmentID, "status", res.Status)
	c.reporter.OnStatusChanged(StatusBooked)

	return c.Refresh(ctx)
}

// publishVisible recomputes the visible set and pushes it with a membership
// status message.
func (c *Controller) publishVisible() {
	c.mu.Lock()
	visible := c.cache.Filtered(c.store, c.selection)
	hit := c.cache.LastWasHit()
	total := c.store.Len()
	c.mu.Unlock()

	c.metrics.ObserveCacheLookup(hit)

	switch {
	case total == 0:
		c.reporter.OnStatusChanged(StatusEmpty)
	case len(visible) == 0:
		c.reporter.OnStatusChanged(StatusNoMatch)
	default:
		c.reporter.OnStatusChanged(StatusLoaded)
	}
	c.reporter.OnSlotsChanged(visible, total)
}

func validatePatient(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "patientName", Reason: "must not be empty"}
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return &ValidationError{Field: "patientEmail", Reason: "must look like name@example.com"}
	}
	return nil
}

// classify maps an error to a reporter kind. Transport failures are wrapped
// in NetworkError by the client, so anything untyped reached the service and
// came back unusable (a garbled 2xx body, say) and counts as an API problem.
func classify(err error) string {
	var netErr *slotapi.NetworkError
	if errors.As(err, &netErr) {
		return ErrKindNetwork
	}
	return ErrKindAPI
}
