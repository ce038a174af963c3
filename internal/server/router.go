package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/oakpoint-health/booking-portal/internal/server/middleware"
	"github.com/oakpoint-health/booking-portal/pkg/logging"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	Logger             *logging.Logger
	Handler            *Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// NewRouter creates a Chi router with all routes configured.
func NewRouter(cfg *RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.Handler.HealthCheck)
	r.Get("/appointment-slot", cfg.Handler.ListSlots)
	r.Post("/book-appointment", cfg.Handler.BookSlot)
	r.Post("/appointment-status", cfg.Handler.UpdateStatus)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
