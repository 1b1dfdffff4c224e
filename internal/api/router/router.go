package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/localsight/localsight-platform/internal/appointments"
	"github.com/localsight/localsight-platform/internal/availability"
	httpmiddleware "github.com/localsight/localsight-platform/internal/http/middleware"
	"github.com/localsight/localsight-platform/internal/schedule"
	"github.com/localsight/localsight-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	AvailabilityHandler *availability.Handler
	AppointmentsHandler *appointments.Handler
	ScheduleHandler     *schedule.Handler
	AdminAuthSecret     string
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// Public endpoint rate limiting; zero disables it.
	PublicRateLimit float64
	PublicRateBurst int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (availability reads, booking, health checks)
	r.Group(func(public chi.Router) {
		if cfg.PublicRateLimit > 0 {
			public.Use(httpmiddleware.RateLimit(cfg.PublicRateLimit, cfg.PublicRateBurst))
		}

		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		if cfg.AvailabilityHandler != nil {
			public.Route("/availability", func(r chi.Router) {
				r.Get("/", cfg.AvailabilityHandler.GetByRange)
				r.Get("/month", cfg.AvailabilityHandler.GetMonth)
			})
		}

		if cfg.AppointmentsHandler != nil {
			public.Route("/appointments", func(r chi.Router) {
				r.Post("/", cfg.AppointmentsHandler.Book)
				r.Post("/{id}/cancel", cfg.AppointmentsHandler.Cancel)
			})
		}
	})

	// Admin routes (protected by HMAC JWT)
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))

			if cfg.ScheduleHandler != nil {
				admin.Route("/schedule", func(r chi.Router) {
					r.Get("/settings", cfg.ScheduleHandler.GetSettings)
					r.Put("/settings", cfg.ScheduleHandler.PutSettings)
					r.Get("/blocked-dates", cfg.ScheduleHandler.ListBlockedDates)
					r.Post("/blocked-dates", cfg.ScheduleHandler.AddBlockedDate)
					r.Delete("/blocked-dates/{id}", cfg.ScheduleHandler.RemoveBlockedDate)
				})
			}

			if cfg.AvailabilityHandler != nil {
				admin.Post("/availability/invalidate", cfg.AvailabilityHandler.Invalidate)
			}

			if cfg.AppointmentsHandler != nil {
				admin.Get("/appointments/{id}", cfg.AppointmentsHandler.Get)
				admin.Post("/appointments/{id}/confirm", cfg.AppointmentsHandler.Confirm)
			}
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
