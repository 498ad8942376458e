package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/appointly/bookingbot/internal/appointments"
	"github.com/appointly/bookingbot/internal/http/handlers"
	httpmiddleware "github.com/appointly/bookingbot/internal/http/middleware"
	"github.com/appointly/bookingbot/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger              *logging.Logger
	WhatsAppWebhook     *handlers.WhatsAppWebhookHandler
	AppointmentsHandler *appointments.Handler
	AdminUsersHandler   *handlers.AdminUsersHandler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

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

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.WhatsAppWebhook != nil {
		r.Route("/webhooks/whatsapp", func(r chi.Router) {
			r.Get("/", cfg.WhatsAppWebhook.Verify)
			r.Post("/", cfg.WhatsAppWebhook.Receive)
		})
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.AppointmentsHandler != nil {
			r.Get("/appointments", cfg.AppointmentsHandler.List)
			r.Patch("/appointments/{id}/status", cfg.AppointmentsHandler.UpdateStatus)
		}
		if cfg.AdminUsersHandler != nil {
			r.Get("/users", cfg.AdminUsersHandler.List)
		}
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
