/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. RequestLogger: Structured request logging (zerolog)
  3. Recoverer:     Panic recovery (500 instead of crash)
  4. CORS:          Cross-origin requests for the kiosk frontend

ROUTE GROUPS:
  /api/attendance/*   Clock front doors (self-service and guard)
  /api/interns/*      Profiles, summaries and attendance reads
  /healthz            Liveness probe

SECURITY NOTE:
  Identity headers (X-Intern-ID, X-Guard-ID) are expected to be set by
  an authenticating proxy in front of this service.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Intern-ID", "X-Guard-ID"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Clock front doors
		r.Route("/attendance", func(r chi.Router) {
			r.Post("/self/clock", h.ClockSelf)
			r.Post("/guard/clock", h.ClockGuard)
		})

		// Intern routes
		r.Route("/interns", func(r chi.Router) {
			r.Post("/", h.CreateIntern)
			r.Get("/{id}", h.GetIntern)
			r.Get("/{id}/events", h.GetDayEvents)
			r.Get("/{id}/summary", h.GetSummary)
			r.Get("/{id}/log", h.GetLog)
			r.Post("/{id}/absences", h.RecordAbsence)
			r.Post("/{id}/warnings", h.RecordWarning)
		})
	})

	// Liveness probe
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
