// Package http provides the inbound HTTP adapter including routing and server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/followup-tx/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/followup-tx/internal/adapters/http/middleware"
)

// NewRouter creates an HTTP handler with all application routes registered.
// Middleware is composed with middleware.Chain and applied globally, the
// first argument outermost.
func NewRouter(
	entityHandler *handlers.EntityHandler,
	healthHandler *handlers.HealthHandler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	r := chi.NewRouter()

	if len(middlewares) > 0 {
		r.Use(middleware.Chain(middlewares...))
	}

	// Health endpoints (outside /api/v1 prefix).
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// API v1 routes.
	r.Route("/api/v1", func(r chi.Router) {
		r.Put("/entities/{key}", entityHandler.Bootstrap)
		r.Get("/entities/{key}", entityHandler.GetEntity)
		r.Post("/entities/{key}/followups", entityHandler.RecordFollowup)
	})

	return r
}
