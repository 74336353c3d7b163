package handlers

import (
	"errors"
	"net/http"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

const (
	statusOK       = "ok"
	statusReady    = "ready"
	statusDegraded = "degraded"
	statusNotReady = "not_ready"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	registry ports.HealthRegistry
}

// NewHealthHandler creates a HealthHandler over registry.
func NewHealthHandler(registry ports.HealthRegistry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health/live. Always 200; the process is up.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": statusOK})
}

// Readiness handles GET /health/ready.
//
// A check failing with domain.ErrUnavailable (closed store, open circuit
// breaker) makes the service not ready: 503. Any other failure, such as a
// half-open breaker probing a recovering store, is reported as degraded but
// keeps the instance in rotation with 200, since transactional units can
// still commit.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.registry.CheckAll(r.Context())

	checks := make(map[string]string, len(results))
	status := statusReady
	for name, err := range results {
		switch {
		case err == nil:
			checks[name] = statusOK
		case errors.Is(err, domain.ErrUnavailable):
			checks[name] = err.Error()
			status = statusNotReady
		default:
			checks[name] = err.Error()
			if status == statusReady {
				status = statusDegraded
			}
		}
	}

	code := http.StatusOK
	if status == statusNotReady {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status": status,
		"checks": checks,
	})
}
