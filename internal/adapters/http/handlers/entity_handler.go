// Package handlers provides HTTP request handlers for the service's API endpoints.
package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/followup-tx/internal/adapters/http/dto"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

// EntityHandler handles HTTP requests for tracked entities and their
// follow-up updates.
type EntityHandler struct {
	svc ports.FollowupService
}

// NewEntityHandler creates a new EntityHandler with the given service port.
func NewEntityHandler(svc ports.FollowupService) *EntityHandler {
	return &EntityHandler{svc: svc}
}

// Bootstrap handles PUT /api/v1/entities/{key}. Responds 201 when the
// documents were created and 200 when they already existed.
func (h *EntityHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	key, err := entityKey(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.BootstrapRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.svc.Bootstrap(r.Context(), key, req.Seed())
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, dto.BootstrapResponse{Key: key, Created: created})
}

// GetEntity handles GET /api/v1/entities/{key}.
func (h *EntityHandler) GetEntity(w http.ResponseWriter, r *http.Request) {
	key, err := entityKey(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	pair, err := h.svc.Get(r.Context(), key)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEntityResponse(key, pair))
}

// RecordFollowup handles POST /api/v1/entities/{key}/followups.
func (h *EntityHandler) RecordFollowup(w http.ResponseWriter, r *http.Request) {
	key, err := entityKey(r)
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	var req dto.FollowupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pair, err := h.svc.RecordFollowup(r.Context(), ports.FollowupRequest{
		Key:           key,
		Events:        req.EventInputs(),
		ForceRollback: req.ForceRollback,
	})
	if err != nil {
		dto.WriteErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEntityResponse(key, pair))
}
