// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/jsamuelsen11/followup-tx/internal/domain/tracking"
)

// BootstrapResponse reports the outcome of a bootstrap call.
type BootstrapResponse struct {
	Key     string `json:"key"`
	Created bool   `json:"created"`
}

// EntityResponse represents an entity and its activity log in HTTP
// responses. FollowupCount and LastActivityAt are omitted until the first
// follow-up.
type EntityResponse struct {
	Key            string              `json:"key"`
	Name           string              `json:"name"`
	Location       string              `json:"location"`
	FollowupCount  *int                `json:"followup_count,omitempty"`
	LastActivityAt string              `json:"last_activity_at,omitempty"`
	Activities     ActivityLogResponse `json:"activities"`
}

// ActivityLogResponse represents an activity log in HTTP responses.
type ActivityLogResponse struct {
	EntityID string          `json:"entity_id"`
	Events   []EventResponse `json:"events"`
	Count    int             `json:"count"`
}

// EventResponse represents one activity-log event in HTTP responses.
type EventResponse struct {
	Type        string `json:"type"`
	OccurredAt  string `json:"occurred_at"`
	Description string `json:"description"`
}

// ToEntityResponse converts a document pair to an HTTP response DTO.
func ToEntityResponse(key string, p *tracking.Pair) EntityResponse {
	resp := EntityResponse{
		Key:           key,
		Name:          p.Entity.Name,
		Location:      p.Entity.Location,
		FollowupCount: p.Entity.FollowupCount,
		Activities: ActivityLogResponse{
			EntityID: p.Activities.EntityID,
			Events:   make([]EventResponse, len(p.Activities.Events)),
			Count:    len(p.Activities.Events),
		},
	}
	if p.Entity.LastActivityAt != nil {
		resp.LastActivityAt = p.Entity.LastActivityAt.Format(time.RFC3339Nano)
	}

	for i, ev := range p.Activities.Events {
		resp.Activities.Events[i] = EventResponse{
			Type:        ev.Type,
			OccurredAt:  ev.OccurredAt.Format(time.RFC3339Nano),
			Description: ev.Description,
		}
	}

	return resp
}
