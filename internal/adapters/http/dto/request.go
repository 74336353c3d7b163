package dto

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/domain/tracking"
)

const msgRequired = domain.MsgRequired

// BootstrapRequest represents the JSON body for creating an entity and its
// activity log.
type BootstrapRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Validate checks that required fields are present.
// Returns a *domain.ValidationError if any checks fail.
func (r *BootstrapRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = msgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Seed converts the request to a tracking seed.
func (r *BootstrapRequest) Seed() tracking.Seed {
	return tracking.Seed{Name: r.Name, Location: r.Location}
}

// EventRequest is one event to append to the activity log.
type EventRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// FollowupRequest represents the JSON body of a follow-up update.
// ForceRollback aborts the update after staging, for demonstrations.
type FollowupRequest struct {
	Events        []EventRequest `json:"events"`
	ForceRollback bool           `json:"force_rollback,omitempty"`
}

// Validate checks every event carries a type.
// Returns a *domain.ValidationError if any checks fail.
func (r *FollowupRequest) Validate() error {
	fields := make(map[string]string)

	for i, ev := range r.Events {
		if strings.TrimSpace(ev.Type) == "" {
			fields[fmt.Sprintf("events[%d].type", i)] = msgRequired
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// EventInputs converts the request events to tracking inputs.
func (r *FollowupRequest) EventInputs() []tracking.EventInput {
	out := make([]tracking.EventInput, len(r.Events))
	for i, ev := range r.Events {
		out[i] = tracking.EventInput{Type: ev.Type, Description: ev.Description}
	}
	return out
}
