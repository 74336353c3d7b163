package ports

import (
	"context"

	"github.com/jsamuelsen11/followup-tx/internal/domain/tracking"
)

// FollowupService defines the service port for follow-up tracking.
// Implemented by the application layer; called by inbound adapters (HTTP
// handlers and the CLI).
type FollowupService interface {
	// Bootstrap ensures the entity and its activity log exist. It reports
	// whether this call created them.
	// Returns domain.ErrValidation if key or seed is invalid.
	// Returns domain.ErrInitializationRace if a concurrent initializer
	// inserted one of the documents between the existence checks and the
	// inserts.
	Bootstrap(ctx context.Context, key string, seed tracking.Seed) (bool, error)

	// RecordFollowup appends the request's events to the activity log and
	// increments the entity's follow-up counter in one atomic unit.
	// Returns domain.ErrNotFound if the entity has not been bootstrapped.
	// Returns domain.ErrDomainAbort if the mutation rejects the current state.
	RecordFollowup(ctx context.Context, req FollowupRequest) (*tracking.Pair, error)

	// Get returns the latest committed entity and activity log.
	// Returns domain.ErrNotFound if either document is missing.
	Get(ctx context.Context, key string) (*tracking.Pair, error)
}

// FollowupRequest describes one transactional follow-up update.
type FollowupRequest struct {
	Key    string
	Events []tracking.EventInput

	// ForceRollback aborts the unit after both replaces are staged, leaving
	// the stored documents untouched.
	ForceRollback bool
}
