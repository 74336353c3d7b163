package domain

import "context"

// Action represents a single staged operation executed when a unit of work
// is flushed. Implementations must not cause external side effects: a unit
// may be discarded and re-run from scratch after a transient conflict.
type Action interface {
	// Execute performs the action. The context carries cancellation and
	// deadline signals that the implementation should respect.
	Execute(ctx context.Context) error

	// Description returns a human-readable description of the action for
	// logging purposes (e.g., "replace document confA").
	Description() string
}

// WriteStager provides write-staging capabilities to code running inside a
// transactional unit.
type WriteStager interface {
	// Stage updates the in-memory document cache for the given key and
	// queues the associated action for execution during Commit. Subsequent
	// reads for the same key return the staged value.
	Stage(key string, entity any, action Action) error
}
