package tracking

import (
	"fmt"
	"strings"
	"time"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
)

// KindActivities is the discriminator persisted on every activity-log document.
const KindActivities = "activities"

// activitySuffix is appended to an entity key to derive its activity-log key.
const activitySuffix = "::activities"

// Event is one immutable record in an activity log.
type Event struct {
	Type        string    `json:"type"`
	OccurredAt  time.Time `json:"occurredAt"`
	Description string    `json:"description"`
}

// EventInput describes an event to append; OccurredAt is assigned when the
// mutation runs.
type EventInput struct {
	Type        string
	Description string
}

// Validate checks that the event input carries a type.
func (in EventInput) Validate() error {
	if strings.TrimSpace(in.Type) == "" {
		return &domain.ValidationError{Fields: map[string]string{"type": domain.MsgRequired}}
	}
	return nil
}

// ActivityLog is the append-only history owned by exactly one entity.
type ActivityLog struct {
	Kind     string  `json:"kind"`
	EntityID string  `json:"entityId"`
	Events   []Event `json:"events"`
}

// NewActivityLog returns an empty activity log for the given entity key.
func NewActivityLog(entityKey string) ActivityLog {
	return ActivityLog{
		Kind:     KindActivities,
		EntityID: entityKey,
		Events:   []Event{},
	}
}

// Clone returns a copy whose event slice does not share a backing array
// with the receiver.
func (a ActivityLog) Clone() ActivityLog {
	out := a
	out.Events = make([]Event, len(a.Events))
	copy(out.Events, a.Events)
	return out
}

// Keys is the deterministic key pair of one tracked entity.
type Keys struct {
	Entity     string
	Activities string
}

// KeysFor derives the key pair for an entity key.
func KeysFor(entityKey string) Keys {
	return Keys{
		Entity:     entityKey,
		Activities: entityKey + activitySuffix,
	}
}

// ValidateKey rejects empty keys and keys that would collide with a derived
// activity-log key.
func ValidateKey(entityKey string) error {
	switch {
	case strings.TrimSpace(entityKey) == "":
		return &domain.ValidationError{Fields: map[string]string{"key": domain.MsgRequired}}
	case strings.HasSuffix(entityKey, activitySuffix):
		return &domain.ValidationError{Fields: map[string]string{
			"key": fmt.Sprintf("must not end with %q", activitySuffix),
		}}
	}
	return nil
}
