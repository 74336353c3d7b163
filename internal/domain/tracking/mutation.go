package tracking

import (
	"time"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
)

// Pair is the entity document together with its activity log, as read and
// written by one transactional unit.
type Pair struct {
	Entity     Entity
	Activities ActivityLog
}

// Clone deep-copies both documents.
func (p Pair) Clone() Pair {
	return Pair{
		Entity:     p.Entity.Clone(),
		Activities: p.Activities.Clone(),
	}
}

// Mutation computes the next document pair from the current one. It is a
// pure function of its arguments: a unit may run it several times when the
// store retries after a conflict, so it must not touch anything outside the
// returned Pair. Returning an error aborts the unit.
type Mutation func(now time.Time, current Pair) (Pair, error)

// RecordFollowup returns the follow-up mutation: the events are appended to
// the activity log stamped with now, the follow-up count is incremented
// (starting at 1) and the last activity time is set to now.
func RecordFollowup(events ...EventInput) Mutation {
	inputs := make([]EventInput, len(events))
	copy(inputs, events)

	return func(now time.Time, current Pair) (Pair, error) {
		for _, in := range inputs {
			if err := in.Validate(); err != nil {
				return Pair{}, domain.Abort("invalid event: %v", err)
			}
		}

		next := current.Clone()
		for _, in := range inputs {
			next.Activities.Events = append(next.Activities.Events, Event{
				Type:        in.Type,
				OccurredAt:  now,
				Description: in.Description,
			})
		}

		count := next.Entity.Followups() + 1
		at := now
		next.Entity.FollowupCount = &count
		next.Entity.LastActivityAt = &at

		return next, nil
	}
}

// CheckTransition verifies that after is a legal successor of before for
// the given keys. Descriptive fields, discriminators and the foreign key are
// immutable, the follow-up count never decreases, and existing events stay
// an unchanged prefix of the new sequence.
func CheckTransition(keys Keys, before, after Pair) error {
	switch {
	case after.Entity.Kind != KindEntity:
		return domain.Abort("entity %s: kind changed to %q", keys.Entity, after.Entity.Kind)
	case after.Activities.Kind != KindActivities:
		return domain.Abort("activity log %s: kind changed to %q", keys.Activities, after.Activities.Kind)
	case after.Entity.Name != before.Entity.Name || after.Entity.Location != before.Entity.Location:
		return domain.Abort("entity %s: descriptive fields are immutable", keys.Entity)
	case after.Activities.EntityID != keys.Entity:
		return domain.Abort("activity log %s: entityId %q does not match %q",
			keys.Activities, after.Activities.EntityID, keys.Entity)
	case after.Entity.FollowupCount != nil && *after.Entity.FollowupCount < 0:
		return domain.Abort("entity %s: negative follow-up count %d", keys.Entity, *after.Entity.FollowupCount)
	case after.Entity.Followups() < before.Entity.Followups():
		return domain.Abort("entity %s: follow-up count decreased from %d to %d",
			keys.Entity, before.Entity.Followups(), after.Entity.Followups())
	case before.Entity.FollowupCount != nil && after.Entity.FollowupCount == nil:
		return domain.Abort("entity %s: follow-up count cleared", keys.Entity)
	}

	if len(after.Activities.Events) < len(before.Activities.Events) {
		return domain.Abort("activity log %s: events truncated from %d to %d",
			keys.Activities, len(before.Activities.Events), len(after.Activities.Events))
	}
	for i, ev := range before.Activities.Events {
		if !sameEvent(ev, after.Activities.Events[i]) {
			return domain.Abort("activity log %s: event %d rewritten", keys.Activities, i)
		}
	}

	return nil
}

func sameEvent(a, b Event) bool {
	return a.Type == b.Type && a.Description == b.Description && a.OccurredAt.Equal(b.OccurredAt)
}
