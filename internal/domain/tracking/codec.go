package tracking

import (
	"encoding/json"
	"fmt"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
)

// EncodeEntity serializes an entity document. Unset optional fields are
// omitted from the output.
func EncodeEntity(e Entity) ([]byte, error) {
	if e.Kind == "" {
		e.Kind = KindEntity
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding entity: %w", err)
	}
	return b, nil
}

// DecodeEntity parses an entity document and checks its discriminator.
func DecodeEntity(b []byte) (Entity, error) {
	var e Entity
	if err := json.Unmarshal(b, &e); err != nil {
		return Entity{}, fmt.Errorf("decoding entity: %w", err)
	}
	if e.Kind != KindEntity {
		return Entity{}, &domain.ValidationError{Fields: map[string]string{
			"kind": fmt.Sprintf("want %q, got %q", KindEntity, e.Kind),
		}}
	}
	return e, nil
}

// EncodeActivityLog serializes an activity-log document. A nil event slice
// is written as an empty array.
func EncodeActivityLog(a ActivityLog) ([]byte, error) {
	if a.Kind == "" {
		a.Kind = KindActivities
	}
	if a.Events == nil {
		a.Events = []Event{}
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encoding activity log: %w", err)
	}
	return b, nil
}

// DecodeActivityLog parses an activity-log document and checks its
// discriminator.
func DecodeActivityLog(b []byte) (ActivityLog, error) {
	var a ActivityLog
	if err := json.Unmarshal(b, &a); err != nil {
		return ActivityLog{}, fmt.Errorf("decoding activity log: %w", err)
	}
	if a.Kind != KindActivities {
		return ActivityLog{}, &domain.ValidationError{Fields: map[string]string{
			"kind": fmt.Sprintf("want %q, got %q", KindActivities, a.Kind),
		}}
	}
	if a.Events == nil {
		a.Events = []Event{}
	}
	return a, nil
}
