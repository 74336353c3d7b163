package tracking

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// fieldsOf decodes b as a JSON object and returns its top-level keys.
func fieldsOf(t *testing.T, b []byte) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal %s: %v", b, err)
	}
	return m
}

func TestEncodeEntity_OmitsUnsetOptionalFields(t *testing.T) {
	t.Parallel()

	b, err := EncodeEntity(NewEntity(Seed{Name: "Team Offsite", Location: "Lisbon"}))
	if err != nil {
		t.Fatalf("EncodeEntity() error = %v", err)
	}

	fields := fieldsOf(t, b)
	for _, key := range []string{"followupCount", "lastActivityAt"} {
		if _, ok := fields[key]; ok {
			t.Errorf("encoded entity contains %q, want it omitted: %s", key, b)
		}
	}
	if string(fields["kind"]) != `"entity"` {
		t.Errorf("kind = %s, want \"entity\"", fields["kind"])
	}
}

func TestEncodeEntity_ZeroCountIsPresent(t *testing.T) {
	t.Parallel()

	e := NewEntity(Seed{Name: "n"})
	e.FollowupCount = intPtr(0)

	b, err := EncodeEntity(e)
	if err != nil {
		t.Fatalf("EncodeEntity() error = %v", err)
	}
	if got := string(fieldsOf(t, b)["followupCount"]); got != "0" {
		t.Errorf("followupCount = %q, want \"0\" (set to zero is distinct from unset)", got)
	}
}

func TestEncodeEntity_FillsEmptyKind(t *testing.T) {
	t.Parallel()

	b, err := EncodeEntity(Entity{Name: "n"})
	if err != nil {
		t.Fatalf("EncodeEntity() error = %v", err)
	}
	if got := string(fieldsOf(t, b)["kind"]); got != `"entity"` {
		t.Errorf("kind = %s, want \"entity\"", got)
	}
}

func TestEntity_RoundTripPreservesAbsence(t *testing.T) {
	t.Parallel()

	first, err := EncodeEntity(NewEntity(Seed{Name: "Team Offsite"}))
	if err != nil {
		t.Fatalf("EncodeEntity() error = %v", err)
	}

	decoded, err := DecodeEntity(first)
	if err != nil {
		t.Fatalf("DecodeEntity() error = %v", err)
	}
	if decoded.FollowupCount != nil || decoded.LastActivityAt != nil {
		t.Fatalf("decoded optional fields = (%v, %v), want both nil",
			decoded.FollowupCount, decoded.LastActivityAt)
	}

	second, err := EncodeEntity(decoded)
	if err != nil {
		t.Fatalf("EncodeEntity() error = %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("round trip changed document:\n first = %s\nsecond = %s", first, second)
	}
}

func TestEntity_RoundTripWithOptionalFields(t *testing.T) {
	t.Parallel()

	e := NewEntity(Seed{Name: "n", Location: "l"})
	e.FollowupCount = intPtr(3)
	e.LastActivityAt = timePtr(testNow)

	b, err := EncodeEntity(e)
	if err != nil {
		t.Fatalf("EncodeEntity() error = %v", err)
	}
	got, err := DecodeEntity(b)
	if err != nil {
		t.Fatalf("DecodeEntity() error = %v", err)
	}

	if got.Followups() != 3 {
		t.Errorf("Followups() = %d, want 3", got.Followups())
	}
	if got.LastActivityAt == nil || !got.LastActivityAt.Equal(testNow) {
		t.Errorf("LastActivityAt = %v, want %v", got.LastActivityAt, testNow)
	}
}

func TestDecodeEntity_RejectsWrongKind(t *testing.T) {
	t.Parallel()

	_, err := DecodeEntity([]byte(`{"kind":"activities","name":"n"}`))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("DecodeEntity() error = %v, want ErrValidation", err)
	}
}

func TestDecodeEntity_RejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	if _, err := DecodeEntity([]byte(`{`)); err == nil {
		t.Error("DecodeEntity() = nil error, want error for malformed JSON")
	}
}

func TestEncodeActivityLog_EmptyEventsIsArray(t *testing.T) {
	t.Parallel()

	b, err := EncodeActivityLog(ActivityLog{EntityID: "confA"})
	if err != nil {
		t.Fatalf("EncodeActivityLog() error = %v", err)
	}

	fields := fieldsOf(t, b)
	if got := string(fields["events"]); got != "[]" {
		t.Errorf("events = %s, want []", got)
	}
	if got := string(fields["kind"]); got != `"activities"` {
		t.Errorf("kind = %s, want \"activities\"", got)
	}
	if got := string(fields["entityId"]); got != `"confA"` {
		t.Errorf("entityId = %s, want \"confA\"", got)
	}
}

func TestActivityLog_RoundTripPreservesOrder(t *testing.T) {
	t.Parallel()

	a := NewActivityLog("confA")
	for i, typ := range []string{"CFP", "PRESENTATION", "SLACK"} {
		a.Events = append(a.Events, Event{
			Type:        typ,
			OccurredAt:  testNow.Add(time.Duration(i) * time.Minute),
			Description: strings.ToLower(typ),
		})
	}

	b, err := EncodeActivityLog(a)
	if err != nil {
		t.Fatalf("EncodeActivityLog() error = %v", err)
	}
	got, err := DecodeActivityLog(b)
	if err != nil {
		t.Fatalf("DecodeActivityLog() error = %v", err)
	}

	if len(got.Events) != 3 {
		t.Fatalf("len(Events) = %d, want 3", len(got.Events))
	}
	for i, want := range a.Events {
		if !sameEvent(got.Events[i], want) {
			t.Errorf("Events[%d] = %+v, want %+v", i, got.Events[i], want)
		}
	}
}

func TestDecodeActivityLog_NullEventsBecomesEmpty(t *testing.T) {
	t.Parallel()

	got, err := DecodeActivityLog([]byte(`{"kind":"activities","entityId":"k","events":null}`))
	if err != nil {
		t.Fatalf("DecodeActivityLog() error = %v", err)
	}
	if got.Events == nil || len(got.Events) != 0 {
		t.Errorf("Events = %#v, want empty non-nil slice", got.Events)
	}
}

func TestDecodeActivityLog_RejectsWrongKind(t *testing.T) {
	t.Parallel()

	_, err := DecodeActivityLog([]byte(`{"kind":"entity"}`))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("DecodeActivityLog() error = %v, want ErrValidation", err)
	}
}
