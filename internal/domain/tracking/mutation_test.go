package tracking

import (
	"errors"
	"testing"
	"time"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
)

func freshPair() Pair {
	return Pair{
		Entity:     NewEntity(Seed{Name: "Team Offsite", Location: "Lisbon"}),
		Activities: NewActivityLog("confA"),
	}
}

func TestKeysFor(t *testing.T) {
	t.Parallel()

	keys := KeysFor("confA")
	if keys.Entity != "confA" {
		t.Errorf("Entity = %q, want %q", keys.Entity, "confA")
	}
	if keys.Activities != "confA::activities" {
		t.Errorf("Activities = %q, want %q", keys.Activities, "confA::activities")
	}
}

func TestValidateKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "plain key", key: "confA"},
		{name: "empty", key: "", wantErr: true},
		{name: "blank", key: "   ", wantErr: true},
		{name: "derived suffix", key: "confA::activities", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrValidation) {
				t.Errorf("ValidateKey(%q) error = %v, want ErrValidation", tt.key, err)
			}
		})
	}
}

func TestRecordFollowup_FirstUpdate(t *testing.T) {
	t.Parallel()

	next, err := RecordFollowup(EventInput{Type: "CFP", Description: "Submitted"})(testNow, freshPair())
	if err != nil {
		t.Fatalf("mutation error = %v", err)
	}

	if next.Entity.FollowupCount == nil || *next.Entity.FollowupCount != 1 {
		t.Errorf("FollowupCount = %v, want 1", next.Entity.FollowupCount)
	}
	if next.Entity.LastActivityAt == nil || !next.Entity.LastActivityAt.Equal(testNow) {
		t.Errorf("LastActivityAt = %v, want %v", next.Entity.LastActivityAt, testNow)
	}
	if len(next.Activities.Events) != 1 {
		t.Fatalf("len(Events) = %d, want 1", len(next.Activities.Events))
	}
	ev := next.Activities.Events[0]
	if ev.Type != "CFP" || ev.Description != "Submitted" || !ev.OccurredAt.Equal(testNow) {
		t.Errorf("event = %+v, want CFP/Submitted at %v", ev, testNow)
	}
}

func TestRecordFollowup_AppendsAtTail(t *testing.T) {
	t.Parallel()

	current := freshPair()
	current.Entity.FollowupCount = intPtr(2)
	current.Activities.Events = []Event{
		{Type: "CFP", OccurredAt: testNow.Add(-2 * time.Hour), Description: "a"},
		{Type: "SLACK", OccurredAt: testNow.Add(-time.Hour), Description: "b"},
	}

	next, err := RecordFollowup(
		EventInput{Type: "PRESENTATION", Description: "c"},
		EventInput{Type: "SLACK", Description: "d"},
	)(testNow, current)
	if err != nil {
		t.Fatalf("mutation error = %v", err)
	}

	if got := next.Entity.Followups(); got != 3 {
		t.Errorf("Followups() = %d, want 3 (one per unit, not per event)", got)
	}

	wantDescs := []string{"a", "b", "c", "d"}
	if len(next.Activities.Events) != len(wantDescs) {
		t.Fatalf("len(Events) = %d, want %d", len(next.Activities.Events), len(wantDescs))
	}
	for i, want := range wantDescs {
		if got := next.Activities.Events[i].Description; got != want {
			t.Errorf("Events[%d].Description = %q, want %q", i, got, want)
		}
	}
}

func TestRecordFollowup_NoEvents(t *testing.T) {
	t.Parallel()

	next, err := RecordFollowup()(testNow, freshPair())
	if err != nil {
		t.Fatalf("mutation error = %v", err)
	}
	if next.Entity.Followups() != 1 {
		t.Errorf("Followups() = %d, want 1", next.Entity.Followups())
	}
	if len(next.Activities.Events) != 0 {
		t.Errorf("len(Events) = %d, want 0", len(next.Activities.Events))
	}
}

func TestRecordFollowup_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	current := freshPair()
	current.Entity.FollowupCount = intPtr(4)
	current.Activities.Events = make([]Event, 1, 8) // spare capacity must not be shared
	current.Activities.Events[0] = Event{Type: "CFP", OccurredAt: testNow, Description: "x"}

	if _, err := RecordFollowup(EventInput{Type: "SLACK"})(testNow, current); err != nil {
		t.Fatalf("mutation error = %v", err)
	}

	if *current.Entity.FollowupCount != 4 {
		t.Errorf("input FollowupCount = %d, want 4 (unchanged)", *current.Entity.FollowupCount)
	}
	if current.Entity.LastActivityAt != nil {
		t.Error("input LastActivityAt was set, want nil")
	}
	if len(current.Activities.Events) != 1 {
		t.Errorf("input len(Events) = %d, want 1", len(current.Activities.Events))
	}
	if got := current.Activities.Events[:2][1]; got.Type != "" {
		t.Errorf("input backing array was written: %+v", got)
	}
}

func TestRecordFollowup_Deterministic(t *testing.T) {
	t.Parallel()

	m := RecordFollowup(EventInput{Type: "CFP", Description: "Submitted"})
	current := freshPair()

	a, errA := m(testNow, current)
	b, errB := m(testNow, current)
	if errA != nil || errB != nil {
		t.Fatalf("mutation errors = %v, %v", errA, errB)
	}
	if a.Entity.Followups() != b.Entity.Followups() || len(a.Activities.Events) != len(b.Activities.Events) {
		t.Errorf("re-running the mutation gave different results: %+v vs %+v", a, b)
	}
}

func TestRecordFollowup_InvalidEventAborts(t *testing.T) {
	t.Parallel()

	_, err := RecordFollowup(EventInput{Type: " ", Description: "no type"})(testNow, freshPair())
	if !errors.Is(err, domain.ErrDomainAbort) {
		t.Errorf("mutation error = %v, want ErrDomainAbort", err)
	}
}

func TestCheckTransition(t *testing.T) {
	t.Parallel()

	keys := KeysFor("confA")
	before := freshPair()
	before.Entity.FollowupCount = intPtr(2)
	before.Activities.Events = []Event{{Type: "CFP", OccurredAt: testNow, Description: "a"}}

	valid, err := RecordFollowup(EventInput{Type: "SLACK", Description: "b"})(testNow, before)
	if err != nil {
		t.Fatalf("mutation error = %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(p *Pair)
		wantErr bool
	}{
		{name: "valid follow-up", mutate: func(*Pair) {}},
		{name: "renamed entity", mutate: func(p *Pair) { p.Entity.Name = "other" }, wantErr: true},
		{name: "moved entity", mutate: func(p *Pair) { p.Entity.Location = "other" }, wantErr: true},
		{name: "entity kind changed", mutate: func(p *Pair) { p.Entity.Kind = "" }, wantErr: true},
		{name: "log kind changed", mutate: func(p *Pair) { p.Activities.Kind = "x" }, wantErr: true},
		{name: "foreign key changed", mutate: func(p *Pair) { p.Activities.EntityID = "confB" }, wantErr: true},
		{name: "count decreased", mutate: func(p *Pair) { p.Entity.FollowupCount = intPtr(1) }, wantErr: true},
		{name: "count cleared", mutate: func(p *Pair) { p.Entity.FollowupCount = nil }, wantErr: true},
		{name: "count negative", mutate: func(p *Pair) { p.Entity.FollowupCount = intPtr(-1) }, wantErr: true},
		{name: "events truncated", mutate: func(p *Pair) { p.Activities.Events = nil }, wantErr: true},
		{name: "event rewritten", mutate: func(p *Pair) { p.Activities.Events[0].Description = "z" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			after := valid.Clone()
			tt.mutate(&after)

			err := CheckTransition(keys, before, after)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckTransition() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrDomainAbort) {
				t.Errorf("CheckTransition() error = %v, want ErrDomainAbort", err)
			}
		})
	}
}
