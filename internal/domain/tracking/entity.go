package tracking

import (
	"strings"
	"time"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
)

// KindEntity is the discriminator persisted on every entity document.
const KindEntity = "entity"

// Entity is the aggregate record being tracked (e.g. a conference).
//
// FollowupCount and LastActivityAt are nil until the first successful
// update; a nil pointer is omitted from the persisted document, which keeps
// "never updated" distinct from "updated to zero".
type Entity struct {
	Kind           string     `json:"kind"`
	Name           string     `json:"name"`
	Location       string     `json:"location"`
	FollowupCount  *int       `json:"followupCount,omitempty"`
	LastActivityAt *time.Time `json:"lastActivityAt,omitempty"`
}

// Seed holds the caller-supplied descriptive fields of a new entity.
type Seed struct {
	Name     string
	Location string
}

// Validate checks that the seed carries the fields required at creation.
func (s Seed) Validate() error {
	fields := make(map[string]string)
	if strings.TrimSpace(s.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// NewEntity returns a freshly created entity with no optional fields set.
func NewEntity(seed Seed) Entity {
	return Entity{
		Kind:     KindEntity,
		Name:     seed.Name,
		Location: seed.Location,
	}
}

// Followups returns the follow-up count, treating an unset count as zero.
func (e Entity) Followups() int {
	if e.FollowupCount == nil {
		return 0
	}
	return *e.FollowupCount
}

// Clone returns a deep copy so a mutation can never alias the caller's
// optional fields.
func (e Entity) Clone() Entity {
	out := e
	if e.FollowupCount != nil {
		n := *e.FollowupCount
		out.FollowupCount = &n
	}
	if e.LastActivityAt != nil {
		t := *e.LastActivityAt
		out.LastActivityAt = &t
	}
	return out
}
