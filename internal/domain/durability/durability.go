// Package durability selects the minimum guarantee a transactional commit
// must reach before it is reported as successful, and checks that choice
// against the deployed topology.
//
// Levels, weakest first:
//
//	none                           acknowledged by the active copy
//	majority                       in memory on a majority of replicas
//	majority_and_persist_to_active majority in memory and on disk on the active copy
//	persist_to_majority            on disk on a majority of replicas
package durability

import (
	"fmt"
	"strings"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
)

// Level is a commit durability requirement.
type Level int

// Durability levels ordered from weakest to strongest.
const (
	None Level = iota
	Majority
	MajorityAndPersistToActive
	PersistToMajority
)

var levelNames = map[Level]string{
	None:                       "none",
	Majority:                   "majority",
	MajorityAndPersistToActive: "majority_and_persist_to_active",
	PersistToMajority:          "persist_to_majority",
}

// String returns the configuration name of the level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// IsValid reports whether l is one of the defined levels.
func (l Level) IsValid() bool {
	_, ok := levelNames[l]
	return ok
}

// Replicated reports whether the level needs at least one replica.
func (l Level) Replicated() bool {
	return l != None
}

// Parse converts a configuration name (case-insensitive) to a Level.
func Parse(s string) (Level, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for l, name := range levelNames {
		if name == norm {
			return l, nil
		}
	}
	return None, &domain.ValidationError{Fields: map[string]string{
		"durability": fmt.Sprintf("unknown level %q", s),
	}}
}

// Topology describes the replication layout of the deployed store.
type Topology struct {
	// Replicas is the number of copies kept in addition to the active one.
	Replicas int
}

// Policy is a validated durability level bound to the topology it was
// checked against. The zero value is the "none" policy.
type Policy struct {
	Level    Level
	Topology Topology
}

// Select validates level against topology and returns the resulting policy.
// A replicated level on a deployment with zero replicas fails with
// domain.ErrDurabilityUnsatisfiable; the level is never silently downgraded.
func Select(level Level, topology Topology) (Policy, error) {
	if !level.IsValid() {
		return Policy{}, fmt.Errorf("selecting durability: %w", &domain.ValidationError{
			Fields: map[string]string{"durability": fmt.Sprintf("unknown level %d", int(level))},
		})
	}
	if topology.Replicas < 0 {
		return Policy{}, fmt.Errorf("selecting durability: %w", &domain.ValidationError{
			Fields: map[string]string{"replicas": fmt.Sprintf("must be >= 0, got %d", topology.Replicas)},
		})
	}
	if level.Replicated() && topology.Replicas < 1 {
		return Policy{}, fmt.Errorf("%w: level %s needs at least one replica, topology has %d",
			domain.ErrDurabilityUnsatisfiable, level, topology.Replicas)
	}
	return Policy{Level: level, Topology: topology}, nil
}

// SatisfiedBy reports whether the policy can still be met by topology. Stores
// call this at unit creation to catch a topology that shrank after
// configuration time.
func (p Policy) SatisfiedBy(topology Topology) error {
	if p.Level.Replicated() && topology.Replicas < 1 {
		return fmt.Errorf("%w: level %s needs at least one replica, topology has %d",
			domain.ErrDurabilityUnsatisfiable, p.Level, topology.Replicas)
	}
	return nil
}
