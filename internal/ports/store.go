package ports

import (
	"context"

	"github.com/jsamuelsen11/followup-tx/internal/domain/durability"
)

// Version is an opaque optimistic-concurrency token. A store assigns a new
// version every time a document is written; zero is never a valid version.
type Version uint64

// Document is a persisted JSON body together with the version it was read at.
type Document struct {
	Key     string
	Version Version
	Body    []byte
}

// DocumentStore is the outbound port to a transactional document store.
// Implemented by the adapters under internal/adapters/store.
type DocumentStore interface {
	HealthChecker

	// Exists reports whether a document is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Insert stores a new document outside any unit.
	// Returns domain.ErrAlreadyExists if the key is taken.
	Insert(ctx context.Context, key string, body []byte) error

	// Get reads the latest committed document outside any unit.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) (Document, error)

	// Begin opens a transactional unit that commits at the given durability.
	// Returns domain.ErrDurabilityUnsatisfiable if the current topology
	// cannot meet the policy.
	Begin(ctx context.Context, policy durability.Policy) (Unit, error)

	// Topology reports the replication layout the store is running on.
	Topology(ctx context.Context) (durability.Topology, error)

	// Close releases connections and file handles.
	Close() error
}

// Unit is a single-use transactional unit of work over a DocumentStore.
// Reads record the version they observed; Commit applies every staged
// replace atomically, or none of them.
type Unit interface {
	// Get reads a document inside the unit and records its version in the
	// unit's read set. Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) (Document, error)

	// Replace stages a replacement of doc's body, guarded by doc.Version.
	Replace(ctx context.Context, doc Document, body []byte) error

	// Commit applies all staged replaces. Returns domain.ErrTransientConflict
	// if any document read or replaced by the unit changed since it was read.
	Commit(ctx context.Context) error

	// Rollback discards the unit. Safe to call after Commit or more than once.
	Rollback(ctx context.Context) error
}

// UnitFunc is the body of one transactional attempt.
type UnitFunc func(ctx context.Context, unit Unit) error

// TxRunner executes a UnitFunc inside a transactional unit, re-running it
// with a fresh unit on transient conflicts. Implemented by platform/txn.
type TxRunner interface {
	Run(ctx context.Context, fn UnitFunc) error
}
