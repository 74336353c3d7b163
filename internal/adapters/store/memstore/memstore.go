// Package memstore implements ports.DocumentStore in memory on top of
// hashicorp/go-memdb.
//
// Every unit reads from the immutable snapshot taken at Begin and records
// the version of each document it reads. Commit opens the single memdb
// write transaction, so commits are serialised, re-validates every recorded
// version against the latest state and only then writes. A unit that lost a
// race fails with domain.ErrTransientConflict and leaves nothing behind.
package memstore

import (
	"context"
	"fmt"
	"sync/atomic"

	memdb "github.com/hashicorp/go-memdb"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/domain/durability"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

const (
	tableDocuments = "documents"
	indexID        = "id"
)

// Name is the health checker name reported by the in-memory store.
const Name = "store:memory"

// Compile-time interface check.
var _ ports.DocumentStore = (*Store)(nil)

// record is the stored form of a document. Records are immutable once
// inserted; a write inserts a new record under the same key.
type record struct {
	Key     string
	Version uint64
	Body    []byte
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableDocuments: {
				Name: tableDocuments,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}
}

// Store is an in-memory transactional document store.
type Store struct {
	db       *memdb.MemDB
	replicas int
	version  atomic.Uint64
	closed   atomic.Bool
}

// New creates an empty store that reports replicas as its topology.
func New(replicas int) (*Store, error) {
	if replicas < 0 {
		return nil, fmt.Errorf("memstore: replicas must be >= 0, got %d", replicas)
	}
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("memstore: creating database: %w", err)
	}
	return &Store{db: db, replicas: replicas}, nil
}

// Name returns the health checker identifier.
func (s *Store) Name() string {
	return Name
}

// HealthCheck reports whether the store is open.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.checkOpen()
}

// Close marks the store closed. Subsequent calls fail with domain.ErrUnavailable.
func (s *Store) Close() error {
	s.closed.Store(true)
	return nil
}

// Topology reports the configured replica count.
func (s *Store) Topology(context.Context) (durability.Topology, error) {
	return durability.Topology{Replicas: s.replicas}, nil
}

// Exists reports whether key is stored.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	rec, err := lookup(s.db.Txn(false), key)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

// Insert stores a new document. Returns domain.ErrAlreadyExists if key is taken.
func (s *Store) Insert(ctx context.Context, key string, body []byte) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	rec, err := lookup(txn, key)
	if err != nil {
		return err
	}
	if rec != nil {
		return fmt.Errorf("%s: %w", key, domain.ErrAlreadyExists)
	}

	if err := txn.Insert(tableDocuments, s.newRecord(key, body)); err != nil {
		return fmt.Errorf("memstore: inserting %s: %w", key, err)
	}
	txn.Commit()
	return nil
}

// Get reads the latest committed document.
func (s *Store) Get(ctx context.Context, key string) (ports.Document, error) {
	if err := s.ready(ctx); err != nil {
		return ports.Document{}, err
	}
	return get(s.db.Txn(false), key)
}

// Begin opens a unit over a snapshot of the current state.
func (s *Store) Begin(ctx context.Context, policy durability.Policy) (ports.Unit, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if err := policy.SatisfiedBy(durability.Topology{Replicas: s.replicas}); err != nil {
		return nil, err
	}
	return &unit{
		store:  s,
		snap:   s.db.Txn(false),
		reads:  map[string]uint64{},
		writes: map[string]int{},
	}, nil
}

func (s *Store) newRecord(key string, body []byte) *record {
	return &record{
		Key:     key,
		Version: s.version.Add(1),
		Body:    append([]byte(nil), body...),
	}
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.checkOpen()
}

func (s *Store) checkOpen() error {
	if s.closed.Load() {
		return fmt.Errorf("memstore: %w: store closed", domain.ErrUnavailable)
	}
	return nil
}

func lookup(txn *memdb.Txn, key string) (*record, error) {
	raw, err := txn.First(tableDocuments, indexID, key)
	if err != nil {
		return nil, fmt.Errorf("memstore: reading %s: %w", key, err)
	}
	if raw == nil {
		return nil, nil
	}
	return raw.(*record), nil
}

func get(txn *memdb.Txn, key string) (ports.Document, error) {
	rec, err := lookup(txn, key)
	if err != nil {
		return ports.Document{}, err
	}
	if rec == nil {
		return ports.Document{}, fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}
	return ports.Document{
		Key:     rec.Key,
		Version: ports.Version(rec.Version),
		Body:    append([]byte(nil), rec.Body...),
	}, nil
}
