// Package postgres implements ports.DocumentStore on PostgreSQL.
//
// Documents live in one table keyed by document key. Every write takes its
// version from a shared sequence. A unit reads with plain queries and
// records the version it saw; Commit opens a transaction, locks every key
// the unit touched in key order, re-checks the recorded versions and issues
// version-guarded updates. The durability level maps onto
// synchronous_commit for that transaction.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/domain/durability"
	"github.com/jsamuelsen11/followup-tx/internal/platform/config"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

// Name is the health checker name reported by the Postgres store.
const Name = "store:postgres"

// Compile-time interface check.
var _ ports.DocumentStore = (*Store)(nil)

const (
	queryInsert = `INSERT INTO documents (key, version, body)
VALUES ($1, nextval('document_versions'), $2)`
	queryGet     = `SELECT version, body FROM documents WHERE key = $1`
	queryExists  = `SELECT EXISTS (SELECT 1 FROM documents WHERE key = $1)`
	queryLock    = `SELECT key, version FROM documents WHERE key = ANY($1) ORDER BY key FOR UPDATE`
	queryReplace = `UPDATE documents
SET version = nextval('document_versions'), body = $3, updated_at = now()
WHERE key = $1 AND version = $2`
	querySyncCommit = `SELECT set_config('synchronous_commit', $1, true)`
	queryReplicas   = `SELECT count(*) FROM pg_stat_replication WHERE sync_state IN ('sync', 'quorum')`
)

// Store is a PostgreSQL-backed document store.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an existing pool. The caller owns migrations.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Open connects using cfg and applies migrations when cfg.Migrate is set.
func Open(ctx context.Context, cfg config.PostgresConfig) (*Store, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Migrate {
		if err := Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return New(pool), nil
}

// Name returns the health checker identifier.
func (s *Store) Name() string {
	return Name
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: ping: %w", domain.ErrUnavailable, err)
	}
	return nil
}

// Close closes the pool.
func (s *Store) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Topology counts standbys that acknowledge commits synchronously.
func (s *Store) Topology(ctx context.Context) (durability.Topology, error) {
	if err := s.ready(); err != nil {
		return durability.Topology{}, err
	}
	var n int
	if err := s.pool.QueryRow(ctx, queryReplicas).Scan(&n); err != nil {
		return durability.Topology{}, mapError(err, "pg_stat_replication")
	}
	return durability.Topology{Replicas: n}, nil
}

// Exists reports whether key is stored.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	var found bool
	if err := s.pool.QueryRow(ctx, queryExists, key).Scan(&found); err != nil {
		return false, mapError(err, key)
	}
	return found, nil
}

// Insert stores a new document. Returns domain.ErrAlreadyExists if key is taken.
func (s *Store) Insert(ctx context.Context, key string, body []byte) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, queryInsert, key, body); err != nil {
		return mapError(err, key)
	}
	return nil
}

// Get reads the latest committed document.
func (s *Store) Get(ctx context.Context, key string) (ports.Document, error) {
	if err := s.ready(); err != nil {
		return ports.Document{}, err
	}
	return get(ctx, s.pool, key)
}

// Begin checks policy against the live replication state and opens a unit.
func (s *Store) Begin(ctx context.Context, policy durability.Policy) (ports.Unit, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if policy.Level.Replicated() {
		topology, err := s.Topology(ctx)
		if err != nil {
			return nil, err
		}
		if err := policy.SatisfiedBy(topology); err != nil {
			return nil, err
		}
	}
	return &unit{store: s, policy: policy, reads: map[string]int64{}, writes: map[string]int{}}, nil
}

func (s *Store) ready() error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("postgres: %w: storage is not configured", domain.ErrUnavailable)
	}
	return nil
}

func get(ctx context.Context, pool *pgxpool.Pool, key string) (ports.Document, error) {
	var (
		version int64
		body    []byte
	)
	if err := pool.QueryRow(ctx, queryGet, key).Scan(&version, &body); err != nil {
		return ports.Document{}, mapError(err, key)
	}
	return ports.Document{Key: key, Version: ports.Version(version), Body: body}, nil
}

// syncCommit maps a durability level to a synchronous_commit setting.
func syncCommit(level durability.Level) string {
	switch level {
	case durability.Majority:
		return "remote_write"
	case durability.MajorityAndPersistToActive:
		return "on"
	case durability.PersistToMajority:
		return "remote_apply"
	default:
		return "off"
	}
}
