// Package boltstore implements ports.DocumentStore on an embedded bbolt file.
//
// Each value is an 8-byte big-endian version followed by the JSON body.
// Versions come from the bucket sequence, so they increase across restarts.
// Reads inside a unit use short read-only transactions and record the
// version they saw; Commit re-checks every recorded version and writes all
// staged replaces inside one read-write transaction, which bbolt fsyncs
// before returning. A single file has no replicas, so only the "none"
// durability level can be satisfied.
package boltstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/domain/durability"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

const documentsBucket = "documents"

// Name is the health checker name reported by the bolt store.
const Name = "store:bolt"

const versionSize = 8

// Compile-time interface check.
var _ ports.DocumentStore = (*Store)(nil)

var errBucketMissing = errors.New("boltstore: documents bucket is missing")

// Store is a bbolt-backed document store.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the database file at path. timeout bounds
// the wait for the file lock held by another process.
func Open(path string, timeout time.Duration) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("boltstore: path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Name returns the health checker identifier.
func (s *Store) Name() string {
	return Name
}

// HealthCheck runs a read-only transaction against the file.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(documentsBucket)) == nil {
			return errBucketMissing
		}
		return nil
	})
}

// Close closes the underlying file.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Topology reports a single node.
func (s *Store) Topology(context.Context) (durability.Topology, error) {
	return durability.Topology{Replicas: 0}, nil
}

// Exists reports whether key is stored.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(documentsBucket))
		if b == nil {
			return errBucketMissing
		}
		found = b.Get([]byte(key)) != nil
		return nil
	})
	return found, s.mapError(err)
}

// Insert stores a new document. Returns domain.ErrAlreadyExists if key is taken.
func (s *Store) Insert(ctx context.Context, key string, body []byte) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(documentsBucket))
		if b == nil {
			return errBucketMissing
		}
		if b.Get([]byte(key)) != nil {
			return fmt.Errorf("%s: %w", key, domain.ErrAlreadyExists)
		}
		return put(b, key, body)
	})
	return s.mapError(err)
}

// Get reads the latest committed document.
func (s *Store) Get(ctx context.Context, key string) (ports.Document, error) {
	if err := s.ready(ctx); err != nil {
		return ports.Document{}, err
	}
	var doc ports.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		doc, err = read(tx, key)
		return err
	})
	return doc, s.mapError(err)
}

// Begin opens a unit. Policies needing replicas are rejected.
func (s *Store) Begin(ctx context.Context, policy durability.Policy) (ports.Unit, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	if err := policy.SatisfiedBy(durability.Topology{}); err != nil {
		return nil, err
	}
	return &unit{store: s, reads: map[string]uint64{}, writes: map[string]int{}}, nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("boltstore: %w: storage is not configured", domain.ErrUnavailable)
	}
	return nil
}

// mapError turns bbolt lifecycle errors into domain sentinels.
func (s *Store) mapError(err error) error {
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return fmt.Errorf("boltstore: %w: %w", domain.ErrUnavailable, err)
	}
	return err
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(documentsBucket)); err != nil {
			return fmt.Errorf("boltstore: create documents bucket: %w", err)
		}
		return nil
	})
}

// put writes body under key with the next bucket sequence as its version.
func put(b *bbolt.Bucket, key string, body []byte) error {
	seq, err := b.NextSequence()
	if err != nil {
		return fmt.Errorf("boltstore: next version for %s: %w", key, err)
	}
	return b.Put([]byte(key), encodeValue(seq, body))
}

// read decodes key inside tx, copying the body out of the mmap.
func read(tx *bbolt.Tx, key string) (ports.Document, error) {
	b := tx.Bucket([]byte(documentsBucket))
	if b == nil {
		return ports.Document{}, errBucketMissing
	}
	raw := b.Get([]byte(key))
	if raw == nil {
		return ports.Document{}, fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}
	version, body, err := decodeValue(raw)
	if err != nil {
		return ports.Document{}, fmt.Errorf("boltstore: %s: %w", key, err)
	}
	return ports.Document{Key: key, Version: ports.Version(version), Body: body}, nil
}

// version returns the stored version of key inside tx, 0 when absent.
func version(tx *bbolt.Tx, key string) (uint64, error) {
	b := tx.Bucket([]byte(documentsBucket))
	if b == nil {
		return 0, errBucketMissing
	}
	raw := b.Get([]byte(key))
	if raw == nil {
		return 0, nil
	}
	v, _, err := decodeValue(raw)
	return v, err
}

func encodeValue(version uint64, body []byte) []byte {
	out := make([]byte, versionSize+len(body))
	binary.BigEndian.PutUint64(out, version)
	copy(out[versionSize:], body)
	return out
}

func decodeValue(raw []byte) (uint64, []byte, error) {
	if len(raw) < versionSize {
		return 0, nil, fmt.Errorf("corrupt value of %d bytes", len(raw))
	}
	body := make([]byte, len(raw)-versionSize)
	copy(body, raw[versionSize:])
	return binary.BigEndian.Uint64(raw[:versionSize]), body, nil
}
