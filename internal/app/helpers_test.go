package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jsamuelsen11/followup-tx/internal/adapters/store/memstore"
	"github.com/jsamuelsen11/followup-tx/internal/domain/durability"
	"github.com/jsamuelsen11/followup-tx/internal/domain/tracking"
	"github.com/jsamuelsen11/followup-tx/internal/platform/config"
	"github.com/jsamuelsen11/followup-tx/internal/platform/txn"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

var confSeed = tracking.Seed{Name: "Team Offsite", Location: "Online"}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func fixedClock() time.Time { return testTime }

func testTransactions() *config.TransactionsConfig {
	return &config.TransactionsConfig{
		Durability: "none",
		Timeout:    5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     50,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			Multiplier:      2.0,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   100,
			Timeout:       time.Minute,
			HalfOpenLimit: 1,
		},
	}
}

func newMemStore(t *testing.T) *memstore.Store {
	t.Helper()
	store, err := memstore.New(0)
	if err != nil {
		t.Fatalf("memstore.New() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newRunner(store ports.DocumentStore) *txn.Runner {
	return txn.New(store, durability.Policy{}, testTransactions(), nil, discardLogger())
}

func newService(t *testing.T, store ports.DocumentStore) *FollowupService {
	t.Helper()
	return NewFollowupService(store, newRunner(store), discardLogger(), WithClock(fixedClock))
}

// snapshot returns the raw stored bodies of both documents.
func snapshot(t *testing.T, store ports.DocumentStore, keys tracking.Keys) (string, string) {
	t.Helper()
	entity, err := store.Get(context.Background(), keys.Entity)
	if err != nil {
		t.Fatalf("Get(%s) error = %v", keys.Entity, err)
	}
	activities, err := store.Get(context.Background(), keys.Activities)
	if err != nil {
		t.Fatalf("Get(%s) error = %v", keys.Activities, err)
	}
	return string(entity.Body), string(activities.Body)
}

func bootstrap(t *testing.T, store ports.DocumentStore, key string) tracking.Keys {
	t.Helper()
	keys := tracking.KeysFor(key)
	if _, err := NewInitializer(store, discardLogger()).Ensure(context.Background(), keys, confSeed); err != nil {
		t.Fatalf("Ensure(%s) error = %v", key, err)
	}
	return keys
}

var errInjected = errors.New("injected commit failure")

// faultyStore fails the commit of every unit that staged a replace while
// commitErr is set. Replacing the document keyed replaceFailKey fails with
// replaceErr.
type faultyStore struct {
	ports.DocumentStore

	replaceFailKey string
	replaceErr     error

	mu        sync.Mutex
	commitErr error
	commits   int
}

func (s *faultyStore) Begin(ctx context.Context, policy durability.Policy) (ports.Unit, error) {
	u, err := s.DocumentStore.Begin(ctx, policy)
	if err != nil {
		return nil, err
	}
	return &faultyUnit{Unit: u, store: s}, nil
}

func (s *faultyStore) attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

type faultyUnit struct {
	ports.Unit
	store    *faultyStore
	replaces int
}

func (u *faultyUnit) Replace(ctx context.Context, doc ports.Document, body []byte) error {
	if u.store.replaceErr != nil && doc.Key == u.store.replaceFailKey {
		return u.store.replaceErr
	}
	u.replaces++
	return u.Unit.Replace(ctx, doc, body)
}

func (u *faultyUnit) Commit(ctx context.Context) error {
	u.store.mu.Lock()
	u.store.commits++
	err := u.store.commitErr
	u.store.mu.Unlock()

	if err != nil && u.replaces > 0 {
		return err
	}
	return u.Unit.Commit(ctx)
}
