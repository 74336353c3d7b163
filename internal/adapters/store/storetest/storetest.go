// Package storetest is a conformance suite for ports.DocumentStore
// implementations. Each adapter runs it from its own tests:
//
//	func TestConformance(t *testing.T) {
//	    storetest.Run(t, func(t *testing.T) ports.DocumentStore { ... })
//	}
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/domain/durability"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

// Factory returns an empty store. The suite closes it when the subtest ends.
type Factory func(t *testing.T) ports.DocumentStore

// Run executes every conformance check against stores built by open.
func Run(t *testing.T, open Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s ports.DocumentStore)
	}{
		{"InsertAndGet", testInsertAndGet},
		{"InsertExisting", testInsertExisting},
		{"ExistsAndGetMissing", testMissing},
		{"CommitAppliesAllReplaces", testCommitAppliesAll},
		{"RollbackDiscards", testRollbackDiscards},
		{"VersionAdvancesOnCommit", testVersionAdvances},
		{"ConflictingReplace", testConflictingReplace},
		{"ConflictOnReadOnlyKey", testConflictOnReadOnlyKey},
		{"FailedCommitWritesNothing", testFailedCommitWritesNothing},
		{"UnitIsSingleUse", testSingleUse},
		{"ConcurrentUnitsSerialise", testConcurrentUnits},
		{"DurabilityCheckedAtBegin", testDurabilityAtBegin},
		{"HealthCheck", testHealthCheck},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

func insert(t *testing.T, s ports.DocumentStore, key, body string) {
	t.Helper()
	require.NoError(t, s.Insert(context.Background(), key, []byte(body)))
}

func body(t *testing.T, s ports.DocumentStore, key string) string {
	t.Helper()
	doc, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	return string(doc.Body)
}

func begin(t *testing.T, s ports.DocumentStore) ports.Unit {
	t.Helper()
	u, err := s.Begin(context.Background(), durability.Policy{})
	require.NoError(t, err)
	return u
}

func testInsertAndGet(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	insert(t, s, "confA", `{"kind":"entity","name":"Team Offsite"}`)

	ok, err := s.Exists(ctx, "confA")
	require.NoError(t, err)
	require.True(t, ok)

	doc, err := s.Get(ctx, "confA")
	require.NoError(t, err)
	require.Equal(t, "confA", doc.Key)
	require.NotZero(t, doc.Version)
	require.JSONEq(t, `{"kind":"entity","name":"Team Offsite"}`, string(doc.Body))
}

func testInsertExisting(t *testing.T, s ports.DocumentStore) {
	insert(t, s, "confA", `{"v":1}`)

	err := s.Insert(context.Background(), "confA", []byte(`{"v":2}`))
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	require.JSONEq(t, `{"v":1}`, body(t, s, "confA"))
}

func testMissing(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()

	ok, err := s.Exists(ctx, "nope")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = s.Get(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)

	u := begin(t, s)
	defer func() { _ = u.Rollback(ctx) }()
	_, err = u.Get(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func testCommitAppliesAll(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	insert(t, s, "a", `{"n":1}`)
	insert(t, s, "b", `{"n":1}`)

	u := begin(t, s)
	da, err := u.Get(ctx, "a")
	require.NoError(t, err)
	db, err := u.Get(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, u.Replace(ctx, da, []byte(`{"n":2}`)))
	require.NoError(t, u.Replace(ctx, db, []byte(`{"n":3}`)))

	// Staged replaces are invisible until commit.
	require.JSONEq(t, `{"n":1}`, body(t, s, "a"))

	require.NoError(t, u.Commit(ctx))
	require.JSONEq(t, `{"n":2}`, body(t, s, "a"))
	require.JSONEq(t, `{"n":3}`, body(t, s, "b"))
}

func testRollbackDiscards(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	insert(t, s, "a", `{"n":1}`)

	u := begin(t, s)
	d, err := u.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, u.Replace(ctx, d, []byte(`{"n":2}`)))
	require.NoError(t, u.Rollback(ctx))
	require.NoError(t, u.Rollback(ctx), "second rollback must be a no-op")

	require.JSONEq(t, `{"n":1}`, body(t, s, "a"))
}

func testVersionAdvances(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	insert(t, s, "a", `{"n":1}`)
	before, err := s.Get(ctx, "a")
	require.NoError(t, err)

	u := begin(t, s)
	d, err := u.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, before.Version, d.Version)
	require.NoError(t, u.Replace(ctx, d, []byte(`{"n":2}`)))
	require.NoError(t, u.Commit(ctx))

	after, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.NotEqual(t, before.Version, after.Version)
}

func testConflictingReplace(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	insert(t, s, "a", `{"n":1}`)

	first := begin(t, s)
	second := begin(t, s)

	d1, err := first.Get(ctx, "a")
	require.NoError(t, err)
	d2, err := second.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, first.Replace(ctx, d1, []byte(`{"n":2}`)))
	require.NoError(t, first.Commit(ctx))

	err = second.Replace(ctx, d2, []byte(`{"n":99}`))
	if err == nil {
		err = second.Commit(ctx)
	}
	require.ErrorIs(t, err, domain.ErrTransientConflict)
	_ = second.Rollback(ctx)

	require.JSONEq(t, `{"n":2}`, body(t, s, "a"))
}

func testConflictOnReadOnlyKey(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	insert(t, s, "a", `{"n":1}`)
	insert(t, s, "b", `{"n":1}`)

	u := begin(t, s)
	da, err := u.Get(ctx, "a")
	require.NoError(t, err)
	_, err = u.Get(ctx, "b")
	require.NoError(t, err)

	other := begin(t, s)
	ob, err := other.Get(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, other.Replace(ctx, ob, []byte(`{"n":2}`)))
	require.NoError(t, other.Commit(ctx))

	err = u.Replace(ctx, da, []byte(`{"n":5}`))
	if err == nil {
		err = u.Commit(ctx)
	}
	require.ErrorIs(t, err, domain.ErrTransientConflict)
	_ = u.Rollback(ctx)

	require.JSONEq(t, `{"n":1}`, body(t, s, "a"))
}

func testFailedCommitWritesNothing(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	insert(t, s, "a", `{"n":1}`)
	insert(t, s, "b", `{"n":1}`)

	u := begin(t, s)
	da, err := u.Get(ctx, "a")
	require.NoError(t, err)
	db, err := u.Get(ctx, "b")
	require.NoError(t, err)

	// Move b underneath the unit so its commit must fail as a whole.
	other := begin(t, s)
	ob, err := other.Get(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, other.Replace(ctx, ob, []byte(`{"n":7}`)))
	require.NoError(t, other.Commit(ctx))

	err = u.Replace(ctx, da, []byte(`{"n":2}`))
	if err == nil {
		err = u.Replace(ctx, db, []byte(`{"n":2}`))
	}
	if err == nil {
		err = u.Commit(ctx)
	}
	require.ErrorIs(t, err, domain.ErrTransientConflict)
	_ = u.Rollback(ctx)

	require.JSONEq(t, `{"n":1}`, body(t, s, "a"), "a must not be written when the unit fails")
	require.JSONEq(t, `{"n":7}`, body(t, s, "b"))
}

func testSingleUse(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	insert(t, s, "a", `{"n":1}`)

	u := begin(t, s)
	_, err := u.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, u.Commit(ctx))

	require.Error(t, u.Commit(ctx), "second commit must fail")
	_, err = u.Get(ctx, "a")
	require.Error(t, err, "get after commit must fail")
	require.NoError(t, u.Rollback(ctx), "rollback after commit must be a no-op")
}

// testConcurrentUnits increments a counter from several goroutines, retrying
// on conflict, and checks that no increment is lost.
func testConcurrentUnits(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()
	insert(t, s, "counter", "0")

	const workers = 4
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- incrementWithRetry(ctx, s, "counter")
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.JSONEq(t, fmt.Sprint(workers), body(t, s, "counter"))
}

func incrementWithRetry(ctx context.Context, s ports.DocumentStore, key string) error {
	for range 100 {
		err := increment(ctx, s, key)
		if !errors.Is(err, domain.ErrTransientConflict) {
			return err
		}
	}
	return errors.New("too many conflicts")
}

func increment(ctx context.Context, s ports.DocumentStore, key string) error {
	u, err := s.Begin(ctx, durability.Policy{})
	if err != nil {
		return err
	}
	defer func() { _ = u.Rollback(ctx) }()

	d, err := u.Get(ctx, key)
	if err != nil {
		return err
	}
	var n int
	if _, err := fmt.Sscan(string(d.Body), &n); err != nil {
		return err
	}
	if err := u.Replace(ctx, d, []byte(fmt.Sprint(n+1))); err != nil {
		return err
	}
	return u.Commit(ctx)
}

func testDurabilityAtBegin(t *testing.T, s ports.DocumentStore) {
	ctx := context.Background()

	topo, err := s.Topology(ctx)
	require.NoError(t, err)

	u, err := s.Begin(ctx, durability.Policy{Level: durability.Majority})
	if topo.Replicas == 0 {
		require.ErrorIs(t, err, domain.ErrDurabilityUnsatisfiable)
		return
	}
	require.NoError(t, err)
	require.NoError(t, u.Rollback(ctx))
}

func testHealthCheck(t *testing.T, s ports.DocumentStore) {
	require.NotEmpty(t, s.Name())
	require.NoError(t, s.HealthCheck(context.Background()))
}
