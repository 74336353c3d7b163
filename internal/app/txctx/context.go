// Package txctx provides the per-attempt context used by orchestration code
// running inside a transactional unit.
//
// UnitContext wraps a ports.Unit with memoised reads and staged writes. A new
// UnitContext is created for every attempt of a transaction runner and must
// not outlive it: after a transient conflict the runner starts over with a
// fresh unit, and the cached reads of the failed attempt are discarded with
// it.
//
//	err := runner.Run(ctx, func(ctx context.Context, unit ports.Unit) error {
//	    uc := txctx.New(ctx, unit)
//
//	    // Stage 1: read with memoisation
//	    entity, err := txctx.GetDocument(uc, "confA", tracking.DecodeEntity)
//
//	    // Stage 2: stage replaces
//	    err = txctx.StageReplace(uc, entity.Doc, updated, tracking.EncodeEntity)
//
//	    // Stage 3: flush staged replaces into the unit, in order
//	    return uc.Commit(ctx)
//	})
package txctx

import (
	"context"
	"errors"
	"fmt"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

// Compile-time check that UnitContext implements domain.WriteStager.
var _ domain.WriteStager = (*UnitContext)(nil)

// ErrAlreadyCommitted is returned when Stage or Commit is called on a
// UnitContext that has already been committed.
var ErrAlreadyCommitted = errors.New("txctx: unit context already committed")

// ErrNilAction is returned when a nil Action is passed to Stage.
var ErrNilAction = errors.New("txctx: nil action")

// ErrTypeMismatch is returned by GetOrFetch when a cached value's type does
// not match the requested type T. This indicates a programming error where
// the same cache key is used with different types.
var ErrTypeMismatch = errors.New("txctx: cached value type mismatch")

// UnitContext is an attempt-scoped context wrapper over a ports.Unit. It
// embeds context.Context and adds memoisation via GetOrFetch and ordered
// staged writes via Stage and Commit.
//
// It is NOT safe for concurrent use from multiple goroutines.
type UnitContext struct {
	context.Context
	unit      ports.Unit
	cache     map[string]cacheEntry
	items     []domain.Action
	committed bool
}

// cacheEntry stores the result of a GetOrFetch call, including any error.
type cacheEntry struct {
	value any
	err   error
}

// New creates a UnitContext over unit. The returned UnitContext has an empty
// cache and no staged actions.
func New(ctx context.Context, unit ports.Unit) *UnitContext {
	return &UnitContext{
		Context: ctx,
		unit:    unit,
		cache:   make(map[string]cacheEntry),
	}
}

// Unit returns the transactional unit the context stages into.
func (uc *UnitContext) Unit() ports.Unit {
	return uc.unit
}

// GetOrFetch returns a cached value for the given key, or calls fetchFn to
// fetch and cache it. Both successful results and errors are cached so a
// document is read from the unit at most once per attempt.
//
// The same key must always be used with the same type T. If a cached value
// exists but its type does not match T, GetOrFetch returns ErrTypeMismatch.
func GetOrFetch[T any](uc *UnitContext, key string, fetchFn func(ctx context.Context) (T, error)) (T, error) {
	if entry, ok := uc.cache[key]; ok {
		if entry.err != nil {
			var zero T
			return zero, entry.err
		}
		v, ok := entry.value.(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("%w: key %q holds %T, requested %T", ErrTypeMismatch, key, entry.value, zero)
		}
		return v, nil
	}

	val, err := fetchFn(uc.Context)
	uc.cache[key] = cacheEntry{value: val, err: err}
	return val, err
}

// DataProvider binds a cache key and fetch function together so callers can
// read a document without repeating the key and decoder.
type DataProvider[T any] struct {
	key     string
	fetchFn func(ctx context.Context) (T, error)
}

// NewDataProvider creates a DataProvider with the given cache key and fetch
// function.
func NewDataProvider[T any](key string, fetchFn func(ctx context.Context) (T, error)) *DataProvider[T] {
	return &DataProvider[T]{key: key, fetchFn: fetchFn}
}

// Get returns the cached value or fetches it using the provider's fetch
// function.
func (p *DataProvider[T]) Get(uc *UnitContext) (T, error) {
	return GetOrFetch(uc, p.key, p.fetchFn)
}

// Stage updates the in-memory cache for the given key with the provided
// entity and queues the action for execution during Commit. Subsequent
// GetOrFetch calls for the same key return the staged entity rather than
// re-reading the unit.
//
// Returns ErrNilAction if action is nil, or ErrAlreadyCommitted if the
// UnitContext has already been committed.
func (uc *UnitContext) Stage(key string, entity any, action domain.Action) error {
	if action == nil {
		return ErrNilAction
	}
	if uc.committed {
		return ErrAlreadyCommitted
	}
	uc.cache[key] = cacheEntry{value: entity, err: nil}
	uc.items = append(uc.items, action)
	return nil
}

// Staged returns the number of queued actions.
func (uc *UnitContext) Staged() int {
	return len(uc.items)
}
