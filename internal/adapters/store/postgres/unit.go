package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/domain/durability"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

var errUnitDone = errors.New("postgres: unit already finished")

type write struct {
	key      string
	expected int64
	body     []byte
}

type unit struct {
	store  *Store
	policy durability.Policy

	// reads maps each key read to the version observed, 0 when absent.
	reads  map[string]int64
	writes map[string]int
	staged []write
	done   bool
}

func (u *unit) Get(ctx context.Context, key string) (ports.Document, error) {
	if err := u.check(ctx); err != nil {
		return ports.Document{}, err
	}

	if i, ok := u.writes[key]; ok {
		w := u.staged[i]
		return ports.Document{Key: key, Version: ports.Version(w.expected), Body: append([]byte(nil), w.body...)}, nil
	}

	doc, err := get(ctx, u.store.pool, key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		u.reads[key] = 0
		return ports.Document{}, err
	case err != nil:
		return ports.Document{}, err
	}
	u.reads[key] = int64(doc.Version)
	return doc, nil
}

func (u *unit) Replace(ctx context.Context, doc ports.Document, body []byte) error {
	if err := u.check(ctx); err != nil {
		return err
	}
	if doc.Version == 0 {
		return fmt.Errorf("postgres: replace %s: %w", doc.Key, domain.ErrNotFound)
	}

	buf := append([]byte(nil), body...)
	if i, ok := u.writes[doc.Key]; ok {
		u.staged[i].body = buf
		return nil
	}
	u.writes[doc.Key] = len(u.staged)
	u.staged = append(u.staged, write{key: doc.Key, expected: int64(doc.Version), body: buf})
	return nil
}

func (u *unit) Commit(ctx context.Context) error {
	if err := u.check(ctx); err != nil {
		return err
	}
	u.done = true

	if len(u.staged) == 0 {
		return nil
	}

	tx, err := u.store.pool.Begin(ctx)
	if err != nil {
		return mapError(err, "begin")
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if _, err := tx.Exec(ctx, querySyncCommit, syncCommit(u.policy.Level)); err != nil {
		return mapError(err, "synchronous_commit")
	}

	current, err := lockKeys(ctx, tx, u.touched())
	if err != nil {
		return err
	}
	for key, observed := range u.reads {
		if err := expectVersion(current, key, observed); err != nil {
			return err
		}
	}
	for _, w := range u.staged {
		if err := expectVersion(current, w.key, w.expected); err != nil {
			return err
		}
	}

	for _, w := range u.staged {
		tag, err := tx.Exec(ctx, queryReplace, w.key, w.expected, w.body)
		if err != nil {
			return mapError(err, w.key)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s changed during commit", domain.ErrTransientConflict, w.key)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "commit")
	}
	return nil
}

func (u *unit) Rollback(context.Context) error {
	u.done = true
	u.staged = nil
	return nil
}

func (u *unit) check(ctx context.Context) error {
	if u.done {
		return errUnitDone
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return u.store.ready()
}

// touched returns every key read or staged, sorted so concurrent commits
// lock rows in the same order.
func (u *unit) touched() []string {
	keys := make([]string, 0, len(u.reads)+len(u.staged))
	for key := range u.reads {
		keys = append(keys, key)
	}
	for _, w := range u.staged {
		if _, ok := u.reads[w.key]; !ok {
			keys = append(keys, w.key)
		}
	}
	slices.Sort(keys)
	return keys
}

func lockKeys(ctx context.Context, tx pgx.Tx, keys []string) (map[string]int64, error) {
	rows, err := tx.Query(ctx, queryLock, keys)
	if err != nil {
		return nil, mapError(err, "lock")
	}
	defer rows.Close()

	current := make(map[string]int64, len(keys))
	for rows.Next() {
		var (
			key     string
			version int64
		)
		if err := rows.Scan(&key, &version); err != nil {
			return nil, mapError(err, "lock")
		}
		current[key] = version
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "lock")
	}
	return current, nil
}

func expectVersion(current map[string]int64, key string, want int64) error {
	if got := current[key]; got != want {
		return fmt.Errorf("%w: %s changed (read version %d, now %d)", domain.ErrTransientConflict, key, want, got)
	}
	return nil
}
