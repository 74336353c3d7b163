package memstore

import (
	"context"
	"errors"
	"fmt"

	memdb "github.com/hashicorp/go-memdb"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

var errUnitDone = errors.New("memstore: unit already finished")

type write struct {
	key      string
	expected uint64
	body     []byte
}

// unit is a snapshot-isolated unit with commit-time validation of every
// document it read or replaced.
type unit struct {
	store *Store
	snap  *memdb.Txn

	// reads maps each key read to the version observed, 0 when absent.
	reads map[string]uint64
	// writes maps a key to its index in staged.
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
		return ports.Document{
			Key:     key,
			Version: ports.Version(w.expected),
			Body:    append([]byte(nil), w.body...),
		}, nil
	}

	doc, err := get(u.snap, key)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		u.reads[key] = 0
		return ports.Document{}, err
	case err != nil:
		return ports.Document{}, err
	}
	u.reads[key] = uint64(doc.Version)
	return doc, nil
}

func (u *unit) Replace(ctx context.Context, doc ports.Document, body []byte) error {
	if err := u.check(ctx); err != nil {
		return err
	}
	if doc.Version == 0 {
		return fmt.Errorf("memstore: replace %s: %w", doc.Key, domain.ErrNotFound)
	}

	w := write{key: doc.Key, expected: uint64(doc.Version), body: append([]byte(nil), body...)}
	if i, ok := u.writes[doc.Key]; ok {
		u.staged[i].body = w.body
		return nil
	}
	u.writes[doc.Key] = len(u.staged)
	u.staged = append(u.staged, w)
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

	txn := u.store.db.Txn(true)
	defer txn.Abort()

	for key, observed := range u.reads {
		if err := expectVersion(txn, key, observed); err != nil {
			return err
		}
	}
	for _, w := range u.staged {
		if err := expectVersion(txn, w.key, w.expected); err != nil {
			return err
		}
	}

	for _, w := range u.staged {
		if err := txn.Insert(tableDocuments, u.store.newRecord(w.key, w.body)); err != nil {
			return fmt.Errorf("memstore: writing %s: %w", w.key, err)
		}
	}

	txn.Commit()
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
	return u.store.checkOpen()
}

func expectVersion(txn *memdb.Txn, key string, want uint64) error {
	rec, err := lookup(txn, key)
	if err != nil {
		return err
	}
	var got uint64
	if rec != nil {
		got = rec.Version
	}
	if got != want {
		return fmt.Errorf("%w: %s changed (read version %d, now %d)", domain.ErrTransientConflict, key, want, got)
	}
	return nil
}
