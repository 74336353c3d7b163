package boltstore

import (
	"context"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

var errUnitDone = errors.New("boltstore: unit already finished")

type write struct {
	key      string
	expected uint64
	body     []byte
}

type unit struct {
	store  *Store
	reads  map[string]uint64
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

	var doc ports.Document
	err := u.store.db.View(func(tx *bbolt.Tx) error {
		var err error
		doc, err = read(tx, key)
		return err
	})
	switch {
	case errors.Is(err, domain.ErrNotFound):
		u.reads[key] = 0
		return ports.Document{}, err
	case err != nil:
		return ports.Document{}, u.store.mapError(err)
	}

	u.reads[key] = uint64(doc.Version)
	return doc, nil
}

func (u *unit) Replace(ctx context.Context, doc ports.Document, body []byte) error {
	if err := u.check(ctx); err != nil {
		return err
	}
	if doc.Version == 0 {
		return fmt.Errorf("boltstore: replace %s: %w", doc.Key, domain.ErrNotFound)
	}

	buf := append([]byte(nil), body...)
	if i, ok := u.writes[doc.Key]; ok {
		u.staged[i].body = buf
		return nil
	}
	u.writes[doc.Key] = len(u.staged)
	u.staged = append(u.staged, write{key: doc.Key, expected: uint64(doc.Version), body: buf})
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

	err := u.store.db.Update(func(tx *bbolt.Tx) error {
		for key, observed := range u.reads {
			if err := expectVersion(tx, key, observed); err != nil {
				return err
			}
		}
		for _, w := range u.staged {
			if err := expectVersion(tx, w.key, w.expected); err != nil {
				return err
			}
		}

		b := tx.Bucket([]byte(documentsBucket))
		for _, w := range u.staged {
			if err := put(b, w.key, w.body); err != nil {
				return err
			}
		}
		return nil
	})
	return u.store.mapError(err)
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
	return u.store.ready(ctx)
}

func expectVersion(tx *bbolt.Tx, key string, want uint64) error {
	got, err := version(tx, key)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: %s changed (read version %d, now %d)", domain.ErrTransientConflict, key, want, got)
	}
	return nil
}
