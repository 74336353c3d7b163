package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/domain/tracking"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

// Initializer creates the initial entity and activity-log documents.
//
// The existence checks and inserts run outside any unit, so they are not
// atomic with each other. Two initializers racing on the same key can both
// pass the checks; the loser's insert then fails and is reported as
// domain.ErrInitializationRace rather than recovered.
type Initializer struct {
	store  ports.DocumentStore
	logger *slog.Logger
}

// NewInitializer creates an Initializer over store.
func NewInitializer(store ports.DocumentStore, logger *slog.Logger) *Initializer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Initializer{store: store, logger: logger}
}

// Ensure makes sure both documents for keys exist. It reports whether this
// call inserted them. If either document is already present nothing is
// written.
func (i *Initializer) Ensure(ctx context.Context, keys tracking.Keys, seed tracking.Seed) (bool, error) {
	exists, err := i.store.Exists(ctx, keys.Entity)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", keys.Entity, err)
	}
	if exists {
		return false, nil
	}

	exists, err = i.store.Exists(ctx, keys.Activities)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", keys.Activities, err)
	}
	if exists {
		return false, nil
	}

	entity, err := tracking.EncodeEntity(tracking.NewEntity(seed))
	if err != nil {
		return false, fmt.Errorf("encoding %s: %w", keys.Entity, err)
	}
	activities, err := tracking.EncodeActivityLog(tracking.NewActivityLog(keys.Entity))
	if err != nil {
		return false, fmt.Errorf("encoding %s: %w", keys.Activities, err)
	}

	if err := i.insert(ctx, keys.Entity, entity); err != nil {
		return false, err
	}
	if err := i.insert(ctx, keys.Activities, activities); err != nil {
		return false, err
	}

	i.logger.InfoContext(ctx, "bootstrapped entity",
		slog.String("entity_key", keys.Entity),
		slog.String("activities_key", keys.Activities),
	)
	return true, nil
}

func (i *Initializer) insert(ctx context.Context, key string, body []byte) error {
	err := i.store.Insert(ctx, key, body)
	if errors.Is(err, domain.ErrAlreadyExists) {
		return fmt.Errorf("%w: inserting %s: %w", domain.ErrInitializationRace, key, err)
	}
	if err != nil {
		return fmt.Errorf("inserting %s: %w", key, err)
	}
	return nil
}
