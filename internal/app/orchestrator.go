package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jsamuelsen11/followup-tx/internal/app/txctx"
	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/domain/tracking"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithClock replaces the time source used to stamp events.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// UpdateOption adjusts a single Update call.
type UpdateOption func(*updateOptions)

type updateOptions struct {
	forceRollback bool
}

// ForceRollback makes Update abort after both replaces are staged in the
// unit. The unit is rolled back and Update returns a domain abort.
func ForceRollback(enabled bool) UpdateOption {
	return func(o *updateOptions) {
		o.forceRollback = enabled
	}
}

// Orchestrator runs the transactional read-mutate-write of an entity and its
// activity log. It holds no locks; concurrent updates of the same entity are
// serialised by the store's conflict detection and the runner's retries.
type Orchestrator struct {
	runner ports.TxRunner
	now    func() time.Time
	logger *slog.Logger
}

// NewOrchestrator creates an Orchestrator that runs every update through runner.
func NewOrchestrator(runner ports.TxRunner, logger *slog.Logger, opts ...OrchestratorOption) *Orchestrator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o := &Orchestrator{
		runner: runner,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Update reads both documents of keys inside one unit, applies mutate, and
// writes both documents back: the entity first, then the activity log. The
// unit commits both replaces or neither.
//
// mutate may run more than once when the runner retries a transient
// conflict; each run sees freshly read documents and a fresh timestamp.
// Errors from mutate, from the invariant checks and from the store are
// returned after the unit is rolled back, and the stored documents are left
// unchanged.
func (o *Orchestrator) Update(
	ctx context.Context,
	keys tracking.Keys,
	mutate tracking.Mutation,
	opts ...UpdateOption,
) (tracking.Pair, error) {
	var uo updateOptions
	for _, opt := range opts {
		opt(&uo)
	}

	var result tracking.Pair
	err := o.runner.Run(ctx, func(ctx context.Context, unit ports.Unit) error {
		uc := txctx.New(ctx, unit)

		entity, err := txctx.GetDocument(uc, keys.Entity, tracking.DecodeEntity)
		if err != nil {
			return err
		}
		activities, err := txctx.GetDocument(uc, keys.Activities, tracking.DecodeActivityLog)
		if err != nil {
			return err
		}

		before := tracking.Pair{Entity: entity.Value, Activities: activities.Value}
		if before.Activities.EntityID != keys.Entity {
			return domain.Abort("activity log %s belongs to %q, not %q",
				keys.Activities, before.Activities.EntityID, keys.Entity)
		}

		after, err := mutate(o.now(), before)
		if err != nil {
			return err
		}
		if err := tracking.CheckTransition(keys, before, after); err != nil {
			return err
		}

		if err := txctx.StageReplace(uc, entity.Doc, after.Entity, tracking.EncodeEntity); err != nil {
			return err
		}
		if err := txctx.StageReplace(uc, activities.Doc, after.Activities, tracking.EncodeActivityLog); err != nil {
			return err
		}
		if err := uc.Commit(ctx); err != nil {
			return err
		}

		if uo.forceRollback {
			o.logger.WarnContext(ctx, "forcing rollback after staging",
				slog.String("entity_key", keys.Entity),
				slog.Int("staged", uc.Staged()),
			)
			return domain.Abort("forced rollback of %s", keys.Entity)
		}

		result = after
		return nil
	})
	if err != nil {
		return tracking.Pair{}, err
	}

	return result, nil
}
