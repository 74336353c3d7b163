package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/domain/tracking"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

// Compile-time check that FollowupService implements ports.FollowupService.
var _ ports.FollowupService = (*FollowupService)(nil)

// FollowupService implements ports.FollowupService on top of an Initializer
// and an Orchestrator. It validates input and logs every operation; the
// document rules live in the tracking package.
type FollowupService struct {
	store        ports.DocumentStore
	initializer  *Initializer
	orchestrator *Orchestrator
	logger       *slog.Logger
}

// NewFollowupService creates a FollowupService. Reads and bootstrap inserts
// go straight to store; updates run through runner.
func NewFollowupService(
	store ports.DocumentStore,
	runner ports.TxRunner,
	logger *slog.Logger,
	opts ...OrchestratorOption,
) *FollowupService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FollowupService{
		store:        store,
		initializer:  NewInitializer(store, logger),
		orchestrator: NewOrchestrator(runner, logger, opts...),
		logger:       logger,
	}
}

// Bootstrap ensures the entity and its activity log exist.
func (s *FollowupService) Bootstrap(ctx context.Context, key string, seed tracking.Seed) (bool, error) {
	s.logger.InfoContext(ctx, "bootstrapping entity", slog.String("entity_key", key))

	if err := tracking.ValidateKey(key); err != nil {
		return false, err
	}
	if err := seed.Validate(); err != nil {
		return false, err
	}

	created, err := s.initializer.Ensure(ctx, tracking.KeysFor(key), seed)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to bootstrap entity",
			slog.String("operation", "Bootstrap"),
			slog.String("entity_key", key),
			slog.Any("error", err),
		)
		return false, err
	}

	return created, nil
}

// RecordFollowup appends the request's events and increments the follow-up
// counter in one transactional unit.
func (s *FollowupService) RecordFollowup(ctx context.Context, req ports.FollowupRequest) (*tracking.Pair, error) {
	s.logger.InfoContext(ctx, "recording followup",
		slog.String("entity_key", req.Key),
		slog.Int("events", len(req.Events)),
		slog.Bool("force_rollback", req.ForceRollback),
	)

	if err := tracking.ValidateKey(req.Key); err != nil {
		return nil, err
	}
	if err := validateEvents(req.Events); err != nil {
		return nil, err
	}

	keys := tracking.KeysFor(req.Key)
	pair, err := s.orchestrator.Update(ctx, keys,
		tracking.RecordFollowup(req.Events...),
		ForceRollback(req.ForceRollback),
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to record followup",
			slog.String("operation", "RecordFollowup"),
			slog.String("entity_key", keys.Entity),
			slog.String("activities_key", keys.Activities),
			slog.Any("error", err),
		)
		return nil, err
	}

	return &pair, nil
}

// Get returns the latest committed entity and activity log.
func (s *FollowupService) Get(ctx context.Context, key string) (*tracking.Pair, error) {
	s.logger.InfoContext(ctx, "fetching entity", slog.String("entity_key", key))

	if err := tracking.ValidateKey(key); err != nil {
		return nil, err
	}

	keys := tracking.KeysFor(key)
	pair, err := s.read(ctx, keys)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch entity",
			slog.String("operation", "Get"),
			slog.String("entity_key", keys.Entity),
			slog.Any("error", err),
		)
		return nil, err
	}

	return pair, nil
}

func (s *FollowupService) read(ctx context.Context, keys tracking.Keys) (*tracking.Pair, error) {
	entityDoc, err := s.store.Get(ctx, keys.Entity)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", keys.Entity, err)
	}
	entity, err := tracking.DecodeEntity(entityDoc.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", keys.Entity, err)
	}

	activitiesDoc, err := s.store.Get(ctx, keys.Activities)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", keys.Activities, err)
	}
	activities, err := tracking.DecodeActivityLog(activitiesDoc.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", keys.Activities, err)
	}

	return &tracking.Pair{Entity: entity, Activities: activities}, nil
}

// validateEvents collects per-event validation failures into one error.
func validateEvents(events []tracking.EventInput) error {
	fields := map[string]string{}
	for i, ev := range events {
		if ev.Validate() != nil {
			fields[fmt.Sprintf("events[%d].type", i)] = domain.MsgRequired
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
