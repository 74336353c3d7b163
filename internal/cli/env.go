package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jsamuelsen11/followup-tx/internal/adapters/store"
	"github.com/jsamuelsen11/followup-tx/internal/app"
	"github.com/jsamuelsen11/followup-tx/internal/domain/durability"
	"github.com/jsamuelsen11/followup-tx/internal/domain/tracking"
	"github.com/jsamuelsen11/followup-tx/internal/platform/config"
	"github.com/jsamuelsen11/followup-tx/internal/platform/logging"
	"github.com/jsamuelsen11/followup-tx/internal/platform/txn"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

var errNoKey = errors.New("no entity key: pass --key or set seed.entity_key")

// env is the wired stack a single command runs against.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	store  ports.DocumentStore
	svc    *app.FollowupService
	key    string
}

// openEnv loads the profile, opens the store and selects the durability
// policy. A policy the store cannot satisfy fails here, before any update.
// The returned context carries the configured logger for the unit runner.
func openEnv(ctx context.Context, flags *globalFlags, logOut io.Writer) (context.Context, *env, error) {
	cfg, err := config.Load(flags.profile, config.WithConfigDir(flags.configDir))
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	key := flags.key
	if key == "" {
		key = cfg.Seed.EntityKey
	}
	if key == "" {
		return nil, nil, errNoKey
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, logOut)
	ctx = logging.WithLogger(ctx, logger)

	docs, err := store.Open(ctx, &cfg.Store, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	policy, err := selectPolicy(ctx, &cfg.Transactions, docs)
	if err != nil {
		_ = docs.Close()
		return nil, nil, err
	}

	runner := txn.New(docs, policy, &cfg.Transactions, nil, logger)
	return ctx, &env{
		cfg:    cfg,
		logger: logger,
		store:  docs,
		svc:    app.NewFollowupService(docs, runner, logger),
		key:    key,
	}, nil
}

// selectPolicy matches the configured durability level to the store topology.
func selectPolicy(ctx context.Context, cfg *config.TransactionsConfig, docs ports.DocumentStore) (durability.Policy, error) {
	level, err := cfg.DurabilityLevel()
	if err != nil {
		return durability.Policy{}, err
	}
	topology, err := docs.Topology(ctx)
	if err != nil {
		return durability.Policy{}, fmt.Errorf("reading store topology: %w", err)
	}
	policy, err := durability.Select(level, topology)
	if err != nil {
		return durability.Policy{}, fmt.Errorf("selecting durability on %s: %w", docs.Name(), err)
	}
	return policy, nil
}

// seed returns the configured seed document contents.
func (e *env) seed() tracking.Seed {
	return tracking.Seed{Name: e.cfg.Seed.Name, Location: e.cfg.Seed.Location}
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		e.logger.Warn("closing store", slog.Any("error", err))
	}
}
