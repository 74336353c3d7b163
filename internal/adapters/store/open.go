// Package store selects the configured ports.DocumentStore implementation.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/followup-tx/internal/adapters/store/boltstore"
	"github.com/jsamuelsen11/followup-tx/internal/adapters/store/memstore"
	"github.com/jsamuelsen11/followup-tx/internal/adapters/store/postgres"
	"github.com/jsamuelsen11/followup-tx/internal/platform/config"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

// Open builds the store named by cfg.Driver.
func Open(ctx context.Context, cfg *config.StoreConfig, logger *slog.Logger) (ports.DocumentStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch cfg.Driver {
	case config.DriverMemory:
		logger.InfoContext(ctx, "opening store", slog.String("driver", cfg.Driver),
			slog.Int("replicas", cfg.Memory.Replicas))
		return opened(memstore.New(cfg.Memory.Replicas))

	case config.DriverBolt:
		logger.InfoContext(ctx, "opening store", slog.String("driver", cfg.Driver),
			slog.String("path", cfg.Bolt.Path))
		return opened(boltstore.Open(cfg.Bolt.Path, cfg.Bolt.OpenTimeout))

	case config.DriverPostgres:
		logger.InfoContext(ctx, "opening store", slog.String("driver", cfg.Driver),
			slog.Bool("migrate", cfg.Postgres.Migrate))
		return opened(postgres.Open(ctx, cfg.Postgres))

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// opened keeps a failed constructor from returning a typed nil interface.
func opened[S ports.DocumentStore](s S, err error) (ports.DocumentStore, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
