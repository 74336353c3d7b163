// Package main is the entry point for the follow-up service. It wires all
// dependencies using samber/do v2, bootstraps the seed entity, starts the
// HTTP server, and handles graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/followup-tx/internal/adapters/http"
	"github.com/jsamuelsen11/followup-tx/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/followup-tx/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/followup-tx/internal/adapters/store"

	"github.com/jsamuelsen11/followup-tx/internal/app"
	"github.com/jsamuelsen11/followup-tx/internal/domain/durability"
	"github.com/jsamuelsen11/followup-tx/internal/domain/tracking"
	"github.com/jsamuelsen11/followup-tx/internal/platform/config"
	"github.com/jsamuelsen11/followup-tx/internal/platform/health"
	"github.com/jsamuelsen11/followup-tx/internal/platform/logging"
	"github.com/jsamuelsen11/followup-tx/internal/platform/telemetry"
	"github.com/jsamuelsen11/followup-tx/internal/platform/txn"
	"github.com/jsamuelsen11/followup-tx/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer flushTelemetry(otel, logger)

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(ctx, injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph). Opening the store and
	// selecting the durability policy happen here, so an unsatisfiable
	// durability level stops the process before it listens.
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	docs := do.MustInvoke[ports.DocumentStore](injector)
	defer func() {
		if err := docs.Close(); err != nil {
			logger.Error("store close error", slog.Any("error", err))
		}
	}()

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(docs)
	registry.Register(do.MustInvoke[*txn.Runner](injector))

	if err := seedEntity(ctx, cfg, do.MustInvoke[ports.FollowupService](injector), logger); err != nil {
		return err
	}

	if err := server.Run(ctx, serverShutdownTimeout); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}

// seedEntity bootstraps the configured entity so the API has something to
// update out of the box. A no-op when seed.entity_key is empty.
func seedEntity(ctx context.Context, cfg *config.Config, svc ports.FollowupService, logger *slog.Logger) error {
	if cfg.Seed.EntityKey == "" {
		return nil
	}
	created, err := svc.Bootstrap(ctx, cfg.Seed.EntityKey, tracking.Seed{
		Name:     cfg.Seed.Name,
		Location: cfg.Seed.Location,
	})
	if err != nil {
		return fmt.Errorf("seeding %s: %w", cfg.Seed.EntityKey, err)
	}
	logger.Info("seed entity ready",
		slog.String("entity_key", cfg.Seed.EntityKey),
		slog.Bool("created", created),
	)
	return nil
}

// flushTelemetry shuts the OpenTelemetry providers down with a fresh deadline.
func flushTelemetry(otel *otelProviders, logger *slog.Logger) {
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

func registerDependencies(ctx context.Context, injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (ports.DocumentStore, error) {
		return store.Open(ctx, &cfg.Store, logger)
	})

	do.Provide(injector, func(i do.Injector) (durability.Policy, error) {
		docs := do.MustInvoke[ports.DocumentStore](i)
		level, err := cfg.Transactions.DurabilityLevel()
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
		logger.Info("durability selected",
			slog.String("store", docs.Name()),
			slog.String("level", policy.Level.String()),
			slog.Int("replicas", topology.Replicas),
		)
		return policy, nil
	})

	do.Provide(injector, func(i do.Injector) (*txn.Runner, error) {
		docs := do.MustInvoke[ports.DocumentStore](i)
		policy, err := do.Invoke[durability.Policy](i)
		if err != nil {
			return nil, err
		}
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return txn.New(docs, policy, &cfg.Transactions, metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.FollowupService, error) {
		docs := do.MustInvoke[ports.DocumentStore](i)
		runner, err := do.Invoke[*txn.Runner](i)
		if err != nil {
			return nil, err
		}
		return app.NewFollowupService(docs, runner, logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.EntityHandler, error) {
		svc, err := do.Invoke[ports.FollowupService](i)
		if err != nil {
			return nil, err
		}
		return handlers.NewEntityHandler(svc), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		entityH, err := do.Invoke[*handlers.EntityHandler](i)
		if err != nil {
			return nil, err
		}
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(entityH, healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler, err := do.Invoke[nethttp.Handler](i)
		if err != nil {
			return nil, err
		}
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
