// Package txn runs transactional units of work against a document store.
//
// A Runner owns the retry policy for transient conflicts: each attempt
// begins a fresh unit, runs the caller's function, and commits. Any error
// rolls the unit back. Transient conflicts re-run the whole function with
// exponential backoff until the attempt budget or the expiry timeout is
// spent; every other error is returned as is.
//
//	Circuit Breaker → Span → [Begin → fn → Commit] × attempts
//
// Usage:
//
//	runner := txn.New(store, policy, &cfg.Transactions, metrics, logger)
//	err := runner.Run(ctx, func(ctx context.Context, unit ports.Unit) error {
//	    doc, err := unit.Get(ctx, "confA")
//	    ...
//	    return unit.Replace(ctx, doc, body)
//	})
package txn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/domain/durability"
	"github.com/jsamuelsen11/followup-tx/internal/platform/config"
	"github.com/jsamuelsen11/followup-tx/internal/platform/logging"
	"github.com/jsamuelsen11/followup-tx/internal/platform/telemetry"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.TxRunner      = (*Runner)(nil)
	_ ports.HealthChecker = (*Runner)(nil)
)

// Name is the health checker name reported by a Runner.
const Name = "txn-runner"

// Runner executes ports.UnitFunc bodies inside transactional units.
type Runner struct {
	store   ports.DocumentStore
	policy  durability.Policy
	timeout time.Duration
	retry   retryPolicy
	breaker *gobreaker.CircuitBreaker[struct{}]
	metrics *telemetry.Metrics
	logger  *slog.Logger

	after func(time.Duration) <-chan time.Time
}

// New creates a Runner over store that commits every unit at policy. If
// metrics is nil, metric recording is skipped.
func New(
	store ports.DocumentStore,
	policy durability.Policy,
	cfg *config.TransactionsConfig,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) *Runner {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        Name,
		MaxRequests: toUint32(cfg.CircuitBreaker.HalfOpenLimit),
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.CircuitBreaker.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return !isStoreFault(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("store", store.Name()),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Runner{
		store:   store,
		policy:  policy,
		timeout: cfg.Timeout,
		retry: retryPolicy{
			maxAttempts:     cfg.Retry.MaxAttempts,
			initialInterval: cfg.Retry.InitialInterval,
			maxInterval:     cfg.Retry.MaxInterval,
			multiplier:      cfg.Retry.Multiplier,
		},
		breaker: cb,
		metrics: metrics,
		logger:  logger,
		after:   time.After,
	}
}

// Policy returns the durability policy every unit commits at.
func (r *Runner) Policy() durability.Policy {
	return r.policy
}

// Run executes fn inside a transactional unit and commits it.
//
// fn may run more than once: after a transient conflict it is re-run from
// scratch against a fresh unit, so it must not have side effects outside the
// unit. A run that does not commit within the configured timeout returns an
// error wrapping domain.ErrTransactionExpired. An open circuit breaker
// returns an error wrapping domain.ErrUnavailable. Any other error from fn,
// Begin or Commit is returned unchanged after the unit is rolled back. A
// panic in fn rolls the unit back and is re-raised.
func (r *Runner) Run(ctx context.Context, fn ports.UnitFunc) error {
	if r.retry.maxAttempts <= 0 {
		return fmt.Errorf("txn: maxAttempts must be >= 1, got %d", r.retry.maxAttempts)
	}

	start := time.Now()

	ctx, span := r.startSpan(ctx)
	defer span.End()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, r.timeout, domain.ErrTransactionExpired)
		defer cancel()
	}

	attempts, err := r.runAttempts(ctx, fn, span)
	err = r.classify(ctx, err, attempts)

	r.finishSpan(span, attempts, err)
	r.recordDuration(ctx, start, err)

	return err
}

func (r *Runner) runAttempts(ctx context.Context, fn ports.UnitFunc, span trace.Span) (int, error) {
	var lastErr error

	for attempt := range r.retry.maxAttempts {
		if attempt > 0 {
			if err := r.waitForRetry(ctx, attempt, lastErr); err != nil {
				return attempt, fmt.Errorf("waiting to retry: %w (last error: %w)", err, lastErr)
			}
		}

		span.AddEvent("attempt", trace.WithAttributes(attribute.Int("txn.attempt", attempt+1)))
		r.recordAttempt(ctx)

		err := r.execute(ctx, fn)
		if err == nil {
			return attempt + 1, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return attempt + 1, err
		}
		r.recordConflict(ctx)

		if ctx.Err() != nil {
			return attempt + 1, err
		}
	}

	return r.retry.maxAttempts, fmt.Errorf("giving up after %d attempts: %w", r.retry.maxAttempts, lastErr)
}

// execute runs a single attempt through the circuit breaker.
func (r *Runner) execute(ctx context.Context, fn ports.UnitFunc) error {
	_, err := r.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, r.attempt(ctx, fn)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s: %w", domain.ErrUnavailable, r.store.Name(), err)
	}
	return err
}

// attempt is one begin/fn/commit cycle. The unit is rolled back on every
// path that does not commit.
func (r *Runner) attempt(ctx context.Context, fn ports.UnitFunc) error {
	unit, err := r.store.Begin(ctx, r.policy)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			r.rollback(ctx, unit)
			panic(p)
		}
	}()

	if err := fn(ctx, unit); err != nil {
		r.rollback(ctx, unit)
		return err
	}

	if err := unit.Commit(ctx); err != nil {
		r.rollback(ctx, unit)
		return err
	}

	committed = true
	return nil
}

// rollback discards unit, detached from ctx so an expired run still
// releases its unit. Failures are logged, never returned: the caller's error
// is the one that matters.
func (r *Runner) rollback(ctx context.Context, unit ports.Unit) {
	if err := unit.Rollback(context.WithoutCancel(ctx)); err != nil {
		logging.FromContext(ctx).ErrorContext(ctx, "failed to roll back unit",
			slog.String("operation", "txn.Run"),
			slog.String("store", r.store.Name()),
			slog.Any("error", err),
		)
	}
}

// classify maps an error caused by the run's own expiry deadline onto
// domain.ErrTransactionExpired. Errors produced by fn itself pass through.
func (r *Runner) classify(ctx context.Context, err error, attempts int) error {
	if err == nil || ctx.Err() == nil {
		return err
	}
	if !errors.Is(context.Cause(ctx), domain.ErrTransactionExpired) {
		return err
	}
	if !errors.Is(err, context.DeadlineExceeded) && !isRetryable(err) {
		return err
	}
	return fmt.Errorf("%w: no commit within %s after %d attempt(s): %w",
		domain.ErrTransactionExpired, r.timeout, attempts, err)
}

// Name returns the health checker identifier.
func (r *Runner) Name() string {
	return Name
}

// HealthCheck reports store availability from the circuit breaker state; no
// store call is made.
//
//   - "closed"    returns nil.
//   - "half-open" returns an error describing a degraded store.
//   - "open"      returns an error wrapping domain.ErrUnavailable.
func (r *Runner) HealthCheck(_ context.Context) error {
	state := r.breaker.State()
	switch state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", r.store.Name())
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: %w (circuit breaker open)", r.store.Name(), domain.ErrUnavailable)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", r.store.Name(), state)
	}
}

func (r *Runner) startSpan(ctx context.Context) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(telemetry.ScopeName + "/txn")
	return tracer.Start(ctx, "txn.Run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			telemetry.AttrStore.String(r.store.Name()),
			telemetry.AttrDurability.String(r.policy.Level.String()),
		),
	)
}

func (r *Runner) finishSpan(span trace.Span, attempts int, err error) {
	span.SetAttributes(attribute.Int("txn.attempts", attempts))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func (r *Runner) attrs(extra ...attribute.KeyValue) metric.MeasurementOption {
	kv := append([]attribute.KeyValue{
		telemetry.AttrStore.String(r.store.Name()),
		telemetry.AttrDurability.String(r.policy.Level.String()),
	}, extra...)
	return metric.WithAttributes(kv...)
}

func (r *Runner) recordAttempt(ctx context.Context) {
	if r.metrics == nil {
		return
	}
	r.metrics.TxnAttemptTotal.Add(ctx, 1, r.attrs())
}

func (r *Runner) recordConflict(ctx context.Context) {
	if r.metrics == nil {
		return
	}
	r.metrics.TxnConflictTotal.Add(ctx, 1, r.attrs())
}

// recordDuration is detached from ctx so an expired run is still recorded.
func (r *Runner) recordDuration(ctx context.Context, start time.Time, err error) {
	if r.metrics == nil {
		return
	}
	r.metrics.TxnDuration.Record(context.WithoutCancel(ctx), time.Since(start).Seconds(),
		r.attrs(telemetry.AttrResult.String(result(err))))
}

// result is the metric label for a finished run.
func result(err error) string {
	switch {
	case err == nil:
		return "committed"
	case errors.Is(err, domain.ErrTransactionExpired):
		return "expired"
	case errors.Is(err, domain.ErrTransientConflict):
		return "conflict"
	case errors.Is(err, domain.ErrDomainAbort):
		return "aborted"
	case errors.Is(err, domain.ErrUnavailable):
		return "circuit_open"
	default:
		return "error"
	}
}

// toUint32 safely converts a non-negative int to uint32, clamping at the
// uint32 maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
