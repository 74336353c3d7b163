package txn

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/platform/logging"
)

// jitterFraction is the maximum jitter as a fraction of the delay (±25%).
const jitterFraction = 0.25

// retryPolicy holds the retry values extracted from config.RetryConfig.
type retryPolicy struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

// waitForRetry logs the retry at WARN level and waits for the backoff delay
// or for ctx to end.
func (r *Runner) waitForRetry(ctx context.Context, attempt int, lastErr error) error {
	delay := backoff(attempt, r.retry)

	logging.FromContext(ctx).WarnContext(ctx, "retrying transactional unit",
		slog.String("operation", "txn.Run"),
		slog.String("store", r.store.Name()),
		slog.Int("attempt", attempt+1),
		slog.Int("max_attempts", r.retry.maxAttempts),
		slog.Duration("backoff", delay),
		slog.Any("error", lastErr),
	)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-r.after(delay):
		return nil
	}
}

// backoff calculates the delay for a given retry attempt using exponential
// backoff with ±25% jitter. The attempt parameter is 1-indexed (attempt 1 is
// the first retry).
func backoff(attempt int, p retryPolicy) time.Duration {
	delay := float64(p.initialInterval) * math.Pow(p.multiplier, float64(attempt-1))

	if delay > float64(p.maxInterval) {
		delay = float64(p.maxInterval)
	}

	// Spread concurrent retries of the same hot document.
	jitter := delay * jitterFraction
	delay += jitter * (2*secureRandFloat64() - 1)

	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// IEEE 754 double-precision constants for random float generation.
const (
	significandBits = 53
	uint64Bits      = 64
)

// secureRandFloat64 returns a random float64 in [0, 1) using crypto/rand.
func secureRandFloat64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0
	}
	return float64(binary.BigEndian.Uint64(b[:])>>(uint64Bits-significandBits)) / float64(uint64(1)<<significandBits)
}

// isRetryable reports whether an attempt may be re-run with a fresh unit.
// Only transient conflicts qualify; everything else aborts the run.
func isRetryable(err error) bool {
	return err != nil && errors.Is(err, domain.ErrTransientConflict)
}

// isStoreFault reports whether err should count against the circuit breaker.
// Conflicts, domain aborts, caller mistakes and cancellation say nothing
// about store health.
func isStoreFault(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrDomainAbort),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrDurabilityUnsatisfiable),
		errors.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}
