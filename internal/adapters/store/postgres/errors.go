package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
)

// mapError converts pgx/pgconn errors to domain errors. Context errors pass
// through unchanged.
func mapError(err error, key string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("document %s: %w", key, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("document %s: %w", key, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("document %s: %w", key, domain.ErrAlreadyExists)
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("document %s: %w: %w", key, domain.ErrTransientConflict, err)
		case "57P01", "57P03": // admin_shutdown, cannot_connect_now
			return fmt.Errorf("document %s: %w: %w", key, domain.ErrUnavailable, err)
		}
	}

	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return fmt.Errorf("document %s: %w: %w", key, domain.ErrUnavailable, err)
	}

	return fmt.Errorf("document %s: %w", key, err)
}
