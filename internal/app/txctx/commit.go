package txctx

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/followup-tx/internal/platform/logging"
)

// Commit executes all staged actions in insertion order, stopping at the
// first failure. There is no per-action rollback: every action writes into
// the same transactional unit, and rolling back the unit discards all of
// them together.
//
// After Commit returns (whether success or failure), the UnitContext is
// marked as committed and no further actions can be staged. Returns
// ErrAlreadyCommitted if called more than once.
func (uc *UnitContext) Commit(ctx context.Context) error {
	if uc.committed {
		return ErrAlreadyCommitted
	}
	uc.committed = true

	logger := logging.FromContext(ctx)

	for i, action := range uc.items {
		logger.DebugContext(ctx, "executing staged action",
			slog.String("operation", "UnitContext.Commit"),
			slog.Int("step", i+1),
			slog.Int("total", len(uc.items)),
			slog.String("action", action.Description()),
		)

		if err := action.Execute(ctx); err != nil {
			logger.ErrorContext(ctx, "staged action failed",
				slog.String("operation", "UnitContext.Commit"),
				slog.Int("failed_step", i+1),
				slog.String("action", action.Description()),
				slog.Any("error", err),
			)
			return fmt.Errorf("executing %s: %w", action.Description(), err)
		}
	}

	return nil
}
