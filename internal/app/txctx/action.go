package txctx

import (
	"context"
	"fmt"

	"github.com/jsamuelsen11/followup-tx/internal/domain"
	"github.com/jsamuelsen11/followup-tx/internal/ports"
)

// Compile-time interface check.
var _ domain.Action = (*ReplaceAction)(nil)

// ReplaceAction stages a guarded replace into a transactional unit. Nothing
// is visible outside the unit until the unit commits.
type ReplaceAction struct {
	Unit ports.Unit
	Doc  ports.Document
	Body []byte
}

// Execute stages the replace in the unit.
func (a *ReplaceAction) Execute(ctx context.Context) error {
	return a.Unit.Replace(ctx, a.Doc, a.Body)
}

// Description returns a human readable summary for logging.
func (a *ReplaceAction) Description() string {
	return fmt.Sprintf("replace %s@%d", a.Doc.Key, a.Doc.Version)
}
