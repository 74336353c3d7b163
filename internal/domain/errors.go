package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// MsgRequired is the validation message for a missing required field.
const MsgRequired = "is required"

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrUnavailable   = errors.New("unavailable")

	// ErrInitializationRace reports that a bootstrap insert lost a race with
	// a concurrent initializer. The existence checks and inserts are not
	// atomic, so the caller must decide how to recover.
	ErrInitializationRace = fmt.Errorf("initialization race: %w", ErrConflict)

	// ErrTransientConflict reports that a document read by a transactional
	// unit was modified before the unit committed. The unit is safe to
	// re-run with fresh reads.
	ErrTransientConflict = fmt.Errorf("transient conflict: %w", ErrConflict)

	// ErrDurabilityUnsatisfiable reports that the requested durability level
	// cannot be met by the deployed topology.
	ErrDurabilityUnsatisfiable = errors.New("durability unsatisfiable")

	// ErrDomainAbort reports that a mutation refused to proceed.
	ErrDomainAbort = errors.New("domain abort")

	// ErrTransactionExpired reports that a unit did not commit before its
	// expiry deadline.
	ErrTransactionExpired = errors.New("transaction expired")

	// ErrOutcomeUnknown reports that a caller stopped waiting before the
	// operation finished. The operation may still have committed; callers
	// must re-read state before retrying a non-idempotent update.
	ErrOutcomeUnknown = errors.New("outcome unknown")
)

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// DomainAbortError is returned by a mutation that rejects the current
// document state. It unwraps to ErrDomainAbort.
type DomainAbortError struct {
	Reason string
}

// Abort creates a DomainAbortError with a formatted reason.
func Abort(format string, args ...any) *DomainAbortError {
	return &DomainAbortError{Reason: fmt.Sprintf(format, args...)}
}

func (e *DomainAbortError) Error() string {
	return ErrDomainAbort.Error() + ": " + e.Reason
}

func (e *DomainAbortError) Unwrap() error {
	return ErrDomainAbort
}
