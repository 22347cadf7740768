/*
errors.go - Centralized error types for the engine

PURPOSE:
  All sentinel errors in one place. Missing punches are NOT errors — they
  are terminal classification statuses (Absent / MissingPunch). Errors here
  cover configuration faults and persistence contract violations only.

USAGE:
  Callers branch with errors.Is:

    if errors.Is(err, engine.ErrInvalidRuleSet) {
        // reject the whole batch, nothing was classified
    }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRuleSet is returned when the configured rule windows are
	// unparseable or out of order. The evaluation batch fails as a whole
	// rather than emitting misleading per-employee hours.
	ErrInvalidRuleSet = errors.New("invalid attendance rule set")

	// ErrDuplicateRecord is returned by stores enforcing the one-result-
	// per-employee-per-date invariant. Duplicate evaluation prevention is
	// the caller's job; the store only refuses the second write.
	ErrDuplicateRecord = errors.New("classification record already exists for employee-day")

	// ErrRulesNotFound is returned by rule stores with no configured row.
	ErrRulesNotFound = errors.New("attendance rules not configured")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// DuplicateRecordError carries the conflicting employee-day.
type DuplicateRecordError struct {
	EmployeeID string
	Date       Date
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("classification record already exists: %s on %s", e.EmployeeID, e.Date)
}

func (e *DuplicateRecordError) Unwrap() error { return ErrDuplicateRecord }
