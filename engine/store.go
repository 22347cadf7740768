/*
store.go - Persistence collaborator interfaces

PURPOSE:
  The engine does not own storage. These interfaces describe what it needs
  from the persistence collaborator: the configured rules row, the day's
  raw punch sets, and a destination for classification results.

IMPLEMENTATIONS:
  store/sqlite: SQLite-backed production store
  store/memory: In-memory store for tests and dev
*/
package engine

import (
	"context"

	"github.com/shopspring/decimal"
)

// RuleStore persists the single configured attendance policy row.
type RuleStore interface {
	// Rules returns the current configuration. ErrRulesNotFound when no
	// row has been saved yet.
	Rules(ctx context.Context) (RuleConfig, error)

	// SaveRules replaces the configuration wholesale.
	SaveRules(ctx context.Context, cfg RuleConfig) error

	// PatchRules applies an allow-listed partial update and returns the
	// resulting configuration.
	PatchRules(ctx context.Context, patch RulePatch) (RuleConfig, error)
}

// PunchSource supplies raw punch sets for evaluation.
type PunchSource interface {
	SavePunchSet(ctx context.Context, ps PunchSet) error
	PunchSetsForDate(ctx context.Context, date Date) ([]PunchSet, error)
}

// ResultStore receives exactly one Result per evaluated employee-day.
// Implementations enforce per-employee-per-date uniqueness and return
// ErrDuplicateRecord on a second write.
type ResultStore interface {
	SaveResult(ctx context.Context, r Result) error
	RecentResults(ctx context.Context, limit int) ([]Result, error)
}

// ReportStore answers the aggregate queries the admin surface shows.
type ReportStore interface {
	DailyReport(ctx context.Context, date Date) (DailyReport, error)
}

// DailyReport summarizes one day's classification records.
type DailyReport struct {
	Date          Date
	TotalRecords  int
	LateCount     int
	AbsentCount   int
	OvertimeHours decimal.Decimal // day + night combined
}
