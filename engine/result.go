/*
result.go - Classification output

PURPOSE:
  One Result per employee-day, produced by exactly one classifier run and
  handed to the persistence collaborator. Results are immutable once
  returned; nullable time fields use nil pointers for "not observed".
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// STATUS
// =============================================================================

// Status is the terminal attendance classification for an employee-day.
type Status string

const (
	StatusNormal       Status = "normal"
	StatusLate         Status = "late"
	StatusEarlyLeave   Status = "early_leave"
	StatusAbsent       Status = "absent"
	StatusMissingPunch Status = "missing_punch"

	// Presence-only statuses used by the logistics classifier.
	StatusPresent Status = "present"
	StatusRest    Status = "rest"
)

// =============================================================================
// RESULT
// =============================================================================

// Result is the classified attendance outcome for one employee-day.
type Result struct {
	EmployeeID string
	Date       Date
	Classifier string // which classifier produced this result

	Status Status
	Note   string

	// Recorded marker times. nil means "not observed".
	WorkStart *ClockTime
	WorkEnd   *ClockTime
	NoonLeave *ClockTime
	NoonStart *ClockTime

	WorkedHours        decimal.Decimal
	DayOvertimeHours   decimal.Decimal
	NightOvertimeHours decimal.Decimal

	IsLate       bool
	IsEarlyLeave bool
}

// NewResult builds a Result with the all-normal defaults.
func NewResult(employeeID string, date Date, classifier string) Result {
	return Result{
		EmployeeID: employeeID,
		Date:       date,
		Classifier: classifier,
		Status:     StatusNormal,
	}
}

// AppendNote adds a note fragment, concatenating with "; " when a note
// already exists from an earlier stage.
func (r *Result) AppendNote(note string) {
	if r.Note == "" {
		r.Note = note
		return
	}
	r.Note += "; " + note
}
