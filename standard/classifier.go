/*
Package standard implements the generic two-punch attendance classifier.

PURPOSE:
  Office departments record at most one check-in and one check-out per day.
  This classifier compares them against the configured RuleSet and produces
  lateness / early-leave status, worked hours net of the lunch window, and
  overtime past the configured overtime start.

CONTRACT:
  - Pure function of (RuleSet, punches); no clocks, no stores.
  - A nil RuleSet yields an all-normal result with no computation —
    an unconfigured system must not fail evaluation.
  - Missing punches are statuses, never errors.

SEE ALSO:
  - production/: multi-punch morning-shift classifier
  - logistics/: presence-only classifier
*/
package standard

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/engine"
)

// Name identifies this classifier in stored results.
const Name = "standard"

// Classifier evaluates two-punch office attendance.
type Classifier struct{}

// New returns a standard classifier.
func New() *Classifier { return &Classifier{} }

// Evaluate classifies one employee-day. The check-in is the earliest punch
// and the check-out the latest; with fewer than two punches the check-out
// is absent.
func (c *Classifier) Evaluate(rules *engine.RuleSet, ps engine.PunchSet) engine.Result {
	result := engine.NewResult(ps.EmployeeID, ps.Date, Name)

	var checkIn, checkOut *engine.ClockTime
	if len(ps.Punches) > 0 {
		checkIn = ps.Punches[0].Ptr()
	}
	if len(ps.Punches) > 1 {
		checkOut = ps.Punches[len(ps.Punches)-1].Ptr()
	}
	result.WorkStart = checkIn
	result.WorkEnd = checkOut

	// Not yet configured: record the punches, classify nothing.
	if rules == nil {
		return result
	}

	if checkIn == nil {
		result.Status = engine.StatusAbsent
		result.AppendNote("no check-in punch")
		return result
	}

	// Lateness: the note carries the full minute difference from the
	// nominal start, not the difference minus the threshold.
	if lateMinutes := checkIn.Sub(rules.WorkStart); lateMinutes > 0 && lateMinutes > rules.LateThresholdMinutes {
		result.Status = engine.StatusLate
		result.IsLate = true
		result.AppendNote(fmt.Sprintf("late by %d minutes", lateMinutes))
	}

	if checkOut == nil {
		result.Status = engine.StatusMissingPunch
		result.AppendNote("missing check-out punch")
		return result
	}

	if earlyMinutes := rules.WorkEnd.Sub(*checkOut); earlyMinutes > 0 && earlyMinutes > rules.EarlyLeaveThresholdMinutes {
		result.Status = engine.StatusEarlyLeave
		result.IsEarlyLeave = true
		result.AppendNote(fmt.Sprintf("left early by %d minutes", earlyMinutes))
	}

	result.WorkedHours = workedHours(*checkIn, *checkOut, rules)
	result.DayOvertimeHours = overtimeHours(*checkOut, rules)
	return result
}

// workedHours is (checkOut - checkIn) minus the overlap with the lunch
// window, in hours rounded to 2 decimal places. The subtraction is exact
// interval intersection: never more than the lunch window's duration and
// never negative.
func workedHours(checkIn, checkOut engine.ClockTime, rules *engine.RuleSet) decimal.Decimal {
	totalMinutes := checkOut.Sub(checkIn)
	if totalMinutes <= 0 {
		return decimal.Zero
	}

	overlapStart := maxClock(checkIn, rules.LunchStart)
	overlapEnd := minClock(checkOut, rules.LunchEnd)
	lunchOverlap := overlapEnd.Sub(overlapStart)
	if lunchOverlap < 0 {
		lunchOverlap = 0
	}

	return decimal.NewFromInt(int64(totalMinutes - lunchOverlap)).
		Div(decimal.NewFromInt(60)).
		Round(2)
}

// overtimeHours counts time past the later of (work end, lunch end,
// configured overtime start), in hours rounded to 2 decimal places.
func overtimeHours(checkOut engine.ClockTime, rules *engine.RuleSet) decimal.Decimal {
	base := maxClock(rules.WorkEnd, rules.LunchEnd)
	if !checkOut.After(base) {
		return decimal.Zero
	}
	start := maxClock(base, rules.OvertimeStart)
	if !checkOut.After(start) {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(checkOut.Sub(start))).
		Div(decimal.NewFromInt(60)).
		Round(2)
}

func minClock(a, b engine.ClockTime) engine.ClockTime {
	if a < b {
		return a
	}
	return b
}

func maxClock(a, b engine.ClockTime) engine.ClockTime {
	if a > b {
		return a
	}
	return b
}
