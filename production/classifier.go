/*
Package production implements the multi-punch morning-shift classifier.

PURPOSE:
  Production-floor morning shifts punch many times a day and their shift
  night runs past midnight: the system rest boundary is 05:00 the next
  calendar day, so a 00:40 punch still belongs to the previous day's
  evening. This classifier applies the fixed shift window rules to an
  arbitrary punch list.

POLICY CONSTANTS (policy, not configuration):
  Rest boundary    05:00 next day
  Shift start      08:00
  Shift end        17:30
  Noon window      [12:00, 13:30]
  Noon split       12:30

STATE MACHINE:
  The run walks AwaitingMorningPunch -> AwaitingNoonPunch ->
  AwaitingEveningPunch -> Resolved, emitting exactly one terminal Result.
  A missing morning punch short-circuits to Resolved (Absent) before the
  noon and evening stages run. Every stage scans the full sorted punch
  set — stages never remove a punch's eligibility for a later window, so
  a 12:00 punch can satisfy both the morning and the noon window.

POLICY NOTES:
  - Early arrivals are normalized to the nominal 08:00 start; the engine
    does not reward earliness.
  - An early evening checkout (before 17:30) is NOT flagged as early
    leave. The standard classifier does flag it; the asymmetry is policy.
  - Only the second noon punch is examined for the 12:00-12:30 split;
    later noon punches are ignored.
*/
package production

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/engine"
)

// Name identifies this classifier in stored results.
const Name = "production_morning"

// Fixed shift windows.
var (
	midnight     = engine.Clock(0, 0)
	shiftStart   = engine.Clock(8, 0)
	noonStart    = engine.Clock(12, 0)
	noonSplit    = engine.Clock(12, 30)
	noonEnd      = engine.Clock(13, 30)
	shiftEnd     = engine.Clock(17, 30)
	restBoundary = engine.Clock(5, 0) // next calendar day
)

// state tracks the classifier run through its stages.
type state int

const (
	awaitingMorningPunch state = iota
	awaitingNoonPunch
	awaitingEveningPunch
	resolved
)

// Classifier evaluates production morning-shift punch sets.
type Classifier struct{}

// New returns a production morning-shift classifier.
func New() *Classifier { return &Classifier{} }

// Evaluate classifies one employee-day. Punches are not assumed
// deduplicated or ordered; the PunchSet constructor sorts them and the
// stages below operate on the sorted list.
func (c *Classifier) Evaluate(ps engine.PunchSet) engine.Result {
	r := &run{
		punches: ps.Punches,
		result:  engine.NewResult(ps.EmployeeID, ps.Date, Name),
		state:   awaitingMorningPunch,
	}

	r.morningStage()
	r.noonStage()
	r.eveningStage()
	return r.result
}

type run struct {
	punches []engine.ClockTime
	result  engine.Result
	state   state
}

// morningStage resolves the recorded work-start from the earliest punch in
// [00:00, 12:00]. No morning punch makes the rest of the day's punches
// unclassifiable: the run resolves immediately as Absent.
func (r *run) morningStage() {
	if r.state != awaitingMorningPunch {
		return
	}

	var morning []engine.ClockTime
	for _, t := range r.punches {
		if engine.InWindow(t, midnight, noonStart) {
			morning = append(morning, t)
		}
	}

	if len(morning) == 0 {
		r.result.Status = engine.StatusAbsent
		r.result.AppendNote("no check-in punch in required window")
		r.state = resolved
		return
	}

	first := morning[0]
	if engine.InWindow(first, midnight, shiftStart) {
		// Early arrival normalizes to the nominal start.
		r.result.WorkStart = shiftStart.Ptr()
	} else {
		r.result.WorkStart = first.Ptr()
		r.result.Status = engine.StatusLate
		r.result.IsLate = true
		r.result.AppendNote(fmt.Sprintf("late by %d minutes", first.Sub(shiftStart)))
	}
	r.state = awaitingNoonPunch
}

// noonStage resolves the lunch markers from punches in [12:00, 13:30].
// A single punch means "left for lunch": the recorded departure is the
// nominal 12:00 regardless of the raw value. With two or more, the second
// punch decides the return: within [12:00, 12:30] the return is recorded
// as 12:30 and a flat hour of day overtime accrues; otherwise 13:30.
func (r *run) noonStage() {
	if r.state != awaitingNoonPunch {
		return
	}

	var noon []engine.ClockTime
	for _, t := range r.punches {
		if engine.InWindow(t, noonStart, noonEnd) {
			noon = append(noon, t)
		}
	}

	switch {
	case len(noon) == 0:
		// No lunch break recorded; not an error.
	case len(noon) == 1:
		r.result.NoonLeave = noonStart.Ptr()
	default:
		r.result.NoonLeave = noonStart.Ptr()
		if second := noon[1]; engine.InWindow(second, noonStart, noonSplit) {
			r.result.NoonStart = noonSplit.Ptr()
			r.result.DayOvertimeHours = decimal.NewFromInt(1)
		} else {
			r.result.NoonStart = noonEnd.Ptr()
		}
	}
	r.state = awaitingEveningPunch
}

// eveningStage resolves the recorded work-end from punches in the wrap
// window [13:30, 05:00 next day]. Punches at or before the rest boundary
// were stamped after midnight and order after the pre-midnight ones when
// picking the last punch. The work-end is rounded to the half hour; night
// overtime is the rounded time past 17:30, in hours to 1 decimal place.
func (r *run) eveningStage() {
	if r.state != awaitingEveningPunch {
		return
	}
	r.state = resolved

	var evening []engine.ClockTime
	for _, t := range r.punches {
		if engine.InWindow(t, noonEnd, restBoundary) {
			evening = append(evening, t)
		}
	}

	if len(evening) == 0 {
		r.result.Status = engine.StatusMissingPunch
		r.result.AppendNote("missing check-out punch")
		return
	}

	last := evening[0]
	for _, t := range evening[1:] {
		if shiftOrder(t) > shiftOrder(last) {
			last = t
		}
	}

	rounded := engine.RoundToHalfHour(last)
	r.result.WorkEnd = rounded.Ptr()

	if overtimeMinutes := rounded.Sub(shiftEnd); overtimeMinutes > 0 {
		r.result.NightOvertimeHours = decimal.NewFromInt(int64(overtimeMinutes)).
			Div(decimal.NewFromInt(60)).
			Round(1)
	}
	// A rounded work-end before 17:30 is left unflagged: this shift does
	// not classify early evening checkout as early leave.
}

// shiftOrder maps a punch to its minute offset within the shift night.
// Punches at or before the rest boundary belong to the next calendar day.
func shiftOrder(t engine.ClockTime) int {
	if t <= restBoundary {
		return int(t) + 24*60
	}
	return int(t)
}
