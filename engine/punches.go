/*
punches.go - Raw punch parsing

PURPOSE:
  Turns the raw delimited punch string exported by the clock machines
  ("08:01;12:03;17:45") into an ordered PunchSet. Malformed tokens are
  dropped silently — one bad row on the clock export must not fail the
  day's batch.

ORDER INDEPENDENCE:
  Punches are sorted ascending after parsing, so any permutation of the
  same token set classifies identically.
*/
package engine

import (
	"sort"
	"strings"
)

// PunchDelimiter separates HH:MM tokens in the raw clock export.
const PunchDelimiter = ";"

// PunchSet is one employee's punches for one calendar date.
type PunchSet struct {
	EmployeeID string
	Date       Date
	Department string
	Raw        string      // original delimited string, kept for audit
	Punches    []ClockTime // parsed, sorted ascending
}

// ParsePunchString parses a ";"-separated sequence of HH:MM tokens.
// Tokens failing strict HH:MM parsing are discarded, not an error.
// The result is sorted ascending.
func ParsePunchString(raw string) []ClockTime {
	var punches []ClockTime
	for _, tok := range strings.Split(raw, PunchDelimiter) {
		t, err := ParseClock(strings.TrimSpace(tok))
		if err != nil {
			continue
		}
		punches = append(punches, t)
	}
	sort.Slice(punches, func(i, j int) bool { return punches[i] < punches[j] })
	return punches
}

// NewPunchSet builds a PunchSet from a raw clock export row.
func NewPunchSet(employeeID string, date Date, department, raw string) PunchSet {
	return PunchSet{
		EmployeeID: employeeID,
		Date:       date,
		Department: department,
		Raw:        raw,
		Punches:    ParsePunchString(raw),
	}
}

// HasAnyPunch reports whether the raw string records at least one punch,
// without time-of-day parsing: non-empty after trimming and not exactly
// the bare delimiter. The logistics classifier keys off this alone.
func (ps PunchSet) HasAnyPunch() bool {
	trimmed := strings.TrimSpace(ps.Raw)
	return trimmed != "" && trimmed != PunchDelimiter
}
