/*
rules.go - Attendance rule configuration

PURPOSE:
  Defines the configured attendance policy for the standard classifier:
  work window, lateness/early-leave thresholds, lunch window, overtime
  start, standard daily hours, and the workday set.

TWO REPRESENTATIONS:
  RuleConfig: The string form as stored and edited ("HH:MM" times, comma
              separated workdays). This is what the store and the admin
              API traffic in.
  RuleSet:    The parsed, validated form the classifiers consume. Built
              via RuleConfig.Parse(); never constructed from unchecked
              strings.

VALIDATION:
  Parse rejects unparseable times and window orderings that violate
    workStart < lunchStart < lunchEnd < workEnd <= overtimeStart.
  A broken configuration fails the whole evaluation batch up front;
  the engine never silently produces nonsensical hours from it.

PARTIAL UPDATES:
  RulePatch lists the recognized optional fields explicitly. Anything a
  caller cannot express in the patch struct cannot be updated, which
  preserves the "ignore unknown fields" behavior without string-keyed
  dispatch.
*/
package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RULE CONFIG - String form (storage / API)
// =============================================================================

// RuleConfig is the attendance policy as stored and configured.
type RuleConfig struct {
	WorkStart           string          `yaml:"work_start" json:"work_start_time"`
	WorkEnd             string          `yaml:"work_end" json:"work_end_time"`
	LateThresholdMin    int             `yaml:"late_threshold" json:"late_threshold"`
	EarlyLeaveThreshMin int             `yaml:"early_leave_threshold" json:"early_leave_threshold"`
	LunchStart          string          `yaml:"lunch_start" json:"lunch_start_time"`
	LunchEnd            string          `yaml:"lunch_end" json:"lunch_end_time"`
	OvertimeStart       string          `yaml:"overtime_start" json:"overtime_start_time"`
	DailyStandardHours  decimal.Decimal `yaml:"daily_standard_hours" json:"daily_standard_hours"`
	WorkDays            string          `yaml:"work_days" json:"work_days"`
}

// DefaultRuleConfig returns the policy the system ships with.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		WorkStart:           "09:00",
		WorkEnd:             "18:00",
		LateThresholdMin:    15,
		EarlyLeaveThreshMin: 15,
		LunchStart:          "12:00",
		LunchEnd:            "13:00",
		OvertimeStart:       "19:00",
		DailyStandardHours:  decimal.NewFromInt(8),
		WorkDays:            "1,2,3,4,5",
	}
}

// Parse validates the configuration and returns the parsed RuleSet.
// All errors wrap ErrInvalidRuleSet.
func (rc RuleConfig) Parse() (*RuleSet, error) {
	parse := func(field, s string) (ClockTime, error) {
		t, err := ParseClock(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidRuleSet, field, err)
		}
		return t, nil
	}

	rs := &RuleSet{
		LateThresholdMinutes:       rc.LateThresholdMin,
		EarlyLeaveThresholdMinutes: rc.EarlyLeaveThreshMin,
		DailyStandardHours:         rc.DailyStandardHours,
	}

	var err error
	if rs.WorkStart, err = parse("work_start", rc.WorkStart); err != nil {
		return nil, err
	}
	if rs.WorkEnd, err = parse("work_end", rc.WorkEnd); err != nil {
		return nil, err
	}
	if rs.LunchStart, err = parse("lunch_start", rc.LunchStart); err != nil {
		return nil, err
	}
	if rs.LunchEnd, err = parse("lunch_end", rc.LunchEnd); err != nil {
		return nil, err
	}
	if rs.OvertimeStart, err = parse("overtime_start", rc.OvertimeStart); err != nil {
		return nil, err
	}

	if rs.LateThresholdMinutes < 0 || rs.EarlyLeaveThresholdMinutes < 0 {
		return nil, fmt.Errorf("%w: thresholds must be non-negative", ErrInvalidRuleSet)
	}

	// Expected ordering for the standard classifier. Out-of-order windows
	// are a configuration error, not something to classify around.
	if !(rs.WorkStart < rs.LunchStart && rs.LunchStart < rs.LunchEnd &&
		rs.LunchEnd < rs.WorkEnd && rs.WorkEnd <= rs.OvertimeStart) {
		return nil, fmt.Errorf(
			"%w: window ordering must satisfy work_start < lunch_start < lunch_end < work_end <= overtime_start",
			ErrInvalidRuleSet)
	}

	rs.WorkDays, err = parseWorkDays(rc.WorkDays)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func parseWorkDays(s string) (map[int]bool, error) {
	days := make(map[int]bool)
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		d, err := strconv.Atoi(tok)
		if err != nil || d < 1 || d > 7 {
			return nil, fmt.Errorf("%w: work_days entry %q is not a weekday 1-7", ErrInvalidRuleSet, tok)
		}
		days[d] = true
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: work_days is empty", ErrInvalidRuleSet)
	}
	return days, nil
}

// =============================================================================
// RULE SET - Parsed form the classifiers consume
// =============================================================================

// RuleSet is the validated attendance policy. Immutable for the duration of
// an evaluation; owned by the caller. There is no process-wide "current"
// rule set — callers pass the rules into every evaluation explicitly.
type RuleSet struct {
	WorkStart                  ClockTime
	WorkEnd                    ClockTime
	LateThresholdMinutes       int
	EarlyLeaveThresholdMinutes int
	LunchStart                 ClockTime
	LunchEnd                   ClockTime
	OvertimeStart              ClockTime
	DailyStandardHours         decimal.Decimal
	WorkDays                   map[int]bool // 1..7, Monday=1
}

// IsWorkDay reports whether the given weekday is a configured working day.
// weekday uses the Monday=0..Sunday=6 convention at the call boundary and
// is converted to the 1..7 (Monday=1) convention used by WorkDays.
func IsWorkDay(weekday int, rs *RuleSet) bool {
	if rs == nil || weekday < 0 || weekday > 6 {
		return false
	}
	return rs.WorkDays[weekday+1]
}

// =============================================================================
// RULE PATCH - Allow-listed partial update
// =============================================================================

// RulePatch is a partial update to a RuleConfig. Only the named fields can
// be changed; nil pointers leave the current value untouched.
type RulePatch struct {
	WorkStart           *string          `json:"work_start_time,omitempty"`
	WorkEnd             *string          `json:"work_end_time,omitempty"`
	LateThresholdMin    *int             `json:"late_threshold,omitempty"`
	EarlyLeaveThreshMin *int             `json:"early_leave_threshold,omitempty"`
	LunchStart          *string          `json:"lunch_start_time,omitempty"`
	LunchEnd            *string          `json:"lunch_end_time,omitempty"`
	OvertimeStart       *string          `json:"overtime_start_time,omitempty"`
	DailyStandardHours  *decimal.Decimal `json:"daily_standard_hours,omitempty"`
	WorkDays            *string          `json:"work_days,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p RulePatch) IsEmpty() bool {
	return p.WorkStart == nil && p.WorkEnd == nil &&
		p.LateThresholdMin == nil && p.EarlyLeaveThreshMin == nil &&
		p.LunchStart == nil && p.LunchEnd == nil &&
		p.OvertimeStart == nil && p.DailyStandardHours == nil &&
		p.WorkDays == nil
}

// Apply returns a copy of base with the patched fields replaced. The result
// still needs Parse() before it reaches a classifier.
func (p RulePatch) Apply(base RuleConfig) RuleConfig {
	out := base
	if p.WorkStart != nil {
		out.WorkStart = *p.WorkStart
	}
	if p.WorkEnd != nil {
		out.WorkEnd = *p.WorkEnd
	}
	if p.LateThresholdMin != nil {
		out.LateThresholdMin = *p.LateThresholdMin
	}
	if p.EarlyLeaveThreshMin != nil {
		out.EarlyLeaveThreshMin = *p.EarlyLeaveThreshMin
	}
	if p.LunchStart != nil {
		out.LunchStart = *p.LunchStart
	}
	if p.LunchEnd != nil {
		out.LunchEnd = *p.LunchEnd
	}
	if p.OvertimeStart != nil {
		out.OvertimeStart = *p.OvertimeStart
	}
	if p.DailyStandardHours != nil {
		out.DailyStandardHours = *p.DailyStandardHours
	}
	if p.WorkDays != nil {
		out.WorkDays = *p.WorkDays
	}
	return out
}
