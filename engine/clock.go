/*
Package engine provides the core attendance rule-evaluation types.

PURPOSE:
  This package contains the domain-neutral building blocks shared by every
  classifier: wall-clock times, window membership tests, punch parsing,
  the configured rule set, and the classification result. Classifiers
  (standard, production, logistics) are pure functions over these types.

KEY CONCEPTS IN THIS FILE (clock.go):
  - ClockTime: A time of day with minute precision (no date, no zone)
  - Date: A calendar day (the "work day" a punch set belongs to)
  - InWindow: Inclusive interval membership with cross-midnight wrap
  - RoundToHalfHour: The shift end-of-day rounding rule

DESIGN PRINCIPLES:
  1. Purity: No function here reads clocks, stores, or globals
  2. Precision: Hour quantities use decimal.Decimal, never float math
  3. Explicitness: "not observed" is a nil *ClockTime, not a sentinel value

SEE ALSO:
  - rules.go: RuleSet configuration and validation
  - punches.go: Raw punch string parsing
  - result.go: Classification output
*/
package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// CLOCK TIME - Time of day with minute precision
// =============================================================================

// ClockTime is a time of day expressed as minutes since midnight (0..1439).
type ClockTime int

// Clock builds a ClockTime from an hour and minute.
func Clock(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClock parses a strict "HH:MM" token.
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return Clock(t.Hour(), t.Minute()), nil
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

// Sub returns the difference c - other in minutes.
func (c ClockTime) Sub(other ClockTime) int { return int(c) - int(other) }

func (c ClockTime) Before(other ClockTime) bool { return c < other }
func (c ClockTime) After(other ClockTime) bool  { return c > other }

// String renders the canonical "HH:MM" wire form.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Ptr returns a pointer to c, for the nullable result fields.
func (c ClockTime) Ptr() *ClockTime { return &c }

// =============================================================================
// WINDOW MEMBERSHIP - Shared by every classifier
// =============================================================================

// InWindow reports whether t lies in [start, end], both bounds inclusive.
// When start > end the window wraps past midnight and membership becomes
// t >= start OR t <= end. The wrap case covers shifts whose rest boundary
// is a small-hour timestamp (e.g. 05:00) while the evening punches occur
// the same night before midnight.
func InWindow(t, start, end ClockTime) bool {
	if start <= end {
		return start <= t && t <= end
	}
	return t >= start || t <= end
}

// RoundToHalfHour truncates a punch to the half hour: minute < 30 rounds
// down to :00, minute >= 30 rounds down to :30. Applied only to shift
// end-of-day punches; start-of-day punches are never rounded.
func RoundToHalfHour(t ClockTime) ClockTime {
	if t.Minute() < 30 {
		return Clock(t.Hour(), 0)
	}
	return Clock(t.Hour(), 30)
}

// =============================================================================
// DATE - Calendar day a punch set belongs to
// =============================================================================

// Date is a calendar date. Punch ClockTimes are interpreted relative to it;
// punches before the rest boundary belong to the evening of this date even
// though they were stamped the next morning.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses the canonical "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// DateOf truncates a time.Time to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool { return d == Date{} }

// Weekday returns the weekday using the Monday=0..Sunday=6 convention used
// at the engine's call boundary.
func (d Date) Weekday() int {
	// time.Weekday is Sunday=0; shift so Monday=0.
	return (int(d.Time().Weekday()) + 6) % 7
}
