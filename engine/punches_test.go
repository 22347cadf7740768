package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/attendance-engine/engine"
)

func TestParsePunchString(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []engine.ClockTime
	}{
		{
			name: "well formed",
			raw:  "08:01;12:03;17:45",
			want: []engine.ClockTime{engine.Clock(8, 1), engine.Clock(12, 3), engine.Clock(17, 45)},
		},
		{
			name: "unsorted input is sorted",
			raw:  "17:45;08:01;12:03",
			want: []engine.ClockTime{engine.Clock(8, 1), engine.Clock(12, 3), engine.Clock(17, 45)},
		},
		{
			name: "malformed tokens dropped silently",
			raw:  "08:01;banana;25:99;;12:03",
			want: []engine.ClockTime{engine.Clock(8, 1), engine.Clock(12, 3)},
		},
		{
			name: "whitespace around tokens tolerated",
			raw:  " 08:01 ; 12:03 ",
			want: []engine.ClockTime{engine.Clock(8, 1), engine.Clock(12, 3)},
		},
		{
			name: "duplicates preserved",
			raw:  "08:01;08:01",
			want: []engine.ClockTime{engine.Clock(8, 1), engine.Clock(8, 1)},
		},
		{
			name: "empty string",
			raw:  "",
			want: nil,
		},
		{
			name: "bare delimiter",
			raw:  ";",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.ParsePunchString(tc.raw))
		})
	}
}

func TestPunchSet_HasAnyPunch(t *testing.T) {
	date := engine.NewDate(2025, time.March, 10)

	assert.True(t, engine.NewPunchSet("emp-1", date, "", "08:15").HasAnyPunch())
	assert.False(t, engine.NewPunchSet("emp-1", date, "", ";").HasAnyPunch())
	assert.False(t, engine.NewPunchSet("emp-1", date, "", "").HasAnyPunch())
	assert.False(t, engine.NewPunchSet("emp-1", date, "", "   ").HasAnyPunch())
	// Unparseable but non-empty still counts as a punch attempt.
	assert.True(t, engine.NewPunchSet("emp-1", date, "", "zzz").HasAnyPunch())
}

func TestResult_AppendNote(t *testing.T) {
	r := engine.NewResult("emp-1", engine.NewDate(2025, time.March, 10), "test")

	r.AppendNote("late by 30 minutes")
	assert.Equal(t, "late by 30 minutes", r.Note)

	r.AppendNote("missing check-out punch")
	assert.Equal(t, "late by 30 minutes; missing check-out punch", r.Note)
}
