package engine_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// RULE CONFIG PARSING
// =============================================================================

func TestRuleConfig_Parse_Defaults(t *testing.T) {
	rs, err := engine.DefaultRuleConfig().Parse()
	require.NoError(t, err)

	assert.Equal(t, engine.Clock(9, 0), rs.WorkStart)
	assert.Equal(t, engine.Clock(18, 0), rs.WorkEnd)
	assert.Equal(t, 15, rs.LateThresholdMinutes)
	assert.Equal(t, 15, rs.EarlyLeaveThresholdMinutes)
	assert.Equal(t, engine.Clock(12, 0), rs.LunchStart)
	assert.Equal(t, engine.Clock(13, 0), rs.LunchEnd)
	assert.Equal(t, engine.Clock(19, 0), rs.OvertimeStart)
	assert.True(t, decimal.NewFromInt(8).Equal(rs.DailyStandardHours))
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}, rs.WorkDays)
}

func TestRuleConfig_Parse_RejectsBadConfiguration(t *testing.T) {
	// Every broken configuration must surface ErrInvalidRuleSet rather
	// than producing a rule set that would emit nonsensical hours.
	tests := []struct {
		name   string
		mutate func(*engine.RuleConfig)
	}{
		{"unparseable work start", func(c *engine.RuleConfig) { c.WorkStart = "9am" }},
		{"unparseable lunch end", func(c *engine.RuleConfig) { c.LunchEnd = "25:00" }},
		{"lunch before work start", func(c *engine.RuleConfig) { c.LunchStart = "08:00" }},
		{"lunch window inverted", func(c *engine.RuleConfig) { c.LunchStart = "13:30"; c.LunchEnd = "12:00" }},
		{"work end before lunch end", func(c *engine.RuleConfig) { c.WorkEnd = "12:30" }},
		{"overtime before work end", func(c *engine.RuleConfig) { c.OvertimeStart = "17:00" }},
		{"negative late threshold", func(c *engine.RuleConfig) { c.LateThresholdMin = -1 }},
		{"workday out of range", func(c *engine.RuleConfig) { c.WorkDays = "1,2,8" }},
		{"workday not a number", func(c *engine.RuleConfig) { c.WorkDays = "mon,tue" }},
		{"empty workdays", func(c *engine.RuleConfig) { c.WorkDays = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := engine.DefaultRuleConfig()
			tc.mutate(&cfg)

			_, err := cfg.Parse()
			require.Error(t, err)
			assert.ErrorIs(t, err, engine.ErrInvalidRuleSet)
		})
	}
}

func TestRuleConfig_Parse_OvertimeAtWorkEndAllowed(t *testing.T) {
	// workEnd <= overtimeStart: equality is valid.
	cfg := engine.DefaultRuleConfig()
	cfg.OvertimeStart = cfg.WorkEnd

	_, err := cfg.Parse()
	assert.NoError(t, err)
}

// =============================================================================
// WORKDAY CHECK
// =============================================================================

func TestIsWorkDay(t *testing.T) {
	rs, err := engine.DefaultRuleConfig().Parse()
	require.NoError(t, err)

	// Monday=0..Sunday=6 at the boundary; WorkDays holds 1..7.
	assert.True(t, engine.IsWorkDay(0, rs), "Monday")
	assert.True(t, engine.IsWorkDay(4, rs), "Friday")
	assert.False(t, engine.IsWorkDay(5, rs), "Saturday")
	assert.False(t, engine.IsWorkDay(6, rs), "Sunday")

	assert.False(t, engine.IsWorkDay(0, nil), "nil rules")
	assert.False(t, engine.IsWorkDay(-1, rs), "weekday below range")
	assert.False(t, engine.IsWorkDay(7, rs), "weekday above range")
}

// =============================================================================
// RULE PATCH
// =============================================================================

func TestRulePatch_Apply(t *testing.T) {
	// GIVEN: The default configuration
	// WHEN: Patching only the work start and the late threshold
	// THEN: Only those fields change

	base := engine.DefaultRuleConfig()
	newStart := "08:30"
	newThreshold := 10
	patch := engine.RulePatch{
		WorkStart:        &newStart,
		LateThresholdMin: &newThreshold,
	}

	got := patch.Apply(base)

	assert.Equal(t, "08:30", got.WorkStart)
	assert.Equal(t, 10, got.LateThresholdMin)
	assert.Equal(t, base.WorkEnd, got.WorkEnd)
	assert.Equal(t, base.LunchStart, got.LunchStart)
	assert.Equal(t, base.WorkDays, got.WorkDays)
}

func TestRulePatch_IsEmpty(t *testing.T) {
	assert.True(t, engine.RulePatch{}.IsEmpty())

	days := "1,2,3"
	assert.False(t, engine.RulePatch{WorkDays: &days}.IsEmpty())
}

func TestRulePatch_PatchedConfigStillValidated(t *testing.T) {
	// A patch can produce an invalid configuration; Parse catches it.
	bad := "20:00"
	cfg := engine.RulePatch{LunchStart: &bad}.Apply(engine.DefaultRuleConfig())

	_, err := cfg.Parse()
	assert.ErrorIs(t, err, engine.ErrInvalidRuleSet)
}
