package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var testDate = engine.NewDate(2025, time.March, 10)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// RULE STORE
// =============================================================================

func TestStore_Rules_NotFoundWhenUnconfigured(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Rules(context.Background())
	assert.ErrorIs(t, err, engine.ErrRulesNotFound)
}

func TestStore_SaveRules_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cfg := engine.DefaultRuleConfig()
	cfg.WorkStart = "08:30"
	cfg.DailyStandardHours = decimal.RequireFromString("7.5")
	require.NoError(t, store.SaveRules(ctx, cfg))

	got, err := store.Rules(ctx)
	require.NoError(t, err)
	assert.Equal(t, "08:30", got.WorkStart)
	assert.Equal(t, cfg.WorkEnd, got.WorkEnd)
	assert.Equal(t, cfg.LateThresholdMin, got.LateThresholdMin)
	assert.Equal(t, cfg.WorkDays, got.WorkDays)
	assert.True(t, decimal.RequireFromString("7.5").Equal(got.DailyStandardHours))
}

func TestStore_SaveRules_LatestRowWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := engine.DefaultRuleConfig()
	first.WorkStart = "08:00"
	require.NoError(t, store.SaveRules(ctx, first))

	second := engine.DefaultRuleConfig()
	second.WorkStart = "10:00"
	require.NoError(t, store.SaveRules(ctx, second))

	got, err := store.Rules(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10:00", got.WorkStart)
}

func TestStore_PatchRules_OnDefaultsWhenUnconfigured(t *testing.T) {
	// GIVEN: no rules row yet
	// WHEN: patching one field
	// THEN: the patch lands on the shipped defaults and is persisted

	store := newTestStore(t)
	ctx := context.Background()

	threshold := 5
	got, err := store.PatchRules(ctx, engine.RulePatch{LateThresholdMin: &threshold})
	require.NoError(t, err)
	assert.Equal(t, 5, got.LateThresholdMin)
	assert.Equal(t, engine.DefaultRuleConfig().WorkStart, got.WorkStart)

	reloaded, err := store.Rules(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.LateThresholdMin)
}

// =============================================================================
// PUNCH SOURCE
// =============================================================================

func TestStore_SavePunchSet_ReingestReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePunchSet(ctx,
		engine.NewPunchSet("emp-1", testDate, "office", "09:00")))
	require.NoError(t, store.SavePunchSet(ctx,
		engine.NewPunchSet("emp-1", testDate, "production", "07:55;18:00")))

	got, err := store.PunchSetsForDate(ctx, testDate)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "production", got[0].Department)
	assert.Equal(t, "07:55;18:00", got[0].Raw)
	// The stored raw string is re-parsed on load.
	assert.Equal(t, []engine.ClockTime{engine.Clock(7, 55), engine.Clock(18, 0)}, got[0].Punches)
}

func TestStore_PunchSetsForDate_FiltersByDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	otherDate := engine.NewDate(2025, time.March, 11)

	require.NoError(t, store.SavePunchSet(ctx, engine.NewPunchSet("emp-1", testDate, "", "09:00")))
	require.NoError(t, store.SavePunchSet(ctx, engine.NewPunchSet("emp-2", otherDate, "", "09:00")))

	got, err := store.PunchSetsForDate(ctx, testDate)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "emp-1", got[0].EmployeeID)
	assert.Equal(t, testDate, got[0].Date)
}

// =============================================================================
// RESULT STORE
// =============================================================================

func sampleResult() engine.Result {
	r := engine.NewResult("emp-1", testDate, "production_morning")
	r.Status = engine.StatusLate
	r.Note = "late by 20 minutes"
	r.WorkStart = engine.Clock(8, 20).Ptr()
	r.WorkEnd = engine.Clock(20, 30).Ptr()
	r.NoonLeave = engine.Clock(12, 0).Ptr()
	r.NoonStart = engine.Clock(12, 30).Ptr()
	r.DayOvertimeHours = decimal.NewFromInt(1)
	r.NightOvertimeHours = decimal.RequireFromString("3.0")
	r.IsLate = true
	return r
}

func TestStore_SaveResult_Roundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveResult(ctx, sampleResult()))

	results, err := store.RecentResults(ctx, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "emp-1", got.EmployeeID)
	assert.Equal(t, testDate, got.Date)
	assert.Equal(t, "production_morning", got.Classifier)
	assert.Equal(t, engine.StatusLate, got.Status)
	assert.Equal(t, "late by 20 minutes", got.Note)
	require.NotNil(t, got.WorkStart)
	assert.Equal(t, "08:20", got.WorkStart.String())
	require.NotNil(t, got.WorkEnd)
	assert.Equal(t, "20:30", got.WorkEnd.String())
	require.NotNil(t, got.NoonLeave)
	require.NotNil(t, got.NoonStart)
	assert.True(t, decimal.NewFromInt(1).Equal(got.DayOvertimeHours))
	assert.True(t, decimal.RequireFromString("3.0").Equal(got.NightOvertimeHours))
	assert.True(t, got.IsLate)
	assert.False(t, got.IsEarlyLeave)
}

func TestStore_SaveResult_NilTimesStayNil(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := engine.NewResult("emp-2", testDate, "standard")
	r.Status = engine.StatusAbsent
	require.NoError(t, store.SaveResult(ctx, r))

	results, err := store.RecentResults(ctx, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].WorkStart)
	assert.Nil(t, results[0].WorkEnd)
	assert.Nil(t, results[0].NoonLeave)
	assert.Nil(t, results[0].NoonStart)
}

func TestStore_SaveResult_DuplicateEmployeeDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveResult(ctx, sampleResult()))

	err := store.SaveResult(ctx, sampleResult())
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrDuplicateRecord)

	var dup *engine.DuplicateRecordError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "emp-1", dup.EmployeeID)
	assert.Equal(t, testDate, dup.Date)
}

func TestStore_SaveResult_SameEmployeeDifferentDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := sampleResult()
	require.NoError(t, store.SaveResult(ctx, r))

	r.Date = engine.NewDate(2025, time.March, 11)
	assert.NoError(t, store.SaveResult(ctx, r))
}

func TestStore_RecentResults_NewestFirstAndLimited(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for day := 10; day <= 14; day++ {
		r := engine.NewResult("emp-1", engine.NewDate(2025, time.March, day), "standard")
		require.NoError(t, store.SaveResult(ctx, r))
	}

	results, err := store.RecentResults(ctx, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "2025-03-14", results[0].Date.String())
	assert.Equal(t, "2025-03-13", results[1].Date.String())
	assert.Equal(t, "2025-03-12", results[2].Date.String())
}

// =============================================================================
// REPORT STORE
// =============================================================================

func TestStore_DailyReport(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	late := sampleResult() // is_late, 1 day + 3.0 night overtime
	require.NoError(t, store.SaveResult(ctx, late))

	absent := engine.NewResult("emp-2", testDate, "standard")
	absent.Status = engine.StatusAbsent
	require.NoError(t, store.SaveResult(ctx, absent))

	normal := engine.NewResult("emp-3", testDate, "standard")
	normal.DayOvertimeHours = decimal.RequireFromString("1.5")
	require.NoError(t, store.SaveResult(ctx, normal))

	otherDay := engine.NewResult("emp-1", engine.NewDate(2025, time.March, 11), "standard")
	require.NoError(t, store.SaveResult(ctx, otherDay))

	report, err := store.DailyReport(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, 1, report.LateCount)
	assert.Equal(t, 1, report.AbsentCount)
	assert.True(t, decimal.RequireFromString("5.5").Equal(report.OvertimeHours),
		"got %s", report.OvertimeHours)
}

func TestStore_DailyReport_EmptyDay(t *testing.T) {
	store := newTestStore(t)

	report, err := store.DailyReport(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalRecords)
	assert.True(t, report.OvertimeHours.IsZero())
}
