package batch_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/batch"
	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/factory"
	"github.com/warp/attendance-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var testDate = engine.NewDate(2025, time.March, 10)

func newTestRunner(t *testing.T) (*batch.Runner, *memory.Store) {
	t.Helper()
	store := memory.New()
	return batch.NewRunner(store, store, factory.NewDispatcher()), store
}

func seedPunches(t *testing.T, store *memory.Store, rows map[string]string) {
	t.Helper()
	ctx := context.Background()
	for employeeID, raw := range rows {
		ps := engine.NewPunchSet(employeeID, testDate, "office", raw)
		require.NoError(t, store.SavePunchSet(ctx, ps))
	}
}

// =============================================================================
// RUN
// =============================================================================

func TestRunner_Run_EvaluatesEveryPunchSet(t *testing.T) {
	// GIVEN: three employees with punches on the date
	// WHEN: the batch runs with the default rules
	// THEN: one result per employee, summary counts match

	runner, store := newTestRunner(t)
	seedPunches(t, store, map[string]string{
		"emp-1": "09:00;18:00",
		"emp-2": "09:30;18:00",
		"emp-3": "",
	})

	summary, err := runner.Run(context.Background(), engine.DefaultRuleConfig(), testDate)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Evaluated)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	report, err := store.DailyReport(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, 1, report.LateCount)
	assert.Equal(t, 1, report.AbsentCount)
}

func TestRunner_Run_InvalidRulesAbortBeforeEvaluation(t *testing.T) {
	runner, store := newTestRunner(t)
	seedPunches(t, store, map[string]string{"emp-1": "09:00;18:00"})

	cfg := engine.DefaultRuleConfig()
	cfg.WorkStart = "not-a-time"

	_, err := runner.Run(context.Background(), cfg, testDate)
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrInvalidRuleSet)

	// Nothing was written.
	report, err := store.DailyReport(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalRecords)
}

func TestRunner_Run_SecondRunSkipsRecordedDays(t *testing.T) {
	// The store's uniqueness guarantee is the dedup mechanism: re-running
	// the same date counts every employee-day as skipped.
	runner, store := newTestRunner(t)
	seedPunches(t, store, map[string]string{
		"emp-1": "09:00;18:00",
		"emp-2": "09:00;18:00",
	})

	first, err := runner.Run(context.Background(), engine.DefaultRuleConfig(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Evaluated)

	second, err := runner.Run(context.Background(), engine.DefaultRuleConfig(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Evaluated)
	assert.Equal(t, 2, second.Skipped)
}

func TestRunner_Run_DispatchesByDepartment(t *testing.T) {
	runner, store := newTestRunner(t)
	ctx := context.Background()

	require.NoError(t, store.SavePunchSet(ctx, engine.NewPunchSet("emp-prod", testDate, "production", "07:55;18:00")))
	require.NoError(t, store.SavePunchSet(ctx, engine.NewPunchSet("emp-logi", testDate, "logistics", "08:15")))
	require.NoError(t, store.SavePunchSet(ctx, engine.NewPunchSet("emp-std", testDate, "office", "09:00;18:00")))

	_, err := runner.Run(ctx, engine.DefaultRuleConfig(), testDate)
	require.NoError(t, err)

	results, err := store.RecentResults(ctx, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byEmployee := map[string]engine.Result{}
	for _, r := range results {
		byEmployee[r.EmployeeID] = r
	}
	assert.Equal(t, "production_morning", byEmployee["emp-prod"].Classifier)
	assert.Equal(t, "logistics", byEmployee["emp-logi"].Classifier)
	assert.Equal(t, "standard", byEmployee["emp-std"].Classifier)
}

func TestRunner_Run_ManyEmployeesSmallPool(t *testing.T) {
	// More jobs than workers exercises the pool handoff.
	runner, store := newTestRunner(t)
	runner.Workers = 2

	rows := map[string]string{}
	for i := 0; i < 50; i++ {
		rows[fmt.Sprintf("emp-%03d", i)] = "09:00;18:00"
	}
	seedPunches(t, store, rows)

	summary, err := runner.Run(context.Background(), engine.DefaultRuleConfig(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 50, summary.Evaluated)
}

func TestRunner_Run_CancelledContext(t *testing.T) {
	runner, store := newTestRunner(t)
	runner.Workers = 1

	rows := map[string]string{}
	for i := 0; i < 200; i++ {
		rows[fmt.Sprintf("emp-%03d", i)] = "09:00;18:00"
	}
	seedPunches(t, store, rows)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, engine.DefaultRuleConfig(), testDate)
	assert.ErrorIs(t, err, context.Canceled)
}

// =============================================================================
// RUN UNCONFIGURED
// =============================================================================

func TestRunner_RunUnconfigured_RecordsWithoutClassifying(t *testing.T) {
	// With no rules configured, standard-department days still get a
	// result row, but nothing is flagged and no hours are computed.
	runner, store := newTestRunner(t)
	seedPunches(t, store, map[string]string{"emp-1": "09:45;16:00"})

	summary, err := runner.RunUnconfigured(context.Background(), testDate)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Evaluated)

	results, err := store.RecentResults(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, engine.StatusNormal, r.Status)
	assert.False(t, r.IsLate)
	assert.False(t, r.IsEarlyLeave)
	assert.True(t, r.WorkedHours.IsZero())
}
