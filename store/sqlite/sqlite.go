/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements engine.RuleStore, engine.PunchSource, engine.ResultStore and
  engine.ReportStore using SQLite. The engine itself never touches this
  package; it is the persistence collaborator the batch runner and the
  API are wired to.

KEY TABLES:
  attendance_rules:       Configured policy rows; the latest updated row
                          is the one loaded for a batch
  punch_sets:             Raw clock exports (one row per employee-day)
  classification_records: One result per employee-day, with a UNIQUE
                          index enforcing the per-employee-per-date
                          invariant

TIME REPRESENTATION:
  Time-of-day columns hold "HH:MM" strings; hour quantities hold the
  decimal's canonical string form, never binary floats.

WAL MODE:
  Opened with WAL and foreign keys on, same as every deployment target of
  this store.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/engine"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Configured attendance policy. Updates insert a fresh row; reads
	-- take the latest by updated_at.
	CREATE TABLE IF NOT EXISTS attendance_rules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		work_start_time TEXT NOT NULL,
		work_end_time TEXT NOT NULL,
		late_threshold INTEGER NOT NULL,
		early_leave_threshold INTEGER NOT NULL,
		lunch_start_time TEXT NOT NULL,
		lunch_end_time TEXT NOT NULL,
		overtime_start_time TEXT NOT NULL,
		daily_standard_hours TEXT NOT NULL,
		work_days TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Raw clock exports. Re-ingesting an employee-day replaces the row.
	CREATE TABLE IF NOT EXISTS punch_sets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL,
		check_date TEXT NOT NULL,
		department TEXT NOT NULL DEFAULT '',
		punch_times TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(employee_id, check_date)
	);

	CREATE INDEX IF NOT EXISTS idx_punch_sets_date
		ON punch_sets(check_date);

	-- One classification result per employee-day.
	CREATE TABLE IF NOT EXISTS classification_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id TEXT NOT NULL,
		check_date TEXT NOT NULL,
		classifier TEXT NOT NULL,
		status TEXT NOT NULL,
		status_note TEXT NOT NULL DEFAULT '',
		work_start_time TEXT,
		work_end_time TEXT,
		noon_leave_time TEXT,
		noon_start_time TEXT,
		worked_hours TEXT NOT NULL DEFAULT '0',
		day_overtime_hours TEXT NOT NULL DEFAULT '0',
		night_overtime_hours TEXT NOT NULL DEFAULT '0',
		is_late INTEGER NOT NULL DEFAULT 0,
		is_early_leave INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	-- Enforces the one-result-per-employee-per-date invariant.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_employee_day
		ON classification_records(employee_id, check_date);

	CREATE INDEX IF NOT EXISTS idx_records_date
		ON classification_records(check_date);
	CREATE INDEX IF NOT EXISTS idx_records_status
		ON classification_records(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RULE STORE
// =============================================================================

// Rules returns the latest configured policy row.
func (s *Store) Rules(ctx context.Context) (engine.RuleConfig, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT work_start_time, work_end_time, late_threshold, early_leave_threshold,
		       lunch_start_time, lunch_end_time, overtime_start_time,
		       daily_standard_hours, work_days
		FROM attendance_rules
		ORDER BY updated_at DESC, id DESC
		LIMIT 1`)

	var cfg engine.RuleConfig
	var hours string
	err := row.Scan(&cfg.WorkStart, &cfg.WorkEnd, &cfg.LateThresholdMin,
		&cfg.EarlyLeaveThreshMin, &cfg.LunchStart, &cfg.LunchEnd,
		&cfg.OvertimeStart, &hours, &cfg.WorkDays)
	if err == sql.ErrNoRows {
		return engine.RuleConfig{}, engine.ErrRulesNotFound
	}
	if err != nil {
		return engine.RuleConfig{}, fmt.Errorf("loading rules: %w", err)
	}

	cfg.DailyStandardHours, err = decimal.NewFromString(hours)
	if err != nil {
		return engine.RuleConfig{}, fmt.Errorf("loading rules: daily_standard_hours: %w", err)
	}
	return cfg, nil
}

// SaveRules stores a full configuration as the new latest row.
func (s *Store) SaveRules(ctx context.Context, cfg engine.RuleConfig) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO attendance_rules
			(work_start_time, work_end_time, late_threshold, early_leave_threshold,
			 lunch_start_time, lunch_end_time, overtime_start_time,
			 daily_standard_hours, work_days, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cfg.WorkStart, cfg.WorkEnd, cfg.LateThresholdMin, cfg.EarlyLeaveThreshMin,
		cfg.LunchStart, cfg.LunchEnd, cfg.OvertimeStart,
		cfg.DailyStandardHours.String(), cfg.WorkDays,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving rules: %w", err)
	}
	return nil
}

// PatchRules applies a partial update on top of the current configuration
// (or the shipped defaults when none exists) and stores the result.
func (s *Store) PatchRules(ctx context.Context, patch engine.RulePatch) (engine.RuleConfig, error) {
	base, err := s.Rules(ctx)
	if err == engine.ErrRulesNotFound {
		base = engine.DefaultRuleConfig()
	} else if err != nil {
		return engine.RuleConfig{}, err
	}

	patched := patch.Apply(base)
	if err := s.SaveRules(ctx, patched); err != nil {
		return engine.RuleConfig{}, err
	}
	return patched, nil
}

// =============================================================================
// PUNCH SOURCE
// =============================================================================

// SavePunchSet ingests one raw clock export row. Re-ingesting an
// employee-day replaces the previous raw string.
func (s *Store) SavePunchSet(ctx context.Context, ps engine.PunchSet) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO punch_sets (employee_id, check_date, department, punch_times, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, check_date)
		DO UPDATE SET department = excluded.department,
		              punch_times = excluded.punch_times`,
		ps.EmployeeID, ps.Date.String(), ps.Department, ps.Raw,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving punch set %s/%s: %w", ps.EmployeeID, ps.Date, err)
	}
	return nil
}

// PunchSetsForDate loads and re-parses every punch set recorded for a date.
func (s *Store) PunchSetsForDate(ctx context.Context, date engine.Date) ([]engine.PunchSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, department, punch_times
		FROM punch_sets
		WHERE check_date = ?
		ORDER BY employee_id`,
		date.String())
	if err != nil {
		return nil, fmt.Errorf("loading punch sets for %s: %w", date, err)
	}
	defer rows.Close()

	var out []engine.PunchSet
	for rows.Next() {
		var employeeID, department, raw string
		if err := rows.Scan(&employeeID, &department, &raw); err != nil {
			return nil, err
		}
		out = append(out, engine.NewPunchSet(employeeID, date, department, raw))
	}
	return out, rows.Err()
}

// =============================================================================
// RESULT STORE
// =============================================================================

// SaveResult appends one classification record. A second write for the
// same employee-day returns a DuplicateRecordError.
func (s *Store) SaveResult(ctx context.Context, r engine.Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO classification_records
			(employee_id, check_date, classifier, status, status_note,
			 work_start_time, work_end_time, noon_leave_time, noon_start_time,
			 worked_hours, day_overtime_hours, night_overtime_hours,
			 is_late, is_early_leave, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.EmployeeID, r.Date.String(), r.Classifier, string(r.Status), r.Note,
		clockString(r.WorkStart), clockString(r.WorkEnd),
		clockString(r.NoonLeave), clockString(r.NoonStart),
		r.WorkedHours.String(), r.DayOvertimeHours.String(), r.NightOvertimeHours.String(),
		boolInt(r.IsLate), boolInt(r.IsEarlyLeave),
		time.Now().UTC().Format(time.RFC3339Nano))

	if isUniqueConstraintError(err) {
		return &engine.DuplicateRecordError{EmployeeID: r.EmployeeID, Date: r.Date}
	}
	if err != nil {
		return fmt.Errorf("saving result %s/%s: %w", r.EmployeeID, r.Date, err)
	}
	return nil
}

// RecentResults returns the newest records, newest first.
func (s *Store) RecentResults(ctx context.Context, limit int) ([]engine.Result, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, check_date, classifier, status, status_note,
		       work_start_time, work_end_time, noon_leave_time, noon_start_time,
		       worked_hours, day_overtime_hours, night_overtime_hours,
		       is_late, is_early_leave
		FROM classification_records
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("loading recent records: %w", err)
	}
	defer rows.Close()

	var out []engine.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanResult(rows *sql.Rows) (engine.Result, error) {
	var (
		r                            engine.Result
		date, status                 string
		workStart, workEnd           sql.NullString
		noonLeave, noonStart         sql.NullString
		worked, dayOvertime, nightOt string
		isLate, isEarlyLeave         int
	)
	err := rows.Scan(&r.EmployeeID, &date, &r.Classifier, &status, &r.Note,
		&workStart, &workEnd, &noonLeave, &noonStart,
		&worked, &dayOvertime, &nightOt, &isLate, &isEarlyLeave)
	if err != nil {
		return engine.Result{}, err
	}

	if r.Date, err = engine.ParseDate(date); err != nil {
		return engine.Result{}, err
	}
	r.Status = engine.Status(status)
	if r.WorkStart, err = parseClockPtr(workStart); err != nil {
		return engine.Result{}, err
	}
	if r.WorkEnd, err = parseClockPtr(workEnd); err != nil {
		return engine.Result{}, err
	}
	if r.NoonLeave, err = parseClockPtr(noonLeave); err != nil {
		return engine.Result{}, err
	}
	if r.NoonStart, err = parseClockPtr(noonStart); err != nil {
		return engine.Result{}, err
	}
	if r.WorkedHours, err = decimal.NewFromString(worked); err != nil {
		return engine.Result{}, err
	}
	if r.DayOvertimeHours, err = decimal.NewFromString(dayOvertime); err != nil {
		return engine.Result{}, err
	}
	if r.NightOvertimeHours, err = decimal.NewFromString(nightOt); err != nil {
		return engine.Result{}, err
	}
	r.IsLate = isLate != 0
	r.IsEarlyLeave = isEarlyLeave != 0
	return r, nil
}

// =============================================================================
// REPORT STORE
// =============================================================================

// DailyReport aggregates one day's records: totals, late and absent
// counts, and combined day+night overtime.
func (s *Store) DailyReport(ctx context.Context, date engine.Date) (engine.DailyReport, error) {
	report := engine.DailyReport{Date: date}

	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(is_late), 0),
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		FROM classification_records
		WHERE check_date = ?`,
		string(engine.StatusAbsent), date.String())
	if err := row.Scan(&report.TotalRecords, &report.LateCount, &report.AbsentCount); err != nil {
		return engine.DailyReport{}, fmt.Errorf("daily report for %s: %w", date, err)
	}

	// Overtime columns are decimal strings; sum them in Go rather than
	// trusting REAL arithmetic.
	rows, err := s.db.QueryContext(ctx, `
		SELECT day_overtime_hours, night_overtime_hours
		FROM classification_records
		WHERE check_date = ?`, date.String())
	if err != nil {
		return engine.DailyReport{}, fmt.Errorf("daily report for %s: %w", date, err)
	}
	defer rows.Close()

	for rows.Next() {
		var day, night string
		if err := rows.Scan(&day, &night); err != nil {
			return engine.DailyReport{}, err
		}
		d, err := decimal.NewFromString(day)
		if err != nil {
			return engine.DailyReport{}, err
		}
		n, err := decimal.NewFromString(night)
		if err != nil {
			return engine.DailyReport{}, err
		}
		report.OvertimeHours = report.OvertimeHours.Add(d).Add(n)
	}
	return report, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func clockString(c *engine.ClockTime) sql.NullString {
	if c == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: c.String(), Valid: true}
}

func parseClockPtr(ns sql.NullString) (*engine.ClockTime, error) {
	if !ns.Valid {
		return nil, nil
	}
	c, err := engine.ParseClock(ns.String)
	if err != nil {
		return nil, err
	}
	return c.Ptr(), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Compile-time interface checks.
var (
	_ engine.RuleStore   = (*Store)(nil)
	_ engine.PunchSource = (*Store)(nil)
	_ engine.ResultStore = (*Store)(nil)
	_ engine.ReportStore = (*Store)(nil)
)
