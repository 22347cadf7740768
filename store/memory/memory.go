// Package memory provides in-memory store implementations for tests/dev.
package memory

import (
	"context"
	"sync"

	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// MEMORY STORE - Implements all engine store interfaces
// =============================================================================

type Store struct {
	mu      sync.RWMutex
	rules   *engine.RuleConfig
	punches map[engine.Date][]engine.PunchSet
	results map[recordKey]engine.Result
	order   []recordKey // insertion order, newest last
}

type recordKey struct {
	EmployeeID string
	Date       engine.Date
}

func New() *Store {
	return &Store{
		punches: make(map[engine.Date][]engine.PunchSet),
		results: make(map[recordKey]engine.Result),
	}
}

// =============================================================================
// RULE STORE
// =============================================================================

func (s *Store) Rules(_ context.Context) (engine.RuleConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rules == nil {
		return engine.RuleConfig{}, engine.ErrRulesNotFound
	}
	return *s.rules, nil
}

func (s *Store) SaveRules(_ context.Context, cfg engine.RuleConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = &cfg
	return nil
}

func (s *Store) PatchRules(_ context.Context, patch engine.RulePatch) (engine.RuleConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := engine.DefaultRuleConfig()
	if s.rules != nil {
		base = *s.rules
	}
	patched := patch.Apply(base)
	s.rules = &patched
	return patched, nil
}

// =============================================================================
// PUNCH SOURCE
// =============================================================================

func (s *Store) SavePunchSet(_ context.Context, ps engine.PunchSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.punches[ps.Date] = append(s.punches[ps.Date], ps)
	return nil
}

func (s *Store) PunchSetsForDate(_ context.Context, date engine.Date) ([]engine.PunchSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]engine.PunchSet, len(s.punches[date]))
	copy(out, s.punches[date])
	return out, nil
}

// =============================================================================
// RESULT STORE
// =============================================================================

func (s *Store) SaveResult(_ context.Context, r engine.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := recordKey{EmployeeID: r.EmployeeID, Date: r.Date}
	if _, exists := s.results[k]; exists {
		return &engine.DuplicateRecordError{EmployeeID: r.EmployeeID, Date: r.Date}
	}
	s.results[k] = r
	s.order = append(s.order, k)
	return nil
}

func (s *Store) RecentResults(_ context.Context, limit int) ([]engine.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.order) {
		limit = len(s.order)
	}
	out := make([]engine.Result, 0, limit)
	for i := len(s.order) - 1; i >= len(s.order)-limit; i-- {
		out = append(out, s.results[s.order[i]])
	}
	return out, nil
}

// =============================================================================
// REPORT STORE
// =============================================================================

func (s *Store) DailyReport(_ context.Context, date engine.Date) (engine.DailyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := engine.DailyReport{Date: date}
	for k, r := range s.results {
		if k.Date != date {
			continue
		}
		report.TotalRecords++
		if r.IsLate || r.Status == engine.StatusLate {
			report.LateCount++
		}
		if r.Status == engine.StatusAbsent {
			report.AbsentCount++
		}
		report.OvertimeHours = report.OvertimeHours.
			Add(r.DayOvertimeHours).
			Add(r.NightOvertimeHours)
	}
	return report, nil
}

// Compile-time interface checks.
var (
	_ engine.RuleStore   = (*Store)(nil)
	_ engine.PunchSource = (*Store)(nil)
	_ engine.ResultStore = (*Store)(nil)
	_ engine.ReportStore = (*Store)(nil)
)
