/*
handlers.go - HTTP API handlers for the attendance engine

PURPOSE:
  Exposes rule configuration, punch ingestion, batch evaluation, and
  reports over REST. Handlers parse HTTP, validate input, delegate to the
  engine/batch/store collaborators, and serialize responses.

ENDPOINTS:
  Rules:
    GET    /api/rules            Current configuration
    PUT    /api/rules            Replace configuration
    PATCH  /api/rules            Partial update (allow-listed fields)

  Punches / evaluation:
    POST   /api/punches          Ingest raw clock export rows
    POST   /api/evaluate         Run the batch for a date

  Reports:
    GET    /api/reports/daily    Counts + overtime for a date
    GET    /api/records/recent   Newest classification records

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input (includes ErrInvalidRuleSet)
  - 404: Rules not configured yet
  - 500: Internal errors

SECURITY NOTE:
  No authentication; credential management is out of scope for this
  service and owned by the gateway in front of it.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Cron-driven nightly evaluation
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/warp/attendance-engine/batch"
	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is the persistence surface the API needs. The SQLite store
// satisfies it; tests use the memory store.
type Store interface {
	engine.RuleStore
	engine.PunchSource
	engine.ResultStore
	engine.ReportStore
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  Store
	Runner *batch.Runner
}

// NewHandler creates a handler over the store and batch runner.
func NewHandler(store Store, runner *batch.Runner) *Handler {
	return &Handler{Store: store, Runner: runner}
}

// =============================================================================
// RULES
// =============================================================================

// GetRules returns the current configuration, or the shipped defaults
// when none has been saved yet.
func (h *Handler) GetRules(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Store.Rules(r.Context())
	if errors.Is(err, engine.ErrRulesNotFound) {
		writeJSON(w, http.StatusOK, engine.DefaultRuleConfig())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load rules", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// PutRules replaces the configuration wholesale. The new configuration
// must validate; a broken one is rejected before it is stored.
func (h *Handler) PutRules(w http.ResponseWriter, r *http.Request) {
	var cfg engine.RuleConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if _, err := cfg.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule configuration", err)
		return
	}
	if err := h.Store.SaveRules(r.Context(), cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save rules", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// PatchRules applies a partial update. Unknown fields in the body are
// ignored; only the allow-listed RulePatch fields can change anything.
func (h *Handler) PatchRules(w http.ResponseWriter, r *http.Request) {
	var patch engine.RulePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	// Validate the patched configuration before persisting it.
	base, err := h.Store.Rules(r.Context())
	if errors.Is(err, engine.ErrRulesNotFound) {
		base = engine.DefaultRuleConfig()
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load rules", err)
		return
	}
	if _, err := patch.Apply(base).Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid rule configuration", err)
		return
	}

	cfg, err := h.Store.PatchRules(r.Context(), patch)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to patch rules", err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// =============================================================================
// PUNCH INGESTION
// =============================================================================

// IngestPunches stores raw clock export rows for later evaluation.
func (h *Handler) IngestPunches(w http.ResponseWriter, r *http.Request) {
	var req IngestPunchesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, http.StatusBadRequest, "no punch rows provided", nil)
		return
	}

	stored := 0
	for _, row := range req.Rows {
		if row.EmployeeID == "" {
			writeError(w, http.StatusBadRequest, "punch row missing employee_id", nil)
			return
		}
		date, err := engine.ParseDate(row.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid punch row date", err)
			return
		}
		ps := engine.NewPunchSet(row.EmployeeID, date, row.Department, row.PunchTimes)
		if err := h.Store.SavePunchSet(r.Context(), ps); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to store punch set", err)
			return
		}
		stored++
	}
	writeJSON(w, http.StatusCreated, IngestSummaryDTO{Stored: stored})
}

// =============================================================================
// EVALUATION
// =============================================================================

// Evaluate runs the classification batch for one date now. With no rules
// configured, standard departments evaluate as all-normal rather than
// failing the batch.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	date, err := engine.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err)
		return
	}

	var summary batch.Summary
	cfg, err := h.Store.Rules(r.Context())
	switch {
	case errors.Is(err, engine.ErrRulesNotFound):
		summary, err = h.Runner.RunUnconfigured(r.Context(), date)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "failed to load rules", err)
		return
	default:
		summary, err = h.Runner.Run(r.Context(), cfg, date)
	}

	if errors.Is(err, engine.ErrInvalidRuleSet) {
		writeError(w, http.StatusBadRequest, "stored rule configuration is invalid", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "batch evaluation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, BatchSummaryDTO{
		Date:      summary.Date.String(),
		Evaluated: summary.Evaluated,
		Skipped:   summary.Skipped,
		Failed:    summary.Failed,
	})
}

// =============================================================================
// REPORTS
// =============================================================================

// DailyReport returns counts and overtime for one date.
func (h *Handler) DailyReport(w http.ResponseWriter, r *http.Request) {
	date, err := engine.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid or missing date parameter", err)
		return
	}

	report, err := h.Store.DailyReport(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build report", err)
		return
	}
	writeJSON(w, http.StatusOK, DailyReportDTO{
		Date:          report.Date.String(),
		TotalRecords:  report.TotalRecords,
		LateCount:     report.LateCount,
		AbsentCount:   report.AbsentCount,
		OvertimeHours: report.OvertimeHours,
	})
}

// RecentRecords returns the newest classification records.
func (h *Handler) RecentRecords(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit parameter", err)
			return
		}
		limit = n
	}

	results, err := h.Store.RecentResults(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load records", err)
		return
	}

	dtos := make([]RecordDTO, 0, len(results))
	for _, res := range results {
		dtos = append(dtos, toRecordDTO(res))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
