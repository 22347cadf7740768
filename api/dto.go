/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupled from the engine types.
  Time-of-day fields serialize as "HH:MM" strings, hour quantities as
  decimal strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// IngestPunchesRequest carries raw clock export rows.
type IngestPunchesRequest struct {
	Rows []PunchRowDTO `json:"rows"`
}

// PunchRowDTO is one employee-day of raw punches.
type PunchRowDTO struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"` // "2006-01-02"
	Department string `json:"department"`
	PunchTimes string `json:"punch_times"` // "HH:MM;HH:MM;..."
}

// EvaluateRequest triggers a batch run for one date.
type EvaluateRequest struct {
	Date string `json:"date"` // "2006-01-02"
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// RecordDTO is one classification record in API responses.
type RecordDTO struct {
	EmployeeID         string  `json:"employee_id"`
	Date               string  `json:"date"`
	Classifier         string  `json:"classifier"`
	Status             string  `json:"status"`
	Note               string  `json:"note,omitempty"`
	WorkStartTime      *string `json:"work_start_time,omitempty"`
	WorkEndTime        *string `json:"work_end_time,omitempty"`
	NoonLeaveTime      *string `json:"noon_leave_time,omitempty"`
	NoonStartTime      *string `json:"noon_start_time,omitempty"`
	WorkedHours        string  `json:"worked_hours"`
	DayOvertimeHours   string  `json:"day_overtime_hours"`
	NightOvertimeHours string  `json:"night_overtime_hours"`
	IsLate             bool    `json:"is_late"`
	IsEarlyLeave       bool    `json:"is_early_leave"`
}

func toRecordDTO(r engine.Result) RecordDTO {
	return RecordDTO{
		EmployeeID:         r.EmployeeID,
		Date:               r.Date.String(),
		Classifier:         r.Classifier,
		Status:             string(r.Status),
		Note:               r.Note,
		WorkStartTime:      clockStr(r.WorkStart),
		WorkEndTime:        clockStr(r.WorkEnd),
		NoonLeaveTime:      clockStr(r.NoonLeave),
		NoonStartTime:      clockStr(r.NoonStart),
		WorkedHours:        r.WorkedHours.String(),
		DayOvertimeHours:   r.DayOvertimeHours.String(),
		NightOvertimeHours: r.NightOvertimeHours.String(),
		IsLate:             r.IsLate,
		IsEarlyLeave:       r.IsEarlyLeave,
	}
}

func clockStr(c *engine.ClockTime) *string {
	if c == nil {
		return nil
	}
	s := c.String()
	return &s
}

// BatchSummaryDTO reports what an evaluation run did.
type BatchSummaryDTO struct {
	Date      string `json:"date"`
	Evaluated int    `json:"evaluated"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

// DailyReportDTO summarizes one day's records.
type DailyReportDTO struct {
	Date          string          `json:"date"`
	TotalRecords  int             `json:"total_records"`
	LateCount     int             `json:"late_count"`
	AbsentCount   int             `json:"absent_count"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
}

// IngestSummaryDTO reports how many punch rows were stored.
type IngestSummaryDTO struct {
	Stored int `json:"stored"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
