/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Roster:
    RosterResponse, RecordDTO, IssueDTO, ValidationResponse

  Configuration:
    PatternDTO, EmployeeDTO, SetExceptionRequest
    (request bodies reuse factory.PatternConfig and factory.EmployeeConfig)

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

CELLS:
  Day values use the schedule.Cell JSON encoding: hours are numbers,
  absence codes are strings, blanks are "".

SEE ALSO:
  - handlers.go: Uses these types
  - factory/roster.go: PatternConfig, EmployeeConfig
*/
package api

import (
	"github.com/warp/shift-roster/factory"
	"github.com/warp/shift-roster/schedule"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// RecordDTO is one generated row.
type RecordDTO struct {
	Name      string          `json:"name"`
	Group     string          `json:"group"`
	Pattern   string          `json:"pattern"`
	Days      []schedule.Cell `json:"days"` // index 0 is day 1
	Total     float64         `json:"total"`
	Deviation float64         `json:"deviation"`
	Overtime  bool            `json:"overtime"`
}

// IssueDTO is one flagged cell.
type IssueDTO struct {
	Employee string `json:"employee"`
	Day      int    `json:"day"`
	Value    string `json:"value"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
}

// RosterResponse is the body of GET /api/roster.
type RosterResponse struct {
	NormHours float64     `json:"norm_hours"`
	Days      int         `json:"days"`
	Groups    []string    `json:"groups"`
	Records   []RecordDTO `json:"records"`
	Issues    []IssueDTO  `json:"issues"`
}

// ValidationResponse is the body of GET /api/roster/validation.
type ValidationResponse struct {
	Valid  bool       `json:"valid"`
	Count  int        `json:"count"`
	Issues []IssueDTO `json:"issues"`
}

// PatternDTO represents a shift pattern.
type PatternDTO struct {
	Name   string          `json:"name"`
	Length int             `json:"length"`
	Slots  []schedule.Cell `json:"slots"`
}

// EmployeeDTO represents a configured employee.
type EmployeeDTO struct {
	Name       string               `json:"name"`
	Group      string               `json:"group"`
	Pattern    string               `json:"pattern"`
	Exceptions factory.DayOverrides `json:"exceptions"`
}

// SetExceptionRequest is the body of PUT /api/employees/{name}/exceptions/{day}.
type SetExceptionRequest struct {
	Value schedule.Cell `json:"value"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Employees   int    `json:"employees"`
}

// LoadScenarioRequest is the body of POST /api/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toRecordDTO(rec schedule.EmployeeRecord) RecordDTO {
	days := rec.Days
	if days == nil {
		days = schedule.DaySequence{}
	}
	return RecordDTO{
		Name:      rec.Name,
		Group:     rec.Group,
		Pattern:   rec.Pattern,
		Days:      days,
		Total:     rec.Total.InexactFloat64(),
		Deviation: rec.Deviation.InexactFloat64(),
		Overtime:  rec.IsOvertime(),
	}
}

func toRecordDTOs(records []schedule.EmployeeRecord) []RecordDTO {
	dtos := make([]RecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRecordDTO(rec)
	}
	return dtos
}

func toIssueDTOs(issues []schedule.ValidationError) []IssueDTO {
	dtos := make([]IssueDTO, len(issues))
	for i, issue := range issues {
		dtos[i] = IssueDTO{
			Employee: issue.Employee,
			Day:      issue.Day,
			Value:    issue.Value,
			Reason:   issue.Reason,
			Message:  issue.Error(),
		}
	}
	return dtos
}

func toPatternDTO(p schedule.ShiftPattern) PatternDTO {
	return PatternDTO{Name: p.Name(), Length: p.Len(), Slots: p.Slots()}
}

func toEmployeeDTO(emp schedule.Employee) EmployeeDTO {
	exceptions := factory.DayOverrides(emp.Exceptions)
	if exceptions == nil {
		exceptions = factory.DayOverrides{}
	}
	return EmployeeDTO{Name: emp.Name, Group: emp.Group, Pattern: emp.Pattern, Exceptions: exceptions}
}
