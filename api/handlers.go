/*
handlers.go - HTTP API handlers for the shift roster

PURPOSE:
  Exposes the roster engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the schedule package. Every roster
  read rebuilds the schedule from the stored configuration.

ENDPOINTS:
  Roster:
    GET    /api/roster                      Records + issues (?group=, ?overtime=true)
    GET    /api/roster/groups               Distinct groups, declaration order
    GET    /api/roster/validation           Issues only
    GET    /api/roster/export               File download (?format=xlsx|csv, same filters)

  Patterns:
    GET    /api/patterns                    List patterns
    POST   /api/patterns                    Register a pattern (immutable afterwards)
    GET    /api/patterns/{name}             Get one pattern

  Employees:
    GET    /api/employees                   List employees in declaration order
    POST   /api/employees                   Create or replace an employee
    GET    /api/employees/{name}            Get one employee
    DELETE /api/employees/{name}            Remove an employee
    PUT    /api/employees/{name}/exceptions/{day}   Override one day
    DELETE /api/employees/{name}/exceptions/{day}   Remove the override

  Scenarios:
    GET    /api/scenarios                   List demo scenarios
    POST   /api/scenarios/load              Load a demo scenario
    POST   /api/scenarios/reset             Clear the database

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: configuration persistence
  - Factory: document parsing and seeding
  - Norm, Logger: passed to every schedule.Builder

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (bad JSON, bad day, bad filter)
  - 404: Unknown pattern or employee on a CRUD route
  - 409: Pattern already defined
  - 422: Roster configuration unusable (unknown pattern, duplicate name)
  - 500: Internal errors

  Illegal cell values are NOT errors: the roster is returned with them
  listed under "issues".

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/shift-roster/export"
	"github.com/warp/shift-roster/factory"
	"github.com/warp/shift-roster/schedule"
	"github.com/warp/shift-roster/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Factory *factory.RosterFactory
	Norm    decimal.Decimal
	Logger  *zap.Logger

	// Track currently loaded scenario
	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a new handler with the given store. A nil logger
// disables logging.
func NewHandler(store *sqlite.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:   store,
		Factory: factory.NewRosterFactory(),
		Norm:    schedule.DefaultNorm,
		Logger:  logger,
	}
}

// buildRoster loads configuration and generates the full roster.
func (h *Handler) buildRoster(ctx context.Context) (*schedule.Roster, error) {
	catalog, employees, err := schedule.LoadConfig(ctx, h.Store)
	if err != nil {
		return nil, err
	}
	builder := schedule.NewBuilder(catalog)
	builder.Norm = h.Norm
	builder.Logger = h.Logger
	return builder.Build(employees)
}

// parseFilter reads ?group= and ?overtime= from the query string.
func parseFilter(r *http.Request) (schedule.Filter, error) {
	q := r.URL.Query()
	f := schedule.Filter{Group: q.Get("group")}
	if raw := q.Get("overtime"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, errors.New("overtime must be true or false")
		}
		f.OvertimeOnly = v
	}
	return f, nil
}

// issuesFor keeps the issues that belong to the given records.
func issuesFor(roster *schedule.Roster, records []schedule.EmployeeRecord) []schedule.ValidationError {
	issues := []schedule.ValidationError{}
	for _, rec := range records {
		issues = append(issues, roster.IssuesFor(rec.Name)...)
	}
	return issues
}

// =============================================================================
// ROSTER ENDPOINTS
// =============================================================================

// GetRoster returns the generated roster.
// GET /api/roster
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	roster, err := h.buildRoster(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "Failed to build roster", err)
		return
	}

	records := filter.Apply(roster.Records)
	writeJSON(w, http.StatusOK, RosterResponse{
		NormHours: roster.Norm.InexactFloat64(),
		Days:      schedule.DaysInMonth,
		Groups:    nonNil(roster.Groups()),
		Records:   toRecordDTOs(records),
		Issues:    toIssueDTOs(issuesFor(roster, records)),
	})
}

// ListGroups returns the distinct group labels.
// GET /api/roster/groups
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(schedule.EmployeeGroups(employees)))
}

// GetValidation returns only the data-quality issues.
// GET /api/roster/validation
func (h *Handler) GetValidation(w http.ResponseWriter, r *http.Request) {
	roster, err := h.buildRoster(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "Failed to build roster", err)
		return
	}
	writeJSON(w, http.StatusOK, ValidationResponse{
		Valid:  len(roster.Issues) == 0,
		Count:  len(roster.Issues),
		Issues: toIssueDTOs(roster.Issues),
	})
}

// ExportRoster streams the roster as a spreadsheet.
// GET /api/roster/export?format=xlsx|csv
func (h *Handler) ExportRoster(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid format", err)
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid filter", err)
		return
	}

	roster, err := h.buildRoster(r.Context())
	if err != nil {
		h.writeDomainError(w, r, "Failed to build roster", err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.FileName()+`"`)
	if err := export.Write(w, format, filter.Apply(roster.Records)); err != nil {
		// Headers are gone; all we can do is log.
		h.Logger.Error("export failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("format", string(format)),
			zap.Error(err),
		)
	}
}

// =============================================================================
// PATTERN ENDPOINTS
// =============================================================================

// ListPatterns returns all patterns.
// GET /api/patterns
func (h *Handler) ListPatterns(w http.ResponseWriter, r *http.Request) {
	patterns, err := h.Store.ListPatterns(r.Context())
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "Failed to list patterns", err)
		return
	}
	dtos := make([]PatternDTO, len(patterns))
	for i, p := range patterns {
		dtos[i] = toPatternDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPattern returns one pattern.
// GET /api/patterns/{name}
func (h *Handler) GetPattern(w http.ResponseWriter, r *http.Request) {
	name, ok := h.nameParam(w, r)
	if !ok {
		return
	}
	p, err := h.Store.GetPattern(r.Context(), name)
	if schedule.IsNotFound(err) {
		h.writeErrorCode(w, r, http.StatusNotFound, "pattern_not_found", "Pattern not found", err)
		return
	}
	if err != nil {
		h.writeDomainError(w, r, "Failed to get pattern", err)
		return
	}
	writeJSON(w, http.StatusOK, toPatternDTO(p))
}

// CreatePattern registers a new pattern.
// POST /api/patterns
func (h *Handler) CreatePattern(w http.ResponseWriter, r *http.Request) {
	var req factory.PatternConfig
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.Factory.ParsePattern(req)
	if err != nil {
		h.writeDomainError(w, r, "Invalid pattern", err)
		return
	}
	if err := h.Store.SavePattern(r.Context(), p); err != nil {
		h.writeDomainError(w, r, "Failed to save pattern", err)
		return
	}

	h.Logger.Info("pattern created", zap.String("pattern", p.Name()), zap.Int("length", p.Len()))
	writeJSON(w, http.StatusCreated, toPatternDTO(p))
}

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

// ListEmployees returns all employees in declaration order.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}
	dtos := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		dtos[i] = toEmployeeDTO(emp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns one employee.
// GET /api/employees/{name}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	name, ok := h.nameParam(w, r)
	if !ok {
		return
	}
	emp, err := h.Store.GetEmployee(r.Context(), name)
	if err != nil {
		h.writeDomainError(w, r, "Employee not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// CreateEmployee creates or replaces an employee. The pattern is not checked
// here; an unknown pattern fails the next roster build.
// POST /api/employees
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req factory.EmployeeConfig
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, err := h.Factory.ParseEmployee(req)
	if err != nil {
		status, code := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		h.writeErrorCode(w, r, status, code, "Invalid employee", err)
		return
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		h.writeDomainError(w, r, "Failed to save employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// DeleteEmployee removes an employee.
// DELETE /api/employees/{name}
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	name, ok := h.nameParam(w, r)
	if !ok {
		return
	}
	if err := h.Store.DeleteEmployee(r.Context(), name); err != nil {
		h.writeDomainError(w, r, "Failed to delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetException overrides one day.
// PUT /api/employees/{name}/exceptions/{day}
func (h *Handler) SetException(w http.ResponseWriter, r *http.Request) {
	name, ok := h.nameParam(w, r)
	if !ok {
		return
	}
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Day must be a number", err)
		return
	}

	var req SetExceptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.SetException(ctx, name, day, req.Value); err != nil {
		h.writeDomainError(w, r, "Failed to set exception", err)
		return
	}

	emp, err := h.Store.GetEmployee(ctx, name)
	if err != nil {
		h.writeDomainError(w, r, "Employee not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// ClearException removes a day override.
// DELETE /api/employees/{name}/exceptions/{day}
func (h *Handler) ClearException(w http.ResponseWriter, r *http.Request) {
	name, ok := h.nameParam(w, r)
	if !ok {
		return
	}
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Day must be a number", err)
		return
	}
	if err := h.Store.ClearException(r.Context(), name, day); err != nil {
		h.writeDomainError(w, r, "Failed to clear exception", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

// nameParam returns the {name} route parameter decoded. chi matches on
// r.URL.RawPath when the client's escaping differs from Go's (browsers leave
// parentheses unescaped), and the parameter then still carries %XX sequences.
func (h *Handler) nameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, true
	}
	decoded, err := url.PathUnescape(name)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid name in path", err)
		return "", false
	}
	return decoded, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	h.writeErrorCode(w, r, status, "", message, err)
}

func (h *Handler) writeErrorCode(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	fields := []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Error(message, fields...)
	} else {
		h.Logger.Debug(message, fields...)
	}

	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps schedule errors to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status, code := statusFor(err)
	h.writeErrorCode(w, r, status, code, message, err)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, schedule.ErrPatternExists):
		return http.StatusConflict, "pattern_exists"
	case errors.Is(err, schedule.ErrInvalidDay):
		return http.StatusBadRequest, "invalid_day"
	case errors.Is(err, schedule.ErrInvalidPattern):
		return http.StatusBadRequest, "invalid_pattern"
	case errors.Is(err, schedule.ErrEmployeeNotFound):
		return http.StatusNotFound, "employee_not_found"
	case schedule.IsConfigError(err):
		return http.StatusUnprocessableEntity, "config_error"
	}
	return http.StatusInternalServerError, ""
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
