/*
handlers_test.go - HTTP tests for API handlers

Tests for:
- Roster generation, filters and validation over HTTP
- Error mapping (config errors, conflicts, not found)
- Pattern, employee and exception CRUD
- Export downloads
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/shift-roster/export"
	"github.com/warp/shift-roster/shifts"
)

func newTestServer(t *testing.T, preset string) (*Handler, http.Handler) {
	t.Helper()
	h := setupTestHandler(t)
	if preset != "" {
		require.NoError(t, h.LoadPreset(context.Background(), preset))
	}
	return h, NewRouter(h)
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// =============================================================================
// ROSTER
// =============================================================================

func TestGetRoster(t *testing.T) {
	// GIVEN: The single-pattern scenario
	// WHEN: GET /api/roster
	// THEN: Records arrive in declaration order with the hand-computed totals

	_, router := newTestServer(t, shifts.PresetSinglePattern)

	rec := do(t, router, http.MethodGet, "/api/roster", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[RosterResponse](t, rec)
	assert.Equal(t, 160.0, resp.NormHours)
	assert.Equal(t, 28, resp.Days)
	assert.Equal(t, []string{"ГР1"}, resp.Groups)
	require.Len(t, resp.Records, 3)
	assert.Empty(t, resp.Issues)

	petrov := resp.Records[1]
	assert.Equal(t, "Петров П.П.", petrov.Name)
	assert.Equal(t, 245.5, petrov.Total)
	assert.Equal(t, 85.5, petrov.Deviation)
	assert.True(t, petrov.Overtime)
	require.Len(t, petrov.Days, 28)
	assert.Equal(t, "ГО", petrov.Days[11].String())
	assert.True(t, petrov.Days[2].IsBlank())
}

func TestGetRoster_Filters(t *testing.T) {
	_, router := newTestServer(t, shifts.PresetWorkshop)

	rec := do(t, router, http.MethodGet, "/api/roster?group="+url.QueryEscape("ГР3"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[RosterResponse](t, rec)
	assert.Len(t, resp.Records, 4)
	assert.Len(t, resp.Groups, 5, "groups list is never filtered")

	rec = do(t, router, http.MethodGet, "/api/roster?overtime=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[RosterResponse](t, rec)
	for _, r := range resp.Records {
		assert.True(t, r.Overtime, r.Name)
		assert.Greater(t, r.Deviation, 0.0, r.Name)
	}
	assert.Len(t, resp.Records, 13, "ГР1 and ГР2 work above the norm")

	rec = do(t, router, http.MethodGet, "/api/roster?overtime=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetRoster_UnknownPatternIsConfigError(t *testing.T) {
	// GIVEN: An employee referencing an undefined pattern
	// WHEN: GET /api/roster
	// THEN: 422 with code config_error, no partial roster

	_, router := newTestServer(t, shifts.PresetOffice)

	rec := do(t, router, http.MethodPost, "/api/employees", `{"name": "Новиков", "group": "офис", "pattern": "График9"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/roster", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "config_error", resp.Code)
	assert.Contains(t, resp.Details, "График9")
	assert.Contains(t, resp.Details, "Новиков")
}

func TestGetRoster_IllegalCellsAreReportedNotRejected(t *testing.T) {
	// GIVEN: One illegal code and one negative number among exceptions
	// WHEN: Reading the roster and the validation report
	// THEN: The roster is complete and both cells are listed

	_, router := newTestServer(t, shifts.PresetOffice)

	rec := do(t, router, http.MethodPut, "/api/employees/"+url.PathEscape("Подгорбунский Д.А.")+"/exceptions/5", `{"value": "xyz"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, router, http.MethodPut, "/api/employees/"+url.PathEscape("Орлова М.К.")+"/exceptions/9", `{"value": -2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/roster", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[RosterResponse](t, rec)
	require.Len(t, resp.Records, 2)
	require.Len(t, resp.Issues, 2)
	assert.Equal(t, "unknown_code", resp.Issues[0].Reason)
	assert.Equal(t, 5, resp.Issues[0].Day)
	assert.Equal(t, "negative_hours", resp.Issues[1].Reason)

	rec = do(t, router, http.MethodGet, "/api/roster/validation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[ValidationResponse](t, rec)
	assert.False(t, v.Valid)
	assert.Equal(t, 2, v.Count)

	// Filtering narrows the issues to the shown records.
	rec = do(t, router, http.MethodGet, "/api/roster?overtime=true", "")
	resp = decode[RosterResponse](t, rec)
	assert.Empty(t, resp.Records)
	assert.Empty(t, resp.Issues)
}

func TestListGroups(t *testing.T) {
	_, router := newTestServer(t, shifts.PresetWorkshop)

	rec := do(t, router, http.MethodGet, "/api/roster/groups", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"ГР1", "ГР2", "ГР3", "ГР4", "офис"}, decode[[]string](t, rec))
}

func TestGetValidation_Clean(t *testing.T) {
	_, router := newTestServer(t, shifts.PresetWorkshop)

	rec := do(t, router, http.MethodGet, "/api/roster/validation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decode[ValidationResponse](t, rec)
	assert.True(t, v.Valid)
	assert.Equal(t, 0, v.Count)
	assert.NotNil(t, v.Issues)
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExportRoster(t *testing.T) {
	_, router := newTestServer(t, shifts.PresetSinglePattern)

	rec := do(t, router, http.MethodGet, "/api/roster/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.FormatXLSX.ContentType(), rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "production_schedule.xlsx")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "xlsx is a zip archive")

	rec = do(t, router, http.MethodGet, "/api/roster/export?format=csv&group="+url.QueryEscape("ГР1"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	rows, err := export.ReadCSV(rec.Body)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rec = do(t, router, http.MethodGet, "/api/roster/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// PATTERNS
// =============================================================================

func TestPatterns(t *testing.T) {
	// GIVEN: An empty store
	// WHEN: Creating, reading and redefining a pattern
	// THEN: Creation succeeds once, redefinition conflicts, bad input is rejected

	_, router := newTestServer(t, "")

	rec := do(t, router, http.MethodPost, "/api/patterns", `{"name": "Сутки", "slots": [24, "", "", ""]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[PatternDTO](t, rec)
	assert.Equal(t, 4, created.Length)

	rec = do(t, router, http.MethodGet, "/api/patterns/"+url.PathEscape("Сутки"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[PatternDTO](t, rec)
	assert.Equal(t, "24", got.Slots[0].String())
	assert.True(t, got.Slots[1].IsBlank())

	rec = do(t, router, http.MethodPost, "/api/patterns", `{"name": "Сутки", "slots": [12]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "pattern_exists", decode[ErrorResponse](t, rec).Code)

	rec = do(t, router, http.MethodPost, "/api/patterns", `{"name": "empty", "slots": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/patterns", `{"name": "coded", "slots": [8, "ГО"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/patterns", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/patterns/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/patterns", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]PatternDTO](t, rec), 1)
}

// =============================================================================
// EMPLOYEES AND EXCEPTIONS
// =============================================================================

func TestEmployees(t *testing.T) {
	_, router := newTestServer(t, shifts.PresetOffice)

	rec := do(t, router, http.MethodPost, "/api/employees",
		`{"name": "Новиков", "group": "офис", "pattern": "Офис", "exceptions": {"12": "ГО", "27": 4}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/employees/"+url.PathEscape("Новиков"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	emp := decode[EmployeeDTO](t, rec)
	require.Len(t, emp.Exceptions, 2)
	assert.True(t, emp.Exceptions[12].IsCode())
	assert.Equal(t, "4", emp.Exceptions[27].String())

	rec = do(t, router, http.MethodGet, "/api/employees", "")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[[]EmployeeDTO](t, rec)
	require.Len(t, all, 3)
	assert.Equal(t, "Новиков", all[2].Name)

	rec = do(t, router, http.MethodPost, "/api/employees", `{"name": "bad", "pattern": "Офис", "exceptions": {"31": "ГО"}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_day", decode[ErrorResponse](t, rec).Code)

	rec = do(t, router, http.MethodPost, "/api/employees", `{"name": "", "pattern": "Офис"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/employees/"+url.PathEscape("Новиков"), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/employees/"+url.PathEscape("Новиков"), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/employees/"+url.PathEscape("Новиков"), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmployees_NameWithParenthesesInRawPath(t *testing.T) {
	// GIVEN: The workshop scenario and a name containing "(" and ")"
	// WHEN: The path escapes Cyrillic but leaves the parentheses literal, as browsers do
	// THEN: The name is decoded before the store lookup

	_, router := newTestServer(t, shifts.PresetWorkshop)

	name := "Свиридов А.О. (стажер)"
	path := "/api/employees/" + strings.NewReplacer("%28", "(", "%29", ")").Replace(url.PathEscape(name))
	require.Contains(t, path, "(")

	rec := do(t, router, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, name, decode[EmployeeDTO](t, rec).Name)

	rec = do(t, router, http.MethodPut, path+"/exceptions/3", `{"value": "ГО"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[EmployeeDTO](t, rec).Exceptions[3].IsCode())

	rec = do(t, router, http.MethodDelete, path+"/exceptions/3", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/employees/"+url.PathEscape(name), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExceptions(t *testing.T) {
	// GIVEN: The office scenario
	// WHEN: Setting and clearing an exception on day 1
	// THEN: The week shifts while it is set and returns when it is cleared

	_, router := newTestServer(t, shifts.PresetOffice)
	name := url.PathEscape("Подгорбунский Д.А.")

	rec := do(t, router, http.MethodPut, "/api/employees/"+name+"/exceptions/1", `{"value": "б/л"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	emp := decode[EmployeeDTO](t, rec)
	assert.Equal(t, "б/л", emp.Exceptions[1].String())

	rec = do(t, router, http.MethodGet, "/api/roster", "")
	resp := decode[RosterResponse](t, rec)
	assert.Equal(t, "б/л", resp.Records[0].Days[0].String())
	assert.True(t, resp.Records[0].Days[5].IsNumber(), "day 6 takes slot 4 once day 1 is excepted")

	rec = do(t, router, http.MethodDelete, "/api/employees/"+name+"/exceptions/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/roster", "")
	resp = decode[RosterResponse](t, rec)
	assert.Equal(t, "8", resp.Records[0].Days[0].String())
	assert.True(t, resp.Records[0].Days[5].IsBlank())

	rec = do(t, router, http.MethodPut, "/api/employees/"+name+"/exceptions/29", `{"value": "го"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/employees/"+name+"/exceptions/abc", `{"value": "го"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/employees/ghost/exceptions/3", `{"value": "го"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/employees/ghost/exceptions/3", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestScenarioEndpoints(t *testing.T) {
	_, router := newTestServer(t, "")

	rec := do(t, router, http.MethodGet, "/api/scenarios", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]ScenarioDTO](t, rec)
	require.Len(t, list, 3)
	assert.Equal(t, 24, list[0].Employees)

	rec = do(t, router, http.MethodGet, "/api/scenarios/current", "")
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	rec = do(t, router, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "workshop"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodGet, "/api/scenarios/current", "")
	assert.Equal(t, "workshop", decode[ScenarioDTO](t, rec).ID)

	rec = do(t, router, http.MethodPost, "/api/scenarios/load", `{"scenario_id": "nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/scenarios/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/roster", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[RosterResponse](t, rec).Records)

	rec = do(t, router, http.MethodGet, "/api/scenarios/current", "")
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

// =============================================================================
// ROUTER
// =============================================================================

func TestNewRouter_CORSOrigins(t *testing.T) {
	h := setupTestHandler(t)
	router := NewRouter(h, "https://roster.example")

	get := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/scenarios", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	allowed := get("https://roster.example")
	assert.Equal(t, "https://roster.example", allowed.Header().Get("Access-Control-Allow-Origin"))

	denied := get("http://localhost:5173")
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
}
