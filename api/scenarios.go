/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Populates the database with a ready-made roster: a pattern catalog and
	an employee list with their exceptions. Each scenario is a preset from
	the shifts package.

AVAILABLE SCENARIOS:

	workshop:       24 shift masters in ГР1..ГР4 plus the office
	single-pattern: one group on the five-day pattern
	office:         the office week, exactly on the 160h norm

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Build engine inputs from the preset
 3. Seed patterns, then employees, via the roster factory

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "workshop"}

ADDING NEW SCENARIOS:
 1. Add a Preset to shifts/presets.go

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - shifts/presets.go: Preset definitions
  - factory/roster.go: Seed
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/warp/shift-roster/shifts"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

func scenarioDTOs() []ScenarioDTO {
	presets := shifts.Presets()
	dtos := make([]ScenarioDTO, len(presets))
	for i, p := range presets {
		dtos[i] = ScenarioDTO{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Employees:   len(p.Employees()),
		}
	}
	return dtos
}

// ListScenarios returns available scenarios.
// GET /api/scenarios
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarioDTOs())
}

// GetCurrentScenario returns the currently loaded scenario, if any.
// GET /api/scenarios/current
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarioDTOs() {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario loads a predefined scenario.
// POST /api/scenarios/load
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if _, ok := shifts.Lookup(req.ScenarioID); !ok {
		h.writeError(w, r, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err := h.LoadPreset(r.Context(), req.ScenarioID); err != nil {
		h.writeError(w, r, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ResetDatabase clears all configuration.
// POST /api/scenarios/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	h.Logger.Info("database reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// LoadPreset resets the store and seeds it with the named preset. It is also
// used by "roster serve --seed".
func (h *Handler) LoadPreset(ctx context.Context, id string) error {
	preset, ok := shifts.Lookup(id)
	if !ok {
		return fmt.Errorf("unknown scenario %q", id)
	}

	input, err := preset.Input()
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	h.currentScenario = ""

	if err := h.Factory.Seed(ctx, h.Store, input); err != nil {
		return err
	}

	h.currentScenario = id
	h.Logger.Info("scenario loaded",
		zap.String("scenario", id),
		zap.Int("patterns", len(input.Catalog.Names())),
		zap.Int("employees", len(input.Employees)),
	)
	return nil
}
