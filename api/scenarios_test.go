/*
scenarios_test.go - Unit tests for demo scenarios

PURPOSE:
	Tests that each scenario correctly sets up the expected state:
	- Patterns are created in catalog order
	- Employees are created with their exceptions
	- The roster built from the store matches the preset

These tests ensure scenarios work correctly and can be used as integration tests.
*/
package api

import (
	"context"
	"testing"

	"github.com/warp/shift-roster/shifts"
	"github.com/warp/shift-roster/store/sqlite"
)

func setupTestHandler(t *testing.T) *Handler {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewHandler(store, nil)
}

func TestScenario_Workshop(t *testing.T) {
	// GIVEN: Workshop scenario
	// WHEN: Loading the scenario
	// THEN: Patterns, employees and exceptions should be stored and build cleanly

	handler := setupTestHandler(t)
	ctx := context.Background()

	if err := handler.LoadPreset(ctx, shifts.PresetWorkshop); err != nil {
		t.Fatalf("Failed to load workshop scenario: %v", err)
	}

	patterns, err := handler.Store.ListPatterns(ctx)
	if err != nil {
		t.Fatalf("Failed to list patterns: %v", err)
	}
	if len(patterns) != 5 {
		t.Errorf("Expected 5 patterns, got %d", len(patterns))
	}
	if patterns[0].Name() != shifts.Pattern1 {
		t.Errorf("Expected first pattern %s, got %s", shifts.Pattern1, patterns[0].Name())
	}

	employees, err := handler.Store.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("Failed to list employees: %v", err)
	}
	if len(employees) != 24 {
		t.Errorf("Expected 24 employees, got %d", len(employees))
	}
	if len(employees[0].Exceptions) != 2 {
		t.Errorf("Expected 2 exceptions for %s, got %d", employees[0].Name, len(employees[0].Exceptions))
	}

	roster, err := handler.buildRoster(ctx)
	if err != nil {
		t.Fatalf("Failed to build roster: %v", err)
	}
	if got := roster.Records[0].Total.StringFixed(1); got != "245.5" {
		t.Errorf("Expected total 245.5 for %s, got %s", roster.Records[0].Name, got)
	}
	if len(roster.Issues) != 0 {
		t.Errorf("Expected no issues, got %d", len(roster.Issues))
	}
}

func TestScenario_ReloadReplacesData(t *testing.T) {
	// GIVEN: The workshop scenario loaded
	// WHEN: Loading the office scenario on top
	// THEN: Only the office data remains and the current scenario is updated

	handler := setupTestHandler(t)
	ctx := context.Background()

	if err := handler.LoadPreset(ctx, shifts.PresetWorkshop); err != nil {
		t.Fatalf("Failed to load workshop scenario: %v", err)
	}
	if err := handler.LoadPreset(ctx, shifts.PresetOffice); err != nil {
		t.Fatalf("Failed to load office scenario: %v", err)
	}

	employees, err := handler.Store.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("Failed to list employees: %v", err)
	}
	if len(employees) != 2 {
		t.Errorf("Expected 2 employees, got %d", len(employees))
	}
	if handler.currentScenario != shifts.PresetOffice {
		t.Errorf("Expected current scenario %s, got %q", shifts.PresetOffice, handler.currentScenario)
	}
}

func TestScenario_AllPresetsLoad(t *testing.T) {
	handler := setupTestHandler(t)
	ctx := context.Background()

	for _, p := range shifts.Presets() {
		if err := handler.LoadPreset(ctx, p.ID); err != nil {
			t.Errorf("Failed to load %s: %v", p.ID, err)
			continue
		}
		if _, err := handler.buildRoster(ctx); err != nil {
			t.Errorf("Scenario %s does not build: %v", p.ID, err)
		}
	}
}

func TestScenario_Unknown(t *testing.T) {
	handler := setupTestHandler(t)
	if err := handler.LoadPreset(context.Background(), "nope"); err == nil {
		t.Error("Expected error for unknown scenario")
	}
}
