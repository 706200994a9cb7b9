// Package store provides ConfigStore implementations.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/warp/shift-roster/schedule"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is a ConfigStore and ConfigWriter kept in process memory. Patterns
// and employees are returned in insertion order.
type Memory struct {
	mu        sync.RWMutex
	patterns  []schedule.ShiftPattern
	employees []schedule.Employee
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{}
}

// SavePattern registers a pattern. Patterns cannot be redefined.
func (m *Memory) SavePattern(_ context.Context, p schedule.ShiftPattern) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.patterns {
		if existing.Name() == p.Name() {
			return fmt.Errorf("%w: %q", schedule.ErrPatternExists, p.Name())
		}
	}
	m.patterns = append(m.patterns, p)
	return nil
}

// SaveEmployee inserts or replaces an employee. A replaced employee keeps its
// declaration position.
func (m *Memory) SaveEmployee(_ context.Context, emp schedule.Employee) error {
	for day := range emp.Exceptions {
		if day < 1 || day > schedule.DaysInMonth {
			return &schedule.InvalidDayError{Employee: emp.Name, Day: day}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	emp.Exceptions = copyExceptions(emp.Exceptions)
	for i, existing := range m.employees {
		if existing.Name == emp.Name {
			m.employees[i] = emp
			return nil
		}
	}
	m.employees = append(m.employees, emp)
	return nil
}

// SetException overrides one day for an employee.
func (m *Memory) SetException(_ context.Context, name string, day int, value schedule.Cell) error {
	if day < 1 || day > schedule.DaysInMonth {
		return &schedule.InvalidDayError{Employee: name, Day: day}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.employees {
		if m.employees[i].Name == name {
			if m.employees[i].Exceptions == nil {
				m.employees[i].Exceptions = make(map[int]schedule.Cell)
			}
			m.employees[i].Exceptions[day] = value
			return nil
		}
	}
	return fmt.Errorf("%w: %q", schedule.ErrEmployeeNotFound, name)
}

func (m *Memory) ListPatterns(_ context.Context) ([]schedule.ShiftPattern, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]schedule.ShiftPattern(nil), m.patterns...), nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]schedule.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]schedule.Employee, len(m.employees))
	for i, emp := range m.employees {
		emp.Exceptions = copyExceptions(emp.Exceptions)
		result[i] = emp
	}
	return result, nil
}

func copyExceptions(in map[int]schedule.Cell) map[int]schedule.Cell {
	if in == nil {
		return nil
	}
	out := make(map[int]schedule.Cell, len(in))
	for day, v := range in {
		out[day] = v
	}
	return out
}

var (
	_ schedule.ConfigStore  = (*Memory)(nil)
	_ schedule.ConfigWriter = (*Memory)(nil)
)
