/*
store.go - Configuration source interface

PURPOSE:
  The engine is fed from configuration: a pattern table and an ordered
  employee list. ConfigStore is the read side every source implements, so
  the builder never cares whether the roster came from a YAML file, the
  in-memory store or SQLite.

WHAT IS STORED:
  Only inputs. Generated day sequences and totals are recomputed on every
  build and are never written back.

IMPLEMENTATIONS:
  - schedule/store/memory.go: in-memory (tests, CLI file mode)
  - store/sqlite/sqlite.go: SQLite (server)

SEE ALSO:
  - factory/roster.go: file-based configuration
*/
package schedule

import (
	"context"
	"fmt"
)

// ConfigStore supplies roster configuration.
type ConfigStore interface {
	// ListPatterns returns all patterns in definition order.
	ListPatterns(ctx context.Context) ([]ShiftPattern, error)

	// ListEmployees returns employees in declaration order, exceptions included.
	ListEmployees(ctx context.Context) ([]Employee, error)
}

// ConfigWriter is the write side used to seed a store from a file or preset.
type ConfigWriter interface {
	// SavePattern registers a pattern; redefining a name fails with ErrPatternExists.
	SavePattern(ctx context.Context, p ShiftPattern) error

	// SaveEmployee inserts or replaces an employee, keeping its position on replace.
	SaveEmployee(ctx context.Context, emp Employee) error
}

// LoadConfig reads a store into a catalog and employee list.
func LoadConfig(ctx context.Context, store ConfigStore) (*Catalog, []Employee, error) {
	patterns, err := store.ListPatterns(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	catalog, err := NewCatalog(patterns...)
	if err != nil {
		return nil, nil, err
	}

	employees, err := store.ListEmployees(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return catalog, employees, nil
}
