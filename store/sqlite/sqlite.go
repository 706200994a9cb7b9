/*
Package sqlite provides a SQLite-backed roster configuration store.

PURPOSE:
  Persists the two inputs of the roster engine, the shift pattern catalog and
  the ordered employee list with their exceptions, so the server can be
  edited between builds. Generated schedules are never stored; every read
  of the roster recomputes them from this configuration.

INTERFACES IMPLEMENTED:
  schedule.ConfigStore:  ListPatterns, ListEmployees
  schedule.ConfigWriter: SavePattern, SaveEmployee

KEY TABLES:
  patterns:   name -> slots (JSON cells), insert-only
  employees:  declaration order kept in the position column
  exceptions: (employee, day) -> cell, day constrained to 1..28

IMMUTABILITY:
  Patterns are never updated. A second SavePattern with the same name fails
  with schedule.ErrPatternExists. Employees are upserted by name and keep
  their original position.

CELL ENCODING:
  Slots and exception values are stored with the cell JSON encoding:
  numbers stay numbers (lossless decimal text), codes and blanks are strings.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. The pool is capped at one
  connection so ":memory:" databases are shared by every query.

USAGE:
  store, err := sqlite.New("./data/roster.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  catalog, employees, err := schedule.LoadConfig(ctx, store)

SEE ALSO:
  - schedule/store.go: Interface definitions
  - schedule/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/warp/shift-roster/schedule"
)

// Store implements the roster configuration interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Patterns (insert-only)
	CREATE TABLE IF NOT EXISTS patterns (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		slots_json TEXT NOT NULL,
		position INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Employees, in declaration order
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		group_name TEXT NOT NULL,
		pattern TEXT NOT NULL,
		position INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_position
		ON employees(position);
	CREATE INDEX IF NOT EXISTS idx_employees_group
		ON employees(group_name);

	-- Per-day overrides. employees.pattern is not a foreign key: unknown
	-- patterns are reported when the roster is built.
	CREATE TABLE IF NOT EXISTS exceptions (
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
		day INTEGER NOT NULL CHECK (day BETWEEN 1 AND 28),
		value_json TEXT NOT NULL,
		PRIMARY KEY (employee_id, day)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PATTERN STORE
// =============================================================================

// SavePattern registers a pattern. Patterns cannot be redefined.
func (s *Store) SavePattern(ctx context.Context, p schedule.ShiftPattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := json.Marshal(p.Slots())
	if err != nil {
		return fmt.Errorf("failed to encode slots: %w", err)
	}

	query := `
		INSERT INTO patterns (id, name, slots_json, position, created_at)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM patterns), ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.NewString(), p.Name(), string(slots), now(),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: %q", schedule.ErrPatternExists, p.Name())
	}
	return err
}

// GetPattern retrieves a pattern by name.
func (s *Store) GetPattern(ctx context.Context, name string) (schedule.ShiftPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var slots string
	err := s.db.QueryRowContext(ctx,
		"SELECT slots_json FROM patterns WHERE name = ?", name,
	).Scan(&slots)

	if errors.Is(err, sql.ErrNoRows) {
		return schedule.ShiftPattern{}, &schedule.UnknownPatternError{Pattern: name}
	}
	if err != nil {
		return schedule.ShiftPattern{}, err
	}
	return decodePattern(name, slots)
}

// ListPatterns returns all patterns in definition order.
func (s *Store) ListPatterns(ctx context.Context) ([]schedule.ShiftPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, slots_json FROM patterns ORDER BY position",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patterns []schedule.ShiftPattern
	for rows.Next() {
		var name, slots string
		if err := rows.Scan(&name, &slots); err != nil {
			return nil, err
		}
		p, err := decodePattern(name, slots)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

func decodePattern(name, slotsJSON string) (schedule.ShiftPattern, error) {
	var slots []schedule.Cell
	if err := json.Unmarshal([]byte(slotsJSON), &slots); err != nil {
		return schedule.ShiftPattern{}, fmt.Errorf("pattern %q: corrupt slots: %w", name, err)
	}
	return schedule.NewShiftPattern(name, slots...)
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// SaveEmployee inserts or replaces an employee with its exceptions. A replaced
// employee keeps its position.
func (s *Store) SaveEmployee(ctx context.Context, emp schedule.Employee) error {
	for day := range emp.Exceptions {
		if day < 1 || day > schedule.DaysInMonth {
			return &schedule.InvalidDayError{Employee: emp.Name, Day: day}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		ts := now()
		var id string
		err := tx.QueryRowContext(ctx, "SELECT id FROM employees WHERE name = ?", emp.Name).Scan(&id)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			id = uuid.NewString()
			_, err = tx.ExecContext(ctx, `
				INSERT INTO employees (id, name, group_name, pattern, position, created_at, updated_at)
				VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM employees), ?, ?)`,
				id, emp.Name, emp.Group, emp.Pattern, ts, ts,
			)
		case err == nil:
			_, err = tx.ExecContext(ctx,
				"UPDATE employees SET group_name = ?, pattern = ?, updated_at = ? WHERE id = ?",
				emp.Group, emp.Pattern, ts, id,
			)
			if err == nil {
				_, err = tx.ExecContext(ctx, "DELETE FROM exceptions WHERE employee_id = ?", id)
			}
		}
		if err != nil {
			return err
		}

		for day, value := range emp.Exceptions {
			if err := putException(ctx, tx, id, day, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetEmployee retrieves an employee and its exceptions by name.
func (s *Store) GetEmployee(ctx context.Context, name string) (schedule.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees, err := s.queryEmployees(ctx, "WHERE e.name = ?", name)
	if err != nil {
		return schedule.Employee{}, err
	}
	if len(employees) == 0 {
		return schedule.Employee{}, fmt.Errorf("%w: %q", schedule.ErrEmployeeNotFound, name)
	}
	return employees[0], nil
}

// ListEmployees returns employees in declaration order, exceptions included.
func (s *Store) ListEmployees(ctx context.Context) ([]schedule.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryEmployees(ctx, "")
}

func (s *Store) queryEmployees(ctx context.Context, where string, args ...any) ([]schedule.Employee, error) {
	query := `
		SELECT e.name, e.group_name, e.pattern, x.day, x.value_json
		FROM employees e
		LEFT JOIN exceptions x ON x.employee_id = e.id
		` + where + `
		ORDER BY e.position, x.day
	`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []schedule.Employee
	for rows.Next() {
		var emp schedule.Employee
		var day sql.NullInt64
		var value sql.NullString
		if err := rows.Scan(&emp.Name, &emp.Group, &emp.Pattern, &day, &value); err != nil {
			return nil, err
		}

		// Rows arrive grouped by employee; extend the last one.
		if n := len(employees); n == 0 || employees[n-1].Name != emp.Name {
			employees = append(employees, emp)
		}
		if !day.Valid {
			continue
		}

		var cell schedule.Cell
		if err := json.Unmarshal([]byte(value.String), &cell); err != nil {
			return nil, fmt.Errorf("employee %q day %d: corrupt value: %w", emp.Name, day.Int64, err)
		}
		last := &employees[len(employees)-1]
		if last.Exceptions == nil {
			last.Exceptions = make(map[int]schedule.Cell)
		}
		last.Exceptions[int(day.Int64)] = cell
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee and its exceptions.
func (s *Store) DeleteEmployee(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", schedule.ErrEmployeeNotFound, name)
	}
	return nil
}

// =============================================================================
// EXCEPTION STORE
// =============================================================================

// SetException overrides one day for an employee.
func (s *Store) SetException(ctx context.Context, name string, day int, value schedule.Cell) error {
	if day < 1 || day > schedule.DaysInMonth {
		return &schedule.InvalidDayError{Employee: name, Day: day}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := employeeID(ctx, tx, name)
		if err != nil {
			return err
		}
		if err := putException(ctx, tx, id, day, value); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "UPDATE employees SET updated_at = ? WHERE id = ?", now(), id)
		return err
	})
}

// ClearException removes the override for one day. Clearing a day without an
// override is not an error.
func (s *Store) ClearException(ctx context.Context, name string, day int) error {
	if day < 1 || day > schedule.DaysInMonth {
		return &schedule.InvalidDayError{Employee: name, Day: day}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		id, err := employeeID(ctx, tx, name)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM exceptions WHERE employee_id = ? AND day = ?", id, day)
		return err
	})
}

func employeeID(ctx context.Context, tx *sql.Tx, name string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, "SELECT id FROM employees WHERE name = ?", name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %q", schedule.ErrEmployeeNotFound, name)
	}
	return id, err
}

func putException(ctx context.Context, tx *sql.Tx, employeeID string, day int, value schedule.Cell) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode day %d: %w", day, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO exceptions (employee_id, day, value_json) VALUES (?, ?, ?)
		ON CONFLICT(employee_id, day) DO UPDATE SET value_json = excluded.value_json`,
		employeeID, day, string(encoded),
	)
	return err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"exceptions", "employees", "patterns"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// withTx runs fn in a transaction. Callers hold s.mu.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func isUniqueConstraintError(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

var (
	_ schedule.ConfigStore  = (*Store)(nil)
	_ schedule.ConfigWriter = (*Store)(nil)
)
