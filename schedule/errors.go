/*
errors.go - Error types for the roster engine

PURPOSE:
  All error types in one place. The engine has two error families and they
  never mix:

ERROR CATEGORIES:
  1. Configuration errors - unknown pattern, duplicate employee, bad pattern,
     exception day outside 1..28. Fatal: the roster is not built.
  2. Data-quality issues - illegal cell values. NOT Go errors: they are
     collected as ValidationError values (validate.go) next to a complete roster.

USAGE:
  roster, err := builder.Build(employees)
  if schedule.IsConfigError(err) {
      // show the configuration problem, nothing was generated
  }

SEE ALSO:
  - validate.go: ValidationError (data-quality issues)
  - roster.go: where configuration errors surface
*/
package schedule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPatternNotFound is returned when an employee references a pattern
	// that the catalog does not define.
	ErrPatternNotFound = errors.New("shift pattern not found")

	// ErrInvalidPattern is returned for empty patterns or slots that are not
	// non-negative hours or blank.
	ErrInvalidPattern = errors.New("invalid shift pattern")

	// ErrPatternExists is returned when a pattern name is defined twice.
	// Patterns are immutable once registered.
	ErrPatternExists = errors.New("shift pattern already defined")

	// ErrDuplicateEmployee is returned when two roster entries share a name.
	ErrDuplicateEmployee = errors.New("duplicate employee")

	// ErrEmployeeNotFound is returned by stores for unknown employee names.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrInvalidDay is returned for exception days outside 1..DaysInMonth.
	ErrInvalidDay = errors.New("invalid day")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownPatternError names the missing pattern and, when known, the employee
// that referenced it.
type UnknownPatternError struct {
	Pattern  string
	Employee string
}

func (e *UnknownPatternError) Error() string {
	if e.Employee == "" {
		return fmt.Sprintf("unknown shift pattern %q", e.Pattern)
	}
	return fmt.Sprintf("employee %q: unknown shift pattern %q", e.Employee, e.Pattern)
}

func (e *UnknownPatternError) Unwrap() error {
	return ErrPatternNotFound
}

// DuplicateEmployeeError reports the second occurrence of a name.
type DuplicateEmployeeError struct {
	Name     string
	Position int // 0-based index of the duplicate in the input
}

func (e *DuplicateEmployeeError) Error() string {
	return fmt.Sprintf("employee %q declared twice (entry %d)", e.Name, e.Position+1)
}

func (e *DuplicateEmployeeError) Unwrap() error {
	return ErrDuplicateEmployee
}

// InvalidDayError reports an exception keyed outside the month.
type InvalidDayError struct {
	Employee string
	Day      int
}

func (e *InvalidDayError) Error() string {
	return fmt.Sprintf("employee %q: exception day %d outside 1..%d", e.Employee, e.Day, DaysInMonth)
}

func (e *InvalidDayError) Unwrap() error {
	return ErrInvalidDay
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConfigError returns true if the error means the roster configuration
// itself is unusable.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrPatternNotFound) ||
		errors.Is(err, ErrInvalidPattern) ||
		errors.Is(err, ErrPatternExists) ||
		errors.Is(err, ErrDuplicateEmployee) ||
		errors.Is(err, ErrInvalidDay)
}

// IsNotFound returns true if the error indicates a missing pattern or employee.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPatternNotFound) ||
		errors.Is(err, ErrEmployeeNotFound)
}
