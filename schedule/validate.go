/*
validate.go - Cell domain validation

PURPOSE:
  Checks that every generated cell is one of:
    - a non-negative number of hours (integer or fractional)
    - blank (unscheduled day)
    - an absence code from the closed set, compared case-insensitively

  Validation is advisory. It runs over records the builder already produced
  and reports problems; it never edits a cell and never stops the roster
  from being built.

OUTPUT:
  One ValidationError per illegal cell: employee, day, raw value, and a
  machine-readable reason.

SEE ALSO:
  - absence.go: the absence code set
  - roster.go: Builder collects issues next to the records
*/
package schedule

import "fmt"

// Validation reasons.
const (
	ReasonNegativeHours = "negative_hours"
	ReasonUnknownCode   = "unknown_code"
)

// ValidationError is a data-quality issue in one cell.
type ValidationError struct {
	Employee string
	Day      int
	Value    string // raw cell value as entered
	Reason   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: day %d has illegal value %q (%s)", e.Employee, e.Day, e.Value, e.Reason)
}

// CheckCell returns the reason a cell is illegal, or "" when it is legal.
func CheckCell(c Cell) string {
	switch c.Kind() {
	case KindBlank:
		return ""
	case KindNumber:
		if c.Value().IsNegative() {
			return ReasonNegativeHours
		}
		return ""
	default:
		if NormalizeToken(c.Token()) == "" {
			return ""
		}
		if _, ok := LookupAbsence(c.Token()); ok {
			return ""
		}
		return ReasonUnknownCode
	}
}

// IsLegal reports whether the cell belongs to the allowed value domain.
func IsLegal(c Cell) bool {
	return CheckCell(c) == ""
}

// Validate checks every day of a record. It returns nil when all cells are legal.
func Validate(rec EmployeeRecord) []ValidationError {
	var issues []ValidationError
	for i, c := range rec.Days {
		if reason := CheckCell(c); reason != "" {
			issues = append(issues, ValidationError{
				Employee: rec.Name,
				Day:      i + 1,
				Value:    c.String(),
				Reason:   reason,
			})
		}
	}
	return issues
}

// ValidateAll validates records in order and concatenates their issues.
func ValidateAll(records []EmployeeRecord) []ValidationError {
	var issues []ValidationError
	for _, rec := range records {
		issues = append(issues, Validate(rec)...)
	}
	return issues
}
