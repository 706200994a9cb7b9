/*
roster.go - Roster assembly

PURPOSE:
  Composes the full timesheet: for every employee, in declaration order,
  generate the day sequence, aggregate the totals and validate the cells.

FAILURE POLICY:
  - Configuration errors (unknown pattern, duplicate name, exception day
    outside the month) fail the whole build. A roster silently missing an
    employee is worse than no roster.
  - Illegal cell values never fail the build. The record is emitted as
    generated and the issue goes to Roster.Issues.

ORDER:
  Records keep the input order; group and display ordering downstream rely
  on declaration order.

USAGE:
  builder := schedule.NewBuilder(catalog)
  builder.Logger = logger
  roster, err := builder.Build(employees)
  for _, issue := range roster.Issues { ... }

SEE ALSO:
  - generator.go, aggregate.go, validate.go: the per-employee steps
  - filter.go: presentation-side projections over Roster.Records
*/
package schedule

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// =============================================================================
// ROSTER - Build output
// =============================================================================

// Roster is the generated timesheet plus its validation issues.
type Roster struct {
	Records []EmployeeRecord
	Issues  []ValidationError
	Norm    decimal.Decimal
}

// Record returns the record for a name.
func (r *Roster) Record(name string) (EmployeeRecord, bool) {
	for _, rec := range r.Records {
		if rec.Name == name {
			return rec, true
		}
	}
	return EmployeeRecord{}, false
}

// IssuesFor returns the validation issues of one employee.
func (r *Roster) IssuesFor(name string) []ValidationError {
	var out []ValidationError
	for _, issue := range r.Issues {
		if issue.Employee == name {
			out = append(out, issue)
		}
	}
	return out
}

// Groups returns the distinct group labels in declaration order.
func (r *Roster) Groups() []string {
	return Groups(r.Records)
}

// =============================================================================
// BUILDER
// =============================================================================

// Builder assembles rosters against a fixed catalog and norm.
type Builder struct {
	Catalog *Catalog
	Norm    decimal.Decimal
	Logger  *zap.Logger
}

// NewBuilder creates a builder with the default 160-hour norm and a no-op logger.
func NewBuilder(catalog *Catalog) *Builder {
	return &Builder{
		Catalog: catalog,
		Norm:    DefaultNorm,
		Logger:  zap.NewNop(),
	}
}

// Build generates one record per employee, in order.
func (b *Builder) Build(employees []Employee) (*Roster, error) {
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := checkEmployees(employees); err != nil {
		return nil, err
	}

	gen := NewGenerator(b.Catalog)
	roster := &Roster{
		Records: make([]EmployeeRecord, 0, len(employees)),
		Norm:    b.Norm,
	}

	for _, emp := range employees {
		days, err := gen.Generate(emp)
		if err != nil {
			logger.Error("roster build failed", zap.String("employee", emp.Name), zap.Error(err))
			return nil, err
		}

		totals := Aggregate(days, b.Norm)
		rec := EmployeeRecord{
			Name:      emp.Name,
			Group:     emp.Group,
			Pattern:   emp.Pattern,
			Days:      days,
			Total:     totals.Total,
			Deviation: totals.Deviation,
		}

		if issues := Validate(rec); len(issues) > 0 {
			logger.Warn("illegal cell values",
				zap.String("employee", rec.Name),
				zap.Int("count", len(issues)))
			roster.Issues = append(roster.Issues, issues...)
		}
		roster.Records = append(roster.Records, rec)
	}

	logger.Debug("roster built",
		zap.Int("employees", len(roster.Records)),
		zap.Int("issues", len(roster.Issues)))
	return roster, nil
}

// checkEmployees enforces unique names and in-month exception days.
func checkEmployees(employees []Employee) error {
	seen := make(map[string]bool, len(employees))
	for i, emp := range employees {
		if seen[emp.Name] {
			return &DuplicateEmployeeError{Name: emp.Name, Position: i}
		}
		seen[emp.Name] = true

		for day := range emp.Exceptions {
			if day < 1 || day > DaysInMonth {
				return &InvalidDayError{Employee: emp.Name, Day: day}
			}
		}
	}
	return nil
}
