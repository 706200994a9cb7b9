/*
generator.go - Exception-aware cyclic schedule generation

PURPOSE:
  Produces one employee's 28 cells from a shift pattern and the employee's
  sparse exception map.

ALGORITHM:
  A cyclic index starts at 0. For each day 1..28:
    - exception day:  cell = override, index unchanged
    - regular day:    cell = pattern[index mod L], index + 1

  Exception days are borrowed outside the rotation. A single leave day in
  the middle of the month does not shift the rest of the pattern: day k+1
  gets the slot day k would have had.

  Example, pattern [11.5, 11.5, "", 11.5, 11.5], exception {12: "ГО"}:
    day 11 -> slot 0 (index 10)
    day 12 -> "ГО"   (index stays 11)
    day 13 -> slot 1 (index 11)

VARIANT NOT IMPLEMENTED:
  An older behavior advanced the index on exception days too (the exception
  replaced the slot instead of being inserted). That variant shifts nothing
  and loses the slot; it is documented in DESIGN.md and not supported here.

STATE:
  The fold is explicit: Step takes (day, index) and returns (cell, next
  index). Generate threads the index through the days. There is no other
  state, so employees can be generated in any order.

SEE ALSO:
  - pattern.go: ShiftPattern.Slot does the mod L
  - validate.go: exception values are judged there, never here
*/
package schedule

// Generator resolves employees against a catalog.
type Generator struct {
	Catalog *Catalog
}

// NewGenerator creates a generator over a catalog.
func NewGenerator(catalog *Catalog) *Generator {
	return &Generator{Catalog: catalog}
}

// Generate returns the employee's day sequence. The only failure is a
// pattern name the catalog does not know.
func (g *Generator) Generate(emp Employee) (DaySequence, error) {
	pattern, err := g.Catalog.Lookup(emp.Pattern)
	if err != nil {
		return nil, &UnknownPatternError{Pattern: emp.Pattern, Employee: emp.Name}
	}
	return Resolve(pattern, emp.Exceptions), nil
}

// Resolve folds Step over days 1..DaysInMonth.
func Resolve(pattern ShiftPattern, exceptions map[int]Cell) DaySequence {
	seq := make(DaySequence, DaysInMonth)
	index := 0
	for day := 1; day <= DaysInMonth; day++ {
		seq[day-1], index = Step(pattern, exceptions, day, index)
	}
	return seq
}

// Step resolves a single day given the running cyclic index and returns the
// index for the next day.
func Step(pattern ShiftPattern, exceptions map[int]Cell, day, index int) (Cell, int) {
	if override, ok := exceptions[day]; ok {
		return override, index
	}
	return pattern.Slot(index), index + 1
}
