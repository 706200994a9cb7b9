/*
Package schedule provides the roster generation and validation engine.

PURPOSE:
  Turns a small catalog of repeating shift patterns plus per-employee day
  overrides into a 28-day timesheet, sums worked hours against the monthly
  norm, and checks every cell against the allowed value domain.

KEY CONCEPTS IN THIS FILE (types.go):
  - Cell: one resolved timesheet value (hours, blank, or a text token)
  - DaySequence: the 28 cells of one employee, day 1 first
  - Employee: roster input (name, group, pattern, exceptions)
  - EmployeeRecord: roster output row with derived totals

DESIGN PRINCIPLES:
  1. Classification once: raw input is turned into a Cell when it is parsed,
     the engine never probes types again.
  2. Precision: hours are decimal.Decimal, 11.5 stays 11.5 through summation.
  3. Totality: generation and aggregation never fail on odd cell values;
     the validator reports them instead.

USAGE:
  catalog, _ := schedule.NewCatalog(pattern)
  roster, err := schedule.NewBuilder(catalog).Build(employees)

SEE ALSO:
  - pattern.go: ShiftPattern and Catalog
  - generator.go: exception-aware cyclic generation
  - aggregate.go: hour totals and deviation
  - validate.go: cell domain checks
  - roster.go: Builder composing the above
*/
package schedule

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// ROSTER CONSTANTS
// =============================================================================

const (
	// DaysInMonth is the length of every generated timesheet.
	DaysInMonth = 28

	// NormHours is the monthly hour target deviations are measured against.
	NormHours = 160
)

// DefaultNorm is NormHours as a decimal.
var DefaultNorm = decimal.NewFromInt(NormHours)

// =============================================================================
// CELL - Tagged timesheet value
// =============================================================================

// CellKind discriminates the Cell variant.
type CellKind int

const (
	KindBlank  CellKind = iota // day off, nothing scheduled
	KindNumber                 // worked hours
	KindCode                   // text token, legal only when it is an absence code
)

func (k CellKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindNumber:
		return "number"
	case KindCode:
		return "code"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Cell is a single timesheet value: Number(hours) | Blank | Code(token).
// The zero value is Blank.
type Cell struct {
	kind  CellKind
	hours decimal.Decimal
	token string
}

// Number returns an hours cell.
func Number(hours decimal.Decimal) Cell {
	return Cell{kind: KindNumber, hours: hours}
}

// Hours is Number for float literals (presets, tests).
func Hours(h float64) Cell {
	return Number(decimal.NewFromFloat(h))
}

// Blank returns the off-day cell.
func Blank() Cell {
	return Cell{}
}

// Code returns a text cell. The token is kept verbatim; an empty token is Blank.
func Code(token string) Cell {
	if token == "" {
		return Blank()
	}
	return Cell{kind: KindCode, token: token}
}

// ParseCell classifies a raw string as typed into a sheet or a config file.
// Whitespace-only input is Blank, anything decimal.NewFromString accepts is
// a Number, everything else is kept as a Code for the validator to judge.
func ParseCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Blank()
	}
	if d, err := decimal.NewFromString(trimmed); err == nil {
		return Number(d)
	}
	return Code(raw)
}

// Kind reports which variant the cell holds.
func (c Cell) Kind() CellKind { return c.kind }

// IsBlank reports an empty cell (off day).
func (c Cell) IsBlank() bool { return c.kind == KindBlank }

// IsNumber reports a cell holding worked hours.
func (c Cell) IsNumber() bool { return c.kind == KindNumber }

// IsCode reports a textual cell, legal or not.
func (c Cell) IsCode() bool { return c.kind == KindCode }

// Token returns the raw text of a Code cell as entered, and "" otherwise.
func (c Cell) Token() string { return c.token }

// Value returns the hours of a Number cell and zero for every other kind.
func (c Cell) Value() decimal.Decimal {
	if c.kind != KindNumber {
		return decimal.Zero
	}
	return c.hours
}

// Equal compares kind and payload; numbers compare by value (4 == 4.0).
func (c Cell) Equal(other Cell) bool {
	if c.kind != other.kind {
		return false
	}
	switch c.kind {
	case KindNumber:
		return c.hours.Equal(other.hours)
	case KindCode:
		return c.token == other.token
	default:
		return true
	}
}

// String renders the raw value the way it appears in a sheet.
func (c Cell) String() string {
	switch c.kind {
	case KindNumber:
		return c.hours.String()
	case KindCode:
		return c.token
	default:
		return ""
	}
}

// =============================================================================
// CELL ENCODING - JSON and YAML
// =============================================================================

// MarshalJSON writes numbers as JSON numbers and everything else as strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.kind == KindNumber {
		return []byte(c.hours.String()), nil
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a number, a string or null.
func (c *Cell) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	switch {
	case text == "null":
		*c = Blank()
		return nil
	case strings.HasPrefix(text, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ParseCell(s)
		return nil
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return fmt.Errorf("cell must be a number, string or null, got %s", text)
	}
	*c = Number(d)
	return nil
}

// MarshalYAML keeps numbers as YAML numbers.
func (c Cell) MarshalYAML() (any, error) {
	switch c.kind {
	case KindNumber:
		tag := "!!float"
		if c.hours.IsInteger() {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: c.hours.String()}, nil
	default:
		return c.String(), nil
	}
}

// UnmarshalYAML accepts a scalar: number, string, or null (~).
func (c *Cell) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: cell must be a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		*c = Blank()
	case "!!int", "!!float":
		d, err := decimal.NewFromString(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: invalid number %q: %w", node.Line, node.Value, err)
		}
		*c = Number(d)
	default:
		*c = ParseCell(node.Value)
	}
	return nil
}

// =============================================================================
// DAY SEQUENCE
// =============================================================================

// DaySequence holds one employee's resolved cells; index 0 is day 1.
type DaySequence []Cell

// Day returns the cell for a 1-indexed day, Blank when out of range.
func (s DaySequence) Day(day int) Cell {
	if day < 1 || day > len(s) {
		return Blank()
	}
	return s[day-1]
}

// Map returns the sequence keyed by day number.
func (s DaySequence) Map() map[int]Cell {
	m := make(map[int]Cell, len(s))
	for i, c := range s {
		m[i+1] = c
	}
	return m
}

// =============================================================================
// EMPLOYEE - Roster input
// =============================================================================

// Employee is one roster entry. Exceptions is sparse: a missing day uses the pattern.
type Employee struct {
	Name       string
	Group      string
	Pattern    string
	Exceptions map[int]Cell
}

// =============================================================================
// EMPLOYEE RECORD - Roster output row
// =============================================================================

// EmployeeRecord is a generated timesheet row. Total and Deviation are
// filled by the Builder and never edited independently.
type EmployeeRecord struct {
	Name      string
	Group     string
	Pattern   string
	Days      DaySequence
	Total     decimal.Decimal
	Deviation decimal.Decimal
}

// IsOvertime reports a positive deviation from the norm.
func (r EmployeeRecord) IsOvertime() bool {
	return r.Deviation.IsPositive()
}
