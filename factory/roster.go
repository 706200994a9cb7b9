/*
Package factory converts roster configuration files into engine inputs.

PURPOSE:
  Reads the pattern table and the ordered employee list from YAML or JSON
  and produces a schedule.Catalog plus []schedule.Employee. Every cell is
  classified here, once, so the engine works on typed values only.

WHY A FILE FORMAT?
  - The roster changes monthly; editing a file beats editing code
  - Patterns and employees are data, the engine stays testable with
    synthetic rosters
  - The same document seeds the SQLite store for the server

YAML SCHEMA:
  norm_hours: 160              # optional, default 160
  patterns:                    # list, so definition order is kept
    - name: График1
      slots: [11.5, 11.5, "", 11.5, 11.5]
  employees:                   # declaration order is display order
    - name: Феоктистова Е.А.
      group: ГР1
      pattern: График1
      exceptions:
        12: ГО                 # integer keys ...
        "27": 4                # ... or numeric string keys

  JSON uses the same field names. JSON object keys are always strings.

KEY FEATURES:
  - Exception keys accept both integer and string day numbers
  - Exception days outside 1..28 are rejected (with the employee's name)
  - Invalid patterns are rejected before any employee is looked at
  - ToConfig renders engine inputs back into a document (roster init)

USAGE:
  f := factory.NewRosterFactory()
  input, err := f.LoadFile("roster.yaml")
  roster, err := input.Builder(logger).Build(input.Employees)

SEE ALSO:
  - schedule/types.go: Cell JSON/YAML decoding
  - shifts/presets.go: the workshop roster as Go values
*/
package factory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/warp/shift-roster/schedule"
)

// =============================================================================
// DOCUMENT SCHEMA TYPES
// =============================================================================

// RosterConfig is the file representation of a roster.
type RosterConfig struct {
	NormHours *float64         `json:"norm_hours,omitempty" yaml:"norm_hours,omitempty"`
	Patterns  []PatternConfig  `json:"patterns" yaml:"patterns"`
	Employees []EmployeeConfig `json:"employees" yaml:"employees"`
}

// PatternConfig is one named slot sequence.
type PatternConfig struct {
	Name  string          `json:"name" yaml:"name"`
	Slots []schedule.Cell `json:"slots" yaml:"slots"`
}

// EmployeeConfig is one roster entry.
type EmployeeConfig struct {
	Name       string       `json:"name" yaml:"name"`
	Group      string       `json:"group" yaml:"group"`
	Pattern    string       `json:"pattern" yaml:"pattern"`
	Exceptions DayOverrides `json:"exceptions,omitempty" yaml:"exceptions,omitempty"`
}

// DayOverrides is an exception map keyed by day number. It decodes keys
// written as integers (12) or strings ("12"). Two keys naming the same day
// ("12" and "012", or 12 and "12") are rejected.
type DayOverrides map[int]schedule.Cell

// UnmarshalJSON decodes {"12": "ГО", "27": 4}.
func (d *DayOverrides) UnmarshalJSON(data []byte) error {
	var raw map[string]schedule.Cell
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(DayOverrides, len(raw))
	seen := make(map[int]string, len(raw))
	for _, key := range keys {
		day, err := parseDay(key)
		if err != nil {
			return err
		}
		if err := checkDuplicateDay(seen, day, key); err != nil {
			return err
		}
		out[day] = raw[key]
	}
	*d = out
	return nil
}

// UnmarshalYAML decodes a mapping whose keys are ints or numeric strings.
func (d *DayOverrides) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: exceptions must be a mapping of day -> value", node.Line)
	}
	out := make(DayOverrides, len(node.Content)/2)
	seen := make(map[int]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		day, err := parseDay(key.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", key.Line, err)
		}
		if err := checkDuplicateDay(seen, day, key.Value); err != nil {
			return fmt.Errorf("line %d: %w", key.Line, err)
		}
		var cell schedule.Cell
		if err := value.Decode(&cell); err != nil {
			return err
		}
		out[day] = cell
	}
	*d = out
	return nil
}

// checkDuplicateDay records key for day and fails if another key already
// named the same day.
func checkDuplicateDay(seen map[int]string, day int, key string) error {
	if prev, dup := seen[day]; dup {
		return fmt.Errorf("%w: exception keys %q and %q both name day %d", schedule.ErrInvalidDay, prev, key, day)
	}
	seen[day] = key
	return nil
}

func parseDay(key string) (int, error) {
	day, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return 0, fmt.Errorf("exception key %q is not a day number", key)
	}
	return day, nil
}

// =============================================================================
// ENGINE INPUT
// =============================================================================

// Input is a parsed roster ready for the builder.
type Input struct {
	Catalog   *schedule.Catalog
	Employees []schedule.Employee
	Norm      decimal.Decimal
}

// Builder returns a schedule.Builder configured with the input's catalog and norm.
func (in *Input) Builder(logger *zap.Logger) *schedule.Builder {
	b := schedule.NewBuilder(in.Catalog)
	b.Norm = in.Norm
	if logger != nil {
		b.Logger = logger
	}
	return b
}

// Build is shorthand for in.Builder(logger).Build(in.Employees).
func (in *Input) Build(logger *zap.Logger) (*schedule.Roster, error) {
	return in.Builder(logger).Build(in.Employees)
}

// =============================================================================
// ROSTER FACTORY
// =============================================================================

// RosterFactory converts documents to engine inputs.
type RosterFactory struct{}

// NewRosterFactory creates a new roster factory.
func NewRosterFactory() *RosterFactory {
	return &RosterFactory{}
}

// LoadFile reads a roster document; .json files are JSON, everything else YAML.
func (f *RosterFactory) LoadFile(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return f.ParseJSON(data)
	}
	return f.ParseYAML(data)
}

// ParseYAML parses a YAML roster document.
func (f *RosterFactory) ParseYAML(data []byte) (*Input, error) {
	var rc RosterConfig
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse roster YAML: %w", err)
	}
	return f.FromConfig(rc)
}

// ParseJSON parses a JSON roster document.
func (f *RosterFactory) ParseJSON(data []byte) (*Input, error) {
	var rc RosterConfig
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse roster JSON: %w", err)
	}
	return f.FromConfig(rc)
}

// FromConfig validates the document and builds engine inputs.
func (f *RosterFactory) FromConfig(rc RosterConfig) (*Input, error) {
	patterns := make([]schedule.ShiftPattern, 0, len(rc.Patterns))
	for _, pc := range rc.Patterns {
		p, err := f.ParsePattern(pc)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}

	catalog, err := schedule.NewCatalog(patterns...)
	if err != nil {
		return nil, err
	}

	employees := make([]schedule.Employee, 0, len(rc.Employees))
	for _, ec := range rc.Employees {
		emp, err := f.ParseEmployee(ec)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	norm := schedule.DefaultNorm
	if rc.NormHours != nil {
		norm = decimal.NewFromFloat(*rc.NormHours)
	}

	return &Input{Catalog: catalog, Employees: employees, Norm: norm}, nil
}

// ParsePattern converts one pattern entry.
func (f *RosterFactory) ParsePattern(pc PatternConfig) (schedule.ShiftPattern, error) {
	return schedule.NewShiftPattern(strings.TrimSpace(pc.Name), pc.Slots...)
}

// ParseEmployee converts one employee entry and range-checks its exception days.
func (f *RosterFactory) ParseEmployee(ec EmployeeConfig) (schedule.Employee, error) {
	emp := schedule.Employee{
		Name:    strings.TrimSpace(ec.Name),
		Group:   strings.TrimSpace(ec.Group),
		Pattern: strings.TrimSpace(ec.Pattern),
	}
	if emp.Name == "" {
		return schedule.Employee{}, fmt.Errorf("employee with pattern %q has no name", emp.Pattern)
	}
	if len(ec.Exceptions) > 0 {
		emp.Exceptions = make(map[int]schedule.Cell, len(ec.Exceptions))
		for day, cell := range ec.Exceptions {
			if day < 1 || day > schedule.DaysInMonth {
				return schedule.Employee{}, &schedule.InvalidDayError{Employee: emp.Name, Day: day}
			}
			emp.Exceptions[day] = cell
		}
	}
	return emp, nil
}

// ToConfig renders engine inputs as a document.
func (f *RosterFactory) ToConfig(in *Input) RosterConfig {
	var rc RosterConfig
	if !in.Norm.Equal(schedule.DefaultNorm) {
		norm := in.Norm.InexactFloat64()
		rc.NormHours = &norm
	}
	for _, p := range in.Catalog.Patterns() {
		rc.Patterns = append(rc.Patterns, PatternConfig{Name: p.Name(), Slots: p.Slots()})
	}
	for _, emp := range in.Employees {
		ec := EmployeeConfig{Name: emp.Name, Group: emp.Group, Pattern: emp.Pattern}
		if len(emp.Exceptions) > 0 {
			ec.Exceptions = DayOverrides(emp.Exceptions)
		}
		rc.Employees = append(rc.Employees, ec)
	}
	return rc
}

// EncodeYAML renders engine inputs as a YAML document.
func (f *RosterFactory) EncodeYAML(in *Input) ([]byte, error) {
	return yaml.Marshal(f.ToConfig(in))
}

// Seed writes patterns, then employees, into a store. Patterns already defined
// in the store are reported as ErrPatternExists.
func (f *RosterFactory) Seed(ctx context.Context, w schedule.ConfigWriter, in *Input) error {
	for _, p := range in.Catalog.Patterns() {
		if err := w.SavePattern(ctx, p); err != nil {
			return fmt.Errorf("failed to save pattern %q: %w", p.Name(), err)
		}
	}
	for _, emp := range in.Employees {
		if err := w.SaveEmployee(ctx, emp); err != nil {
			return fmt.Errorf("failed to save employee %q: %w", emp.Name, err)
		}
	}
	return nil
}
