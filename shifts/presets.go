/*
presets.go - Pre-built shift patterns and rosters

PURPOSE:
  Ready-to-use pattern catalogs and employee lists. The workshop roster is
  the one the masters' schedule page has always shown; the others are small
  rosters for demos and tests.

AVAILABLE PATTERNS:
  График1: 11.5h x2, off, 11.5h x2                  (5-day cycle)
  График2: 11.5h x2, off x2, 11.5h x2               (6-day cycle)
  График3: 11.5h, off, 11.5h, off, 11.5h, off x3    (8-day cycle)
  График4: 8h x5, off x2, 8h x2, off                (10-day cycle)
  Офис:    8h x5, off x2                            (7-day cycle, exactly 160h in 28 days)

AVAILABLE PRESETS:
  workshop:       24 masters in ГР1..ГР4 plus the office, with their leave
  single-pattern: one group on График1, useful for checking the skip rule
  office:         two office employees that land exactly on the norm

EXAMPLE:
  preset, _ := shifts.Lookup(shifts.PresetWorkshop)
  input, err := preset.Input()
  roster, err := input.Build(logger)

SEE ALSO:
  - factory/roster.go: the same data as a YAML document
  - api/scenarios.go: presets loaded into the server's store
*/
package shifts

import (
	"github.com/warp/shift-roster/factory"
	"github.com/warp/shift-roster/schedule"
)

// Pattern names used by the workshop catalog.
const (
	Pattern1      = "График1"
	Pattern2      = "График2"
	Pattern3      = "График3"
	Pattern4      = "График4"
	PatternOffice = "Офис"
)

// Preset IDs.
const (
	PresetWorkshop      = "workshop"
	PresetSinglePattern = "single-pattern"
	PresetOffice        = "office"
)

// =============================================================================
// PATTERNS
// =============================================================================

var (
	day   = schedule.Hours(11.5)
	eight = schedule.Hours(8)
	off   = schedule.Blank()
)

// FiveDayPattern is a two-on, one-off, two-on rotation of 11.5h shifts.
func FiveDayPattern() schedule.ShiftPattern {
	return schedule.MustShiftPattern(Pattern1, day, day, off, day, day)
}

// SixDayPattern is two long shifts, two days off, two long shifts.
func SixDayPattern() schedule.ShiftPattern {
	return schedule.MustShiftPattern(Pattern2, day, day, off, off, day, day)
}

// EightDayPattern alternates long shifts with rest and ends with three days off.
func EightDayPattern() schedule.ShiftPattern {
	return schedule.MustShiftPattern(Pattern3, day, off, day, off, day, off, off, off)
}

// TenDayPattern is an eight-hour week followed by a short stretch.
func TenDayPattern() schedule.ShiftPattern {
	return schedule.MustShiftPattern(Pattern4, eight, eight, eight, eight, eight, off, off, eight, eight, off)
}

// OfficePattern is the five-day office week.
func OfficePattern() schedule.ShiftPattern {
	return schedule.MustShiftPattern(PatternOffice, eight, eight, eight, eight, eight, off, off)
}

// WorkshopPatterns returns every workshop pattern in display order.
func WorkshopPatterns() []schedule.ShiftPattern {
	return []schedule.ShiftPattern{
		FiveDayPattern(),
		SixDayPattern(),
		EightDayPattern(),
		TenDayPattern(),
		OfficePattern(),
	}
}

// =============================================================================
// ROSTERS
// =============================================================================

func emp(name, group, pattern string, exceptions map[int]schedule.Cell) schedule.Employee {
	return schedule.Employee{Name: name, Group: group, Pattern: pattern, Exceptions: exceptions}
}

func leave(code string) schedule.Cell { return schedule.Code(code) }

// WorkshopRoster returns the workshop masters in display order.
func WorkshopRoster() []schedule.Employee {
	return []schedule.Employee{
		// ГР1
		emp("Феоктистова Е.А.", "ГР1", Pattern1, map[int]schedule.Cell{12: leave("ГО"), 27: schedule.Hours(4)}),
		emp("Третьяков А.И.", "ГР1", Pattern1, nil),
		emp("Грачева Т.В.", "ГР1", Pattern1, nil),
		emp("Белоусов А.В.", "ГР1", Pattern1, map[int]schedule.Cell{12: leave("ГО")}),
		emp("Давыдова С.В.", "ГР1", Pattern1, nil),
		emp("Саранцев А.Н. ученик", "ГР1", Pattern1, map[int]schedule.Cell{6: leave("ув")}),

		// ГР2
		emp("Панфилов А.В.", "ГР2", Pattern2, map[int]schedule.Cell{22: leave("го")}),
		emp("Свиридов А.О. (стажер)", "ГР2", Pattern2, nil),
		emp("Смирнов Н.Н.", "ГР2", Pattern2, nil),
		emp("Синякина С.А.", "ГР2", Pattern2, nil),
		emp("Пантюхин А.Д.", "ГР2", Pattern2, map[int]schedule.Cell{23: leave("го")}),
		emp("Давыдова О.И.", "ГР2", Pattern2, nil),
		emp("Роменский Р.С.", "ГР2", Pattern2, nil),

		// ГР3
		emp("Лукашенкова С.В.", "ГР3", Pattern3, nil),
		emp("Раку О.А.", "ГР3", Pattern3, map[int]schedule.Cell{8: leave("б/л")}),
		emp("Михеева А.В.", "ГР3", Pattern3, map[int]schedule.Cell{15: leave("ГО")}),
		emp("Антипенко В.Н.", "ГР3", Pattern3, nil),

		// ГР4
		emp("Юдина И.Е.", "ГР4", Pattern4, nil),
		emp("Лисовская Т.А.", "ГР4", Pattern4, map[int]schedule.Cell{4: leave("б/л")}),
		emp("Галкина В.А.", "ГР4", Pattern4, map[int]schedule.Cell{11: leave("б/л")}),
		emp("Незбудеев Д.С.", "ГР4", Pattern4, nil),
		emp("Смоляков А.А.", "ГР4", Pattern4, map[int]schedule.Cell{12: leave("ГО")}),
		emp("Долгоаршиннных Т.Р.", "ГР4", Pattern4, nil),

		// офис
		emp("Подгорбунский Д.А.", "офис", PatternOffice, nil),
	}
}

// SinglePatternRoster is one group on the five-day pattern, one of them with
// leave and a short day.
func SinglePatternRoster() []schedule.Employee {
	return []schedule.Employee{
		emp("Иванов И.И.", "ГР1", Pattern1, nil),
		emp("Петров П.П.", "ГР1", Pattern1, map[int]schedule.Cell{12: leave("ГО"), 27: schedule.Hours(4)}),
		emp("Сидоров С.С.", "ГР1", Pattern1, map[int]schedule.Cell{12: leave("ГО")}),
	}
}

// OfficeRoster is two office employees. Leave moves the week rather than
// removing a day, so both still land on the norm.
func OfficeRoster() []schedule.Employee {
	return []schedule.Employee{
		emp("Подгорбунский Д.А.", "офис", PatternOffice, nil),
		emp("Орлова М.К.", "офис", PatternOffice, map[int]schedule.Cell{3: leave("ув")}),
	}
}

// =============================================================================
// PRESET REGISTRY
// =============================================================================

// Preset is a named, self-contained roster configuration.
type Preset struct {
	ID          string
	Name        string
	Description string
	Patterns    func() []schedule.ShiftPattern
	Employees   func() []schedule.Employee
}

// Input builds engine inputs with the default norm.
func (p Preset) Input() (*factory.Input, error) {
	catalog, err := schedule.NewCatalog(p.Patterns()...)
	if err != nil {
		return nil, err
	}
	return &factory.Input{Catalog: catalog, Employees: p.Employees(), Norm: schedule.DefaultNorm}, nil
}

var presets = []Preset{
	{
		ID:          PresetWorkshop,
		Name:        "Workshop",
		Description: "24 shift masters in four groups plus the office, with leave and a short day",
		Patterns:    WorkshopPatterns,
		Employees:   WorkshopRoster,
	},
	{
		ID:          PresetSinglePattern,
		Name:        "Single Pattern",
		Description: "One group on the five-day pattern showing how leave shifts the cycle",
		Patterns:    func() []schedule.ShiftPattern { return []schedule.ShiftPattern{FiveDayPattern()} },
		Employees:   SinglePatternRoster,
	},
	{
		ID:          PresetOffice,
		Name:        "Office",
		Description: "Five-day office week that lands exactly on the 160h norm",
		Patterns:    func() []schedule.ShiftPattern { return []schedule.ShiftPattern{OfficePattern()} },
		Employees:   OfficeRoster,
	},
}

// Presets returns all presets in display order.
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// Lookup finds a preset by ID.
func Lookup(id string) (Preset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}
