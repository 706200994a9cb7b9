package schedule

import "fmt"

// =============================================================================
// SHIFT PATTERN - Named cyclic slot sequence
// =============================================================================

// ShiftPattern is an immutable, non-empty cyclic sequence of slots. Each slot
// is either non-negative hours or Blank (day off by pattern).
type ShiftPattern struct {
	name  string
	slots []Cell
}

// NewShiftPattern validates and copies the slots.
func NewShiftPattern(name string, slots ...Cell) (ShiftPattern, error) {
	if name == "" {
		return ShiftPattern{}, fmt.Errorf("%w: empty name", ErrInvalidPattern)
	}
	if len(slots) == 0 {
		return ShiftPattern{}, fmt.Errorf("%w: %q has no slots", ErrInvalidPattern, name)
	}
	for i, s := range slots {
		switch {
		case s.IsCode():
			return ShiftPattern{}, fmt.Errorf("%w: %q slot %d holds %q, want hours or blank",
				ErrInvalidPattern, name, i, s.Token())
		case s.IsNumber() && s.Value().IsNegative():
			return ShiftPattern{}, fmt.Errorf("%w: %q slot %d has negative hours %s",
				ErrInvalidPattern, name, i, s.Value())
		}
	}
	return ShiftPattern{name: name, slots: append([]Cell(nil), slots...)}, nil
}

// MustShiftPattern panics on invalid input. Use for presets and tests.
func MustShiftPattern(name string, slots ...Cell) ShiftPattern {
	p, err := NewShiftPattern(name, slots...)
	if err != nil {
		panic(err)
	}
	return p
}

// Name is the catalog key, e.g. "График1".
func (p ShiftPattern) Name() string { return p.name }

// Len is the cycle length in days.
func (p ShiftPattern) Len() int { return len(p.slots) }

// Slot returns slot i mod Len, so callers can index with a running counter.
func (p ShiftPattern) Slot(i int) Cell {
	return p.slots[i%len(p.slots)]
}

// Slots returns a copy of the slots.
func (p ShiftPattern) Slots() []Cell {
	return append([]Cell(nil), p.slots...)
}

// =============================================================================
// CATALOG - Read-only pattern lookup
// =============================================================================

// Catalog maps pattern names to patterns. It is built once and never mutated,
// so it can be shared between goroutines without locking.
type Catalog struct {
	patterns map[string]ShiftPattern
	order    []string
}

// NewCatalog builds a catalog, rejecting duplicate names and zero-value patterns.
func NewCatalog(patterns ...ShiftPattern) (*Catalog, error) {
	c := &Catalog{patterns: make(map[string]ShiftPattern, len(patterns))}
	for _, p := range patterns {
		if p.Len() == 0 {
			return nil, fmt.Errorf("%w: %q has no slots", ErrInvalidPattern, p.Name())
		}
		if _, dup := c.patterns[p.Name()]; dup {
			return nil, fmt.Errorf("%w: %q", ErrPatternExists, p.Name())
		}
		c.patterns[p.Name()] = p
		c.order = append(c.order, p.Name())
	}
	return c, nil
}

// Lookup returns the named pattern or *UnknownPatternError. A nil catalog
// knows no patterns.
func (c *Catalog) Lookup(name string) (ShiftPattern, error) {
	if c == nil {
		return ShiftPattern{}, &UnknownPatternError{Pattern: name}
	}
	p, ok := c.patterns[name]
	if !ok {
		return ShiftPattern{}, &UnknownPatternError{Pattern: name}
	}
	return p, nil
}

// Names returns pattern names in definition order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Patterns returns the patterns in definition order.
func (c *Catalog) Patterns() []ShiftPattern {
	if c == nil {
		return nil
	}
	out := make([]ShiftPattern, len(c.order))
	for i, name := range c.order {
		out[i] = c.patterns[name]
	}
	return out
}
