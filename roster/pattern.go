/*
pattern.go - Named shift patterns and the built-in catalog

PURPOSE:
  A shift pattern classifies any calendar day, relative to the anchor date
  of the current assignment, as a work day or a day off. Patterns come in
  two families:

  Cycle patterns (offset into a fixed cycle):
    "12x36": work 1 day, off 1 day (2-day cycle, phase set by the anchor)
    "24x48": work 1 day, off 2 days (3-day cycle)
    "4x2":   work 4 days, off 2 days (6-day cycle)
    "6x1":   work 6 days, off 1 day (7-day cycle)

  Weekday patterns (calendar weekday, anchor-independent):
    "5x2": Monday through Friday on, weekends off

ANCHOR SEMANTICS:
  The anchor is the start date of the current assignment: the phase origin
  of the cycle. Day offsets are computed with a floor modulo so days before
  the anchor extrapolate the cycle backward instead of going negative.

CLOSED SET:
  Unknown pattern names return UnknownPatternError. There is no fallback
  pattern; a wrong guess here feeds payroll and billing exports.

SEE ALSO:
  - project.go: Applies a pattern across a day list
  - factory/pattern.go: Builds site-specific patterns from JSON definitions
*/
package roster

import "time"

// =============================================================================
// PATTERN - Day classification rule
// =============================================================================

// Pattern classifies a single day relative to an anchor date.
// Implementations must be pure: same inputs, same status, no side effects.
type Pattern interface {
	// Name returns the pattern identifier (e.g., "12x36").
	Name() string

	// StatusOn classifies the given day. The anchor is the cycle's phase
	// origin; weekday-based patterns ignore it.
	StatusOn(anchor, day Day) DayStatus
}

// =============================================================================
// CYCLE PATTERN - Offset into a fixed-length cycle
// =============================================================================

// CyclePattern repeats every Period days from the anchor. Offsets listed in
// WorkOffsets (0-based, < Period) are work days; all others are off.
type CyclePattern struct {
	PatternName string
	Period      int
	WorkOffsets []int
}

func (p *CyclePattern) Name() string { return p.PatternName }

func (p *CyclePattern) StatusOn(anchor, day Day) DayStatus {
	offset := floorMod(DaysBetween(anchor, day), p.Period)
	for _, w := range p.WorkOffsets {
		if offset == w {
			return StatusWork
		}
	}
	return StatusOff
}

// floorMod is a true mathematical modulo: the result is always in [0, m).
// Go's % truncates toward zero, which would misclassify days before the
// anchor.
func floorMod(n, m int) int {
	r := n % m
	if r < 0 {
		r += m
	}
	return r
}

// =============================================================================
// WEEKDAY PATTERN - Keyed by calendar weekday, not offset
// =============================================================================

// WeekdayPattern works on fixed weekdays regardless of the anchor.
// Used for office-hours style rosters aligned to the calendar week.
type WeekdayPattern struct {
	PatternName  string
	WorkWeekdays [7]bool // indexed by time.Weekday (Sunday = 0)
}

func (p *WeekdayPattern) Name() string { return p.PatternName }

func (p *WeekdayPattern) StatusOn(_, day Day) DayStatus {
	if p.WorkWeekdays[day.Weekday()] {
		return StatusWork
	}
	return StatusOff
}

// =============================================================================
// CATALOG - The recognized pattern set
// =============================================================================

// Catalog maps pattern names to implementations. The zero value is unusable;
// build one with NewCatalog, which seeds the built-in staffing patterns.
type Catalog struct {
	patterns map[string]Pattern
}

// NewCatalog returns a catalog seeded with the built-in patterns.
func NewCatalog() *Catalog {
	c := &Catalog{patterns: make(map[string]Pattern)}
	for _, p := range builtinPatterns() {
		c.Register(p)
	}
	return c
}

// Register adds or replaces a pattern. Later registrations win, which lets
// deployments redefine a built-in for a specific client contract.
func (c *Catalog) Register(p Pattern) {
	c.patterns[p.Name()] = p
}

// Lookup resolves a pattern name. Unknown names are an error, never a
// silent default.
func (c *Catalog) Lookup(name string) (Pattern, error) {
	p, ok := c.patterns[name]
	if !ok {
		return nil, &UnknownPatternError{Name: name}
	}
	return p, nil
}

// Names returns the registered pattern names, for the API's pattern listing.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.patterns))
	for name := range c.patterns {
		names = append(names, name)
	}
	return names
}

func builtinPatterns() []Pattern {
	weekdays := [7]bool{}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		weekdays[wd] = true
	}
	return []Pattern{
		&CyclePattern{PatternName: "12x36", Period: 2, WorkOffsets: []int{0}},
		&CyclePattern{PatternName: "24x48", Period: 3, WorkOffsets: []int{0}},
		&CyclePattern{PatternName: "4x2", Period: 6, WorkOffsets: []int{0, 1, 2, 3}},
		&CyclePattern{PatternName: "6x1", Period: 7, WorkOffsets: []int{0, 1, 2, 3, 4, 5}},
		&WeekdayPattern{PatternName: "5x2", WorkWeekdays: weekdays},
	}
}

// defaultCatalog backs the package-level projection helpers.
var defaultCatalog = NewCatalog()

// LookupPattern resolves a name against the built-in catalog.
func LookupPattern(name string) (Pattern, error) {
	return defaultCatalog.Lookup(name)
}
