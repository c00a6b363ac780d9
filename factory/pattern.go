/*
Package factory provides JSON to Go shift-pattern conversion.

PURPOSE:
  Converts JSON pattern definitions into roster.Pattern implementations.
  This enables pattern configuration without code changes - operations
  staff can define client-specific rosters in JSON, and the factory
  registers them alongside the built-ins at startup.

JSON SCHEMA:
  Cycle pattern (offset into a fixed cycle from the assignment anchor):
    {
      "name": "36x12",
      "type": "cycle",
      "period": 4,
      "work_offsets": [0, 1]
    }

  Weekday pattern (fixed calendar weekdays, anchor-independent):
    {
      "name": "office",
      "type": "weekday",
      "work_weekdays": ["monday", "tuesday", "wednesday", "thursday", "friday"]
    }

VALIDATION:
  Malformed definitions (missing name, zero period, out-of-range offsets,
  unknown weekday names, empty work sets) return roster.ErrInvalidPattern
  wrapped with detail. Nothing is registered on error.

USAGE:
  f := factory.NewPatternFactory()
  pattern, err := f.ParsePattern(jsonStr)
  catalog.Register(pattern)

SEE ALSO:
  - roster/pattern.go: Pattern interface and built-in catalog
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/staffline/roster-engine/roster"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PatternJSON is the JSON representation of a shift pattern.
type PatternJSON struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"` // cycle, weekday
	Period       int      `json:"period,omitempty"`
	WorkOffsets  []int    `json:"work_offsets,omitempty"`
	WorkWeekdays []string `json:"work_weekdays,omitempty"`
}

// =============================================================================
// PATTERN FACTORY
// =============================================================================

// PatternFactory converts JSON pattern definitions to roster.Pattern.
type PatternFactory struct{}

// NewPatternFactory creates a new pattern factory.
func NewPatternFactory() *PatternFactory {
	return &PatternFactory{}
}

// ParsePattern parses a JSON string into a Pattern.
func (f *PatternFactory) ParsePattern(jsonStr string) (roster.Pattern, error) {
	var pj PatternJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return nil, fmt.Errorf("failed to parse pattern JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// FromJSON converts PatternJSON to a roster.Pattern.
func (f *PatternFactory) FromJSON(pj PatternJSON) (roster.Pattern, error) {
	if pj.Name == "" {
		return nil, fmt.Errorf("%w: missing name", roster.ErrInvalidPattern)
	}

	switch pj.Type {
	case "cycle":
		return f.cyclePattern(pj)
	case "weekday":
		return f.weekdayPattern(pj)
	default:
		return nil, fmt.Errorf("%w: unknown type %q", roster.ErrInvalidPattern, pj.Type)
	}
}

func (f *PatternFactory) cyclePattern(pj PatternJSON) (roster.Pattern, error) {
	if pj.Period <= 0 {
		return nil, fmt.Errorf("%w: cycle period must be positive", roster.ErrInvalidPattern)
	}
	if len(pj.WorkOffsets) == 0 {
		return nil, fmt.Errorf("%w: cycle pattern needs at least one work offset", roster.ErrInvalidPattern)
	}
	for _, o := range pj.WorkOffsets {
		if o < 0 || o >= pj.Period {
			return nil, fmt.Errorf("%w: work offset %d outside cycle of period %d", roster.ErrInvalidPattern, o, pj.Period)
		}
	}

	offsets := make([]int, len(pj.WorkOffsets))
	copy(offsets, pj.WorkOffsets)
	return &roster.CyclePattern{PatternName: pj.Name, Period: pj.Period, WorkOffsets: offsets}, nil
}

func (f *PatternFactory) weekdayPattern(pj PatternJSON) (roster.Pattern, error) {
	if len(pj.WorkWeekdays) == 0 {
		return nil, fmt.Errorf("%w: weekday pattern needs at least one work weekday", roster.ErrInvalidPattern)
	}

	var workWeekdays [7]bool
	for _, name := range pj.WorkWeekdays {
		wd, err := parseWeekday(name)
		if err != nil {
			return nil, err
		}
		workWeekdays[wd] = true
	}
	return &roster.WeekdayPattern{PatternName: pj.Name, WorkWeekdays: workWeekdays}, nil
}

func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(name) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	default:
		return 0, fmt.Errorf("%w: unknown weekday %q", roster.ErrInvalidPattern, name)
	}
}

// RegisterAll parses each definition and registers it into the catalog.
// Fails on the first invalid definition; earlier registrations stand.
func (f *PatternFactory) RegisterAll(catalog *roster.Catalog, definitions []PatternJSON) error {
	for _, pj := range definitions {
		p, err := f.FromJSON(pj)
		if err != nil {
			return err
		}
		catalog.Register(p)
	}
	return nil
}
