/*
override.go - Manual roster corrections

PURPOSE:
  Site managers occasionally force a specific day of a specific post to
  "day off" or "work day" regardless of what the pattern computes: swapped
  shifts, one-off client requests, data-entry fixes. Overrides are simple
  (post, date, dayOff) triples with last-write-wins semantics.

MERGE CONTRACT:
  MergeOverrides is a pure merge. It never mutates the base roster or the
  override set; days without a matching override pass through unchanged.

SEE ALSO:
  - project.go: ProjectMonth applies overrides after projection
  - store.go: PutOverride persists the last-write-wins upsert
*/
package roster

// =============================================================================
// OVERRIDE SET - Last-write-wins index keyed by (post, date)
// =============================================================================

type overrideKey struct {
	Post PostID
	Date string // ISO date; Day values normalize through Key()
}

// OverrideSet indexes overrides by (post, date). Put replaces any earlier
// entry for the same pair.
type OverrideSet struct {
	entries map[overrideKey]bool
}

func NewOverrideSet(overrides ...Override) *OverrideSet {
	s := &OverrideSet{entries: make(map[overrideKey]bool)}
	for _, o := range overrides {
		s.Put(o)
	}
	return s
}

// Put records an override. Last write wins.
func (s *OverrideSet) Put(o Override) {
	s.entries[overrideKey{Post: o.PostID, Date: o.Date.Key()}] = o.DayOff
}

// Get reports the override for (post, date), if any.
func (s *OverrideSet) Get(post PostID, date Day) (dayOff bool, ok bool) {
	dayOff, ok = s.entries[overrideKey{Post: post, Date: date.Key()}]
	return dayOff, ok
}

// Len returns the number of distinct (post, date) pairs overridden.
func (s *OverrideSet) Len() int { return len(s.entries) }

// =============================================================================
// MERGE - Override precedence over the pattern-computed grid
// =============================================================================

// MergeOverrides returns a new roster where any day with a matching override
// takes the override's status: Off when DayOff is true, Work otherwise. Days
// without a matching override keep the base status. The base slice and the
// override set are never mutated. A nil set returns a copy of base.
func MergeOverrides(base []RosterDay, post PostID, overrides *OverrideSet) []RosterDay {
	merged := make([]RosterDay, len(base))
	copy(merged, base)
	if overrides == nil {
		return merged
	}

	for i, rd := range merged {
		dayOff, ok := overrides.Get(post, rd.Date)
		if !ok {
			continue
		}
		if dayOff {
			merged[i].Status = StatusOff
		} else {
			merged[i].Status = StatusWork
		}
	}
	return merged
}
