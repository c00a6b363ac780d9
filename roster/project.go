package roster

import "time"

// =============================================================================
// ROSTER PROJECTION - Pattern applied across a day list
// =============================================================================

// ProjectRoster classifies each day in days using the named pattern from the
// built-in catalog, phased at anchor. One RosterDay per input day, in input
// order. Pure and deterministic: identical inputs always yield identical
// output, including across process restarts.
func ProjectRoster(patternName string, anchor Day, days []Day) ([]RosterDay, error) {
	return defaultCatalog.ProjectRoster(patternName, anchor, days)
}

// ProjectRoster is the catalog-scoped variant, for deployments that register
// site-specific patterns.
func (c *Catalog) ProjectRoster(patternName string, anchor Day, days []Day) ([]RosterDay, error) {
	pattern, err := c.Lookup(patternName)
	if err != nil {
		return nil, err
	}

	result := make([]RosterDay, len(days))
	for i, d := range days {
		result[i] = RosterDay{Date: d, Status: pattern.StatusOn(anchor, d)}
	}
	return result, nil
}

// ProjectMonth projects a full calendar month for a post, applying any
// overrides on top of the pattern-computed grid. Convenience wrapper used by
// the API and export paths.
func (c *Catalog) ProjectMonth(post Post, anchor Day, overrides *OverrideSet, year int, month time.Month) ([]RosterDay, error) {
	days := MonthDays(year, month)
	base, err := c.ProjectRoster(post.PatternName, anchor, days)
	if err != nil {
		return nil, err
	}
	return MergeOverrides(base, post.ID, overrides), nil
}
