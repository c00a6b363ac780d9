/*
Package roster provides the core workforce-allocation engine.

PURPOSE:
  This package contains the types and algorithms for classifying calendar
  days of a contracted staffing slot (a "post") as work days or days off,
  given a named shift pattern and the anchor date of the current assignment.
  It also defines the entities shared by the persistence and API layers:
  posts, assignments, ad-hoc coverages, manual overrides, and employees.

KEY CONCEPTS IN THIS FILE (types.go):
  - Post: A contracted staffing slot at a client site, billed monthly
  - Assignment: An employee bound to a post over an end-inclusive interval
  - Coverage: A day-level record of how a staffing gap was handled
  - Override: A manual correction superseding the pattern-computed status
  - RosterDay: A computed {date, status} pair (derived, never persisted)

DESIGN PRINCIPLES:
  1. Purity: Projection and merging are pure functions with no hidden state
  2. Precision: Uses decimal.Decimal for billing values and costs
  3. Day granularity: All dates are normalized to UTC midnight before use
  4. Closed pattern set: Unknown pattern names are errors, never defaults

USAGE:
  days := roster.MonthDays(2024, time.March)
  grid, err := roster.ProjectRoster("12x36", anchor, days)

SEE ALSO:
  - pattern.go: Shift pattern implementations and the built-in catalog
  - project.go: Roster projection
  - override.go: Manual override merging
  - store.go: Persistence interface
*/
package roster

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PostID string
type EmployeeID string
type AssignmentID string
type CoverageID string

// =============================================================================
// POST - Contracted staffing slot at a client site
// =============================================================================

// Post is a billed position. BillingValue is the monthly contract value;
// each uncovered day forfeits BillingValue/30 of revenue.
type Post struct {
	ID            PostID
	SiteID        string
	Name          string
	PatternName   string
	BillingValue  decimal.Decimal
	WorkloadHours int
	CreatedAt     Day
}

// =============================================================================
// ASSIGNMENT - Employee bound to a post over a date interval
// =============================================================================

// Assignment binds one employee to one post for [Start, End]. A nil End
// means the assignment is open. At most one open assignment per post is
// expected; that invariant is enforced upstream, not re-validated here.
type Assignment struct {
	ID         AssignmentID
	PostID     PostID
	EmployeeID EmployeeID
	Start      Day
	End        *Day
}

// Covers reports whether the assignment spans the given day.
// The end boundary is inclusive through end of day.
func (a Assignment) Covers(d Day) bool {
	if d.Before(a.Start) {
		return false
	}
	return a.End == nil || !a.End.Before(d)
}

// IsOpen reports whether the assignment has no end date.
func (a Assignment) IsOpen() bool { return a.End == nil }

// =============================================================================
// COVERAGE - Ad-hoc day-level gap handling
// =============================================================================

type CoverageType string

const (
	CoverageDailyRate CoverageType = "daily_rate" // paid daily-rate replacement
	CoverageOvertime  CoverageType = "overtime"   // covered by another employee's overtime
	CoverageVacant    CoverageType = "vacant"     // gap explicitly recorded as vacant
)

// Coverage records that a post's staffing gap on a specific day was handled
// (or explicitly acknowledged as vacant). Any coverage record marks the day
// as handled for loss accounting, regardless of type.
type Coverage struct {
	ID     CoverageID
	PostID PostID
	Date   Day
	Type   CoverageType
	Cost   decimal.Decimal
	Note   string
}

// ValidCoverageType reports whether t is one of the known coverage types.
func ValidCoverageType(t CoverageType) bool {
	switch t {
	case CoverageDailyRate, CoverageOvertime, CoverageVacant:
		return true
	}
	return false
}

// =============================================================================
// OVERRIDE - Manual roster correction
// =============================================================================

// Override forces a specific (post, date) to day-off or work-day for
// display and export, superseding the pattern-computed status.
// A later override for the same pair wins; no history is retained.
type Override struct {
	PostID PostID
	Date   Day
	DayOff bool
}

// =============================================================================
// EMPLOYEE
// =============================================================================

type Employee struct {
	ID      EmployeeID
	Name    string
	Email   string
	HiredAt Day
}

// =============================================================================
// ROSTER DAY - Derived day classification
// =============================================================================

type DayStatus string

const (
	StatusWork DayStatus = "work"
	StatusOff  DayStatus = "off"
)

// RosterDay is a computed classification of a single calendar day.
// It has no stored identity; it is purely a function of (pattern, anchor, date).
type RosterDay struct {
	Date   Day
	Status DayStatus
}
