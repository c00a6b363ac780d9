package glosa

import (
	"time"

	"github.com/staffline/roster-engine/roster"
)

// =============================================================================
// MONTH WINDOW - Accumulation range for a calendar month
// =============================================================================

// MonthWindow returns the accumulation range for the given month: from the
// first of the month through min(end of month, today). "Today" is injected
// by the caller, never read from the system clock, so dashboards for past
// months and tests are both reproducible.
//
// For a month entirely in the future relative to today, through precedes
// start and ComputeMonthlyLoss returns the zero result by policy.
func MonthWindow(year int, month time.Month, today roster.Day) (start, through roster.Day) {
	start = roster.StartOfMonth(year, month)
	through = roster.EndOfMonth(year, month)
	if today.Before(through) {
		through = today
	}
	return start, through
}
