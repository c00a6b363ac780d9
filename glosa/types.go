/*
Package glosa computes revenue loss from uncovered post-days.

PURPOSE:
  A post bills its client a fixed monthly value. Every calendar day the post
  exists but is neither covered by an active assignment nor handled by an
  ad-hoc coverage record, the company forfeits 1/30 of that monthly value.
  This package accumulates that loss day by day across all posts, for the
  dashboard's monthly totals and the per-post breakdown.

SEMANTICS:
  "Loss" here is revenue loss, not total cost: any coverage record on a day
  marks that day as handled, including paid daily-rate replacements (a cost,
  not a loss) and explicit-vacancy records (the gap was already accounted
  for administratively). A day is a loss only when nothing at all is on
  record for it.

PURITY:
  The accumulator reads nothing from the environment. "Today" is an explicit
  parameter; callers pass fully-materialized slices and receive a
  fully-materialized result. Concurrent calls are trivially safe.

SEE ALSO:
  - accumulator.go: The day-by-day fold
  - month.go: Month window helpers
*/
package glosa

import (
	"github.com/shopspring/decimal"

	"github.com/staffline/roster-engine/roster"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// Result is the accumulated monthly loss across all posts.
type Result struct {
	TotalLoss      decimal.Decimal
	VacantDayCount int
	PerPost        []PostLoss
}

// PostLoss is the loss attributed to a single post.
type PostLoss struct {
	PostID      roster.PostID
	PostName    string
	Loss        decimal.Decimal
	VacantDays  int
	VacantDates []roster.Day
}

// billingDivisor: monthly billing is always prorated over 30 days,
// regardless of the month's actual length. Contractual convention.
var billingDivisor = decimal.NewFromInt(30)

// DailyLoss returns the revenue forfeited by one uncovered day of a post.
func DailyLoss(monthlyBilling decimal.Decimal) decimal.Decimal {
	return monthlyBilling.Div(billingDivisor)
}
