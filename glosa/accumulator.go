package glosa

import (
	"github.com/shopspring/decimal"

	"github.com/staffline/roster-engine/roster"
)

// =============================================================================
// MONTHLY LOSS ACCUMULATOR - Day-by-day fold over days x posts
// =============================================================================

// ComputeMonthlyLoss walks every calendar day from monthStart through
// "through" (inclusive) and every post, accruing BillingValue/30 for each
// post-day that is neither spanned by an assignment nor handled by a
// coverage record.
//
// Day-by-day iteration is deliberate: coverage records are sparse day-stamped
// facts that can land on days where an assignment is also open (data-entry
// lag), and the per-day check reconciles both sources without interval
// arithmetic or double counting.
//
// Degenerate inputs are not errors: an empty posts slice or through before
// monthStart both return the zero Result. Assignments and coverages that
// reference posts outside posts are ignored; a post created after the day
// under test accrues nothing for that day.
func ComputeMonthlyLoss(posts []roster.Post, assignments []roster.Assignment, coverages []roster.Coverage, monthStart, through roster.Day) Result {
	result := Result{TotalLoss: decimal.Zero}
	if len(posts) == 0 || through.Before(monthStart) {
		return result
	}

	// Per-post indexes. Behavior-preserving performance aid only: days <= 31
	// and rosters are small, but the index keeps the fold O(days x posts).
	assignmentsByPost := make(map[roster.PostID][]roster.Assignment)
	for _, a := range assignments {
		assignmentsByPost[a.PostID] = append(assignmentsByPost[a.PostID], a)
	}
	coveredDays := make(map[roster.PostID]map[string]bool)
	for _, c := range coverages {
		if coveredDays[c.PostID] == nil {
			coveredDays[c.PostID] = make(map[string]bool)
		}
		coveredDays[c.PostID][c.Date.Key()] = true
	}

	perPost := make([]PostLoss, len(posts))
	for i, p := range posts {
		perPost[i] = PostLoss{PostID: p.ID, PostName: p.Name, Loss: decimal.Zero}
	}

	for d := monthStart; d.BeforeOrEqual(through); d = d.AddDays(1) {
		for i, p := range posts {
			// A post cannot be vacant before it exists.
			if p.CreatedAt.After(d) {
				continue
			}
			if coveredByAssignment(assignmentsByPost[p.ID], d) {
				continue
			}
			if coveredDays[p.ID][d.Key()] {
				continue
			}

			loss := DailyLoss(p.BillingValue)
			perPost[i].Loss = perPost[i].Loss.Add(loss)
			perPost[i].VacantDays++
			perPost[i].VacantDates = append(perPost[i].VacantDates, d)

			result.TotalLoss = result.TotalLoss.Add(loss)
			result.VacantDayCount++
		}
	}

	result.PerPost = perPost
	return result
}

func coveredByAssignment(assignments []roster.Assignment, d roster.Day) bool {
	for _, a := range assignments {
		if a.Covers(d) {
			return true
		}
	}
	return false
}
