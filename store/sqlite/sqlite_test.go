package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffline/roster-engine/roster"
	"github.com/staffline/roster-engine/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(year int, month time.Month, d int) roster.Day {
	return roster.NewDay(year, month, d)
}

// =============================================================================
// POST TESTS
// =============================================================================

func TestSQLite_Posts_RoundTrip(t *testing.T) {
	// GIVEN: A post with a fractional billing value
	// WHEN: Saving and reading back
	// THEN: Every field survives, the decimal exactly

	s := newTestStore(t)
	ctx := context.Background()

	billing, err := decimal.NewFromString("3456.78")
	require.NoError(t, err)

	p := roster.Post{
		ID:            "post-1",
		SiteID:        "site-1",
		Name:          "Reception day",
		PatternName:   "5x2",
		BillingValue:  billing,
		WorkloadHours: 220,
		CreatedAt:     day(2024, time.January, 15),
	}
	require.NoError(t, s.SavePost(ctx, p))

	got, err := s.GetPost(ctx, "post-1")
	require.NoError(t, err)
	assert.Equal(t, p.SiteID, got.SiteID)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.PatternName, got.PatternName)
	assert.Equal(t, p.WorkloadHours, got.WorkloadHours)
	assert.True(t, billing.Equal(got.BillingValue), "billing %s != %s", billing, got.BillingValue)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	_, err = s.GetPost(ctx, "ghost")
	assert.ErrorIs(t, err, roster.ErrPostNotFound)
}

func TestSQLite_SavePost_ReplacesExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := roster.Post{ID: "post-1", SiteID: "site-1", Name: "Old name",
		PatternName: "12x36", BillingValue: decimal.NewFromInt(3000),
		CreatedAt: day(2024, time.January, 1)}
	require.NoError(t, s.SavePost(ctx, p))

	p.Name = "New name"
	require.NoError(t, s.SavePost(ctx, p))

	got, err := s.GetPost(ctx, "post-1")
	require.NoError(t, err)
	assert.Equal(t, "New name", got.Name)

	posts, err := s.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

// =============================================================================
// EMPLOYEE TESTS
// =============================================================================

func TestSQLite_Employees_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := roster.Employee{ID: "emp-1", Name: "Ana Souza", Email: "ana@example.com",
		HiredAt: day(2023, time.July, 3)}
	require.NoError(t, s.SaveEmployee(ctx, e))

	got, err := s.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, e.Name, got.Name)
	assert.Equal(t, e.Email, got.Email)
	assert.True(t, e.HiredAt.Equal(got.HiredAt))

	_, err = s.GetEmployee(ctx, "ghost")
	assert.ErrorIs(t, err, roster.ErrEmployeeNotFound)
}

// =============================================================================
// ASSIGNMENT TESTS
// =============================================================================

func TestSQLite_SaveAssignment_SecondOpenRejected(t *testing.T) {
	// GIVEN: A post with an open assignment
	// WHEN: Saving a second open assignment for the same post
	// THEN: ErrOpenAssignmentExists; close the first, and the next succeeds

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAssignment(ctx, roster.Assignment{
		ID: "asg-1", PostID: "post-1", EmployeeID: "emp-1", Start: day(2024, time.January, 1),
	}))

	err := s.SaveAssignment(ctx, roster.Assignment{
		ID: "asg-2", PostID: "post-1", EmployeeID: "emp-2", Start: day(2024, time.February, 1),
	})
	assert.ErrorIs(t, err, roster.ErrOpenAssignmentExists)

	require.NoError(t, s.CloseAssignment(ctx, "asg-1", day(2024, time.January, 31)))
	require.NoError(t, s.SaveAssignment(ctx, roster.Assignment{
		ID: "asg-2", PostID: "post-1", EmployeeID: "emp-2", Start: day(2024, time.February, 1),
	}))
}

func TestSQLite_Assignments_RoundTripAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	end := day(2024, time.January, 31)
	require.NoError(t, s.SaveAssignment(ctx, roster.Assignment{
		ID: "asg-2", PostID: "post-1", EmployeeID: "emp-2", Start: day(2024, time.February, 1),
	}))
	require.NoError(t, s.SaveAssignment(ctx, roster.Assignment{
		ID: "asg-1", PostID: "post-1", EmployeeID: "emp-1", Start: day(2024, time.January, 1), End: &end,
	}))
	require.NoError(t, s.SaveAssignment(ctx, roster.Assignment{
		ID: "asg-3", PostID: "post-2", EmployeeID: "emp-3", Start: day(2024, time.March, 1),
	}))

	byPost, err := s.ListAssignments(ctx, "post-1")
	require.NoError(t, err)
	require.Len(t, byPost, 2)
	assert.Equal(t, roster.AssignmentID("asg-1"), byPost[0].ID)
	require.NotNil(t, byPost[0].End)
	assert.Equal(t, "2024-01-31", byPost[0].End.Key())
	assert.Equal(t, roster.AssignmentID("asg-2"), byPost[1].ID)
	assert.Nil(t, byPost[1].End)

	all, err := s.ListAllAssignments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLite_CloseAssignment_UnknownID(t *testing.T) {
	s := newTestStore(t)
	err := s.CloseAssignment(context.Background(), "ghost", day(2024, time.March, 5))
	assert.ErrorIs(t, err, roster.ErrAssignmentNotFound)
}

// =============================================================================
// COVERAGE TESTS
// =============================================================================

func TestSQLite_SaveCoverage_DuplicateRejected(t *testing.T) {
	// GIVEN: A coverage on (post-1, 2024-03-04)
	// WHEN: Inserting another for the same pair
	// THEN: The UNIQUE violation surfaces as DuplicateCoverageError

	s := newTestStore(t)
	ctx := context.Background()

	target := day(2024, time.March, 4)
	require.NoError(t, s.SaveCoverage(ctx, roster.Coverage{
		ID: "cov-1", PostID: "post-1", Date: target,
		Type: roster.CoverageDailyRate, Cost: decimal.NewFromInt(150), Note: "agency temp",
	}))

	err := s.SaveCoverage(ctx, roster.Coverage{
		ID: "cov-2", PostID: "post-1", Date: target,
		Type: roster.CoverageOvertime, Cost: decimal.NewFromInt(90),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, roster.ErrDuplicateCoverage)

	// Same date, different post is allowed.
	require.NoError(t, s.SaveCoverage(ctx, roster.Coverage{
		ID: "cov-3", PostID: "post-2", Date: target,
		Type: roster.CoverageVacant, Cost: decimal.Zero,
	}))
}

func TestSQLite_Coverages_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cost, err := decimal.NewFromString("187.50")
	require.NoError(t, err)

	require.NoError(t, s.SaveCoverage(ctx, roster.Coverage{
		ID: "cov-1", PostID: "post-1", Date: day(2024, time.March, 4),
		Type: roster.CoverageDailyRate, Cost: cost, Note: "agency temp",
	}))

	coverages, err := s.ListCoverages(ctx, "post-1")
	require.NoError(t, err)
	require.Len(t, coverages, 1)
	assert.Equal(t, roster.CoverageDailyRate, coverages[0].Type)
	assert.Equal(t, "agency temp", coverages[0].Note)
	assert.True(t, cost.Equal(coverages[0].Cost))
	assert.Equal(t, "2024-03-04", coverages[0].Date.Key())
}

// =============================================================================
// OVERRIDE TESTS
// =============================================================================

func TestSQLite_PutOverride_LastWriteWins(t *testing.T) {
	// GIVEN: An override marking 2024-03-04 as day off
	// WHEN: Writing a second override for the same (post, date) with day off false
	// THEN: One row remains, holding the later value

	s := newTestStore(t)
	ctx := context.Background()

	target := day(2024, time.March, 4)
	require.NoError(t, s.PutOverride(ctx, roster.Override{PostID: "post-1", Date: target, DayOff: true}))
	require.NoError(t, s.PutOverride(ctx, roster.Override{PostID: "post-1", Date: target, DayOff: false}))

	overrides, err := s.ListOverrides(ctx, "post-1")
	require.NoError(t, err)
	require.Len(t, overrides, 1)
	assert.False(t, overrides[0].DayOff)
	assert.Equal(t, "2024-03-04", overrides[0].Date.Key())
}
