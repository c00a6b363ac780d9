package roster_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffline/roster-engine/roster"
)

// =============================================================================
// PROJECTION TESTS
// =============================================================================

func TestProjectRoster_OnePerInputDay_InOrder(t *testing.T) {
	// GIVEN: An arbitrary, non-contiguous day list
	// WHEN: Projecting with 12x36
	// THEN: Exactly one RosterDay per input day, in input order

	anchor := day(2024, time.January, 1)
	days := []roster.Day{
		day(2024, time.January, 5),
		day(2024, time.January, 1),
		day(2024, time.February, 14),
	}

	result, err := roster.ProjectRoster("12x36", anchor, days)
	require.NoError(t, err)
	require.Len(t, result, len(days))
	for i := range days {
		assert.True(t, result[i].Date.Equal(days[i]), "position %d", i)
	}
}

func TestProjectRoster_Deterministic(t *testing.T) {
	anchor := day(2024, time.January, 1)
	days := roster.MonthDays(2024, time.March)

	first, err := roster.ProjectRoster("4x2", anchor, days)
	require.NoError(t, err)
	second, err := roster.ProjectRoster("4x2", anchor, days)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestProjectRoster_EmptyDayList(t *testing.T) {
	result, err := roster.ProjectRoster("5x2", day(2024, time.January, 1), nil)
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestProjectRoster_UnknownPattern(t *testing.T) {
	_, err := roster.ProjectRoster("9x9", day(2024, time.January, 1), roster.MonthDays(2024, time.March))
	assert.ErrorIs(t, err, roster.ErrUnknownPattern)
}

// =============================================================================
// MONTH PROJECTION WITH OVERRIDES
// =============================================================================

func TestProjectMonth_AppliesOverrides(t *testing.T) {
	// GIVEN: A 12x36 post anchored at 2024-01-01 and an override forcing
	//        2024-01-02 (pattern says Off) to a work day
	// WHEN: Projecting January 2024
	// THEN: Jan 2 comes out Work, all other days keep the pattern result

	post := roster.Post{ID: "post-1", PatternName: "12x36"}
	anchor := day(2024, time.January, 1)
	overrides := roster.NewOverrideSet(roster.Override{
		PostID: post.ID,
		Date:   day(2024, time.January, 2),
		DayOff: false,
	})

	catalog := roster.NewCatalog()
	result, err := catalog.ProjectMonth(post, anchor, overrides, 2024, time.January)
	require.NoError(t, err)
	require.Len(t, result, 31)

	assert.Equal(t, roster.StatusWork, result[0].Status) // Jan 1: pattern
	assert.Equal(t, roster.StatusWork, result[1].Status) // Jan 2: override wins
	assert.Equal(t, roster.StatusWork, result[2].Status) // Jan 3: pattern
	assert.Equal(t, roster.StatusOff, result[3].Status)  // Jan 4: pattern
}

func TestProjectMonth_NilOverrides(t *testing.T) {
	post := roster.Post{ID: "post-1", PatternName: "5x2"}
	catalog := roster.NewCatalog()

	result, err := catalog.ProjectMonth(post, day(2024, time.January, 1), nil, 2024, time.March)
	require.NoError(t, err)
	assert.Len(t, result, 31)
}
