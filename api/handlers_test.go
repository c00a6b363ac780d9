package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffline/roster-engine/roster"
	"github.com/staffline/roster-engine/roster/store"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

type testEnv struct {
	handler *Handler
	store   *store.Memory
	router  http.Handler
}

// newTestEnv wires an in-memory store behind the real router, with the
// clock pinned so date-defaulting behavior is reproducible.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mem := store.NewMemory()
	h := NewHandler(mem, roster.NewCatalog())
	h.now = func() roster.Day { return roster.NewDay(2024, time.March, 10) }
	return &testEnv{
		handler: h,
		store:   mem,
		router:  NewRouter(h, []string{"*"}),
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func (e *testEnv) seedPost(t *testing.T, id roster.PostID, pattern string, billing int64, createdAt roster.Day) {
	t.Helper()
	require.NoError(t, e.store.SavePost(context.Background(), roster.Post{
		ID:           id,
		SiteID:       "site-1",
		Name:         "Post " + string(id),
		PatternName:  pattern,
		BillingValue: decimal.NewFromInt(billing),
		CreatedAt:    createdAt,
	}))
}

func (e *testEnv) seedEmployee(t *testing.T, id roster.EmployeeID) {
	t.Helper()
	require.NoError(t, e.store.SaveEmployee(context.Background(), roster.Employee{
		ID: id, Name: "Employee " + string(id), HiredAt: roster.NewDay(2023, time.July, 1),
	}))
}

// =============================================================================
// POST ENDPOINT TESTS
// =============================================================================

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/posts", CreatePostRequest{
		SiteID:       "site-1",
		Name:         "Gatehouse night",
		PatternName:  "12x36",
		BillingValue: 3000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	dto := decode[PostDTO](t, rec)
	assert.NotEmpty(t, dto.ID, "server assigns an ID when none is given")
	assert.Equal(t, "12x36", dto.PatternName)
	assert.Equal(t, "2024-03-10", dto.CreatedAt, "created_at defaults to the pinned today")
}

func TestCreatePost_UnknownPattern(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/posts", CreatePostRequest{
		SiteID:      "site-1",
		Name:        "Gatehouse night",
		PatternName: "3x9",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePost_ValidationFailure(t *testing.T) {
	env := newTestEnv(t)

	// Missing name
	rec := env.do(t, http.MethodPost, "/api/posts", CreatePostRequest{
		SiteID:      "site-1",
		PatternName: "12x36",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPost_NotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/posts/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// ROSTER ENDPOINT TESTS
// =============================================================================

func TestGetRoster_AnchorsOnCreationWithoutAssignment(t *testing.T) {
	// GIVEN: A 12x36 post created 2024-01-01 with no assignment on file
	// WHEN: Requesting January 2024
	// THEN: The grid alternates from the creation date

	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))

	rec := env.do(t, http.MethodGet, "/api/posts/post-1/roster?year=2024&month=1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[RosterResponse](t, rec)
	assert.Equal(t, "2024-01-01", resp.Anchor)
	require.Len(t, resp.Days, 31)
	assert.Equal(t, "work", resp.Days[0].Status)
	assert.Equal(t, "off", resp.Days[1].Status)
	assert.Equal(t, "work", resp.Days[2].Status)
	assert.Equal(t, 16, resp.WorkDays)
	assert.Equal(t, 15, resp.DaysOff)
}

func TestGetRoster_AnchorsOnOpenAssignment(t *testing.T) {
	// An open assignment re-phases the cycle at its start date.
	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))
	require.NoError(t, env.store.SaveAssignment(context.Background(), roster.Assignment{
		ID: "asg-1", PostID: "post-1", EmployeeID: "emp-1", Start: roster.NewDay(2024, time.January, 2),
	}))

	rec := env.do(t, http.MethodGet, "/api/posts/post-1/roster?year=2024&month=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[RosterResponse](t, rec)
	assert.Equal(t, "2024-01-02", resp.Anchor)
	assert.Equal(t, "off", resp.Days[0].Status)
	assert.Equal(t, "work", resp.Days[1].Status)
}

func TestGetRoster_OverrideForcesWorkDay(t *testing.T) {
	// GIVEN: 12x36 from 2024-01-01, so Jan 2 computes Off
	// WHEN: An override marks Jan 2 as a work day, then the grid is requested
	// THEN: Jan 2 comes out Work

	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))

	rec := env.do(t, http.MethodPut, "/api/posts/post-1/overrides", PutOverrideRequest{
		Date: "2024-01-02", DayOff: false,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/posts/post-1/roster?year=2024&month=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[RosterResponse](t, rec)
	assert.Equal(t, "work", resp.Days[1].Status)
}

func TestGetRoster_BadMonthQuery(t *testing.T) {
	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))

	rec := env.do(t, http.MethodGet, "/api/posts/post-1/roster?year=2024&month=13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/posts/post-1/roster?year=2024", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// ASSIGNMENT ENDPOINT TESTS
// =============================================================================

func TestCreateAssignment(t *testing.T) {
	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))
	env.seedEmployee(t, "emp-1")

	rec := env.do(t, http.MethodPost, "/api/posts/post-1/assignments", CreateAssignmentRequest{
		EmployeeID: "emp-1", Start: "2024-02-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	dto := decode[AssignmentDTO](t, rec)
	assert.Equal(t, "post-1", dto.PostID)
	assert.Equal(t, "2024-02-01", dto.Start)
	assert.Nil(t, dto.End)
}

func TestCreateAssignment_UnknownEmployee(t *testing.T) {
	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))

	rec := env.do(t, http.MethodPost, "/api/posts/post-1/assignments", CreateAssignmentRequest{
		EmployeeID: "ghost", Start: "2024-02-01",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAssignment_SecondOpenConflicts(t *testing.T) {
	// GIVEN: A post with an open assignment
	// WHEN: Allocating another employee without closing the first
	// THEN: 409

	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))
	env.seedEmployee(t, "emp-1")
	env.seedEmployee(t, "emp-2")

	rec := env.do(t, http.MethodPost, "/api/posts/post-1/assignments", CreateAssignmentRequest{
		EmployeeID: "emp-1", Start: "2024-02-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/posts/post-1/assignments", CreateAssignmentRequest{
		EmployeeID: "emp-2", Start: "2024-03-01",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCloseAssignment(t *testing.T) {
	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))
	env.seedEmployee(t, "emp-1")

	rec := env.do(t, http.MethodPost, "/api/posts/post-1/assignments", CreateAssignmentRequest{
		EmployeeID: "emp-1", Start: "2024-02-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[AssignmentDTO](t, rec)

	rec = env.do(t, http.MethodPost, "/api/assignments/"+created.ID+"/close", CloseAssignmentRequest{
		End: "2024-03-05",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/assignments/ghost/close", CloseAssignmentRequest{End: "2024-03-05"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// COVERAGE ENDPOINT TESTS
// =============================================================================

func TestCreateCoverage(t *testing.T) {
	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))

	rec := env.do(t, http.MethodPost, "/api/posts/post-1/coverages", CreateCoverageRequest{
		Date: "2024-03-04", Type: "daily_rate", Cost: 150, Note: "agency temp",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	dto := decode[CoverageDTO](t, rec)
	assert.Equal(t, "daily_rate", dto.Type)
	assert.Equal(t, "2024-03-04", dto.Date)
}

func TestCreateCoverage_DuplicateConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))

	rec := env.do(t, http.MethodPost, "/api/posts/post-1/coverages", CreateCoverageRequest{
		Date: "2024-03-04", Type: "daily_rate", Cost: 150,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/posts/post-1/coverages", CreateCoverageRequest{
		Date: "2024-03-04", Type: "overtime", Cost: 90,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateCoverage_InvalidType(t *testing.T) {
	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))

	rec := env.do(t, http.MethodPost, "/api/posts/post-1/coverages", CreateCoverageRequest{
		Date: "2024-03-04", Type: "favor", Cost: 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// GLOSA ENDPOINT TESTS
// =============================================================================

func TestGetGlosa(t *testing.T) {
	// GIVEN: One post billing 3000/month, fully vacant
	// WHEN: Requesting March 2024 through 2024-03-10
	// THEN: 10 vacant days, total loss 1000

	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))

	rec := env.do(t, http.MethodGet, "/api/glosa?year=2024&month=3&through=2024-03-10", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[GlosaResponse](t, rec)
	assert.Equal(t, "2024-03-10", resp.Through)
	assert.Equal(t, 10, resp.VacantDayCount)
	assert.InDelta(t, 1000, resp.TotalLoss, 0.001)
	require.Len(t, resp.Posts, 1)
	assert.Equal(t, 10, resp.Posts[0].VacantDays)
}

func TestGetGlosa_DefaultsToPinnedToday(t *testing.T) {
	// Without ?through the window clamps at the injected clock (2024-03-10).
	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))

	rec := env.do(t, http.MethodGet, "/api/glosa?year=2024&month=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[GlosaResponse](t, rec)
	assert.Equal(t, "2024-03-10", resp.Through)
	assert.Equal(t, 10, resp.VacantDayCount)
}

func TestGetGlosa_CoverageSuppressesLoss(t *testing.T) {
	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))

	rec := env.do(t, http.MethodPost, "/api/posts/post-1/coverages", CreateCoverageRequest{
		Date: "2024-03-04", Type: "vacant", Cost: 0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/glosa?year=2024&month=3&through=2024-03-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[GlosaResponse](t, rec)
	assert.Equal(t, 9, resp.VacantDayCount)
	assert.InDelta(t, 900, resp.TotalLoss, 0.001)
}

func TestGetGlosa_FutureMonthIsZero(t *testing.T) {
	env := newTestEnv(t)
	env.seedPost(t, "post-1", "12x36", 3000, roster.NewDay(2024, time.January, 1))

	rec := env.do(t, http.MethodGet, "/api/glosa?year=2024&month=8", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[GlosaResponse](t, rec)
	assert.Equal(t, 0, resp.VacantDayCount)
	assert.InDelta(t, 0, resp.TotalLoss, 0.001)
}

// =============================================================================
// PATTERN ENDPOINT TESTS
// =============================================================================

func TestListPatterns_SortedBuiltins(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/patterns", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[PatternsResponse](t, rec)
	assert.Equal(t, []string{"12x36", "24x48", "4x2", "5x2", "6x1"}, resp.Patterns)
}
