/*
handlers.go - HTTP API handlers for the roster engine

PURPOSE:
  Exposes the roster and revenue-loss calculators via REST. Handles HTTP
  request/response, JSON serialization, validation, and delegates to the
  domain packages.

ENDPOINTS:
  Posts:
    GET    /api/posts                       List posts
    POST   /api/posts                       Create post
    GET    /api/posts/{id}                  Get post
    GET    /api/posts/{id}/roster           Projected monthly grid
    GET    /api/posts/{id}/assignments      Assignment history
    POST   /api/posts/{id}/assignments      Allocate employee
    GET    /api/posts/{id}/coverages        Coverage records
    POST   /api/posts/{id}/coverages        Record a coverage
    GET    /api/posts/{id}/overrides        Manual corrections
    PUT    /api/posts/{id}/overrides        Upsert a correction

  Assignments:
    POST   /api/assignments/{id}/close      Close an open assignment

  Employees:
    GET    /api/employees                   List employees
    POST   /api/employees                   Create employee
    GET    /api/employees/{id}              Get employee

  Reports:
    GET    /api/glosa                       Monthly revenue-loss summary
    GET    /api/patterns                    Recognized shift patterns

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, unknown patterns, bad dates
  - 404: Post/employee/assignment not found
  - 409: Duplicate coverage, second open assignment
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/staffline/roster-engine/glosa"
	"github.com/staffline/roster-engine/roster"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   roster.Store
	Catalog *roster.Catalog

	validate *validator.Validate

	// now supplies "today" for defaulted date parameters. Overridable in
	// tests; the calculators themselves never read the clock.
	now func() roster.Day
}

// NewHandler creates a new handler with the given store and pattern catalog.
func NewHandler(store roster.Store, catalog *roster.Catalog) *Handler {
	return &Handler{
		Store:    store,
		Catalog:  catalog,
		validate: validator.New(),
		now:      roster.Today,
	}
}

// =============================================================================
// POST HANDLERS
// =============================================================================

// ListPosts returns all posts.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Store.ListPosts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list posts", err)
		return
	}

	dtos := make([]PostDTO, len(posts))
	for i, p := range posts {
		dtos[i] = toPostDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPost returns a single post.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, ok := h.fetchPost(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPostDTO(*post))
}

// CreatePost creates a new post.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	// Reject unknown patterns at creation time rather than at projection time.
	if _, err := h.Catalog.Lookup(req.PatternName); err != nil {
		writeError(w, http.StatusBadRequest, "Unknown pattern", err)
		return
	}

	createdAt := h.now()
	if req.CreatedAt != "" {
		var err error
		createdAt, err = roster.ParseDay(req.CreatedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid created_at format (use YYYY-MM-DD)", err)
			return
		}
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	post := roster.Post{
		ID:            roster.PostID(id),
		SiteID:        req.SiteID,
		Name:          req.Name,
		PatternName:   req.PatternName,
		BillingValue:  decimal.NewFromFloat(req.BillingValue),
		WorkloadHours: req.WorkloadHours,
		CreatedAt:     createdAt,
	}
	if err := h.Store.SavePost(r.Context(), post); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create post", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPostDTO(post))
}

// GetRoster returns the projected monthly grid for a post, with overrides
// applied. GET /api/posts/{id}/roster?year=2024&month=3
func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	post, ok := h.fetchPost(w, r)
	if !ok {
		return
	}

	year, month, ok := parseYearMonth(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	assignments, err := h.Store.ListAssignments(ctx, post.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignments", err)
		return
	}

	// The cycle is phased at the start of the current assignment; a post
	// with no assignment on file falls back to its creation date.
	anchor := post.CreatedAt
	if open := roster.OpenAssignment(assignments); open != nil {
		anchor = open.Start
	}

	overrides, err := h.Store.ListOverrides(ctx, post.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load overrides", err)
		return
	}

	days, err := h.Catalog.ProjectMonth(*post, anchor, roster.NewOverrideSet(overrides...), year, month)
	if err != nil {
		writeError(w, statusFor(err), "Failed to project roster", err)
		return
	}

	writeJSON(w, http.StatusOK, toRosterResponse(*post, anchor, year, month, days))
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := roster.EmployeeID(chi.URLParam(r, "id"))
	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	hiredAt := h.now()
	if req.HiredAt != "" {
		var err error
		hiredAt, err = roster.ParseDay(req.HiredAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid hired_at format (use YYYY-MM-DD)", err)
			return
		}
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	emp := roster.Employee{
		ID:      roster.EmployeeID(id),
		Name:    req.Name,
		Email:   req.Email,
		HiredAt: hiredAt,
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// =============================================================================
// ASSIGNMENT HANDLERS
// =============================================================================

// ListAssignments returns the assignment history of a post.
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	post, ok := h.fetchPost(w, r)
	if !ok {
		return
	}

	assignments, err := h.Store.ListAssignments(r.Context(), post.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}

	dtos := make([]AssignmentDTO, len(assignments))
	for i, a := range assignments {
		dtos[i] = toAssignmentDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAssignment allocates an employee to a post (open-ended).
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	post, ok := h.fetchPost(w, r)
	if !ok {
		return
	}

	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	start, err := roster.ParseDay(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start format (use YYYY-MM-DD)", err)
		return
	}

	ctx := r.Context()
	if _, err := h.Store.GetEmployee(ctx, roster.EmployeeID(req.EmployeeID)); err != nil {
		writeError(w, statusFor(err), "Failed to resolve employee", err)
		return
	}

	assignment := roster.Assignment{
		ID:         roster.AssignmentID(uuid.NewString()),
		PostID:     post.ID,
		EmployeeID: roster.EmployeeID(req.EmployeeID),
		Start:      start,
	}
	if err := h.Store.SaveAssignment(ctx, assignment); err != nil {
		writeError(w, statusFor(err), "Failed to create assignment", err)
		return
	}

	writeJSON(w, http.StatusCreated, toAssignmentDTO(assignment))
}

// CloseAssignment sets the end date of an open assignment.
// POST /api/assignments/{id}/close
func (h *Handler) CloseAssignment(w http.ResponseWriter, r *http.Request) {
	id := roster.AssignmentID(chi.URLParam(r, "id"))

	var req CloseAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	end, err := roster.ParseDay(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end format (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Store.CloseAssignment(r.Context(), id, end); err != nil {
		writeError(w, statusFor(err), "Failed to close assignment", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "closed", "end": end.String()})
}

// =============================================================================
// COVERAGE HANDLERS
// =============================================================================

// ListCoverages returns the coverage records of a post.
func (h *Handler) ListCoverages(w http.ResponseWriter, r *http.Request) {
	post, ok := h.fetchPost(w, r)
	if !ok {
		return
	}

	coverages, err := h.Store.ListCoverages(r.Context(), post.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list coverages", err)
		return
	}

	dtos := make([]CoverageDTO, len(coverages))
	for i, c := range coverages {
		dtos[i] = toCoverageDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCoverage records how a post's gap on a given day was handled.
func (h *Handler) CreateCoverage(w http.ResponseWriter, r *http.Request) {
	post, ok := h.fetchPost(w, r)
	if !ok {
		return
	}

	var req CreateCoverageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	date, err := roster.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	coverage := roster.Coverage{
		ID:     roster.CoverageID(uuid.NewString()),
		PostID: post.ID,
		Date:   date,
		Type:   roster.CoverageType(req.Type),
		Cost:   decimal.NewFromFloat(req.Cost),
		Note:   req.Note,
	}
	if err := h.Store.SaveCoverage(r.Context(), coverage); err != nil {
		writeError(w, statusFor(err), "Failed to record coverage", err)
		return
	}

	writeJSON(w, http.StatusCreated, toCoverageDTO(coverage))
}

// =============================================================================
// OVERRIDE HANDLERS
// =============================================================================

// ListOverrides returns the manual corrections of a post.
func (h *Handler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	post, ok := h.fetchPost(w, r)
	if !ok {
		return
	}

	overrides, err := h.Store.ListOverrides(r.Context(), post.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list overrides", err)
		return
	}

	dtos := make([]OverrideDTO, len(overrides))
	for i, o := range overrides {
		dtos[i] = toOverrideDTO(o)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PutOverride upserts a manual correction for a (post, date). Last write wins.
func (h *Handler) PutOverride(w http.ResponseWriter, r *http.Request) {
	post, ok := h.fetchPost(w, r)
	if !ok {
		return
	}

	var req PutOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	date, err := roster.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	override := roster.Override{PostID: post.ID, Date: date, DayOff: req.DayOff}
	if err := h.Store.PutOverride(r.Context(), override); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save override", err)
		return
	}

	writeJSON(w, http.StatusOK, toOverrideDTO(override))
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetGlosa returns the monthly revenue-loss summary.
// GET /api/glosa?year=2024&month=3[&through=2024-03-10]
func (h *Handler) GetGlosa(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(w, r)
	if !ok {
		return
	}

	today := h.now()
	if s := r.URL.Query().Get("through"); s != "" {
		var err error
		today, err = roster.ParseDay(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid through format (use YYYY-MM-DD)", err)
			return
		}
	}

	ctx := r.Context()
	posts, err := h.Store.ListPosts(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list posts", err)
		return
	}
	assignments, err := h.Store.ListAllAssignments(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignments", err)
		return
	}
	coverages, err := h.Store.ListAllCoverages(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list coverages", err)
		return
	}

	start, through := glosa.MonthWindow(year, month, today)
	result := glosa.ComputeMonthlyLoss(posts, assignments, coverages, start, through)

	writeJSON(w, http.StatusOK, toGlosaResponse(year, month, through, result))
}

// ListPatterns returns the recognized shift pattern names.
func (h *Handler) ListPatterns(w http.ResponseWriter, r *http.Request) {
	names := h.Catalog.Names()
	sort.Strings(names)
	writeJSON(w, http.StatusOK, PatternsResponse{Patterns: names})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) fetchPost(w http.ResponseWriter, r *http.Request) (*roster.Post, bool) {
	id := roster.PostID(chi.URLParam(r, "id"))
	post, err := h.Store.GetPost(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), "Failed to get post", err)
		return nil, false
	}
	return post, true
}

func parseYearMonth(w http.ResponseWriter, r *http.Request) (int, time.Month, bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1 {
		writeError(w, http.StatusBadRequest, "Invalid or missing year", err)
		return 0, 0, false
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "Invalid or missing month (1-12)", err)
		return 0, 0, false
	}
	return year, time.Month(month), true
}

func statusFor(err error) int {
	switch {
	case roster.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, roster.ErrDuplicateCoverage) || errors.Is(err, roster.ErrOpenAssignmentExists):
		return http.StatusConflict
	case roster.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
