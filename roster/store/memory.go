// Package store provides roster.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/staffline/roster-engine/roster"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	posts       map[roster.PostID]roster.Post
	employees   map[roster.EmployeeID]roster.Employee
	assignments map[roster.AssignmentID]roster.Assignment
	coverages   map[coverageKey]roster.Coverage
	overrides   map[overrideKey]roster.Override
}

type coverageKey struct {
	Post roster.PostID
	Date string
}

type overrideKey struct {
	Post roster.PostID
	Date string
}

func NewMemory() *Memory {
	return &Memory{
		posts:       make(map[roster.PostID]roster.Post),
		employees:   make(map[roster.EmployeeID]roster.Employee),
		assignments: make(map[roster.AssignmentID]roster.Assignment),
		coverages:   make(map[coverageKey]roster.Coverage),
		overrides:   make(map[overrideKey]roster.Override),
	}
}

// -----------------------------------------------------------------------------
// Posts
// -----------------------------------------------------------------------------

func (m *Memory) SavePost(_ context.Context, p roster.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[p.ID] = p
	return nil
}

func (m *Memory) GetPost(_ context.Context, id roster.PostID) (*roster.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, roster.ErrPostNotFound
	}
	return &p, nil
}

func (m *Memory) ListPosts(_ context.Context) ([]roster.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	posts := make([]roster.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

// -----------------------------------------------------------------------------
// Employees
// -----------------------------------------------------------------------------

func (m *Memory) SaveEmployee(_ context.Context, e roster.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id roster.EmployeeID) (*roster.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, roster.ErrEmployeeNotFound
	}
	return &e, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]roster.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	employees := make([]roster.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		employees = append(employees, e)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })
	return employees, nil
}

// -----------------------------------------------------------------------------
// Assignments
// -----------------------------------------------------------------------------

func (m *Memory) SaveAssignment(_ context.Context, a roster.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a.IsOpen() {
		for _, existing := range m.assignments {
			if existing.PostID == a.PostID && existing.IsOpen() && existing.ID != a.ID {
				return roster.ErrOpenAssignmentExists
			}
		}
	}
	m.assignments[a.ID] = a
	return nil
}

func (m *Memory) CloseAssignment(_ context.Context, id roster.AssignmentID, end roster.Day) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return roster.ErrAssignmentNotFound
	}
	a.End = &end
	m.assignments[id] = a
	return nil
}

func (m *Memory) ListAssignments(_ context.Context, post roster.PostID) ([]roster.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []roster.Assignment
	for _, a := range m.assignments {
		if a.PostID == post {
			result = append(result, a)
		}
	}
	sortAssignments(result)
	return result, nil
}

func (m *Memory) ListAllAssignments(_ context.Context) ([]roster.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]roster.Assignment, 0, len(m.assignments))
	for _, a := range m.assignments {
		result = append(result, a)
	}
	sortAssignments(result)
	return result, nil
}

func sortAssignments(as []roster.Assignment) {
	sort.Slice(as, func(i, j int) bool {
		if as[i].Start.Equal(as[j].Start) {
			return as[i].ID < as[j].ID
		}
		return as[i].Start.Before(as[j].Start)
	})
}

// -----------------------------------------------------------------------------
// Coverages
// -----------------------------------------------------------------------------

func (m *Memory) SaveCoverage(_ context.Context, c roster.Coverage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := coverageKey{Post: c.PostID, Date: c.Date.Key()}
	if _, exists := m.coverages[k]; exists {
		return &roster.DuplicateCoverageError{PostID: c.PostID, Date: c.Date}
	}
	m.coverages[k] = c
	return nil
}

func (m *Memory) ListCoverages(_ context.Context, post roster.PostID) ([]roster.Coverage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []roster.Coverage
	for _, c := range m.coverages {
		if c.PostID == post {
			result = append(result, c)
		}
	}
	sortCoverages(result)
	return result, nil
}

func (m *Memory) ListAllCoverages(_ context.Context) ([]roster.Coverage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]roster.Coverage, 0, len(m.coverages))
	for _, c := range m.coverages {
		result = append(result, c)
	}
	sortCoverages(result)
	return result, nil
}

func sortCoverages(cs []roster.Coverage) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Date.Equal(cs[j].Date) {
			return cs[i].PostID < cs[j].PostID
		}
		return cs[i].Date.Before(cs[j].Date)
	})
}

// -----------------------------------------------------------------------------
// Overrides
// -----------------------------------------------------------------------------

// PutOverride upserts on (post, date). Last write wins.
func (m *Memory) PutOverride(_ context.Context, o roster.Override) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[overrideKey{Post: o.PostID, Date: o.Date.Key()}] = o
	return nil
}

func (m *Memory) ListOverrides(_ context.Context, post roster.PostID) ([]roster.Override, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []roster.Override
	for _, o := range m.overrides {
		if o.PostID == post {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}
