/*
store.go - Persistence interface for workforce records

PURPOSE:
  Defines the interface between the calculators/API and the database.
  The engine itself consumes fully-materialized slices; the Store is how
  the surrounding application materializes them. Implementations exist
  for SQLite (production) and in-memory (tests/dev).

WRITE SEMANTICS:
  - Posts and employees are saved whole (insert or replace).
  - Assignments are created open and closed by setting an end date;
    a post may have at most one open assignment at a time.
  - Coverages are unique per (post, date); duplicates are conflicts.
  - Overrides upsert on (post, date): last write wins, no history.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - roster/store: In-memory for testing

SEE ALSO:
  - glosa: Consumes posts/assignments/coverages for loss accounting
  - api: Consumes everything for the HTTP surface
*/
package roster

import "context"

// Store handles persistence of workforce records.
type Store interface {
	// Posts
	SavePost(ctx context.Context, p Post) error
	GetPost(ctx context.Context, id PostID) (*Post, error)
	ListPosts(ctx context.Context) ([]Post, error)

	// Employees
	SaveEmployee(ctx context.Context, e Employee) error
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)

	// Assignments
	SaveAssignment(ctx context.Context, a Assignment) error
	CloseAssignment(ctx context.Context, id AssignmentID, end Day) error
	ListAssignments(ctx context.Context, post PostID) ([]Assignment, error)
	ListAllAssignments(ctx context.Context) ([]Assignment, error)

	// Coverages
	SaveCoverage(ctx context.Context, c Coverage) error
	ListCoverages(ctx context.Context, post PostID) ([]Coverage, error)
	ListAllCoverages(ctx context.Context) ([]Coverage, error)

	// Overrides
	PutOverride(ctx context.Context, o Override) error
	ListOverrides(ctx context.Context, post PostID) ([]Override, error)
}

// OpenAssignment returns the post's open assignment, if any.
// Helper shared by store implementations and handlers.
func OpenAssignment(assignments []Assignment) *Assignment {
	for i := range assignments {
		if assignments[i].IsOpen() {
			return &assignments[i]
		}
	}
	return nil
}
