/*
errors.go - Centralized error types for the roster engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The API layer maps these onto HTTP statuses via the helper predicates.

ERROR CATEGORIES:
  1. Pattern errors - Unknown or malformed shift pattern names
  2. Lookup errors - Missing posts, employees, assignments
  3. Write conflicts - Duplicate coverage, overlapping open assignments

USAGE:
  if errors.Is(err, roster.ErrUnknownPattern) {
      // reject the request; never fall back to a default pattern
  }

SEE ALSO:
  - pattern.go: Returns UnknownPatternError
  - store.go: Store implementations return the lookup/conflict errors
*/
package roster

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownPattern is returned when a pattern name is outside the
	// recognized set. Silently defaulting would corrupt payroll exports,
	// so this is always surfaced to the caller.
	ErrUnknownPattern = errors.New("unknown shift pattern")

	// ErrPostNotFound is returned when a referenced post doesn't exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrAssignmentNotFound is returned when a referenced assignment doesn't exist.
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrDuplicateCoverage is returned when a coverage record already exists
	// for the same (post, date). One record per post-day.
	ErrDuplicateCoverage = errors.New("coverage already recorded for this day")

	// ErrOpenAssignmentExists is returned when creating an assignment for a
	// post that already has an open one. Close it first.
	ErrOpenAssignmentExists = errors.New("post already has an open assignment")

	// ErrInvalidPattern is returned when a custom pattern definition is
	// malformed (zero period, empty work set).
	ErrInvalidPattern = errors.New("invalid pattern definition")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// UnknownPatternError reports which pattern name was rejected.
type UnknownPatternError struct {
	Name string
}

func (e *UnknownPatternError) Error() string {
	return fmt.Sprintf("unknown shift pattern %q", e.Name)
}

func (e *UnknownPatternError) Unwrap() error {
	return ErrUnknownPattern
}

// DuplicateCoverageError reports the conflicting post-day.
type DuplicateCoverageError struct {
	PostID PostID
	Date   Day
}

func (e *DuplicateCoverageError) Error() string {
	return fmt.Sprintf("coverage already recorded for post %s on %s", e.PostID, e.Date)
}

func (e *DuplicateCoverageError) Unwrap() error {
	return ErrDuplicateCoverage
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownPattern) ||
		errors.Is(err, ErrInvalidPattern) ||
		errors.Is(err, ErrDuplicateCoverage) ||
		errors.Is(err, ErrOpenAssignmentExists)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrAssignmentNotFound)
}
