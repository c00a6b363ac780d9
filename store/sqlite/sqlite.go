/*
Package sqlite provides a SQLite-backed implementation of roster.Store.

PURPOSE:
  Persists posts, employees, assignments, coverages, and overrides using
  SQLite. In production, the same patterns apply to PostgreSQL - only minor
  SQL dialect differences.

KEY TABLES:
  posts:       Contracted staffing slots (billing stored as TEXT decimal)
  employees:   Workforce records
  assignments: Employee-to-post intervals; NULL end = open
  coverages:   Day-level gap handling, UNIQUE(post_id, date)
  overrides:   Manual corrections, PRIMARY KEY(post_id, date) - upsert
               implements last-write-wins with no history

INVARIANTS ENFORCED HERE:
  - One coverage record per (post, date): UNIQUE index, surfaced as
    roster.DuplicateCoverageError
  - One open assignment per post: checked before insert, surfaced as
    roster.ErrOpenAssignmentExists

DATES:
  Stored as ISO text (YYYY-MM-DD) and parsed back through roster.ParseDay,
  so day granularity survives the round trip by construction.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/roster.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - roster/store.go: Interface definition
  - roster/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/staffline/roster-engine/roster"
)

// Store implements roster.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		site_id TEXT NOT NULL,
		name TEXT NOT NULL,
		pattern_name TEXT NOT NULL,
		billing_value TEXT NOT NULL,
		workload_hours INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_posts_site ON posts(site_id);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		hired_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		post_id TEXT NOT NULL,
		employee_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_assignments_post ON assignments(post_id);
	CREATE INDEX IF NOT EXISTS idx_assignments_employee ON assignments(employee_id);

	-- At most one open assignment per post
	CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_open
		ON assignments(post_id) WHERE end_date IS NULL;

	CREATE TABLE IF NOT EXISTS coverages (
		id TEXT PRIMARY KEY,
		post_id TEXT NOT NULL,
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		cost TEXT NOT NULL,
		note TEXT,
		UNIQUE(post_id, date)
	);

	CREATE INDEX IF NOT EXISTS idx_coverages_date ON coverages(date);

	-- Last write wins: upsert on the primary key, no history retained
	CREATE TABLE IF NOT EXISTS overrides (
		post_id TEXT NOT NULL,
		date TEXT NOT NULL,
		day_off BOOLEAN NOT NULL,
		PRIMARY KEY (post_id, date)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// POSTS
// =============================================================================

func (s *Store) SavePost(ctx context.Context, p roster.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO posts (id, site_id, name, pattern_name, billing_value, workload_hours, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), p.SiteID, p.Name, p.PatternName, p.BillingValue.String(), p.WorkloadHours, p.CreatedAt.String())
	return err
}

func (s *Store) GetPost(ctx context.Context, id roster.PostID) (*roster.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, site_id, name, pattern_name, billing_value, workload_hours, created_at
		FROM posts WHERE id = ?`, string(id))

	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, roster.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) ListPosts(ctx context.Context) ([]roster.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site_id, name, pattern_name, billing_value, workload_hours, created_at
		FROM posts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []roster.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*roster.Post, error) {
	var (
		p         roster.Post
		id        string
		billing   string
		createdAt string
	)
	if err := row.Scan(&id, &p.SiteID, &p.Name, &p.PatternName, &billing, &p.WorkloadHours, &createdAt); err != nil {
		return nil, err
	}
	p.ID = roster.PostID(id)

	value, err := decimal.NewFromString(billing)
	if err != nil {
		return nil, fmt.Errorf("corrupt billing value for post %s: %w", id, err)
	}
	p.BillingValue = value

	day, err := roster.ParseDay(createdAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_at for post %s: %w", id, err)
	}
	p.CreatedAt = day
	return &p, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, e roster.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO employees (id, name, email, hired_at)
		VALUES (?, ?, ?, ?)`,
		string(e.ID), e.Name, e.Email, e.HiredAt.String())
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id roster.EmployeeID) (*roster.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		e       roster.Employee
		rawID   string
		hiredAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, hired_at FROM employees WHERE id = ?`, string(id)).
		Scan(&rawID, &e.Name, &e.Email, &hiredAt)
	if err == sql.ErrNoRows {
		return nil, roster.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}

	e.ID = roster.EmployeeID(rawID)
	day, err := roster.ParseDay(hiredAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt hired_at for employee %s: %w", rawID, err)
	}
	e.HiredAt = day
	return &e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]roster.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, hired_at FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []roster.Employee
	for rows.Next() {
		var (
			e       roster.Employee
			rawID   string
			hiredAt string
		)
		if err := rows.Scan(&rawID, &e.Name, &e.Email, &hiredAt); err != nil {
			return nil, err
		}
		e.ID = roster.EmployeeID(rawID)
		day, err := roster.ParseDay(hiredAt)
		if err != nil {
			return nil, fmt.Errorf("corrupt hired_at for employee %s: %w", rawID, err)
		}
		e.HiredAt = day
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// ASSIGNMENTS
// =============================================================================

func (s *Store) SaveAssignment(ctx context.Context, a roster.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.IsOpen() {
		var count int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM assignments WHERE post_id = ? AND end_date IS NULL AND id != ?`,
			string(a.PostID), string(a.ID)).Scan(&count)
		if err != nil {
			return err
		}
		if count > 0 {
			return roster.ErrOpenAssignmentExists
		}
	}

	var end any
	if a.End != nil {
		end = a.End.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO assignments (id, post_id, employee_id, start_date, end_date)
		VALUES (?, ?, ?, ?, ?)`,
		string(a.ID), string(a.PostID), string(a.EmployeeID), a.Start.String(), end)
	return err
}

func (s *Store) CloseAssignment(ctx context.Context, id roster.AssignmentID, end roster.Day) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`UPDATE assignments SET end_date = ? WHERE id = ?`, end.String(), string(id))
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return roster.ErrAssignmentNotFound
	}
	return nil
}

func (s *Store) ListAssignments(ctx context.Context, post roster.PostID) ([]roster.Assignment, error) {
	return s.queryAssignments(ctx, `
		SELECT id, post_id, employee_id, start_date, end_date
		FROM assignments WHERE post_id = ? ORDER BY start_date, id`, string(post))
}

func (s *Store) ListAllAssignments(ctx context.Context) ([]roster.Assignment, error) {
	return s.queryAssignments(ctx, `
		SELECT id, post_id, employee_id, start_date, end_date
		FROM assignments ORDER BY start_date, id`)
}

func (s *Store) queryAssignments(ctx context.Context, query string, args ...any) ([]roster.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []roster.Assignment
	for rows.Next() {
		var (
			a          roster.Assignment
			id         string
			postID     string
			employeeID string
			start      string
			end        sql.NullString
		)
		if err := rows.Scan(&id, &postID, &employeeID, &start, &end); err != nil {
			return nil, err
		}
		a.ID = roster.AssignmentID(id)
		a.PostID = roster.PostID(postID)
		a.EmployeeID = roster.EmployeeID(employeeID)

		startDay, err := roster.ParseDay(start)
		if err != nil {
			return nil, fmt.Errorf("corrupt start_date for assignment %s: %w", id, err)
		}
		a.Start = startDay

		if end.Valid {
			endDay, err := roster.ParseDay(end.String)
			if err != nil {
				return nil, fmt.Errorf("corrupt end_date for assignment %s: %w", id, err)
			}
			a.End = &endDay
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// =============================================================================
// COVERAGES
// =============================================================================

func (s *Store) SaveCoverage(ctx context.Context, c roster.Coverage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO coverages (id, post_id, date, type, cost, note)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(c.ID), string(c.PostID), c.Date.String(), string(c.Type), c.Cost.String(), c.Note)
	if err != nil && isUniqueViolation(err) {
		return &roster.DuplicateCoverageError{PostID: c.PostID, Date: c.Date}
	}
	return err
}

func (s *Store) ListCoverages(ctx context.Context, post roster.PostID) ([]roster.Coverage, error) {
	return s.queryCoverages(ctx, `
		SELECT id, post_id, date, type, cost, note
		FROM coverages WHERE post_id = ? ORDER BY date`, string(post))
}

func (s *Store) ListAllCoverages(ctx context.Context) ([]roster.Coverage, error) {
	return s.queryCoverages(ctx, `
		SELECT id, post_id, date, type, cost, note
		FROM coverages ORDER BY date, post_id`)
}

func (s *Store) queryCoverages(ctx context.Context, query string, args ...any) ([]roster.Coverage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coverages []roster.Coverage
	for rows.Next() {
		var (
			c      roster.Coverage
			id     string
			postID string
			date   string
			ctype  string
			cost   string
			note   sql.NullString
		)
		if err := rows.Scan(&id, &postID, &date, &ctype, &cost, &note); err != nil {
			return nil, err
		}
		c.ID = roster.CoverageID(id)
		c.PostID = roster.PostID(postID)
		c.Type = roster.CoverageType(ctype)
		c.Note = note.String

		day, err := roster.ParseDay(date)
		if err != nil {
			return nil, fmt.Errorf("corrupt date for coverage %s: %w", id, err)
		}
		c.Date = day

		value, err := decimal.NewFromString(cost)
		if err != nil {
			return nil, fmt.Errorf("corrupt cost for coverage %s: %w", id, err)
		}
		c.Cost = value
		coverages = append(coverages, c)
	}
	return coverages, rows.Err()
}

// =============================================================================
// OVERRIDES
// =============================================================================

// PutOverride upserts on (post_id, date). Last write wins.
func (s *Store) PutOverride(ctx context.Context, o roster.Override) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO overrides (post_id, date, day_off) VALUES (?, ?, ?)
		ON CONFLICT(post_id, date) DO UPDATE SET day_off = excluded.day_off`,
		string(o.PostID), o.Date.String(), o.DayOff)
	return err
}

func (s *Store) ListOverrides(ctx context.Context, post roster.PostID) ([]roster.Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT post_id, date, day_off FROM overrides WHERE post_id = ? ORDER BY date`, string(post))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []roster.Override
	for rows.Next() {
		var (
			o      roster.Override
			postID string
			date   string
		)
		if err := rows.Scan(&postID, &date, &o.DayOff); err != nil {
			return nil, err
		}
		o.PostID = roster.PostID(postID)

		day, err := roster.ParseDay(date)
		if err != nil {
			return nil, fmt.Errorf("corrupt date for override on post %s: %w", postID, err)
		}
		o.Date = day
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
// String matching avoids a hard dependency on the driver's error type.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
