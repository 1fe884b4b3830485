// Package sqlstore implements storage.Storage on top of database/sql.
//
// The SQLite and PostgreSQL backends share every query; the only dialect
// difference is the placeholder syntax ("?" vs "$1"), handled by Rebind.
// Both engines support INSERT ... RETURNING, so the generated id comes
// back from the insert itself.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aanand-mishra/students-api/internal/paging"
	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/types"
)

// Dialect selects placeholder syntax.
type Dialect int

const (
	// Question uses "?" placeholders (SQLite).
	Question Dialect = iota
	// Dollar uses "$1, $2, ..." placeholders (PostgreSQL).
	Dollar
)

// columns maps API sort properties to table columns. Only these names are
// ever interpolated into ORDER BY.
var columns = map[string]string{
	types.PropertyID:          "id",
	types.PropertyFirstName:   "first_name",
	types.PropertyLastName:    "last_name",
	types.PropertyEmail:       "email",
	types.PropertyDateOfBirth: "date_of_birth",
}

const selectColumns = "id, first_name, last_name, email, date_of_birth"

var _ storage.Storage = (*Store)(nil)

// Store is the database/sql implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New wraps an open, migrated database.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// DB exposes the underlying pool (for Close and health checks).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Rebind rewrites "?" placeholders for the store's dialect.
func (s *Store) Rebind(query string) string {
	if s.dialect != Dollar {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) FindByID(ctx context.Context, id int64) (types.Student, error) {
	row := s.db.QueryRowContext(ctx,
		s.Rebind("SELECT "+selectColumns+" FROM students WHERE id = ? LIMIT 1"), id)

	student, err := scanStudent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, storage.ErrNotFound
		}
		return types.Student{}, fmt.Errorf("FindByID: scan: %w", err)
	}
	return student, nil
}

func (s *Store) FindPage(ctx context.Context, req paging.Request) ([]types.Student, int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM students").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("FindPage: count: %w", err)
	}

	orderBy, err := OrderBy(req.Sort)
	if err != nil {
		return nil, 0, fmt.Errorf("FindPage: %w", err)
	}

	query := s.Rebind("SELECT " + selectColumns + " FROM students ORDER BY " + orderBy + " LIMIT ? OFFSET ?")
	rows, err := s.db.QueryContext(ctx, query, req.Size, req.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("FindPage: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0, req.Size)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("FindPage: scan row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("FindPage: rows iteration: %w", err)
	}

	return students, total, nil
}

func (s *Store) Save(ctx context.Context, student types.Student) (types.Student, error) {
	if student.ID == nil {
		return s.insert(ctx, student)
	}
	return s.update(ctx, student)
}

func (s *Store) insert(ctx context.Context, student types.Student) (types.Student, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		s.Rebind("INSERT INTO students (first_name, last_name, email, date_of_birth) VALUES (?, ?, ?, ?) RETURNING id"),
		student.FirstName, student.LastName, student.Email, student.DateOfBirth,
	).Scan(&id)
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: insert: %w", err)
	}

	student.ID = types.Int64Ptr(id)
	return student, nil
}

func (s *Store) update(ctx context.Context, student types.Student) (types.Student, error) {
	res, err := s.db.ExecContext(ctx,
		s.Rebind("UPDATE students SET first_name = ?, last_name = ?, email = ?, date_of_birth = ? WHERE id = ?"),
		student.FirstName, student.LastName, student.Email, student.DateOfBirth, *student.ID,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: update: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return types.Student{}, fmt.Errorf("Save: rows affected: %w", err)
	}
	if n == 0 {
		return types.Student{}, storage.ErrNotFound
	}
	return student, nil
}

func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.Rebind("DELETE FROM students WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("DeleteByID: exec: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteByID: rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		s.Rebind("SELECT EXISTS (SELECT 1 FROM students WHERE id = ?)"), id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ExistsByID: %w", err)
	}
	return exists, nil
}

// OrderBy renders a whitelisted ORDER BY list. id is appended as a final
// tiebreaker so paging is deterministic.
func OrderBy(orders []paging.Order) (string, error) {
	parts := make([]string, 0, len(orders)+1)
	hasID := false

	for _, o := range orders {
		col, ok := columns[o.Property]
		if !ok {
			return "", fmt.Errorf("unknown sort property %q", o.Property)
		}
		if col == "id" {
			hasID = true
		}
		dir := "ASC"
		if o.Descending() {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}

	if !hasID {
		parts = append(parts, "id ASC")
	}
	return strings.Join(parts, ", "), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(sc scanner) (types.Student, error) {
	var (
		student types.Student
		id      int64
	)
	if err := sc.Scan(&id, &student.FirstName, &student.LastName, &student.Email, &student.DateOfBirth); err != nil {
		return types.Student{}, err
	}
	student.ID = types.Int64Ptr(id)
	return student, nil
}
