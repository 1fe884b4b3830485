// Package storage defines the Storage interface, the persistence gateway
// every backend must satisfy to work with this application.
//
// Three backends implement it:
//
//   - storage/memory   — a map guarded by a mutex, ids from a counter
//   - storage/sqlite   — embedded SQLite file (mattn/go-sqlite3)
//   - storage/postgres — PostgreSQL through pgx's database/sql driver
//
// The service layer only knows about this interface; cmd/students-api
// picks the backend from config.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/students-api/internal/paging"
	"github.com/aanand-mishra/students-api/internal/types"
)

// ErrNotFound is returned when no student has the requested id.
var ErrNotFound = errors.New("storage: student not found")

// Storage is the persistence contract. Implementations must be safe for
// concurrent use and must assign identifiers monotonically.
type Storage interface {
	// FindByID returns the student or ErrNotFound.
	FindByID(ctx context.Context, id int64) (types.Student, error)

	// FindPage returns the students on the requested page, ordered by
	// req.Sort, together with the total number of stored students.
	// Sort properties have already been validated by paging.Sanitizer.
	FindPage(ctx context.Context, req paging.Request) ([]types.Student, int64, error)

	// Save inserts the student when ID is nil (assigning a new id) and
	// otherwise overwrites the stored record, returning ErrNotFound if
	// it no longer exists.
	Save(ctx context.Context, student types.Student) (types.Student, error)

	// DeleteByID removes the student or returns ErrNotFound.
	DeleteByID(ctx context.Context, id int64) error

	// ExistsByID reports whether a student with id is stored.
	ExistsByID(ctx context.Context, id int64) (bool, error)
}
