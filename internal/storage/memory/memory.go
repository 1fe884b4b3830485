// Package memory provides an in-process implementation of storage.Storage.
// Data lives in a map for the lifetime of the process; nothing is written
// to disk. It backs the "memory" storage driver and the service tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/aanand-mishra/students-api/internal/paging"
	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/types"
)

var _ storage.Storage = (*Memory)(nil)

// Memory is a map-backed store. The zero value is not usable; call New.
type Memory struct {
	mu       sync.RWMutex
	students map[int64]types.Student
	lastID   int64
}

// New returns an empty store.
func New() *Memory {
	return &Memory{students: make(map[int64]types.Student)}
}

// Seeded returns a store pre-filled with a few demo students.
func Seeded() *Memory {
	m := New()
	for _, s := range []types.Student{
		{FirstName: "Alice", LastName: "Nguyen", Email: "alice@example.com", DateOfBirth: types.NewDate(2001, time.March, 14)},
		{FirstName: "Bob", LastName: "Tran", Email: "bob@example.com", DateOfBirth: types.NewDate(2000, time.July, 2)},
		{FirstName: "Charlie", LastName: "Pham", Email: "charlie@example.com", DateOfBirth: types.NewDate(1999, time.November, 23)},
	} {
		m.insert(s)
	}
	return m
}

var comparators = map[string]paging.Comparator[types.Student]{
	types.PropertyID:        paging.Compare(func(s types.Student) int64 { return s.IDValue() }),
	types.PropertyFirstName: paging.Compare(func(s types.Student) string { return s.FirstName }),
	types.PropertyLastName:  paging.Compare(func(s types.Student) string { return s.LastName }),
	types.PropertyEmail:     paging.Compare(func(s types.Student) string { return s.Email }),
	types.PropertyDateOfBirth: func(a, b types.Student) int {
		return a.DateOfBirth.Compare(b.DateOfBirth.Time)
	},
}

func (m *Memory) FindByID(_ context.Context, id int64) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.students[id]
	if !ok {
		return types.Student{}, storage.ErrNotFound
	}
	return clone(s), nil
}

func (m *Memory) FindPage(_ context.Context, req paging.Request) ([]types.Student, int64, error) {
	m.mu.RLock()
	all := make([]types.Student, 0, len(m.students))
	for _, s := range m.students {
		all = append(all, s)
	}
	m.mu.RUnlock()

	// Map iteration order is random; id order first keeps ties stable.
	slices.SortFunc(all, comparators[types.PropertyID])

	page, total := paging.Apply(all, req, comparators)
	for i := range page {
		page[i] = clone(page[i])
	}
	return page, total, nil
}

func (m *Memory) Save(_ context.Context, s types.Student) (types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == nil {
		return m.insert(s), nil
	}

	id := *s.ID
	if _, ok := m.students[id]; !ok {
		return types.Student{}, storage.ErrNotFound
	}
	m.students[id] = clone(s)
	return s, nil
}

// insert assigns the next id. Caller holds the write lock (or owns m).
func (m *Memory) insert(s types.Student) types.Student {
	m.lastID++
	s.ID = types.Int64Ptr(m.lastID)
	m.students[m.lastID] = s
	return clone(s)
}

// clone detaches the ID pointer from the stored record.
func clone(s types.Student) types.Student {
	if s.ID != nil {
		s.ID = types.Int64Ptr(*s.ID)
	}
	return s
}

func (m *Memory) DeleteByID(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.students, id)
	return nil
}

func (m *Memory) ExistsByID(_ context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.students[id]
	return ok, nil
}
