// Package storagetest holds a behavioural test suite every storage.Storage
// implementation must pass. Backend packages call Run from their own tests.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-api/internal/paging"
	"github.com/aanand-mishra/students-api/internal/storage"
	"github.com/aanand-mishra/students-api/internal/types"
)

// Factory returns an empty store for one subtest.
type Factory func(t *testing.T) storage.Storage

// Run executes the suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("SaveAssignsIncreasingIDs", func(t *testing.T) { testSaveAssignsIDs(t, newStore(t)) })
	t.Run("FindByID", func(t *testing.T) { testFindByID(t, newStore(t)) })
	t.Run("SaveUpdatesExisting", func(t *testing.T) { testSaveUpdates(t, newStore(t)) })
	t.Run("SaveUnknownID", func(t *testing.T) { testSaveUnknownID(t, newStore(t)) })
	t.Run("DeleteAndExists", func(t *testing.T) { testDeleteAndExists(t, newStore(t)) })
	t.Run("FindPageEmpty", func(t *testing.T) { testFindPageEmpty(t, newStore(t)) })
	t.Run("FindPageSortedAndSliced", func(t *testing.T) { testFindPageSorted(t, newStore(t)) })
	t.Run("FindPageMultiKeySort", func(t *testing.T) { testFindPageMultiKey(t, newStore(t)) })
	t.Run("FindPageByDateOfBirth", func(t *testing.T) { testFindPageByDate(t, newStore(t)) })
}

// NewStudent builds a valid, unsaved student.
func NewStudent(first, last string, dob types.Date) types.Student {
	return types.Student{
		FirstName:   first,
		LastName:    last,
		Email:       fmt.Sprintf("%s.%s@example.com", first, last),
		DateOfBirth: dob,
	}
}

func mustSave(t *testing.T, s storage.Storage, st types.Student) types.Student {
	t.Helper()
	saved, err := s.Save(context.Background(), st)
	require.NoError(t, err)
	require.NotNil(t, saved.ID)
	return saved
}

func testSaveAssignsIDs(t *testing.T, s storage.Storage) {
	a := mustSave(t, s, NewStudent("Ann", "Lee", types.NewDate(2000, time.January, 1)))
	b := mustSave(t, s, NewStudent("Ben", "Lee", types.NewDate(2000, time.January, 2)))

	assert.Greater(t, *b.ID, *a.ID)
	assert.Equal(t, "Ann", a.FirstName)
}

func testFindByID(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	saved := mustSave(t, s, NewStudent("Jane", "Doe", types.NewDate(1994, time.February, 14)))

	got, err := s.FindByID(ctx, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	_, err = s.FindByID(ctx, *saved.ID+1000)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testSaveUpdates(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	saved := mustSave(t, s, NewStudent("Phong", "Tran", types.NewDate(1998, time.March, 10)))

	saved.FirstName = "Phong Updated"
	saved.Email = "phong.updated@example.com"
	saved.DateOfBirth = types.NewDate(1998, time.March, 11)
	updated, err := s.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, saved, updated)

	got, err := s.FindByID(ctx, *saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Phong Updated", got.FirstName)
	assert.Equal(t, "phong.updated@example.com", got.Email)
	assert.Equal(t, types.NewDate(1998, time.March, 11), got.DateOfBirth)
}

func testSaveUnknownID(t *testing.T, s storage.Storage) {
	st := NewStudent("Ghost", "User", types.NewDate(1990, time.May, 5))
	st.ID = types.Int64Ptr(424242)

	_, err := s.Save(context.Background(), st)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testDeleteAndExists(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	saved := mustSave(t, s, NewStudent("Linh", "Pham", types.NewDate(2002, time.July, 15)))

	ok, err := s.ExistsByID(ctx, *saved.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.DeleteByID(ctx, *saved.ID))

	ok, err = s.ExistsByID(ctx, *saved.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.DeleteByID(ctx, *saved.ID), storage.ErrNotFound)
	_, err = s.FindByID(ctx, *saved.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testFindPageEmpty(t *testing.T, s storage.Storage) {
	got, total, err := s.FindPage(context.Background(), paging.Request{Size: 20, Sort: byID()})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, total)
}

func testFindPageSorted(t *testing.T, s storage.Storage) {
	// Insert in reverse so id order and lastName order disagree.
	for i := 11; i >= 0; i-- {
		suffix := string(rune('A' + i))
		mustSave(t, s, NewStudent("Student"+suffix, "Last"+suffix, types.NewDate(2000, time.January, 1+i)))
	}

	req := paging.Request{Page: 1, Size: 5, Sort: []paging.Order{{Property: types.PropertyLastName, Direction: paging.Asc}}}
	got, total, err := s.FindPage(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(12), total)
	require.Len(t, got, 5)
	assert.Equal(t, "LastF", got[0].LastName)
	assert.Equal(t, "LastJ", got[4].LastName)

	req.Page = 2
	got, _, err = s.FindPage(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "LastL", got[1].LastName)
}

func testFindPageMultiKey(t *testing.T, s storage.Storage) {
	mustSave(t, s, NewStudent("Charlie", "Nguyen", types.NewDate(1998, time.January, 1)))
	mustSave(t, s, NewStudent("Alice", "Nguyen", types.NewDate(1999, time.January, 1)))
	mustSave(t, s, NewStudent("Bob", "Nguyen", types.NewDate(1997, time.January, 1)))
	mustSave(t, s, NewStudent("Zed", "Adams", types.NewDate(1996, time.January, 1)))

	req := paging.Request{Size: 10, Sort: []paging.Order{
		{Property: types.PropertyLastName, Direction: paging.Asc},
		{Property: types.PropertyFirstName, Direction: paging.Desc},
	}}
	got, _, err := s.FindPage(context.Background(), req)
	require.NoError(t, err)

	var names []string
	for _, st := range got {
		names = append(names, st.FirstName)
	}
	assert.Equal(t, []string{"Zed", "Charlie", "Bob", "Alice"}, names)
}

func testFindPageByDate(t *testing.T, s storage.Storage) {
	mustSave(t, s, NewStudent("Mid", "One", types.NewDate(2000, time.June, 1)))
	mustSave(t, s, NewStudent("Old", "Two", types.NewDate(1990, time.December, 31)))
	mustSave(t, s, NewStudent("New", "Three", types.NewDate(2005, time.February, 2)))

	req := paging.Request{Size: 10, Sort: []paging.Order{{Property: types.PropertyDateOfBirth, Direction: paging.Desc}}}
	got, _, err := s.FindPage(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"New", "Mid", "Old"}, []string{got[0].FirstName, got[1].FirstName, got[2].FirstName})
	assert.Equal(t, types.NewDate(1990, time.December, 31), got[2].DateOfBirth)
}

func byID() []paging.Order {
	return []paging.Order{{Property: types.PropertyID, Direction: paging.Asc}}
}
