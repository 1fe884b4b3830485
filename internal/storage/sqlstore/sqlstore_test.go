package sqlstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-api/internal/paging"
)

func TestRebind(t *testing.T) {
	q := "UPDATE students SET first_name = ?, last_name = ? WHERE id = ?"

	assert.Equal(t, q, New(nil, Question).Rebind(q))
	assert.Equal(t,
		"UPDATE students SET first_name = $1, last_name = $2 WHERE id = $3",
		New(nil, Dollar).Rebind(q))
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name   string
		orders []paging.Order
		want   string
	}{
		{name: "empty falls back to id", orders: nil, want: "id ASC"},
		{name: "id only", orders: []paging.Order{{Property: "id", Direction: paging.Desc}}, want: "id DESC"},
		{
			name: "multi key gets id tiebreaker",
			orders: []paging.Order{
				{Property: "lastName", Direction: paging.Asc},
				{Property: "dateOfBirth", Direction: paging.Desc},
			},
			want: "last_name ASC, date_of_birth DESC, id ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OrderBy(tt.orders)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderBy_RejectsUnknownProperty(t *testing.T) {
	_, err := OrderBy([]paging.Order{{Property: "1; DROP TABLE students", Direction: paging.Asc}})
	assert.Error(t, err)
}
