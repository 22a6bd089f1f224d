package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPfs_Defaults(t *testing.T) {
	p := NewPfs()
	assert.Equal(t, Unbounded, p.Limit)
	assert.Equal(t, 0, p.Offset)
	assert.True(t, p.Ascending())
	assert.Empty(t, p.SortPaths())

	var nilPfs *Pfs
	assert.True(t, nilPfs.Ascending())
	assert.NoError(t, nilPfs.Validate())
	start, end := nilPfs.Window(4)
	assert.Equal(t, 0, start)
	assert.Equal(t, 4, end)
}

func TestPfs_SortPaths(t *testing.T) {
	p := &Pfs{SortField: "name", SortFields: []string{"a", "b"}}
	assert.Equal(t, []string{"name"}, p.SortPaths())

	p = &Pfs{SortFields: []string{"a", " ", "b"}}
	assert.Equal(t, []string{"a", "b"}, p.SortPaths())
	assert.False(t, p.IsRandom())

	p.SortFields = append(p.SortFields, RandomSort)
	assert.True(t, p.IsRandom())
}

func TestPfs_Copy(t *testing.T) {
	p := &Pfs{Limit: 5, SortFields: []string{"a"}}
	cp := p.Copy()
	cp.SortFields[0] = "b"
	cp.Limit = 7

	assert.Equal(t, "a", p.SortFields[0])
	assert.Equal(t, 5, p.Limit)

	var nilPfs *Pfs
	assert.Equal(t, NewPfs(), nilPfs.Copy())
}

func TestPfs_Validate(t *testing.T) {
	require.NoError(t, (&Pfs{Limit: -1, Offset: -1}).Validate())
	assert.ErrorIs(t, (&Pfs{Limit: -2}).Validate(), ErrInvalidPfs)
	assert.ErrorIs(t, (&Pfs{Offset: -5}).Validate(), ErrInvalidPfs)
}

func TestPfs_Window(t *testing.T) {
	tests := []struct {
		name       string
		pfs        Pfs
		n          int
		start, end int
	}{
		{"first page", Pfs{Limit: 2}, 5, 0, 2},
		{"middle page", Pfs{Limit: 2, Offset: 2}, 5, 2, 4},
		{"short last page", Pfs{Limit: 2, Offset: 4}, 5, 4, 5},
		{"unbounded limit", Pfs{Limit: -1, Offset: 1}, 5, 1, 5},
		{"paging disabled", Pfs{Limit: 2, Offset: -1}, 5, 0, 5},
		{"offset past end", Pfs{Limit: 10, Offset: 5}, 3, 3, 3},
		{"zero limit", Pfs{Limit: 0}, 3, 0, 0},
		{"max offset", Pfs{Limit: 20, Offset: math.MaxInt}, 3, 3, 3},
		{"max limit", Pfs{Limit: math.MaxInt, Offset: 1}, 3, 1, 3},
		{"max offset and limit", Pfs{Limit: math.MaxInt, Offset: math.MaxInt}, 3, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.pfs.Window(tt.n)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}
