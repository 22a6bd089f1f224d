package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresHandler_Build(t *testing.T) {
	h := NewPostgresHandler(nil)
	entity := recordEntity(nil)

	req := Request{
		Entity: entity.Descriptor,
		Query:  Compose("heart attack", map[string]string{"status": "ACTIVE"}, []string{"lung"}),
		Pfs:    &Pfs{Limit: 10, Offset: 5, SortFields: []string{"rank", "title"}, Descending: true},
	}
	q, err := h.build(req)
	require.NoError(t, err)

	vec := "to_tsvector('simple', coalesce(title::text, ''))"
	want := "SELECT id::text FROM record WHERE 1=1" +
		" AND " + vec + " @@ websearch_to_tsquery('simple', $1)" +
		" AND status = $2" +
		" AND " + vec + " @@ to_tsquery('simple', $3)" +
		" ORDER BY rank DESC NULLS LAST, title DESC NULLS LAST, id LIMIT $4 OFFSET $5"
	assert.Equal(t, want, q.DataSQL(10, 5))
	assert.Equal(t, []any{"heart attack", "ACTIVE", "lung", 10, 5}, q.DataArgs(10, 5))
}

func TestPostgresHandler_BuildLiteral(t *testing.T) {
	h := NewPostgresHandler(nil)
	req := Request{
		Entity:  recordEntity(nil).Descriptor,
		Query:   Compose(`"heart (attack"`, nil, nil),
		Literal: true,
	}
	q, err := h.build(req)
	require.NoError(t, err)
	assert.Contains(t, q.CountSQL(), "phraseto_tsquery('simple', $1)")
	assert.Equal(t, []any{"heart (attack"}, q.CountArgs())
	assert.Contains(t, q.DataSQL(-1, 0), "ORDER BY id LIMIT ALL")
}

func TestPostgresHandler_BuildRandomAndUnknownFilter(t *testing.T) {
	h := NewPostgresHandler(nil)
	entity := recordEntity(nil)

	q, err := h.build(Request{Entity: entity.Descriptor, Query: Compose("", nil, nil), Pfs: &Pfs{SortField: RandomSort}})
	require.NoError(t, err)
	assert.Contains(t, q.DataSQL(-1, 0), "ORDER BY random()")

	_, err = h.build(Request{Entity: entity.Descriptor, Query: Compose("", map[string]string{"owner": "x"}, nil)})
	assert.ErrorIs(t, err, ErrMissingAccessor)
}
