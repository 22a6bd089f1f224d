package refset

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refset/refset/internal/platform/api"
	"github.com/refset/refset/internal/platform/search"
)

type mockRepo struct {
	items map[uuid.UUID]*Refset
}

func (m *mockRepo) Create(_ context.Context, r *Refset) error {
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.items[r.ID] = r
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Refset, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r, nil
}

func (m *mockRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*Refset, error) {
	var out []*Refset
	for _, id := range ids {
		if r, ok := m.items[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, r *Refset) error {
	if _, ok := m.items[r.ID]; !ok {
		return fmt.Errorf("update: %w", pgx.ErrNoRows)
	}
	m.items[r.ID] = r
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("delete: %w", pgx.ErrNoRows)
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListAll(_ context.Context) ([]*Refset, error) {
	out := make([]*Refset, 0, len(m.items))
	for _, r := range m.items {
		out = append(out, r)
	}
	return out, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := &mockRepo{items: map[uuid.UUID]*Refset{}}
	entity := NewEntity(repo)
	idx, err := search.OpenIndex("", entity)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	reg, err := search.NewRegistry(map[string]search.Handler{search.DefaultHandler: search.NewBleveHandler(idx)})
	require.NoError(t, err)
	finder := search.NewFinder(search.NewService(reg, zerolog.Nop()), entity)
	return NewService(repo, finder, search.NewSync(search.NewIndexer(idx, entity), zerolog.Nop(), nil))
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func seed(t *testing.T, s *Service) {
	t.Helper()
	us := &EditionRef{ShortName: "SNOMEDCT-US", Name: "US Edition"}
	for _, r := range []*Refset{
		{RefsetID: "723264001", Name: "Lateralizable body structure", EditionID: uuid.New(), Edition: us,
			VersionDate: date(2024, time.March, 1), MemberCount: 250, Active: true},
		{RefsetID: "447562003", Name: "ICD-10 complex map", Type: TypeComplexMap, EditionID: uuid.New(),
			Edition: &EditionRef{ShortName: "SNOMEDCT", Name: "International Edition"},
			VersionDate: date(2023, time.September, 1), MemberCount: 120000, Active: true},
		{RefsetID: "6011000124106", Name: "ICD-10-CM map", Type: TypeExtendedMap, EditionID: uuid.New(), Edition: us,
			ModuleID: "731000124108", MemberCount: 90000},
	} {
		require.NoError(t, s.CreateRefset(context.Background(), r))
	}
}

func refsetIDs(items []*Refset) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.RefsetID
	}
	return out
}

func TestValidSCTID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"723264001", true},
		{"6011000124106", true},
		{"12345", false},
		{"0723264001", false},
		{"72326400x", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validSCTID(tt.id), tt.id)
	}
}

func TestCreateRefset_Validation(t *testing.T) {
	s := newTestService(t)

	err := s.CreateRefset(context.Background(), &Refset{RefsetID: "1", Type: "ODD", ModuleID: "x", MemberCount: -1})
	require.ErrorIs(t, err, api.ErrValidation)
	for _, msg := range []string{"invalid refset_id", "name is required", `invalid type "ODD"`,
		"edition_id is required", "invalid module_id", "member_count"} {
		assert.Contains(t, err.Error(), msg)
	}

	r := &Refset{RefsetID: "723264001", Name: "x", EditionID: uuid.New()}
	require.NoError(t, s.CreateRefset(context.Background(), r))
	assert.Equal(t, TypeSimple, r.Type)
}

func TestFind_SortByVersionDateNullsFirst(t *testing.T) {
	s := newTestService(t)
	seed(t, s)

	res, err := s.Finder().Find(context.Background(), "", nil, &search.Pfs{Limit: 10, SortField: "versionDate"})
	require.NoError(t, err)
	assert.Equal(t, []string{"6011000124106", "447562003", "723264001"}, refsetIDs(res.Items))

	res, err = s.Finder().Find(context.Background(), "", nil, &search.Pfs{Limit: 10, SortField: "versionDate", Descending: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"723264001", "447562003", "6011000124106"}, refsetIDs(res.Items))
}

func TestFind_Filters(t *testing.T) {
	s := newTestService(t)
	seed(t, s)
	ctx := context.Background()

	total, err := s.Finder().FindTotal(ctx, "", &search.Query{Fields: map[string]string{"active": "true"}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	res, err := s.Finder().Find(ctx, "", &search.Query{Text: "map", Fields: map[string]string{"edition.shortName": "SNOMEDCT-US"}},
		search.NewPfs())
	require.NoError(t, err)
	assert.Equal(t, []string{"6011000124106"}, refsetIDs(res.Items))

	res, err = s.Finder().Find(ctx, "", nil, &search.Pfs{Limit: 1, SortField: "memberCount", Descending: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"447562003"}, refsetIDs(res.Items))
	assert.Equal(t, 3, res.Total)
}

func TestFind_ByRefsetID(t *testing.T) {
	s := newTestService(t)
	seed(t, s)

	r, ok, err := s.Finder().FindSingle(context.Background(), "", &search.Query{Fields: map[string]string{"refsetId": "447562003"}})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ICD-10 complex map", r.Name)
}
