package project

import (
	"context"
	"fmt"
	"sort"
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
	items map[uuid.UUID]*Project
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Project)}
}

func (m *mockRepo) Create(_ context.Context, p *Project) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Project, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*Project, error) {
	var out []*Project
	for _, id := range ids {
		if p, ok := m.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, p *Project) error {
	if _, ok := m.items[p.ID]; !ok {
		return fmt.Errorf("update: %w", pgx.ErrNoRows)
	}
	m.items[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("delete: %w", pgx.ErrNoRows)
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListAll(_ context.Context) ([]*Project, error) {
	out := make([]*Project, 0, len(m.items))
	for _, p := range m.items {
		out = append(out, p)
	}
	return out, nil
}

var (
	intl = &EditionRef{ShortName: "SNOMEDCT", Name: "International Edition"}
	us   = &EditionRef{ShortName: "SNOMEDCT-US", Name: "US Edition"}
)

func newTestService(t *testing.T) (*Service, *mockRepo) {
	t.Helper()
	repo := newMockRepo()
	entity := NewEntity(repo)
	idx, err := search.OpenIndex("", entity)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	reg, err := search.NewRegistry(map[string]search.Handler{search.DefaultHandler: search.NewBleveHandler(idx)})
	require.NoError(t, err)
	finder := search.NewFinder(search.NewService(reg, zerolog.Nop()), entity)
	sync := search.NewSync(search.NewIndexer(idx, entity), zerolog.Nop(), nil)
	return NewService(repo, finder, sync), repo
}

func seed(t *testing.T, s *Service) map[string]*Project {
	t.Helper()
	out := map[string]*Project{}
	for _, p := range []*Project{
		{Name: "Cardiology map", Description: "heart conditions to ICD-10", EditionID: uuid.New(), Edition: intl, Privacy: PrivacyPublic},
		{Name: "Oncology refset", Description: "tumour morphology", EditionID: uuid.New(), Edition: us},
		{Name: "Cardiac devices", Description: "implanted devices", EditionID: uuid.New(), Edition: us, Privacy: PrivacyPublic},
	} {
		require.NoError(t, s.CreateProject(context.Background(), p))
		out[p.Name] = p
	}
	return out
}

func names(items []*Project) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Name
	}
	return out
}

func TestCreateProject_DefaultsAndValidation(t *testing.T) {
	s, _ := newTestService(t)

	p := &Project{Name: "x", EditionID: uuid.New()}
	require.NoError(t, s.CreateProject(context.Background(), p))
	assert.Equal(t, PrivacyPrivate, p.Privacy)

	err := s.CreateProject(context.Background(), &Project{Privacy: "SECRET"})
	require.ErrorIs(t, err, api.ErrValidation)
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "edition_id is required")
	assert.Contains(t, err.Error(), `invalid privacy "SECRET"`)
}

func TestFind_TextAndFilters(t *testing.T) {
	s, _ := newTestService(t)
	seed(t, s)
	ctx := context.Background()

	res, err := s.Finder().Find(ctx, "", &search.Query{Text: "heart"}, search.NewPfs())
	require.NoError(t, err)
	assert.Equal(t, []string{"Cardiology map"}, names(res.Items))

	res, err = s.Finder().Find(ctx, "", &search.Query{Fields: map[string]string{"privacy": "PUBLIC"}},
		&search.Pfs{Limit: 10, SortField: "name"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cardiac devices", "Cardiology map"}, names(res.Items))

	total, err := s.Finder().FindTotal(ctx, "", &search.Query{Fields: map[string]string{"edition.shortName": "SNOMEDCT-US"}})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestFind_SortByNestedPath(t *testing.T) {
	s, _ := newTestService(t)
	seed(t, s)

	res, err := s.Finder().Find(context.Background(), "", nil,
		&search.Pfs{Limit: search.Unbounded, SortFields: []string{"edition.shortName", "name"}, Descending: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Oncology refset", "Cardiac devices", "Cardiology map"}, names(res.Items))
}

func TestUpdateAndDelete_KeepIndexInSync(t *testing.T) {
	s, _ := newTestService(t)
	seeded := seed(t, s)
	ctx := context.Background()

	p := seeded["Oncology refset"]
	p.Description = "heart tumours"
	require.NoError(t, s.UpdateProject(ctx, p))

	ids, err := s.Finder().FindIDs(ctx, "", &search.Query{Text: "heart"}, search.NewPfs())
	require.NoError(t, err)
	got := append([]string(nil), ids.Items...)
	sort.Strings(got)
	want := []string{seeded["Cardiology map"].ID.String(), p.ID.String()}
	sort.Strings(want)
	assert.Equal(t, want, got)

	require.NoError(t, s.DeleteProject(ctx, p.ID))
	total, err := s.Finder().FindTotal(ctx, "", &search.Query{Text: "heart"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	assert.ErrorIs(t, s.DeleteProject(ctx, p.ID), pgx.ErrNoRows)
}

func TestReindex(t *testing.T) {
	s, repo := newTestService(t)
	for i := 0; i < 4; i++ {
		p := &Project{Name: fmt.Sprintf("p%d", i), EditionID: uuid.New(), Privacy: PrivacyPublic}
		require.NoError(t, repo.Create(context.Background(), p))
	}

	total, err := s.Finder().FindTotal(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	n, err := s.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	total, err = s.Finder().FindTotal(context.Background(), "", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestFindSingle(t *testing.T) {
	s, _ := newTestService(t)
	seed(t, s)
	ctx := context.Background()

	p, ok, err := s.Finder().FindSingle(ctx, "", &search.Query{Text: "tumour"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Oncology refset", p.Name)

	_, _, err = s.Finder().FindSingle(ctx, "", &search.Query{Fields: map[string]string{"privacy": "PUBLIC"}})
	assert.ErrorIs(t, err, search.ErrAmbiguousResult)
}
