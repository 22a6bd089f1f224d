package mapping

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
	items map[uuid.UUID]*Mapping
}

func (m *mockRepo) Create(_ context.Context, mp *Mapping) error {
	mp.ID = uuid.New()
	mp.CreatedAt = time.Now()
	mp.UpdatedAt = mp.CreatedAt
	cp := *mp
	m.items[mp.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Mapping, error) {
	mp, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *mp
	return &cp, nil
}

func (m *mockRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*Mapping, error) {
	var out []*Mapping
	for _, id := range ids {
		if mp, ok := m.items[id]; ok {
			out = append(out, mp)
		}
	}
	return out, nil
}

func (m *mockRepo) Update(_ context.Context, mp *Mapping) error {
	if _, ok := m.items[mp.ID]; !ok {
		return fmt.Errorf("update: %w", pgx.ErrNoRows)
	}
	cp := *mp
	m.items[mp.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("delete: %w", pgx.ErrNoRows)
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListAll(_ context.Context) ([]*Mapping, error) {
	out := make([]*Mapping, 0, len(m.items))
	for _, mp := range m.items {
		out = append(out, mp)
	}
	return out, nil
}

var projectID = uuid.MustParse("3f1c5b5e-2a53-4c5e-8a6f-0b7f0c1f9e21")

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := &mockRepo{items: map[uuid.UUID]*Mapping{}}
	entity := NewEntity(repo)
	idx, err := search.OpenIndex("", entity)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	reg, err := search.NewRegistry(map[string]search.Handler{search.DefaultHandler: search.NewBleveHandler(idx)})
	require.NoError(t, err)
	finder := search.NewFinder(search.NewService(reg, zerolog.Nop()), entity)
	return NewService(repo, finder, search.NewSync(search.NewIndexer(idx, entity), zerolog.Nop(), nil))
}

func seed(t *testing.T, s *Service) []*Mapping {
	t.Helper()
	items := []*Mapping{
		{ProjectID: projectID, Source: Concept{Code: "22298006", Display: "Myocardial infarction"},
			Target: &Concept{Code: "I21.9", Display: "Acute myocardial infarction, unspecified"},
			Relationship: RelEquivalent, Author: "dshapiro"},
		{ProjectID: projectID, Source: Concept{Code: "84114007", Display: "Heart failure"},
			Target: &Concept{Code: "I50.9", Display: "Heart failure, unspecified"},
			Relationship: RelBroader, Author: "bcarlsen"},
		{ProjectID: uuid.New(), Source: Concept{Code: "106004", Display: "Posterior carpal region"},
			Relationship: RelNoMatch},
	}
	for _, m := range items {
		require.NoError(t, s.CreateMapping(context.Background(), m))
	}
	return items
}

func sourceCodes(items []*Mapping) []string {
	out := make([]string, len(items))
	for i, m := range items {
		out[i] = m.Source.Code
	}
	return out
}

func TestCreateMapping_Validation(t *testing.T) {
	s := newTestService(t)

	err := s.CreateMapping(context.Background(), &Mapping{Relationship: RelNoMatch, Target: &Concept{Code: "X"}})
	require.ErrorIs(t, err, api.ErrValidation)
	assert.Contains(t, err.Error(), "project_id is required")
	assert.Contains(t, err.Error(), "source.code is required")
	assert.Contains(t, err.Error(), "NO_MATCH mapping has no target")

	err = s.CreateMapping(context.Background(), &Mapping{ProjectID: projectID, Source: Concept{Code: "1"}, Relationship: RelBroader})
	require.ErrorIs(t, err, api.ErrValidation)
	assert.Contains(t, err.Error(), "target.code is required for BROADER")

	err = s.CreateMapping(context.Background(), &Mapping{ProjectID: projectID, Source: Concept{Code: "1"}, Relationship: "SIMILAR"})
	assert.ErrorContains(t, err, `invalid relationship "SIMILAR"`)
}

func TestFind_ByProjectAndText(t *testing.T) {
	s := newTestService(t)
	seed(t, s)
	ctx := context.Background()

	res, err := s.Finder().Find(ctx, "", &search.Query{Fields: map[string]string{"projectId": projectID.String()}},
		&search.Pfs{Limit: 10, SortField: "source.code"})
	require.NoError(t, err)
	assert.Equal(t, []string{"22298006", "84114007"}, sourceCodes(res.Items))

	res, err = s.Finder().Find(ctx, "", &search.Query{Text: "infarction"}, search.NewPfs())
	require.NoError(t, err)
	assert.Equal(t, []string{"22298006"}, sourceCodes(res.Items))

	m, ok, err := s.Finder().FindSingle(ctx, "", &search.Query{Fields: map[string]string{"target.code": "I50.9"}})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "84114007", m.Source.Code)
}

func TestFind_NullTargetSortsFirstAscending(t *testing.T) {
	s := newTestService(t)
	seed(t, s)

	res, err := s.Finder().Find(context.Background(), "", nil, &search.Pfs{Limit: 10, SortField: "target.code"})
	require.NoError(t, err)
	assert.Equal(t, []string{"106004", "22298006", "84114007"}, sourceCodes(res.Items))

	res, err = s.Finder().Find(context.Background(), "", nil, &search.Pfs{Limit: 10, SortField: "target.code", Descending: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"84114007", "22298006", "106004"}, sourceCodes(res.Items))
}

func TestSetStatus_Workflow(t *testing.T) {
	s := newTestService(t)
	m := seed(t, s)[0]
	ctx := context.Background()
	assert.Equal(t, StatusNew, m.Status)

	_, err := s.SetStatus(ctx, m.ID, StatusPublished)
	require.ErrorIs(t, err, api.ErrValidation)
	assert.Contains(t, err.Error(), "cannot move mapping from NEW to PUBLISHED")

	for _, to := range []Status{StatusEditing, StatusReviewNeeded, StatusReadyForPublication, StatusPublished} {
		got, err := s.SetStatus(ctx, m.ID, to)
		require.NoError(t, err, to)
		assert.Equal(t, to, got.Status)
	}

	total, err := s.Finder().FindTotal(ctx, "", &search.Query{Fields: map[string]string{"status": "PUBLISHED"}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = s.SetStatus(ctx, uuid.New(), StatusEditing)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestUpdateMapping_KeepsStatus(t *testing.T) {
	s := newTestService(t)
	m := seed(t, s)[1]
	ctx := context.Background()

	_, err := s.SetStatus(ctx, m.ID, StatusEditing)
	require.NoError(t, err)

	upd := &Mapping{ID: m.ID, ProjectID: projectID, Source: m.Source, Target: &Concept{Code: "I50.1"},
		Relationship: RelEquivalent, Status: StatusPublished}
	require.NoError(t, s.UpdateMapping(ctx, upd))
	assert.Equal(t, StatusEditing, upd.Status)

	total, err := s.Finder().FindTotal(ctx, "", &search.Query{Fields: map[string]string{"target.code": "I50.1"}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
