package audit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refset/refset/internal/platform/middleware"
	"github.com/refset/refset/internal/platform/search"
)

type mockRepo struct {
	entries []*Entry
	err     error
	filters []Filter
}

func (m *mockRepo) Create(_ context.Context, e *Entry) error {
	if m.err != nil {
		return m.err
	}
	e.ID = uuid.New()
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filter, limit int) ([]*Entry, error) {
	m.filters = append(m.filters, f)
	var out []*Entry
	for _, e := range m.entries {
		if f.UserName != "" && e.UserName != f.UserName {
			continue
		}
		if e.Timestamp.Before(f.Since) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var now = time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *mockRepo) {
	repo := &mockRepo{}
	s := NewService(repo, search.NewService(nil, zerolog.Nop()))
	s.now = func() time.Time { return now }
	return s, repo
}

func record(t *testing.T, s *Service, user, action string, ago time.Duration) {
	t.Helper()
	require.NoError(t, s.RecordAccess(context.Background(), middleware.AuditEntry{
		UserName: user, Action: action, EntityType: "refsets", Method: http.MethodGet,
		Path: "/api/v1/refsets", StatusCode: http.StatusOK, Timestamp: now.Add(-ago),
	}))
}

func TestRecordAccess(t *testing.T) {
	s, repo := newTestService()

	require.NoError(t, s.RecordAccess(context.Background(), middleware.AuditEntry{UserName: "guest", Action: "search"}))
	require.Len(t, repo.entries, 1)
	assert.Equal(t, now, repo.entries[0].Timestamp)
	assert.NotEqual(t, uuid.Nil, repo.entries[0].ID)

	repo.err = errors.New("db down")
	assert.ErrorContains(t, s.RecordAccess(context.Background(), middleware.AuditEntry{}), "db down")
}

func TestRecordAccess_AsMiddlewareRecorder(t *testing.T) {
	s, repo := newTestService()
	e := echo.New()
	e.Use(middleware.Audit(zerolog.Nop(), s))
	e.GET("/api/v1/refsets", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/refsets?query=heart", nil)
	req.Header.Set(middleware.UserHeader, "dshapiro")
	e.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, "dshapiro", repo.entries[0].UserName)
	assert.Equal(t, "search", repo.entries[0].Action)
	assert.Equal(t, "heart", repo.entries[0].Query)
}

func TestList_DefaultWindowAndOrder(t *testing.T) {
	s, repo := newTestService()
	record(t, s, "a", "search", time.Hour)
	record(t, s, "b", "read", 2*time.Hour)
	record(t, s, "c", "search", 30*24*time.Hour)

	res, err := s.List(context.Background(), Filter{}, search.NewPfs())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, "a", res.Items[0].UserName)
	assert.Equal(t, now.Add(-DefaultWindow), repo.filters[0].Since)

	res, err = s.List(context.Background(), Filter{Since: now.Add(-60 * 24 * time.Hour)},
		&search.Pfs{Limit: 2, SortField: "timestamp"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, []string{"c", "b"}, []string{res.Items[0].UserName, res.Items[1].UserName})
}

func TestHandler_ListEntries(t *testing.T) {
	s, _ := newTestService()
	record(t, s, "a", "search", time.Hour)
	record(t, s, "b", "read", 2*time.Hour)

	e := echo.New()
	NewHandler(s).RegisterRoutes(e.Group("/api/v1"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/audit?_sort=userName&user=b", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Data  []Entry `json:"data"`
		Total int     `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "read", body.Data[0].Action)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/audit?since=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
