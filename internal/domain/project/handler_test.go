package project

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Service, *echo.Echo) {
	t.Helper()
	svc, _ := newTestService(t)
	e := echo.New()
	NewHandler(svc).RegisterRoutes(e.Group("/api/v1"))
	return svc, e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CRUD(t *testing.T) {
	_, e := newTestServer(t)

	rec := do(e, http.MethodPost, "/api/v1/projects",
		`{"name":"Renal map","edition_id":"7b0c56c2-6f63-4d8e-9a43-0f2f1f7c2d11","privacy":"PUBLIC"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))

	rec = do(e, http.MethodGet, "/api/v1/projects/"+p.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/projects?query=renal", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page struct {
		Data  []Project `json:"data"`
		Total int       `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)

	rec = do(e, http.MethodPut, "/api/v1/projects/"+p.ID.String(),
		`{"name":"Kidney map","edition_id":"7b0c56c2-6f63-4d8e-9a43-0f2f1f7c2d11","privacy":"PRIVATE"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/projects/_total?privacy=PRIVATE", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":1}`, rec.Body.String())

	assert.Equal(t, http.StatusNoContent, do(e, http.MethodDelete, "/api/v1/projects/"+p.ID.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/api/v1/projects/"+p.ID.String(), "").Code)
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodDelete, "/api/v1/projects/"+p.ID.String(), "").Code)
}

func TestHandler_Validation(t *testing.T) {
	_, e := newTestServer(t)
	rec := do(e, http.MethodPost, "/api/v1/projects", `{"privacy":"PUBLIC"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_SearchErrors(t *testing.T) {
	svc, e := newTestServer(t)
	seed(t, svc)

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodGet, "/api/v1/projects?_sort=owner", "").Code)
	assert.Equal(t, http.StatusConflict, do(e, http.MethodGet, "/api/v1/projects/_single?privacy=PUBLIC", "").Code)

	rec := do(e, http.MethodGet, "/api/v1/projects/_ids?_sort=name&limit=1&offset=1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var page struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Data, 1)
}
