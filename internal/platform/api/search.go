package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/refset/refset/internal/platform/db"
	"github.com/refset/refset/internal/platform/search"
	"github.com/refset/refset/pkg/pagination"
)

// Reserved query parameters. Everything else listed as filterable becomes a
// fielded clause.
const (
	ParamQuery   = "query"
	ParamClause  = "clause"
	ParamSort    = "_sort"
	ParamHandler = "handler"
)

// SearchParams is a parsed search request.
type SearchParams struct {
	Handler string
	Query   *search.Query
	Pfs     *search.Pfs
}

// ParseSearch reads the structured query, paging and sort parameters.
// Only keys in filterable are accepted as fielded filters. Sort directions
// must agree: "-name,-edition.name" sorts both descending.
func ParseSearch(c echo.Context, filterable []string) (*SearchParams, error) {
	page, err := pagination.FromContext(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	q := &search.Query{
		Text:    c.QueryParam(ParamQuery),
		Clauses: c.QueryParams()[ParamClause],
	}
	for _, key := range filterable {
		if v := c.QueryParam(key); v != "" {
			if q.Fields == nil {
				q.Fields = make(map[string]string)
			}
			q.Fields[key] = v
		}
	}

	pfs := &search.Pfs{Limit: page.Limit, Offset: page.Offset}
	specs := db.ParseSort(c.QueryParam(ParamSort))
	if len(specs) > 0 {
		pfs.Descending = specs[0].Descending
		if lo.ContainsBy(specs, func(s db.SortSpec) bool { return s.Descending != pfs.Descending }) {
			return nil, fmt.Errorf("%w: mixed sort directions in %q", ErrValidation, c.QueryParam(ParamSort))
		}
		pfs.SortFields = lo.Map(specs, func(s db.SortSpec, _ int) string { return s.Field })
	}

	return &SearchParams{
		Handler: strings.TrimSpace(c.QueryParam(ParamHandler)),
		Query:   q,
		Pfs:     pfs,
	}, nil
}

// SearchRoutes registers GET path, path/_ids, path/_total and path/_single
// for finder.
func SearchRoutes[T any](g *echo.Group, path string, finder *search.Finder[T], filterable []string) {
	g.GET(path, func(c echo.Context) error {
		p, err := ParseSearch(c, filterable)
		if err != nil {
			return HTTPError(err)
		}
		res, err := finder.Find(c.Request().Context(), p.Handler, p.Query, p.Pfs)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, Page(c, res))
	})
	g.GET(path+"/_ids", func(c echo.Context) error {
		p, err := ParseSearch(c, filterable)
		if err != nil {
			return HTTPError(err)
		}
		res, err := finder.FindIDs(c.Request().Context(), p.Handler, p.Query, p.Pfs)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, Page(c, res))
	})
	g.GET(path+"/_total", func(c echo.Context) error {
		p, err := ParseSearch(c, filterable)
		if err != nil {
			return HTTPError(err)
		}
		total, err := finder.FindTotal(c.Request().Context(), p.Handler, p.Query)
		if err != nil {
			return HTTPError(err)
		}
		return c.JSON(http.StatusOK, map[string]int{"total": total})
	})
	g.GET(path+"/_single", func(c echo.Context) error {
		p, err := ParseSearch(c, filterable)
		if err != nil {
			return HTTPError(err)
		}
		item, ok, err := finder.FindSingle(c.Request().Context(), p.Handler, p.Query)
		if err != nil {
			return HTTPError(err)
		}
		if !ok {
			return echo.NewHTTPError(http.StatusNotFound, "no match")
		}
		return c.JSON(http.StatusOK, item)
	})
}

// Page renders a search result as a paginated response with links.
func Page[T any](c echo.Context, res *search.Result[T]) *pagination.Response[T] {
	resp := pagination.NewResponse(res.Items, res.Total, res.Limit, res.Offset)
	resp.Scores = res.Scores
	return resp.WithLinks(c.Request().URL)
}
