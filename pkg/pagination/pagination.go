package pagination

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 500

	// All disables the limit (limit=-1) or paging altogether (offset=-1).
	All = -1
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Limit  int
	Offset int
}

// FromContext reads limit and offset from the query string. Missing values
// default to DefaultLimit and 0, limits above MaxLimit are capped, and -1
// is passed through for either.
func FromContext(c echo.Context) (Params, error) {
	p := Params{Limit: DefaultLimit}

	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < All {
			return p, fmt.Errorf("invalid limit %q", raw)
		}
		p.Limit = min(n, MaxLimit)
	}
	if raw := c.QueryParam("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < All {
			return p, fmt.Errorf("invalid offset %q", raw)
		}
		p.Offset = n
	}
	return p, nil
}

// Response wraps a paginated API response.
type Response[T any] struct {
	Data    []T       `json:"data"`
	Scores  []float64 `json:"scores,omitempty"`
	Total   int       `json:"total"`
	Limit   int       `json:"limit"`
	Offset  int       `json:"offset"`
	HasMore bool      `json:"has_more"`
	Links   []Link    `json:"links,omitempty"`
}

func NewResponse[T any](data []T, total, limit, offset int) *Response[T] {
	if data == nil {
		data = []T{}
	}
	p := Params{Limit: limit, Offset: offset}
	return &Response[T]{
		Data:    data,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: p.HasNext(total),
	}
}

// WithLinks attaches navigation links built from the request URL.
func (r *Response[T]) WithLinks(u *url.URL) *Response[T] {
	r.Links = Params{Limit: r.Limit, Offset: r.Offset}.Links(u, r.Total)
	return r
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	if p.Limit == All || p.Offset == All {
		return false
	}
	return p.Offset < total && p.Limit < total-p.Offset
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}

// NextOffset returns the offset for the next page.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// PreviousOffset returns the offset for the previous page.
// Returns 0 if the result would be negative.
func (p Params) PreviousOffset() int {
	prev := p.Offset - p.Limit
	if prev < 0 || p.Limit == All {
		return 0
	}
	return prev
}

// Link is one navigation link of a paged response.
type Link struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

// Links returns self, next and previous links for u, keeping every other
// query parameter.
func (p Params) Links(u *url.URL, total int) []Link {
	links := []Link{{Relation: "self", URL: p.withPage(u, p.Offset)}}
	if p.HasNext(total) {
		links = append(links, Link{Relation: "next", URL: p.withPage(u, p.NextOffset())})
	}
	if p.HasPrevious() {
		links = append(links, Link{Relation: "previous", URL: p.withPage(u, p.PreviousOffset())})
	}
	return links
}

func (p Params) withPage(u *url.URL, offset int) string {
	q := u.Query()
	q.Set("limit", strconv.Itoa(p.Limit))
	q.Set("offset", strconv.Itoa(offset))
	return u.Path + "?" + q.Encode()
}
