package search

import (
	"strings"

	"github.com/samber/lo"
)

// Query is a structured search: free text, fielded key/value filters and
// additional raw clauses. A nil or empty Query matches everything.
type Query struct {
	Text    string            `json:"text,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Clauses []string          `json:"clauses,omitempty"`
}

// IsEmpty reports whether q carries no constraint.
func (q *Query) IsEmpty() bool {
	if q == nil {
		return true
	}
	text := strings.TrimSpace(q.Text)
	if text != "" && text != MatchAll {
		return false
	}
	if len(lo.PickBy(q.Fields, func(k, v string) bool { return strings.TrimSpace(k) != "" })) > 0 {
		return false
	}
	return len(lo.Compact(lo.Map(q.Clauses, func(c string, _ int) string { return strings.TrimSpace(c) }))) == 0
}

// Compose builds the composed query for q.
func (q *Query) Compose() Composed {
	if q == nil {
		return Compose("", nil, nil)
	}
	return Compose(q.Text, q.Fields, q.Clauses)
}
