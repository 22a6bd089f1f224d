package search

import "context"

// Descriptor names a searchable entity and its storage layout. Columns maps
// sort and filter paths to SQL columns; TextColumns feed the full-text
// vector.
type Descriptor struct {
	Name        string
	Table       string
	IDColumn    string
	Columns     map[string]string
	TextColumns []string
}

// Request is a single search attempt against one handler.
type Request struct {
	Entity  Descriptor
	Query   Composed
	Literal bool
	Pfs     *Pfs
}

// QueryString returns the composition this attempt runs: the primary query,
// or the literal fallback when Literal is set.
func (r Request) QueryString() string {
	if r.Literal {
		return r.Query.Fallback()
	}
	return r.Query.Query()
}

// Hits holds matching ids in result order, their scores and the total
// number of matches before paging.
type Hits struct {
	IDs    []string
	Scores []float64
	Total  int
}

// Handler executes composed queries against one backend. Implementations
// make a single attempt and report syntax failures as *ParseError.
type Handler interface {
	Search(ctx context.Context, req Request) (*Hits, error)
	Count(ctx context.Context, req Request) (int, error)
}
