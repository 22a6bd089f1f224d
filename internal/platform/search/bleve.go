package search

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	bsearch "github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"
)

// BleveHandler searches the shared bleve index, scoped to one entity type.
type BleveHandler struct {
	index *Index
}

// NewBleveHandler returns a handler over index.
func NewBleveHandler(index *Index) *BleveHandler {
	return &BleveHandler{index: index}
}

// query builds the conjunction of the entity scope, the free text (or its
// literal when req.Literal is set), one match query per fielded clause and
// one query-string query per additional clause.
func (h *BleveHandler) query(req Request) (query.Query, error) {
	scope := bleve.NewTermQuery(req.Entity.Name)
	scope.SetField(TypeField)
	conjuncts := []query.Query{scope}

	text := req.Query.Text
	if req.Literal {
		text = req.Query.Literal
	}
	if text != "" {
		q, err := parseQueryString(text)
		if err != nil {
			return nil, err
		}
		conjuncts = append(conjuncts, q)
	}
	for _, f := range req.Query.Fields {
		m := bleve.NewMatchQuery(f.Value)
		m.SetField(f.Field)
		m.SetOperator(query.MatchQueryOperatorAnd)
		conjuncts = append(conjuncts, m)
	}
	for _, c := range req.Query.Clauses {
		q, err := parseQueryString(c)
		if err != nil {
			return nil, err
		}
		conjuncts = append(conjuncts, q)
	}
	if len(conjuncts) == 1 {
		conjuncts = append(conjuncts, bleve.NewMatchAllQuery())
	}
	return bleve.NewConjunctionQuery(conjuncts...), nil
}

func parseQueryString(qs string) (query.Query, error) {
	parsed, err := bleve.NewQueryStringQuery(qs).Parse()
	if err != nil {
		return nil, &ParseError{Query: qs, Err: err}
	}
	return parsed, nil
}

// Count returns the number of matching documents.
func (h *BleveHandler) Count(ctx context.Context, req Request) (int, error) {
	q, err := h.query(req)
	if err != nil {
		return 0, err
	}
	res, err := h.index.bleve.SearchInContext(ctx, bleve.NewSearchRequestOptions(q, 0, 0, false))
	if err != nil {
		return 0, fmt.Errorf("bleve count %s: %w", req.Entity.Name, err)
	}
	return int(res.Total), nil
}

// Search returns one window of matching ids sorted at index level.
func (h *BleveHandler) Search(ctx context.Context, req Request) (*Hits, error) {
	q, err := h.query(req)
	if err != nil {
		return nil, err
	}

	total, err := h.Count(ctx, req)
	if err != nil {
		return nil, err
	}
	from, end := req.Pfs.Window(total)
	size := end - from
	if size <= 0 {
		return &Hits{Total: total}, nil
	}

	sr := bleve.NewSearchRequestOptions(q, size, from, false)
	if order := h.sortOrder(req); len(order) > 0 {
		sr.SortByCustom(order)
	}
	res, err := h.index.bleve.SearchInContext(ctx, sr)
	if err != nil {
		return nil, fmt.Errorf("bleve search %s: %w", req.Entity.Name, err)
	}

	hits := &Hits{
		IDs:    make([]string, 0, len(res.Hits)),
		Scores: make([]float64, 0, len(res.Hits)),
		Total:  int(res.Total),
	}
	for _, dm := range res.Hits {
		id, ok := splitDocID(req.Entity.Name, dm.ID)
		if !ok {
			continue
		}
		hits.IDs = append(hits.IDs, id)
		hits.Scores = append(hits.Scores, dm.Score)
	}
	return hits, nil
}

// sortOrder maps sort paths to index sort fields with nulls first when
// ascending and last when descending. RANDOM keeps relevance order.
func (h *BleveHandler) sortOrder(req Request) bsearch.SortOrder {
	pfs := req.Pfs
	paths := pfs.SortPaths()
	if len(paths) == 0 || pfs.IsRandom() {
		return nil
	}
	missing := bsearch.SortFieldMissingFirst
	if !pfs.Ascending() {
		missing = bsearch.SortFieldMissingLast
	}
	order := make(bsearch.SortOrder, 0, len(paths)+1)
	for _, p := range paths {
		order = append(order, &bsearch.SortField{
			Field:   h.index.sortField(req.Entity.Name, p),
			Desc:    !pfs.Ascending(),
			Type:    bsearch.SortFieldAuto,
			Mode:    bsearch.SortFieldDefault,
			Missing: missing,
		})
	}
	return append(order, &bsearch.SortDocID{})
}
