package search

// Result is one page of a search. Total counts every match before paging.
type Result[T any] struct {
	Items  []T       `json:"items"`
	Scores []float64 `json:"scores,omitempty"`
	Total  int       `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

// HasMore reports whether items exist past this page.
func (r *Result[T]) HasMore() bool {
	if r.Offset < 0 {
		return false
	}
	return len(r.Items) < r.Total-r.Offset
}

func newResult[T any](items []T, total int, pfs *Pfs) *Result[T] {
	if items == nil {
		items = []T{}
	}
	return &Result[T]{
		Items:  items,
		Total:  total,
		Limit:  pfs.limit(),
		Offset: pfs.offset(),
	}
}
