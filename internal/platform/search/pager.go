package search

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"
)

// SortMode controls how extraction failures during comparison are handled.
type SortMode int

const (
	// SortSoft treats a pair whose keys cannot be extracted as equal.
	SortSoft SortMode = iota
	// SortStrict aborts the sort and returns the first extraction failure.
	SortStrict
)

// PageOption configures SortAndPage.
type PageOption func(*pageOptions)

type pageOptions struct {
	mode SortMode
	rand *rand.Rand
}

// WithSortMode selects the extraction failure policy.
func WithSortMode(m SortMode) PageOption {
	return func(o *pageOptions) { o.mode = m }
}

// WithRand sets the source used for RANDOM ordering.
func WithRand(r *rand.Rand) PageOption {
	return func(o *pageOptions) { o.rand = r }
}

// SortAndPage sorts a copy of items by the sort paths of pfs and returns the
// requested window plus the total item count. items is left untouched.
func SortAndPage[T any](items []T, pfs *Pfs, fields *Fields[T], opts ...PageOption) ([]T, int, error) {
	if err := pfs.Validate(); err != nil {
		return nil, 0, err
	}
	o := pageOptions{mode: SortSoft}
	for _, opt := range opts {
		opt(&o)
	}

	sorted := slices.Clone(items)
	paths := pfs.SortPaths()
	switch {
	case len(paths) == 0 || len(sorted) < 2:
	case pfs.IsRandom():
		r := o.rand
		if r == nil {
			r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		r.Shuffle(len(sorted), func(i, j int) { sorted[i], sorted[j] = sorted[j], sorted[i] })
	default:
		if err := fields.Check(paths...); err != nil {
			return nil, 0, err
		}
		var err error
		sorted, err = sortByKeys(sorted, paths, pfs.Ascending(), fields, o.mode)
		if err != nil {
			return nil, 0, err
		}
	}

	start, end := pfs.Window(len(sorted))
	return sorted[start:end], len(sorted), nil
}

// Page runs SortAndPage and wraps the window in a Result.
func Page[T any](items []T, pfs *Pfs, fields *Fields[T], opts ...PageOption) (*Result[T], error) {
	page, total, err := SortAndPage(items, pfs, fields, opts...)
	if err != nil {
		return nil, err
	}
	return newResult(page, total, pfs), nil
}

type keyed[T any] struct {
	item T
	keys []any
	err  error
}

func sortByKeys[T any](items []T, paths []string, asc bool, fields *Fields[T], mode SortMode) ([]T, error) {
	rows := make([]keyed[T], len(items))
	for i, it := range items {
		rows[i] = keyed[T]{item: it, keys: make([]any, len(paths))}
		for j, p := range paths {
			v, err := fields.Extract(it, p)
			switch {
			case err == nil:
				rows[i].keys[j] = v
			case errors.Is(err, ErrNullIntermediate):
				rows[i].keys[j] = nil
			case rows[i].err == nil:
				rows[i].err = err
			}
		}
	}
	if mode == SortStrict {
		for _, r := range rows {
			if r.err != nil {
				return nil, fmt.Errorf("sort: %w", r.err)
			}
		}
	}

	compare := compareAscending
	if !asc {
		compare = compareDescending
	}
	slices.SortFunc(rows, func(a, b keyed[T]) int {
		if a.err != nil || b.err != nil {
			return 0
		}
		for j := range paths {
			if c := compare(a.keys[j], b.keys[j]); c != 0 {
				return c
			}
		}
		return 0
	})

	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.item
	}
	return out, nil
}

// compareAscending orders nulls first.
func compareAscending(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return compareValues(a, b)
}

// compareDescending orders nulls last.
func compareDescending(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return compareValues(b, a)
}

func compareValues(a, b any) int {
	switch x := a.(type) {
	case int64:
		if y, ok := b.(int64); ok {
			return cmp.Compare(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
