package search

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	// Unbounded as a limit returns every item after the offset. As an offset it
	// disables paging altogether.
	Unbounded = -1

	// RandomSort as a sort field requests an arbitrary order.
	RandomSort = "RANDOM"
)

// Pfs holds the paging, filtering and sorting parameters of one request.
// SortField wins over SortFields when both are set.
type Pfs struct {
	Limit      int      `json:"limit"`
	Offset     int      `json:"offset"`
	SortField  string   `json:"sort_field,omitempty"`
	SortFields []string `json:"sort_fields,omitempty"`
	Descending bool     `json:"descending,omitempty"`
}

// NewPfs returns an unbounded, unsorted, ascending spec.
func NewPfs() *Pfs {
	return &Pfs{Limit: Unbounded}
}

// Copy returns a deep copy. A nil receiver copies as NewPfs.
func (p *Pfs) Copy() *Pfs {
	if p == nil {
		return NewPfs()
	}
	cp := *p
	cp.SortFields = append([]string(nil), p.SortFields...)
	return &cp
}

// Ascending reports the sort direction.
func (p *Pfs) Ascending() bool {
	return p == nil || !p.Descending
}

// SortPaths returns the effective sort field paths in order.
func (p *Pfs) SortPaths() []string {
	if p == nil {
		return nil
	}
	if f := strings.TrimSpace(p.SortField); f != "" {
		return []string{f}
	}
	return lo.Compact(lo.Map(p.SortFields, func(f string, _ int) string {
		return strings.TrimSpace(f)
	}))
}

// IsRandom reports whether the RANDOM sentinel is among the sort paths.
func (p *Pfs) IsRandom() bool {
	return lo.Contains(p.SortPaths(), RandomSort)
}

// Validate rejects limits and offsets below -1.
func (p *Pfs) Validate() error {
	if p == nil {
		return nil
	}
	if p.Limit < Unbounded {
		return fmt.Errorf("%w: limit %d", ErrInvalidPfs, p.Limit)
	}
	if p.Offset < Unbounded {
		return fmt.Errorf("%w: offset %d", ErrInvalidPfs, p.Offset)
	}
	return nil
}

// Window returns the [start, end) bounds of the page over n items. An offset
// past the end yields an empty window.
func (p *Pfs) Window(n int) (start, end int) {
	if p == nil || p.Offset == Unbounded {
		return 0, n
	}
	start = min(p.Offset, n)
	end = n
	if p.Limit != Unbounded {
		end = start + min(p.Limit, n-start)
	}
	return start, end
}

func (p *Pfs) limit() int {
	if p == nil {
		return Unbounded
	}
	return p.Limit
}

func (p *Pfs) offset() int {
	if p == nil {
		return 0
	}
	return p.Offset
}
