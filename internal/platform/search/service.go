package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Search operations, as reported to observers.
const (
	OpFind   = "find"
	OpIDs    = "ids"
	OpTotal  = "total"
	OpSingle = "single"
)

// Observer receives one callback per search attempt sequence and one per
// literal fallback.
type Observer interface {
	ObserveSearch(handler, entity, op string, elapsed time.Duration, err error)
	ObserveFallback(handler, entity string)
}

// Service runs structured queries through registered handlers.
type Service struct {
	registry *Registry
	logger   zerolog.Logger
	timeout  time.Duration
	observer Observer
	sortMode SortMode
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout bounds every search with d. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithObserver reports search outcomes to o.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// WithStrictSort makes in-memory paging fail on extraction errors.
func WithStrictSort(strict bool) Option {
	return func(s *Service) {
		s.sortMode = SortSoft
		if strict {
			s.sortMode = SortStrict
		}
	}
}

// NewService returns a Service dispatching through registry.
func NewService(registry *Registry, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{registry: registry, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the handler registry.
func (s *Service) Registry() *Registry { return s.registry }

// SortMode returns the configured in-memory sort mode.
func (s *Service) SortMode() SortMode { return s.sortMode }

type call struct {
	handler string
	op      string
	entity  Descriptor
	query   *Query
	pfs     *Pfs
}

// execute runs fn with the primary composition and retries once with the
// literal fallback when the backend rejects the query syntax.
func execute[R any](ctx context.Context, s *Service, c call, fn func(context.Context, Handler, Request) (R, error)) (R, error) {
	var zero R
	if err := c.pfs.Validate(); err != nil {
		return zero, err
	}
	h, name, err := s.registry.Lookup(c.handler)
	if err != nil {
		return zero, err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	req := Request{Entity: c.entity, Query: c.query.Compose(), Pfs: c.pfs}
	r, err := fn(ctx, h, req)
	if err != nil && req.Query.HasText() && IsParseError(err) {
		s.logger.Warn().
			Err(err).
			Str("handler", name).
			Str("entity", c.entity.Name).
			Str("query", req.QueryString()).
			Msg("query rejected, retrying as literal")
		if s.observer != nil {
			s.observer.ObserveFallback(name, c.entity.Name)
		}
		req.Literal = true
		r, err = fn(ctx, h, req)
	}
	if s.observer != nil {
		s.observer.ObserveSearch(name, c.entity.Name, c.op, time.Since(start), err)
	}
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("handler", name).
			Str("entity", c.entity.Name).
			Str("query", req.QueryString()).
			Msg("search failed")
		return zero, err
	}
	return r, nil
}

// Finder runs searches for one entity type.
type Finder[T any] struct {
	svc    *Service
	entity *Entity[T]
}

// NewFinder binds svc to entity.
func NewFinder[T any](svc *Service, entity *Entity[T]) *Finder[T] {
	return &Finder[T]{svc: svc, entity: entity}
}

// Entity returns the bound entity.
func (f *Finder[T]) Entity() *Entity[T] { return f.entity }

func (f *Finder[T]) checkSort(pfs *Pfs) error {
	return f.entity.Fields.Check(pfs.SortPaths()...)
}

func (f *Finder[T]) hits(ctx context.Context, handler, op string, q *Query, pfs *Pfs) (*Hits, error) {
	if err := f.checkSort(pfs); err != nil {
		return nil, err
	}
	c := call{handler: handler, op: op, entity: f.entity.Descriptor, query: q, pfs: pfs}
	return execute(ctx, f.svc, c, func(ctx context.Context, h Handler, req Request) (*Hits, error) {
		return h.Search(ctx, req)
	})
}

// Find returns one page of entities in result order. Ids that no longer
// load are dropped from the page.
func (f *Finder[T]) Find(ctx context.Context, handler string, q *Query, pfs *Pfs) (*Result[T], error) {
	hits, err := f.hits(ctx, handler, OpFind, q, pfs)
	if err != nil {
		return nil, err
	}
	items, scores, err := f.load(ctx, hits)
	if err != nil {
		return nil, err
	}
	res := newResult(items, hits.Total, pfs)
	res.Scores = scores
	return res, nil
}

// FindIDs returns one page of ids in result order.
func (f *Finder[T]) FindIDs(ctx context.Context, handler string, q *Query, pfs *Pfs) (*Result[string], error) {
	hits, err := f.hits(ctx, handler, OpIDs, q, pfs)
	if err != nil {
		return nil, err
	}
	res := newResult(hits.IDs, hits.Total, pfs)
	res.Scores = hits.Scores
	return res, nil
}

// FindTotal returns the number of matches.
func (f *Finder[T]) FindTotal(ctx context.Context, handler string, q *Query) (int, error) {
	c := call{handler: handler, op: OpTotal, entity: f.entity.Descriptor, query: q}
	return execute(ctx, f.svc, c, func(ctx context.Context, h Handler, req Request) (int, error) {
		return h.Count(ctx, req)
	})
}

// FindSingle returns the only match. It reports false when nothing matches
// and ErrAmbiguousResult when more than one record does.
func (f *Finder[T]) FindSingle(ctx context.Context, handler string, q *Query) (T, bool, error) {
	var zero T
	hits, err := f.hits(ctx, handler, OpSingle, q, &Pfs{Limit: 2})
	if err != nil {
		return zero, false, err
	}
	if hits.Total > 1 || len(hits.IDs) > 1 {
		return zero, false, fmt.Errorf("%w: %d %s records match", ErrAmbiguousResult, hits.Total, f.entity.Name)
	}
	if len(hits.IDs) == 0 {
		return zero, false, nil
	}
	items, _, err := f.load(ctx, hits)
	if err != nil {
		return zero, false, err
	}
	switch len(items) {
	case 0:
		return zero, false, nil
	case 1:
		return items[0], true, nil
	}
	return zero, false, fmt.Errorf("%w: %d %s records loaded", ErrAmbiguousResult, len(items), f.entity.Name)
}

func (f *Finder[T]) load(ctx context.Context, hits *Hits) ([]T, []float64, error) {
	if len(hits.IDs) == 0 {
		return nil, nil, nil
	}
	if f.entity.Load == nil {
		return nil, nil, errors.New("entity " + f.entity.Name + " has no loader")
	}
	loaded, err := f.entity.Load(ctx, hits.IDs)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", f.entity.Name, err)
	}
	byID := make(map[string]T, len(loaded))
	for _, it := range loaded {
		byID[f.entity.ID(it)] = it
	}

	items := make([]T, 0, len(hits.IDs))
	var scores []float64
	for i, id := range hits.IDs {
		it, ok := byID[id]
		if !ok {
			continue
		}
		items = append(items, it)
		if i < len(hits.Scores) {
			scores = append(scores, hits.Scores[i])
		}
	}
	return items, scores, nil
}

// List sorts and pages items in memory with the service's sort mode.
func List[T any](s *Service, items []T, pfs *Pfs, fields *Fields[T]) (*Result[T], error) {
	return Page(items, pfs, fields, WithSortMode(s.sortMode))
}
