package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/refset/refset/internal/platform/db"
)

// SQLSTATE raised by to_tsquery on malformed clause input.
const pgSyntaxError = "42601"

// PostgresHandler searches entity tables directly with full-text predicates.
type PostgresHandler struct {
	conn db.Querier
}

// NewPostgresHandler returns a handler running against conn.
func NewPostgresHandler(conn db.Querier) *PostgresHandler {
	return &PostgresHandler{conn: conn}
}

func (h *PostgresHandler) build(req Request) (*db.SearchQuery, error) {
	e := req.Entity
	q := db.NewSearchQuery(e.Table, e.IDColumn+"::text")

	if req.Query.HasText() {
		if req.Literal {
			q.AddTextSearch(e.TextColumns, "phraseto_tsquery", req.Query.Phrase())
		} else {
			q.AddTextSearch(e.TextColumns, "websearch_to_tsquery", req.Query.Text)
		}
	}
	for _, f := range req.Query.Fields {
		col, ok := e.Columns[f.Field]
		if !ok {
			return nil, fmt.Errorf("%w: filter %q on %s", ErrMissingAccessor, f.Field, e.Name)
		}
		q.AddEquals(col, f.Value)
	}
	for _, c := range req.Query.Clauses {
		q.AddTextSearch(e.TextColumns, "to_tsquery", c)
	}

	if req.Pfs.IsRandom() {
		q.OrderBy("random()")
		return q, nil
	}
	specs := make([]db.SortSpec, 0)
	for _, p := range req.Pfs.SortPaths() {
		specs = append(specs, db.SortSpec{Field: p, Descending: !req.Pfs.Ascending()})
	}
	order := db.BuildOrderClause(specs, e.Columns, "")
	if order == "" {
		order = e.IDColumn
	} else {
		order += ", " + e.IDColumn
	}
	q.OrderBy(order)
	return q, nil
}

// Count returns the number of matching rows.
func (h *PostgresHandler) Count(ctx context.Context, req Request) (int, error) {
	q, err := h.build(req)
	if err != nil {
		return 0, err
	}
	var total int
	if err := h.conn.QueryRow(ctx, q.CountSQL(), q.CountArgs()...).Scan(&total); err != nil {
		return 0, h.mapError(req, err)
	}
	return total, nil
}

// Search returns one window of matching ids.
func (h *PostgresHandler) Search(ctx context.Context, req Request) (*Hits, error) {
	q, err := h.build(req)
	if err != nil {
		return nil, err
	}
	total, err := h.Count(ctx, req)
	if err != nil {
		return nil, err
	}

	limit, offset := req.Pfs.limit(), req.Pfs.offset()
	if offset == Unbounded {
		limit, offset = Unbounded, 0
	}
	rows, err := h.conn.Query(ctx, q.DataSQL(limit, offset), q.DataArgs(limit, offset)...)
	if err != nil {
		return nil, h.mapError(req, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, h.mapError(req, err)
	}
	return &Hits{IDs: ids, Total: total}, nil
}

func (h *PostgresHandler) mapError(req Request, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgSyntaxError {
		return &ParseError{Query: req.QueryString(), Err: err}
	}
	return fmt.Errorf("postgres search %s: %w", req.Entity.Name, err)
}
