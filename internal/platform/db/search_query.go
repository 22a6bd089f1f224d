package db

import (
	"fmt"
	"strings"
)

// SearchQuery builds a parameterised SELECT over one table. Clauses are
// ANDed together and placeholders are numbered in the order they are added.
type SearchQuery struct {
	table   string
	cols    string
	where   string
	args    []any
	idx     int
	orderBy string
}

// NewSearchQuery creates a new SearchQuery for the given table and columns.
func NewSearchQuery(table, cols string) *SearchQuery {
	return &SearchQuery{
		table: table,
		cols:  cols,
		idx:   1,
	}
}

// Idx returns the next available parameter index.
func (q *SearchQuery) Idx() int { return q.idx }

// Add appends a raw WHERE clause fragment (without leading "AND"). The
// fragment refers to its arguments starting at Idx().
func (q *SearchQuery) Add(clause string, args ...any) {
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx += len(args)
}

// AddEquals adds a column = value clause.
func (q *SearchQuery) AddEquals(column string, value any) {
	q.Add(fmt.Sprintf("%s = $%d", column, q.idx), value)
}

// AddTextSearch matches tsquery (a function such as to_tsquery) over the
// concatenation of columns.
func (q *SearchQuery) AddTextSearch(columns []string, tsquery, value string) {
	q.Add(fmt.Sprintf("%s @@ %s('simple', $%d)", TSVector(columns), tsquery, q.idx), value)
}

// OrderBy sets the ORDER BY clause (without the "ORDER BY" keyword).
func (q *SearchQuery) OrderBy(orderBy string) {
	q.orderBy = orderBy
}

// CountSQL returns the count query SQL.
func (q *SearchQuery) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1=1%s", q.table, q.where)
}

// CountArgs returns the arguments for the count query.
func (q *SearchQuery) CountArgs() []any {
	return q.args
}

// DataSQL returns the data query SQL with ORDER BY and LIMIT/OFFSET. A
// negative limit selects every row after the offset.
func (q *SearchQuery) DataSQL(limit, offset int) string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", q.cols, q.table, q.where)
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	if limit < 0 {
		return sql + fmt.Sprintf(" LIMIT ALL OFFSET $%d", q.idx)
	}
	return sql + fmt.Sprintf(" LIMIT $%d OFFSET $%d", q.idx, q.idx+1)
}

// DataArgs returns the arguments for the data query (search args + limit + offset).
func (q *SearchQuery) DataArgs(limit, offset int) []any {
	result := append([]any(nil), q.args...)
	if limit >= 0 {
		result = append(result, limit)
	}
	return append(result, max(offset, 0))
}

// TSVector renders a simple-config tsvector over the given text columns.
func TSVector(columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("coalesce(%s::text, '')", c)
	}
	return fmt.Sprintf("to_tsvector('simple', %s)", strings.Join(parts, " || ' ' || "))
}
