package search

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// MatchAll is the query string matching every document.
const MatchAll = "*:*"

const specialChars = `\+-!():^[]"{}~*?|&/`

// Composed is the deterministic rendering of a structured query. Text holds
// the free text verbatim and Literal its escaped, quoted form.
type Composed struct {
	Text    string
	Literal string
	Fields  []FieldClause
	Clauses []string
}

// FieldClause is one fielded key/value filter.
type FieldClause struct {
	Field string
	Value string
}

// String renders the clause in query-string syntax.
func (f FieldClause) String() string {
	v := Escape(f.Value)
	if strings.ContainsAny(f.Value, " \t\r\n") {
		v = `"` + v + `"`
	}
	return f.Field + ":" + v
}

// Compose combines free text, fielded filters and additional clauses. Field
// keys are sorted and clauses deduplicated so equal inputs compose equally.
func Compose(text string, fields map[string]string, clauses []string) Composed {
	c := Composed{Text: strings.TrimSpace(text)}
	if c.Text == MatchAll {
		c.Text = ""
	}
	if c.Text != "" {
		c.Literal = Literal(c.Text)
	}

	keys := lo.Filter(lo.Keys(fields), func(k string, _ int) bool { return strings.TrimSpace(k) != "" })
	sort.Strings(keys)
	for _, k := range keys {
		c.Fields = append(c.Fields, FieldClause{Field: strings.TrimSpace(k), Value: fields[k]})
	}

	c.Clauses = lo.Uniq(lo.Compact(lo.Map(clauses, func(s string, _ int) string {
		return strings.TrimSpace(s)
	})))
	sort.Strings(c.Clauses)
	return c
}

// HasText reports whether a free-text group is present. Only then does a
// parse failure warrant the literal fallback.
func (c Composed) HasText() bool { return c.Text != "" }

// Filters renders the fielded and additional clause groups.
func (c Composed) Filters() []string {
	out := make([]string, 0, len(c.Fields)+len(c.Clauses))
	for _, f := range c.Fields {
		out = append(out, f.String())
	}
	return append(out, c.Clauses...)
}

// Query renders the primary query string.
func (c Composed) Query() string { return c.render(c.Text) }

// Fallback renders the composition with the literal in place of the free
// text.
func (c Composed) Fallback() string { return c.render(c.Literal) }

func (c Composed) render(text string) string {
	filters := c.Filters()
	switch {
	case text == "" && len(filters) == 0:
		return MatchAll
	case text == "":
		return strings.Join(filters, " AND ")
	case len(filters) == 0:
		return text
	}
	return "(" + text + ") AND " + strings.Join(filters, " AND ")
}

// Phrase returns the free text with one layer of surrounding quotes removed.
func (c Composed) Phrase() string { return unquote(c.Text) }

// Literal turns user text into a quoted phrase with every query-syntax
// character escaped.
func Literal(text string) string {
	return `"` + Escape(unquote(text)) + `"`
}

// Escape backslash-escapes query-syntax characters. Whitespace is kept.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(specialChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
