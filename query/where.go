// Package query implements the builder layer: SelectQuery, InsertQuery,
// UpdateQuery, DeleteQuery, and the WhereClause they share. The four
// builders compose rather than inherit a common base: WhereClause and
// each query type is a plain struct, and "shared behavior" is a handful
// of free functions (quoteIdent, renderArgs) rather than an embedded
// base type.
package query

import (
	"strings"

	reldb "github.com/arcflow-io/reldb"
)

// WhereClause is a tree of atoms joined by AND/OR, with parenthesization
// preserved exactly as written Each atom is either
// literal SQL carrying its own `?` placeholders, or a nested clause
// built with AndGroup or OrGroup.
type WhereClause struct {
	sql  string
	args []reldb.Value
}

// NewWhere returns an empty WhereClause.
func NewWhere() *WhereClause {
	return &WhereClause{}
}

func (w *WhereClause) append(connector, cond string, args []reldb.Value) {
	if w.sql != "" {
		w.sql += " " + connector + " " + cond
	} else {
		w.sql = cond
	}
	w.args = append(w.args, args...)
}

// And appends cond joined by AND, binding args to the placeholders it
// contains, in order.
func (w *WhereClause) And(cond string, args ...reldb.Value) *WhereClause {
	w.append("AND", cond, args)
	return w
}

// Or appends cond joined by OR.
func (w *WhereClause) Or(cond string, args ...reldb.Value) *WhereClause {
	w.append("OR", cond, args)
	return w
}

// AndGroup appends a parenthesized nested clause joined by AND.
func (w *WhereClause) AndGroup(fn func(*WhereClause)) *WhereClause {
	return w.group("AND", fn)
}

// OrGroup appends a parenthesized nested clause joined by OR.
func (w *WhereClause) OrGroup(fn func(*WhereClause)) *WhereClause {
	return w.group("OR", fn)
}

func (w *WhereClause) group(connector string, fn func(*WhereClause)) *WhereClause {
	inner := NewWhere()
	fn(inner)
	w.append(connector, "("+inner.sql+")", inner.args)
	return w
}

// IsValid reports whether the clause is non-empty and every open
// parenthesis is closed
func (w *WhereClause) IsValid() bool {
	if w.sql == "" {
		return false
	}
	depth := 0
	for _, r := range w.sql {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// String renders the clause's SQL text, without a leading "WHERE ".
func (w *WhereClause) String() string {
	return w.sql
}

// Args returns the Values bound to this clause's placeholders, in the
// order they appear.
func (w *WhereClause) Args() []reldb.Value {
	return w.args
}

// renderArgs joins multiple arg slices in positional order, the rule
// states for UPDATE ("WHERE parameters follow SET
// parameters in positional order").
func renderArgs(groups ...[]reldb.Value) []reldb.Value {
	var out []reldb.Value
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// invalidQuery builds the *reldb.Error a builder's Execute returns when
// is_valid() would be false, naming the missing piece.
func invalidQuery(what string) error {
	return &reldb.Error{Kind: reldb.KindInvalidQuery, What: what}
}

// quoteIdent quotes a single identifier using the capability's quoting
// rule. It returns an InvalidQuery error (without panicking) for an
// empty name or one containing a statement terminator (;) or a comment
// marker (--, /*, */); quote characters are not rejected but escaped by
// QuoteIdentifier.
func quoteIdent(capa reldb.Capability, name string) (string, error) {
	if name == "" {
		return "", invalidQuery("identifier must not be empty")
	}
	for _, bad := range []string{";", "--", "/*", "*/"} {
		if strings.Contains(name, bad) {
			return "", invalidQuery("identifier contains disallowed sequence: " + name)
		}
	}
	if capa.QuoteIdentifier == nil {
		return name, nil
	}
	return capa.QuoteIdentifier(name), nil
}
