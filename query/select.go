package query

import (
	"context"
	"fmt"
	"strings"

	reldb "github.com/arcflow-io/reldb"
)

// JoinKind is one of the four join forms names.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinRight
	JoinFull
)

func (k JoinKind) sql() string {
	switch k {
	case JoinLeft:
		return "LEFT JOIN"
	case JoinRight:
		return "RIGHT JOIN"
	case JoinFull:
		return "FULL JOIN"
	default:
		return "INNER JOIN"
	}
}

// Join is one JOIN clause appended to a SelectQuery. FULL JOIN renders
// unconditionally; a backend that can't execute it (SQLite before
// 3.39) surfaces the failure as its own DatabaseException at execute
// time rather than being rejected at build time's "no
// automatic translation" policy.
type Join struct {
	Kind  JoinKind
	Table string
	On    string
}

// SelectQuery builds a SELECT … FROM … [JOIN …]* [WHERE …] [GROUP BY …]
// [ORDER BY …] [LIMIT …] statement.
type SelectQuery struct {
	columns []string
	table   string
	joins   []Join
	where   *WhereClause
	groupBy []string
	orderBy []string
	limitN  int
	offsetN int
	hasLim  bool
	hasOff  bool
}

// Select starts a SelectQuery; with no columns given, "*" is used.
func Select(columns ...string) *SelectQuery {
	return &SelectQuery{columns: columns}
}

// From sets the source table.
func (q *SelectQuery) From(table string) *SelectQuery {
	q.table = table
	return q
}

// Join appends a JOIN clause.
func (q *SelectQuery) Join(kind JoinKind, table, on string) *SelectQuery {
	q.joins = append(q.joins, Join{Kind: kind, Table: table, On: on})
	return q
}

// Where attaches the WHERE clause.
func (q *SelectQuery) Where(w *WhereClause) *SelectQuery {
	q.where = w
	return q
}

// GroupBy appends GROUP BY columns.
func (q *SelectQuery) GroupBy(cols ...string) *SelectQuery {
	q.groupBy = append(q.groupBy, cols...)
	return q
}

// OrderBy appends one ORDER BY term; desc selects descending order.
func (q *SelectQuery) OrderBy(col string, desc bool) *SelectQuery {
	if desc {
		q.orderBy = append(q.orderBy, col+" DESC")
	} else {
		q.orderBy = append(q.orderBy, col+" ASC")
	}
	return q
}

// Limit sets LIMIT n, with an optional OFFSET.
func (q *SelectQuery) Limit(n int, offset ...int) *SelectQuery {
	q.limitN = n
	q.hasLim = true
	if len(offset) > 0 {
		q.offsetN = offset[0]
		q.hasOff = true
	}
	return q
}

// IsValid reports whether From has been called; every other piece is
// optional.
func (q *SelectQuery) IsValid() bool {
	return q.table != ""
}

// String renders the generated SQL. Column and table identifiers are
// emitted as given (not quoted), matching "*"/expression columns being
// legal; callers who need quoting call quoteIdent themselves before
// passing a name in.
func (q *SelectQuery) String() string {
	cols := "*"
	if len(q.columns) > 0 {
		cols = strings.Join(q.columns, ", ")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, q.table)
	for _, j := range q.joins {
		fmt.Fprintf(&b, " %s %s ON %s", j.Kind.sql(), j.Table, j.On)
	}
	if q.where != nil && q.where.String() != "" {
		b.WriteString(" WHERE " + q.where.String())
	}
	if len(q.groupBy) > 0 {
		b.WriteString(" GROUP BY " + strings.Join(q.groupBy, ", "))
	}
	if len(q.orderBy) > 0 {
		b.WriteString(" ORDER BY " + strings.Join(q.orderBy, ", "))
	}
	if q.hasLim {
		fmt.Fprintf(&b, " LIMIT %d", q.limitN)
		if q.hasOff {
			fmt.Fprintf(&b, " OFFSET %d", q.offsetN)
		}
	}
	return b.String()
}

func (q *SelectQuery) args() []reldb.Value {
	if q.where == nil {
		return nil
	}
	return q.where.Args()
}

// Execute prepares, binds and runs the query against s, returning its
// Resultset. Calling Execute on an invalid builder returns InvalidQuery
// naming the missing piece.
func (q *SelectQuery) Execute(ctx context.Context, s *reldb.Session) (*reldb.Resultset, error) {
	if !q.IsValid() {
		return nil, invalidQuery("select query has no from() table")
	}
	stmt := s.CreateStatement()
	if err := stmt.Prepare(ctx, q.String()); err != nil {
		return nil, err
	}
	if err := stmt.BindAll(q.args()...); err != nil {
		return nil, err
	}
	return stmt.Query(ctx)
}
