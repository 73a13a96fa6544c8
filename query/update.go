package query

import (
	"context"
	"fmt"
	"strings"

	reldb "github.com/arcflow-io/reldb"
)

// UpdateQuery builds an UPDATE t SET c1 = ?, … WHERE … statement.
// WHERE parameters follow SET parameters in positional bind order.
type UpdateQuery struct {
	table   string
	columns []string
	values  []reldb.Value
	where   *WhereClause
}

// Update starts an UpdateQuery targeting table.
func Update(table string) *UpdateQuery {
	return &UpdateQuery{table: table}
}

// Set appends one "column = value" assignment.
func (q *UpdateQuery) Set(column string, value reldb.Value) *UpdateQuery {
	q.columns = append(q.columns, column)
	q.values = append(q.values, value)
	return q
}

// Columns bulk-sets the column list to pair with a matching Values call.
func (q *UpdateQuery) Columns(names ...string) *UpdateQuery {
	q.columns = names
	return q
}

// Values bulk-sets the value list to pair with a prior Columns call.
func (q *UpdateQuery) Values(values ...reldb.Value) *UpdateQuery {
	q.values = values
	return q
}

// Where attaches the WHERE clause.
func (q *UpdateQuery) Where(w *WhereClause) *UpdateQuery {
	q.where = w
	return q
}

// IsValid reports whether a table and at least one column/value pair
// of matching length are present.
func (q *UpdateQuery) IsValid() bool {
	return q.table != "" && len(q.columns) > 0 && len(q.columns) == len(q.values)
}

func (q *UpdateQuery) invalidReason() string {
	switch {
	case q.table == "":
		return "update query has no table()"
	case len(q.columns) == 0:
		return "update query has no columns to set"
	default:
		return fmt.Sprintf("update query has %d columns but %d values", len(q.columns), len(q.values))
	}
}

// String renders the generated SQL using plain "?" placeholders.
func (q *UpdateQuery) String() string {
	sets := make([]string, len(q.columns))
	for i, c := range q.columns {
		sets[i] = c + " = ?"
	}
	sqlText := fmt.Sprintf("UPDATE %s SET %s", q.table, strings.Join(sets, ", "))
	if q.where != nil && q.where.String() != "" {
		sqlText += " WHERE " + q.where.String()
	}
	return sqlText
}

func (q *UpdateQuery) args() []reldb.Value {
	if q.where == nil {
		return q.values
	}
	return renderArgs(q.values, q.where.Args())
}

// Execute prepares, binds and runs the update against s, returning the
// number of rows affected.
func (q *UpdateQuery) Execute(ctx context.Context, s *reldb.Session) (int64, error) {
	if !q.IsValid() {
		return 0, invalidQuery(q.invalidReason())
	}
	stmt := s.CreateStatement()
	if err := stmt.Prepare(ctx, q.String()); err != nil {
		return 0, err
	}
	if err := stmt.BindAll(q.args()...); err != nil {
		return 0, err
	}
	res, err := stmt.Execute(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
