package query

import (
	"context"
	"fmt"

	reldb "github.com/arcflow-io/reldb"
)

// DeleteQuery builds a DELETE FROM t WHERE … statement.
type DeleteQuery struct {
	table string
	where *WhereClause
}

// DeleteFrom starts a DeleteQuery targeting table.
func DeleteFrom(table string) *DeleteQuery {
	return &DeleteQuery{table: table}
}

// Where attaches the WHERE clause.
func (q *DeleteQuery) Where(w *WhereClause) *DeleteQuery {
	q.where = w
	return q
}

// IsValid reports whether a table has been set. An unconditional
// DELETE (no WHERE) is legal SQL and therefore valid here too;
// guarding against an accidental full-table delete is left to the
// caller, same as every other builder in this package.
func (q *DeleteQuery) IsValid() bool {
	return q.table != ""
}

// String renders the generated SQL.
func (q *DeleteQuery) String() string {
	sqlText := fmt.Sprintf("DELETE FROM %s", q.table)
	if q.where != nil && q.where.String() != "" {
		sqlText += " WHERE " + q.where.String()
	}
	return sqlText
}

func (q *DeleteQuery) args() []reldb.Value {
	if q.where == nil {
		return nil
	}
	return q.where.Args()
}

// Execute prepares, binds and runs the delete against s, returning the
// number of rows removed.
func (q *DeleteQuery) Execute(ctx context.Context, s *reldb.Session) (int64, error) {
	if !q.IsValid() {
		return 0, invalidQuery("delete query has no from() table")
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
