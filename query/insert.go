package query

import (
	"context"
	"fmt"
	"strings"

	reldb "github.com/arcflow-io/reldb"
)

// InsertQuery builds an INSERT INTO t (c1, …) VALUES (?, ?, …)
// statement Generalized from an ORM-insert-only
// generatePlaceholder/buildReturningClause pair into a capability-driven
// builder any caller can use without a struct tag.
type InsertQuery struct {
	table     string
	columns   []string
	values    []reldb.Value
	returning string
}

// InsertInto starts an InsertQuery targeting table.
func InsertInto(table string) *InsertQuery {
	return &InsertQuery{table: table}
}

// Columns sets the column list.
func (q *InsertQuery) Columns(names ...string) *InsertQuery {
	q.columns = names
	return q
}

// Values sets the value list, which must have the same length as
// Columns.
func (q *InsertQuery) Values(values ...reldb.Value) *InsertQuery {
	q.values = values
	return q
}

// Returning names the column last_insert_id() should read back on
// backends whose Capability.LastInsertID is LastInsertIDReturning
// (PostgreSQL). Defaults to "id".
func (q *InsertQuery) Returning(column string) *InsertQuery {
	q.returning = column
	return q
}

func (q *InsertQuery) returningColumn() string {
	if q.returning != "" {
		return q.returning
	}
	return "id"
}

// IsValid reports whether a table, a non-empty column list, and a
// matching-length value list are all present.
func (q *InsertQuery) IsValid() bool {
	return q.table != "" && len(q.columns) > 0 && len(q.columns) == len(q.values)
}

func (q *InsertQuery) invalidReason() string {
	switch {
	case q.table == "":
		return "insert query has no into() table"
	case len(q.columns) == 0:
		return "insert query has no columns()"
	default:
		return fmt.Sprintf("insert query has %d columns but %d values", len(q.columns), len(q.values))
	}
}

// String renders the generated SQL using plain "?" placeholders; the
// capability-specific placeholder spelling and any RETURNING clause are
// applied at Execute time, since rendering them requires a Capability
// this method doesn't take.
func (q *InsertQuery) String() string {
	placeholders := make([]string, len(q.values))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		q.table, strings.Join(q.columns, ", "), strings.Join(placeholders, ", "))
}

// Execute prepares, binds and runs the insert against s, returning the
// inserted row's identity via last_insert_id(), dispatching on
// Capability.LastInsertID.
func (q *InsertQuery) Execute(ctx context.Context, s *reldb.Session) (int64, error) {
	if !q.IsValid() {
		return 0, invalidQuery(q.invalidReason())
	}

	capa := s.Capabilities()
	sqlText := q.String()

	if capa.LastInsertID == reldb.LastInsertIDReturning {
		col, err := quoteIdent(capa, q.returningColumn())
		if err != nil {
			return 0, err
		}
		sqlText += " RETURNING " + col

		stmt := s.CreateStatement()
		if err := stmt.Prepare(ctx, sqlText); err != nil {
			return 0, err
		}
		if err := stmt.BindAll(q.values...); err != nil {
			return 0, err
		}
		rs, err := stmt.Query(ctx)
		if err != nil {
			return 0, err
		}
		defer rs.Close()
		if err := rs.Next(); err != nil {
			return 0, err
		}
		row, err := rs.CurrentRow()
		if err != nil {
			return 0, err
		}
		col0, err := row.Column(0)
		if err != nil {
			return 0, err
		}
		return col0.ToValue().ToInt64()
	}

	stmt := s.CreateStatement()
	if err := stmt.Prepare(ctx, sqlText); err != nil {
		return 0, err
	}
	if err := stmt.BindAll(q.values...); err != nil {
		return 0, err
	}
	if _, err := stmt.Execute(ctx); err != nil {
		return 0, err
	}
	return s.LastInsertID(), nil
}
