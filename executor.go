package reldb

import "context"

// Executor is a no-builder convenience surface: a single Exec/Query
// pair implemented by both *Session and *Transaction, so callers who
// don't need a query.SelectQuery etc. can still run ad hoc SQL with
// bound parameters in one call.
//
// Session's methods are layered on top of Bindable and Statement: each
// calls CreateStatement, BindAll, then Query/Execute. Transaction's
// methods do not go through a Statement: they convert args with
// driverArg and pass them straight to the transaction's *sql.Tx.
type Executor interface {
	// Exec runs a non-row-returning statement (INSERT/UPDATE/DELETE/DDL).
	Exec(ctx context.Context, sqlText string, args ...Value) (int64, error)

	// QueryAll runs a row-returning statement and buffers every row.
	QueryAll(ctx context.Context, sqlText string, args ...Value) ([]Row, error)

	// QueryRow runs a row-returning statement and returns its first row,
	// or ErrRecordNotFound if it produced none.
	QueryRow(ctx context.Context, sqlText string, args ...Value) (Row, error)
}

// bindAndPrepare prepares sqlText against stmt's owning session, binds
// args positionally, and leaves the Statement in Prepared state ready
// for Query or Execute.
func bindAndPrepare(ctx context.Context, stmt *Statement, sqlText string, args []Value) error {
	if err := stmt.Prepare(ctx, sqlText); err != nil {
		return err
	}
	return stmt.BindAll(args...)
}

func (s *Session) execHelper(ctx context.Context, sqlText string, args []Value) (int64, error) {
	stmt := s.CreateStatement()
	defer stmt.Close()
	if err := bindAndPrepare(ctx, stmt, sqlText, args); err != nil {
		return 0, err
	}
	res, err := stmt.Execute(ctx)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Session) queryAllHelper(ctx context.Context, sqlText string, args []Value) ([]Row, error) {
	stmt := s.CreateStatement()
	defer stmt.Close()
	if err := bindAndPrepare(ctx, stmt, sqlText, args); err != nil {
		return nil, err
	}
	rs, err := stmt.Query(ctx)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []Row
	err = rs.ForEach(func(r Row) error {
		out = append(out, r)
		return nil
	})
	return out, err
}

func (s *Session) queryRowHelper(ctx context.Context, sqlText string, args []Value) (Row, error) {
	stmt := s.CreateStatement()
	defer stmt.Close()
	if err := bindAndPrepare(ctx, stmt, sqlText, args); err != nil {
		return Row{}, err
	}
	rs, err := stmt.Query(ctx)
	if err != nil {
		return Row{}, err
	}
	defer rs.Close()
	if err := rs.Next(); err != nil {
		return Row{}, err
	}
	return rs.CurrentRow()
}

// Exec runs sqlText as a non-row-returning statement against this
// Session, binding args positionally starting at 1. Implements
// Executor.
func (s *Session) Exec(ctx context.Context, sqlText string, args ...Value) (int64, error) {
	return s.execHelper(ctx, sqlText, args)
}

// QueryAll runs sqlText and buffers every returned row. Implements
// Executor.
func (s *Session) QueryAll(ctx context.Context, sqlText string, args ...Value) ([]Row, error) {
	return s.queryAllHelper(ctx, sqlText, args)
}

// QueryRow runs sqlText and returns its first row, or
// ErrRecordNotFound if it produced none. Implements Executor.
func (s *Session) QueryRow(ctx context.Context, sqlText string, args ...Value) (Row, error) {
	return s.queryRowHelper(ctx, sqlText, args)
}

func (t *Transaction) valuesToDriverArgs(args []Value) ([]any, error) {
	out := make([]any, len(args))
	for i, v := range args {
		a, err := driverArg(v)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

// Exec runs sqlText as a non-row-returning statement inside this
// Transaction, binding args positionally with plain "?"/"$N" native
// placeholders (Transaction talks directly to its live *sql.Tx
// connection rather than going through the Statement rewrite layer).
// Implements Executor.
func (t *Transaction) Exec(ctx context.Context, sqlText string, args ...Value) (int64, error) {
	driverArgs, err := t.valuesToDriverArgs(args)
	if err != nil {
		return 0, err
	}
	res, err := t.Execute(ctx, sqlText, driverArgs...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// QueryAll runs sqlText inside this Transaction and buffers every
// returned row. Implements Executor.
func (t *Transaction) QueryAll(ctx context.Context, sqlText string, args ...Value) ([]Row, error) {
	driverArgs, err := t.valuesToDriverArgs(args)
	if err != nil {
		return nil, err
	}
	rs, err := t.Query(ctx, sqlText, driverArgs...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out []Row
	err = rs.ForEach(func(r Row) error {
		out = append(out, r)
		return nil
	})
	return out, err
}

// QueryRow runs sqlText inside this Transaction and returns its first
// row, or ErrRecordNotFound if it produced none. Implements Executor.
func (t *Transaction) QueryRow(ctx context.Context, sqlText string, args ...Value) (Row, error) {
	driverArgs, err := t.valuesToDriverArgs(args)
	if err != nil {
		return Row{}, err
	}
	rs, err := t.Query(ctx, sqlText, driverArgs...)
	if err != nil {
		return Row{}, err
	}
	defer rs.Close()
	if err := rs.Next(); err != nil {
		return Row{}, err
	}
	return rs.CurrentRow()
}

// compile-time assertions that both types implement Executor.
var (
	_ Executor = (*Session)(nil)
	_ Executor = (*Transaction)(nil)
)
