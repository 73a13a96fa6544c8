package reldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// StatementState is the Fresh→Prepared→Executed→{Exhausted,Errored,Closed}
// lifecycle of state diagram.
type StatementState int

const (
	StatementFresh StatementState = iota
	StatementPrepared
	StatementExecuted
	StatementExhausted
	StatementErrored
	StatementClosed
)

func (s StatementState) String() string {
	switch s {
	case StatementFresh:
		return "fresh"
	case StatementPrepared:
		return "prepared"
	case StatementExecuted:
		return "executed"
	case StatementExhausted:
		return "exhausted"
	case StatementErrored:
		return "errored"
	case StatementClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Statement is a reusable, bindable, prepared SQL text. It composes a
// ParamTable for its Bindable surface rather than inheriting it,
// favoring a capability interface over a class hierarchy.
type Statement struct {
	*ParamTable

	session *Session
	state   StatementState

	text    string // original, caller-supplied SQL
	plan    rewritePlan
	native  *sql.Stmt
	lastRes *Resultset
	lastErr error
}

// newStatement returns a Fresh Statement bound to s.
func newStatement(s *Session) *Statement {
	return &Statement{
		ParamTable: NewParamTable(),
		session:    s,
		state:      StatementFresh,
	}
}

// State returns the statement's current lifecycle state.
func (st *Statement) State() StatementState { return st.state }

// Prepare rewrites text's parameter placeholders for the session's
// backend and readies a native prepared statement, transitioning
// Fresh→Prepared. Preparing an already-Prepared/Executed/Exhausted
// Statement re-prepares in place ("prepare may be called
// again to change the statement text"); only Closed refuses, so an
// Errored statement can be prepared again.
func (st *Statement) Prepare(ctx context.Context, text string) error {
	if st.state == StatementClosed {
		return newErr(KindTransactionException, "cannot prepare a closed statement")
	}

	capa := st.session.Capabilities()
	plan, err := rewriteParameters(text, capa, st.session.EnhancedParams() || capa.EnhancedParameterMapping)
	if err != nil {
		st.state = StatementErrored
		st.lastErr = err
		return err
	}

	if st.native != nil {
		st.native.Close()
		st.native = nil
	}

	native, err := st.session.db.PrepareContext(ctx, plan.sql)
	if err != nil {
		st.state = StatementErrored
		st.lastErr = wrapErr(KindDatabaseException, err.Error(), plan.sql, err)
		return st.lastErr
	}

	st.text = text
	st.plan = plan
	st.native = native
	st.state = StatementPrepared
	st.lastErr = nil
	return nil
}

// driverArg converts a bound Value into the primitive database/sql
// expects: Int64/Uint64 become Go's int64/uint64 and Float64 becomes
// float64 whatever the value's size (no 32-bit narrowing), Time to
// time.Time so drivers that understand it natively (all three
// registered backends) bind it without a manual string conversion.
func driverArg(v Value) (any, error) {
	switch v.Kind() {
	case KindNull:
		return nil, nil
	case KindInt64:
		i, _ := v.ToInt64()
		return i, nil
	case KindUint64:
		u, _ := v.ToUint64()
		return u, nil
	case KindFloat64:
		f, _ := v.ToFloat64()
		return f, nil
	case KindText:
		s, _ := v.ToText()
		return s, nil
	case KindBlob:
		b, _ := v.ToBlob()
		return b, nil
	case KindBool:
		b, _ := v.ToBool()
		return b, nil
	case KindTime:
		epoch, _ := v.EpochSeconds()
		return time.Unix(epoch, 0).UTC(), nil
	default:
		return nil, newErr(KindBindingError, "unbound value kind")
	}
}

// orderedArgs resolves the rewritten placeholder order against the
// bound positional/named tables, filling any unbound position with
// Null.
func (st *Statement) orderedArgs() ([]any, error) {
	positional := st.Positional()
	named := st.Named()

	out := make([]any, len(st.plan.args))
	for i, ref := range st.plan.args {
		var v Value
		if ref.positional {
			if bound, ok := positional[ref.index]; ok {
				v = bound
			} else {
				v = NewNull()
			}
		} else {
			bound, ok := named[ref.name]
			if !ok {
				return nil, newErr(KindBindingError, "no value bound for named parameter :"+ref.name)
			}
			v = bound
		}
		arg, err := driverArg(v)
		if err != nil {
			return nil, err
		}
		out[i] = arg
	}
	return out, nil
}

// requirePrepared enforces that only Prepared/Executed/Exhausted
// statements may run.
func (st *Statement) requirePrepared() error {
	switch st.state {
	case StatementPrepared, StatementExecuted, StatementExhausted:
		return nil
	case StatementFresh:
		return newErr(KindTransactionException, "statement has not been prepared")
	case StatementClosed:
		return newErr(KindTransactionException, "statement is closed")
	default:
		return newErr(KindTransactionException, "statement is in an errored state")
	}
}

// Query executes the prepared statement as a row-returning query and
// transitions Prepared→Executed. Acquires the owning Session's
// single-in-flight-statement lock for the lifetime of the returned
// cursor; the lock releases when the cursor is exhausted or closed.
func (st *Statement) Query(ctx context.Context) (*Resultset, error) {
	if err := st.requirePrepared(); err != nil {
		return nil, err
	}
	if err := st.session.acquire(); err != nil {
		return nil, err
	}
	args, err := st.orderedArgs()
	if err != nil {
		st.session.release()
		st.state = StatementErrored
		st.lastErr = err
		return nil, err
	}

	rows, err := st.native.QueryContext(ctx, args...)
	if err != nil {
		st.session.release()
		st.state = StatementErrored
		st.lastErr = wrapErr(KindDatabaseException, err.Error(), st.plan.sql, err)
		return nil, st.lastErr
	}

	rs := newStreamingResultset(rows, func() {
		st.state = StatementExhausted
		st.session.release()
	})
	rs.requery = func(ctx context.Context) (*sql.Rows, error) {
		return st.native.QueryContext(ctx, args...)
	}
	st.lastRes = rs
	st.state = StatementExecuted
	return rs, nil
}

// Execute runs the prepared statement as an exec-only (INSERT/UPDATE/
// DELETE/DDL) statement and transitions Prepared→Exhausted directly,
// (exec-only statements have no row cursor to drain). Acquires and
// releases the owning Session's single-in-flight-statement lock for the
// duration of the call.
func (st *Statement) Execute(ctx context.Context) (sql.Result, error) {
	if err := st.requirePrepared(); err != nil {
		return nil, err
	}
	if err := st.session.acquire(); err != nil {
		return nil, err
	}
	defer st.session.release()

	args, err := st.orderedArgs()
	if err != nil {
		st.state = StatementErrored
		st.lastErr = err
		return nil, err
	}

	res, err := st.native.ExecContext(ctx, args...)
	if err != nil {
		st.state = StatementErrored
		st.lastErr = wrapErr(KindDatabaseException, err.Error(), st.plan.sql, err)
		return nil, st.lastErr
	}
	st.session.recordResult(res)
	st.state = StatementExhausted
	return res, nil
}

// Reset returns the statement to Prepared, ready for another
// execute cycle, preserving its bound parameter values so a caller can
// re-run the same statement without rebinding. Backends whose wire
// protocol can't separate "new params" from "new statement" would need
// to re-prepare here; database/sql's *sql.Stmt already abstracts that
// away for all three registered drivers, so Reset only needs to close
// out any open cursor from the previous run.
func (st *Statement) Reset() error {
	if st.state == StatementClosed {
		return newErr(KindTransactionException, "cannot reset a closed statement")
	}
	if st.native == nil {
		return newErr(KindTransactionException, "statement has not been prepared")
	}
	if st.lastRes != nil {
		st.lastRes.Close()
		st.lastRes = nil
	}
	st.state = StatementPrepared
	st.lastErr = nil
	return nil
}

// LastError returns the error that put this statement into Errored, if
// any.
func (st *Statement) LastError() error { return st.lastErr }

// Close releases the native prepared statement and any open cursor,
// transitioning to Closed. Idempotent.
func (st *Statement) Close() error {
	if st.state == StatementClosed {
		return nil
	}
	var err error
	if st.lastRes != nil {
		if cerr := st.lastRes.Close(); cerr != nil {
			err = cerr
		}
		st.lastRes = nil
	}
	if st.native != nil {
		if cerr := st.native.Close(); cerr != nil && err == nil {
			err = wrapErr(KindDatabaseException, cerr.Error(), "", cerr)
		}
		st.native = nil
	}
	st.state = StatementClosed
	return err
}

// Detach hands off ownership of this Statement's prepared handle to a
// new Statement value and leaves the receiver Closed and inert: after
// Detach, the receiver no longer refers to any native
// resource and the returned Statement does.
func (st *Statement) Detach() *Statement {
	moved := &Statement{
		ParamTable: st.ParamTable,
		session:    st.session,
		state:      st.state,
		text:       st.text,
		plan:       st.plan,
		native:     st.native,
		lastRes:    st.lastRes,
		lastErr:    st.lastErr,
	}
	st.ParamTable = NewParamTable()
	st.session = nil
	st.state = StatementClosed
	st.text = ""
	st.plan = rewritePlan{}
	st.native = nil
	st.lastRes = nil
	st.lastErr = nil
	return moved
}

// String renders the statement's rewritten SQL text, for diagnostics.
func (st *Statement) String() string {
	return fmt.Sprintf("Statement{state=%s sql=%q}", st.state, st.plan.sql)
}
