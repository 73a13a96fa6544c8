package reldb

import (
	"context"
	"database/sql"
	"fmt"
)

// IsolationLevel enumerates SQL isolation levels, kept as its own enum
// rather than reusing database/sql's so a Transaction can validate a
// level against Capability.SupportsIsolationLevel before ever reaching
// the driver.
type IsolationLevel int

const (
	IsolationDefault IsolationLevel = iota
	IsolationReadUncommitted
	IsolationReadCommitted
	IsolationRepeatableRead
	IsolationSerializable
)

// AccessMode is read-write/read-only toggle.
type AccessMode int

const (
	AccessReadWrite AccessMode = iota
	AccessReadOnly
)

// TransactionState is the Inactive→Active→{Committed,RolledBack}
// lifecycle of state diagram.
type TransactionState int

const (
	TransactionInactive TransactionState = iota
	TransactionActive
	TransactionCommitted
	TransactionRolledBack
)

func (s TransactionState) String() string {
	switch s {
	case TransactionInactive:
		return "inactive"
	case TransactionActive:
		return "active"
	case TransactionCommitted:
		return "committed"
	case TransactionRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// TxOptions configures a Transaction's BEGIN
type TxOptions struct {
	Isolation  IsolationLevel
	Access     AccessMode
	Deferrable bool // PostgreSQL only, meaningful with Serializable+ReadOnly
}

// Transaction is a single Inactive→Active→Committed/RolledBack scope,
// It wraps a *sql.Tx rather than hand-rolling
// BEGIN/COMMIT/ROLLBACK text for the base case, since database/sql
// already issues the right dialog for every registered backend; only
// the isolation/access/deferrable qualifiers and savepoints are
// backend-specific enough to need Capability-gated SQL of our own.
type Transaction struct {
	session *Session
	state   TransactionState
	native  *sql.Tx
	opts    TxOptions

	savepointSeq int
}

// newTransaction returns a fresh, Inactive Transaction bound to s.
func newTransaction(s *Session) *Transaction {
	return &Transaction{session: s, state: TransactionInactive}
}

// State returns the transaction's current lifecycle state.
func (t *Transaction) State() TransactionState { return t.state }

// beginSQL renders the isolation/access-mode/deferrable qualifier
// fragment: each qualifier appears only when it differs from the zero
// value and only when capa marks it legal for this backend. Returns ""
// when every qualifier is default or unsupported, meaning the bare
// BeginTx call already did the whole job.
func beginSQL(opts TxOptions, capa Capability) string {
	var frag string
	if opts.Isolation != IsolationDefault && capa.SupportsIsolationLevel {
		frag += " ISOLATION LEVEL " + isolationSQL(opts.Isolation)
	}
	if opts.Access == AccessReadOnly {
		frag += " READ ONLY"
	} else {
		frag += " READ WRITE"
	}
	if opts.Deferrable && capa.SupportsDeferrable {
		frag += " DEFERRABLE"
	}
	return frag
}

func isolationSQL(l IsolationLevel) string {
	switch l {
	case IsolationReadUncommitted:
		return "READ UNCOMMITTED"
	case IsolationReadCommitted:
		return "READ COMMITTED"
	case IsolationRepeatableRead:
		return "REPEATABLE READ"
	case IsolationSerializable:
		return "SERIALIZABLE"
	default:
		return ""
	}
}

// Begin starts the transaction, transitioning Inactive→Active. The
// bare BeginTx call pins one physical connection for the transaction's
// lifetime; the isolation/access-mode/deferrable qualifiers are then
// issued as their own SET TRANSACTION statement on that same
// connection via beginSQL, rather than relying solely on database/sql's
// own sql.TxOptions mapping, so the qualifier ordering stays consistent
// across backends whose sql.TxOptions support differs (e.g. deferrable
// has no database/sql equivalent at all).
func (t *Transaction) Begin(ctx context.Context, opts TxOptions) error {
	if t.state != TransactionInactive {
		return newErr(KindTransactionException, "transaction already begun")
	}

	capa := t.session.Capabilities()
	if opts.Isolation != IsolationDefault && !capa.SupportsIsolationLevel {
		return newErr(KindTransactionException, fmt.Sprintf("backend %q does not support isolation levels", capa.Scheme))
	}
	if opts.Deferrable && !capa.SupportsDeferrable && opts.Access != AccessReadOnly {
		return newErr(KindTransactionException, "deferrable requires a read-only, serializable transaction")
	}

	native, err := t.session.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr(KindTransactionException, err.Error(), "BEGIN", err)
	}

	if frag := beginSQL(opts, capa); frag != "" {
		if _, err := native.ExecContext(ctx, "SET TRANSACTION"+frag); err != nil {
			native.Rollback()
			return wrapErr(KindTransactionException, err.Error(), "SET TRANSACTION"+frag, err)
		}
	}

	t.native = native
	t.opts = opts
	t.state = TransactionActive
	return nil
}

func (t *Transaction) requireActive() error {
	if t.state != TransactionActive {
		return newErr(KindTransactionException, fmt.Sprintf("transaction is %s, not active", t.state))
	}
	return nil
}

// Execute runs query (with positional database/sql args) inside the
// transaction.
func (t *Transaction) Execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if err := t.requireActive(); err != nil {
		return nil, err
	}
	res, err := t.native.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(KindDatabaseException, err.Error(), query, err)
	}
	t.session.recordResult(res)
	return res, nil
}

// Query runs query inside the transaction and returns a streaming
// Resultset.
func (t *Transaction) Query(ctx context.Context, query string, args ...any) (*Resultset, error) {
	if err := t.requireActive(); err != nil {
		return nil, err
	}
	rows, err := t.native.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(KindDatabaseException, err.Error(), query, err)
	}
	rs := newStreamingResultset(rows, nil)
	rs.requery = func(ctx context.Context) (*sql.Rows, error) {
		return t.native.QueryContext(ctx, query, args...)
	}
	return rs, nil
}

// CreateStatement returns a Statement prepared against this
// transaction's connection rather than the Session's pool, so it
// participates in the same transaction.
func (t *Transaction) CreateStatement() *Statement {
	return &Statement{ParamTable: NewParamTable(), session: t.session, state: StatementFresh}
}

// Commit commits the transaction, transitioning Active→Committed.
func (t *Transaction) Commit() error {
	if err := t.requireActive(); err != nil {
		return err
	}
	if err := t.native.Commit(); err != nil {
		t.state = TransactionRolledBack
		return wrapErr(KindTransactionException, err.Error(), "COMMIT", err)
	}
	t.state = TransactionCommitted
	return nil
}

// Rollback rolls back the transaction, transitioning Active→RolledBack.
// Calling Rollback on an already-Committed/RolledBack transaction is a
// no-op, matching "rollback is safe to call during unwind
// even if already settled".
func (t *Transaction) Rollback() error {
	if t.state == TransactionCommitted || t.state == TransactionRolledBack {
		return nil
	}
	if err := t.requireActive(); err != nil {
		return err
	}
	if err := t.native.Rollback(); err != nil {
		return wrapErr(KindTransactionException, err.Error(), "ROLLBACK", err)
	}
	t.state = TransactionRolledBack
	return nil
}

// Savepoint establishes a named savepoint Only
// available when Capability.Savepoints is set.
func (t *Transaction) Savepoint(ctx context.Context, name string) error {
	if err := t.requireActive(); err != nil {
		return err
	}
	if !t.session.Capabilities().Savepoints {
		return newErr(KindUnsupportedBindingStyle, "backend does not support savepoints")
	}
	_, err := t.native.ExecContext(ctx, "SAVEPOINT "+quoteSavepointName(t.session.Capabilities(), name))
	if err != nil {
		return wrapErr(KindTransactionException, err.Error(), "SAVEPOINT "+name, err)
	}
	return nil
}

// RollbackTo rolls back to a previously established savepoint without
// ending the enclosing transaction.
func (t *Transaction) RollbackTo(ctx context.Context, name string) error {
	if err := t.requireActive(); err != nil {
		return err
	}
	if !t.session.Capabilities().Savepoints {
		return newErr(KindUnsupportedBindingStyle, "backend does not support savepoints")
	}
	_, err := t.native.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+quoteSavepointName(t.session.Capabilities(), name))
	if err != nil {
		return wrapErr(KindTransactionException, err.Error(), "ROLLBACK TO SAVEPOINT "+name, err)
	}
	return nil
}

// ReleaseSavepoint releases a savepoint, making its rollback point
// unavailable.
func (t *Transaction) ReleaseSavepoint(ctx context.Context, name string) error {
	if err := t.requireActive(); err != nil {
		return err
	}
	if !t.session.Capabilities().Savepoints {
		return newErr(KindUnsupportedBindingStyle, "backend does not support savepoints")
	}
	_, err := t.native.ExecContext(ctx, "RELEASE SAVEPOINT "+quoteSavepointName(t.session.Capabilities(), name))
	if err != nil {
		return wrapErr(KindTransactionException, err.Error(), "RELEASE SAVEPOINT "+name, err)
	}
	return nil
}

// NextSavepointName returns an auto-numbered savepoint name, for
// callers that nest savepoints without tracking names themselves.
func (t *Transaction) NextSavepointName() string {
	t.savepointSeq++
	return fmt.Sprintf("sp_%d", t.savepointSeq)
}

func quoteSavepointName(capa Capability, name string) string {
	if capa.QuoteIdentifier != nil {
		return capa.QuoteIdentifier(name)
	}
	return name
}

// Guard runs fn inside a new transaction on session, committing if fn
// returns nil and rolling back otherwise. A panic inside fn rolls back
// and re-panics rather than leaking an open transaction.
func Guard(ctx context.Context, s *Session, opts TxOptions, fn func(*Transaction) error) (err error) {
	tx := s.CreateTransaction()
	if err := tx.Begin(ctx, opts); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// TxGuard is the explicit, defer-friendly counterpart to Guard: callers
// who want manual control over the scope (rather than a single
// callback) create one with NewTxGuard and must call Release before it
// goes out of scope.
type TxGuard struct {
	tx        *Transaction
	committed bool
}

// NewTxGuard begins a transaction and returns a TxGuard wrapping it.
func NewTxGuard(ctx context.Context, s *Session, opts TxOptions) (*TxGuard, error) {
	tx := s.CreateTransaction()
	if err := tx.Begin(ctx, opts); err != nil {
		return nil, err
	}
	return &TxGuard{tx: tx}, nil
}

// Tx returns the guarded Transaction.
func (g *TxGuard) Tx() *Transaction { return g.tx }

// Commit commits the guarded transaction and marks it settled so
// Release becomes a no-op.
func (g *TxGuard) Commit() error {
	if err := g.tx.Commit(); err != nil {
		return err
	}
	g.committed = true
	return nil
}

// Release rolls back the guarded transaction unless Commit already
// ran. Intended to be used as `defer guard.Release()`.
func (g *TxGuard) Release() {
	if g.committed {
		return
	}
	g.tx.Rollback()
}
