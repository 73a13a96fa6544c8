package reldb

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// Config holds session-level configuration, filled from the URI query
// string and then overridden by explicit Option values.
type Config struct {
	Logger          Logger
	Timeout         time.Duration
	EnhancedParams  bool
	SSL             string
	Charset         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Option configures a Session at Open time.
type Option func(*Config)

// WithLogger overrides the session's logger.
func WithLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithTimeout overrides the default per-operation timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithMaxOpenConns overrides the pool's max open connections. The core
// targets one logical session per handle ( Non-goals exclude
// pooling beyond that), but the underlying *sql.DB still multiplexes
// physical connections for us, so this is exposed for callers who know
// their backend's connection-per-statement behavior.
func WithMaxOpenConns(n int) Option {
	return func(c *Config) { c.MaxOpenConns = n }
}

// sessionState is Session's open/closed lifecycle, independent of any
// Statement's own state machine.
type sessionState int

const (
	sessionUnopened sessionState = iota
	sessionOpen
	sessionClosed
)

// Session owns one backend connection exclusively's
// ownership rules. It is not safe for concurrent use by more than one
// goroutine at a time; only one Statement execution may be
// in flight, enforced by busy/mu below.
type Session struct {
	uri    URI
	driver Driver
	cfg    Config
	db     *sql.DB

	mu    sync.Mutex
	state sessionState
	busy  bool

	lastInsertID int64
	lastChanges  int64
	lastErr      error
}

// Open parses uri, dispatches to the registered Driver for its scheme,
// and returns an opened Session.
func Open(uri string, opts ...Option) (*Session, error) {
	parsed, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	driver, ok := lookupDriver(parsed.Scheme)
	if !ok {
		return nil, newErr(KindUnknownScheme, "no driver registered for scheme "+parsed.Scheme)
	}

	cfg := Config{
		Logger:          defaultLogger,
		Timeout:         5 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}
	if d, ok := parsed.TimeoutOption(); ok {
		cfg.Timeout = d
	}
	cfg.EnhancedParams = parsed.EnhancedParams()
	cfg.SSL = parsed.SSLOption()
	cfg.Charset = parsed.Charset()
	for _, opt := range opts {
		opt(&cfg)
	}

	cfg.Logger.Info("opening session", "scheme", parsed.Scheme)
	db, err := driver.Connect(parsed)
	if err != nil {
		cfg.Logger.Error("connect failed", "scheme", parsed.Scheme, "error", err)
		return nil, wrapErr(KindConnectionRefused, "connect failed", parsed.Scheme, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Session{
		uri:    parsed,
		driver: driver,
		cfg:    cfg,
		db:     db,
		state:  sessionOpen,
	}, nil
}

// NewSession wraps an already-open *sql.DB as a Session using capa for
// its dialect behavior, bypassing ParseURI and the driver registry. It
// is the escape hatch for callers who already manage their own
// *sql.DB (a connection pool shared with other code, or one built by
// hand from a database/sql driver this core doesn't register).
func NewSession(db *sql.DB, capa Capability, opts ...Option) *Session {
	cfg := Config{Logger: defaultLogger, Timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Session{
		driver: wrappedCapability{capa},
		cfg:    cfg,
		db:     db,
		state:  sessionOpen,
	}
}

// wrappedCapability adapts a bare Capability value into a Driver for
// NewSession, which has no URI to dispatch on and no schema query of
// its own to offer.
type wrappedCapability struct{ capa Capability }

func (w wrappedCapability) Capabilities() Capability { return w.capa }

func (w wrappedCapability) Connect(uri URI) (*sql.DB, error) {
	return nil, newErr(KindConnectionRefused, "wrappedCapability does not dial connections")
}

func (w wrappedCapability) QuerySchema(ctx context.Context, db *sql.DB, database, table string) ([]ColumnDefinition, error) {
	return nil, newErr(KindDatabaseException, "wrappedCapability has no schema introspection")
}

// IsOpen reports whether the session currently holds a live connection.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == sessionOpen
}

// Open is idempotent: calling it on an already-open Session is a no-op.
// There is nothing to reopen once Close has run (a fresh Session must
// be created via the package-level Open), matching statement
// that open/close are "safe to call on an already-open/closed session".
func (s *Session) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == sessionOpen {
		return nil
	}
	if s.state == sessionClosed {
		return newErr(KindDatabaseException, "session was closed; open a new Session instead")
	}
	s.state = sessionOpen
	return nil
}

// Close releases the backend connection. Idempotent. Closing a Session
// with live Statements does not panic or corrupt state: buffered
// Resultsets already drained into memory stay readable. Close does not
// touch the Statements themselves; a Statement used after Close gets
// the backend's "database is closed" error and moves to Errored.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != sessionOpen {
		return nil
	}
	s.state = sessionClosed
	s.cfg.Logger.Info("closing session")
	if err := s.db.Close(); err != nil {
		s.cfg.Logger.Error("close failed", "error", err)
		return wrapErr(KindDatabaseException, "close failed", "", err)
	}
	return nil
}

// Capabilities returns this session's backend's Capability record.
func (s *Session) Capabilities() Capability {
	return s.driver.Capabilities()
}

// Logger returns the session's configured logger.
func (s *Session) Logger() Logger { return s.cfg.Logger }

// EnhancedParams reports whether cross-style parameter rewriting was
// requested via the params=enhanced URI option.
func (s *Session) EnhancedParams() bool { return s.cfg.EnhancedParams }

// withTimeout bounds a context: reuse an existing deadline, else apply
// the session's default.
func (s *Session) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, has := ctx.Deadline(); has {
		return ctx, func() {}
	}
	to := s.cfg.Timeout
	if to <= 0 {
		to = 5 * time.Second
	}
	return context.WithTimeout(ctx, to)
}

// acquire enforces the single-in-flight-statement rule: a second
// concurrent execution attempt fails fast with ConcurrentUse rather
// than silently interleaving on the same connection handle.
func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return newErr(KindConcurrentUse, "a statement is already in flight on this session")
	}
	s.busy = true
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Session) recordResult(res sql.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, err := res.LastInsertId(); err == nil {
		s.lastInsertID = id
	}
	if n, err := res.RowsAffected(); err == nil {
		s.lastChanges = n
	}
}

func (s *Session) recordError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// LastInsertID is the best-effort accessor of 's
// last_insert_id(); it reflects the most recent Exec-style statement
// run through this Session via Statement.Execute, a query builder or
// Transaction.Execute. Session.Execute does not update it.
func (s *Session) LastInsertID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastInsertID
}

// LastNumberOfChanges is the best-effort accessor of 's
// last_number_of_changes().
func (s *Session) LastNumberOfChanges() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastChanges
}

// LastError is the best-effort accessor of last_error.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Execute runs sql directly (no parameter binding) and returns a
// Resultset Multi-statement scripts are passed
// through to the backend as-is; only drivers whose underlying protocol
// supports them (as database/sql.DB.Exec does for SQLite and MySQL's
// multiStatements-enabled DSNs) will actually run more than one
// statement.
func (s *Session) Execute(ctx context.Context, query string) (*Resultset, error) {
	if err := s.acquire(); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)

	s.cfg.Logger.Debug("executing", "query", query)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		cancel()
		s.release()
		s.recordError(err)
		s.cfg.Logger.Error("execute failed", "query", query, "error", err)
		return nil, wrapErr(KindDatabaseException, err.Error(), query, err)
	}
	rs := newStreamingResultset(rows, func() { cancel(); s.release() })
	rs.requery = func(ctx context.Context) (*sql.Rows, error) {
		return s.db.QueryContext(ctx, query)
	}
	return rs, nil
}

// CreateStatement returns a fresh, unprepared Statement bound to this
// Session
func (s *Session) CreateStatement() *Statement {
	return newStatement(s)
}

// CreateTransaction returns a fresh, Inactive Transaction bound to this
// Session
func (s *Session) CreateTransaction() *Transaction {
	return newTransaction(s)
}

// QuerySchema fills out the column definitions of the named table,
//.
func (s *Session) QuerySchema(ctx context.Context, dbName, tableName string) ([]ColumnDefinition, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	cols, err := s.driver.QuerySchema(ctx, s.db, dbName, tableName)
	if err != nil {
		return nil, wrapErr(KindDatabaseException, err.Error(), fmt.Sprintf("schema(%s.%s)", dbName, tableName), err)
	}
	return cols, nil
}
