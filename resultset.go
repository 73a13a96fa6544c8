package reldb

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"time"
)

// resultMode distinguishes the two backing strategies
// describes for a Resultset: the whole result materialized up front, or
// one live cursor advanced row by row.
type resultMode int

const (
	modeBuffered resultMode = iota
	modeStreaming
)

// Resultset is the uniform iterator describes, covering
// both the buffered and streaming backing strategies behind one type so
// callers write the same begin/next/current_row/for_each loop
// regardless of which one a query produced. Session.Execute,
// Statement.Query and Transaction.Query (and so SelectQuery.Execute)
// return a streaming Resultset (a live *sql.Rows cursor);
// newBufferedResultset builds the buffered form.
type Resultset struct {
	mode resultMode
	defs []ColumnDefinition

	// streaming
	rows    *sql.Rows
	onDone  func()
	requery func(ctx context.Context) (*sql.Rows, error)
	scan    []any
	closed  bool

	// buffered
	buf []Row

	pos     int // -1 = before begin(), len(rows) = end()
	started bool
	err     error
}

// newStreamingResultset wraps a live *sql.Rows cursor. onDone, if not
// nil, runs once when the cursor is closed (used by Session to release
// its single-statement-in-flight lock).
func newStreamingResultset(rows *sql.Rows, onDone func()) *Resultset {
	return &Resultset{
		mode:   modeStreaming,
		rows:   rows,
		onDone: onDone,
		pos:    -1,
	}
}

// newBufferedResultset materializes rows into memory immediately and
// closes the cursor mode.
func newBufferedResultset(rows *sql.Rows) (*Resultset, error) {
	defer rows.Close()

	defs, err := columnDefinitionsOf(rows)
	if err != nil {
		return nil, wrapErr(KindDatabaseException, "reading column metadata failed", "", err)
	}

	rs := &Resultset{mode: modeBuffered, defs: defs, pos: -1}
	for rows.Next() {
		row, err := scanRow(rows, defs)
		if err != nil {
			return nil, wrapErr(KindDatabaseException, "scanning row failed", "", err)
		}
		rs.buf = append(rs.buf, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(KindDatabaseException, "row iteration failed", "", err)
	}
	return rs, nil
}

// columnDefinitionsOf builds ColumnDefinitions from a live *sql.Rows,
//.
func columnDefinitionsOf(rows *sql.Rows) ([]ColumnDefinition, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}
	defs := make([]ColumnDefinition, len(types))
	for i, t := range types {
		nullable, _ := t.Nullable()
		sqlType := t.DatabaseTypeName()
		defs[i] = ColumnDefinition{
			Name:     t.Name(),
			Ordinal:  i,
			SQLType:  sqlType,
			Category: CategoryFromSQLType(sqlType),
			Nullable: nullable,
		}
	}
	return defs, nil
}

// scanRow pulls one row out of rows into a Row of Values, dispatching
// on each column's declared Category and landing in this core's tagged
// Value instead of bare `any`.
func scanRow(rows *sql.Rows, defs []ColumnDefinition) (Row, error) {
	raw := make([]any, len(defs))
	ptrs := make([]any, len(defs))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return Row{}, err
	}

	values := make([]Value, len(defs))
	for i, def := range defs {
		values[i] = valueFromDriver(raw[i], def)
	}
	return newRow(defs, values), nil
}

// valueFromDriver folds a database/sql-scanned `any` into this core's
// Value, using the column's declared Category as a hint, falling back
// to type assertions when the driver hands back []byte for what is
// really a number or timestamp.
func valueFromDriver(raw any, def ColumnDefinition) Value {
	if raw == nil {
		return NewNull()
	}
	switch v := raw.(type) {
	case int64:
		return NewInt64(v)
	case float64:
		return NewFloat64(v)
	case bool:
		return NewBool(v)
	case time.Time:
		return NewTimeFromTime(v, timeFormatForCategory(def.Category))
	case []byte:
		return valueFromBytes(v, def)
	case string:
		return valueFromString(v, def)
	default:
		rv := reflect.ValueOf(raw)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return NewInt64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return NewUint64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			return NewFloat64(rv.Float())
		default:
			return NewText(fmt.Sprint(raw))
		}
	}
}

func valueFromBytes(b []byte, def ColumnDefinition) Value {
	switch def.Category {
	case CategoryBlob:
		return NewBlob(b)
	case CategoryTemporal:
		if t, ok := parseTimeBytes(string(b)); ok {
			return NewTimeFromTime(t, timeFormatForCategory(def.Category))
		}
		return NewText(string(b))
	default:
		return NewText(string(b))
	}
}

func valueFromString(s string, def ColumnDefinition) Value {
	if def.Category == CategoryTemporal {
		if t, ok := parseTimeBytes(s); ok {
			return NewTimeFromTime(t, timeFormatForCategory(def.Category))
		}
	}
	return NewText(s)
}

func parseTimeBytes(s string) (time.Time, bool) {
	for _, layout := range []string{timestampLayout, dateLayout, timeLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func timeFormatForCategory(c ColumnCategory) TimeFormat {
	if c == CategoryTemporal {
		return Timestamp
	}
	return DateTime
}

// ColumnDefinitions returns the result's column metadata. For a
// streaming Resultset this is only available once iteration has begun
// (the first Next call populates it from the live cursor).
func (r *Resultset) ColumnDefinitions() []ColumnDefinition {
	return r.defs
}

// Size returns the number of rows, for a buffered Resultset. Calling it
// on a streaming Resultset returns -1: the row count isn't known until
// exhaustion that streaming mode trades
// random access for O(1) memory.
func (r *Resultset) Size() int {
	if r.mode == modeStreaming {
		return -1
	}
	return len(r.buf)
}

// IsBuffered reports whether this Resultset was fully materialized.
func (r *Resultset) IsBuffered() bool { return r.mode == modeBuffered }

// Begin resets iteration to the first row (buffered mode only).
// Streaming mode has no rewind; calling Begin on one past the first
// Next is a no-op check that returns the BindingError, matching
// the "streaming cursors are forward-only" edge case.
func (r *Resultset) Begin() error {
	if r.mode == modeStreaming {
		if r.started {
			return newErr(KindBindingError, "streaming resultset cannot be rewound")
		}
		return r.Next()
	}
	r.pos = 0
	if len(r.buf) == 0 {
		r.pos = 0
	}
	return nil
}

// Reset restarts iteration from the first row. A buffered Resultset
// just rewinds its cursor back over the slice already in memory. A
// streaming Resultset has nothing to rewind, so it re-executes the
// backing query and starts iterating a fresh cursor; a Resultset built
// from a raw *sql.Rows with no owning query to rerun (newStreamingResultset
// called without one wired up) reports BindingError instead of silently
// no-op'ing.
func (r *Resultset) Reset(ctx context.Context) error {
	if r.mode == modeBuffered {
		r.pos = -1
		r.err = nil
		return nil
	}
	if r.requery == nil {
		return newErr(KindBindingError, "streaming resultset has no backing query to re-execute")
	}
	if !r.closed {
		if err := r.rows.Close(); err != nil {
			return wrapErr(KindDatabaseException, "closing cursor before reset failed", "", err)
		}
	}
	rows, err := r.requery(ctx)
	if err != nil {
		return wrapErr(KindDatabaseException, "re-executing query failed", "", err)
	}
	r.rows = rows
	r.closed = false
	r.started = false
	r.buf = nil
	r.pos = -1
	r.err = nil
	return nil
}

// End reports whether iteration has advanced past the last row.
func (r *Resultset) End() bool {
	if r.mode == modeStreaming {
		return r.closed
	}
	return r.pos >= len(r.buf)
}

// Next advances to the next row. Begin, End and CurrentRow remain for
// callers that want explicit cursor control, e.g. the single-row
// helpers in query builders.
func (r *Resultset) Next() error {
	if r.mode == modeBuffered {
		if r.pos < len(r.buf) {
			r.pos++
		}
		return nil
	}

	r.started = true
	if r.closed {
		return nil
	}
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			r.err = err
		}
		return r.closeStreaming()
	}
	if r.defs == nil {
		defs, err := columnDefinitionsOf(r.rows)
		if err != nil {
			r.closeStreaming()
			return wrapErr(KindDatabaseException, "reading column metadata failed", "", err)
		}
		r.defs = defs
	}
	row, err := scanRow(r.rows, r.defs)
	if err != nil {
		r.closeStreaming()
		return wrapErr(KindDatabaseException, "scanning row failed", "", err)
	}
	r.buf = []Row{row}
	return nil
}

func (r *Resultset) closeStreaming() error {
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.rows.Close()
	if r.onDone != nil {
		r.onDone()
	}
	if err != nil {
		return wrapErr(KindDatabaseException, "closing cursor failed", "", err)
	}
	return nil
}

// CurrentRow returns the row at the current cursor position.
// Dereferencing past the end returns RecordNotFound.
func (r *Resultset) CurrentRow() (Row, error) {
	if r.mode == modeBuffered {
		if r.pos < 0 || r.pos >= len(r.buf) {
			return Row{}, ErrRecordNotFound
		}
		return r.buf[r.pos], nil
	}
	if r.closed || len(r.buf) == 0 {
		return Row{}, ErrRecordNotFound
	}
	return r.buf[0], nil
}

// ForEach visits every remaining row, stopping early if fn returns an
// error.
func (r *Resultset) ForEach(fn func(Row) error) error {
	if r.mode == modeBuffered {
		start := r.pos
		if start < 0 {
			start = 0
		}
		for i := start; i < len(r.buf); i++ {
			if err := fn(r.buf[i]); err != nil {
				return err
			}
		}
		r.pos = len(r.buf)
		return nil
	}

	for {
		if err := r.Next(); err != nil {
			return err
		}
		if r.closed {
			return nil
		}
		row, err := r.CurrentRow()
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

// Close releases any underlying cursor. Safe to call more than once
// and safe to call on a buffered Resultset (a no-op there, since it
// holds no live cursor).
func (r *Resultset) Close() error {
	if r.mode == modeStreaming {
		return r.closeStreaming()
	}
	return nil
}

// Err returns the last row-iteration error observed, if any.
func (r *Resultset) Err() error { return r.err }
