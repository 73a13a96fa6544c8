package reldb

import "strings"

// PlaceholderStyle is the single syntactic family of parameter
// placeholders a backend accepts.
type PlaceholderStyle int

const (
	// StyleQuestion is SQLite/MySQL's bare "?" positional style.
	StyleQuestion PlaceholderStyle = iota
	// StyleDollar is PostgreSQL's "$N" positional style.
	StyleDollar
	// StyleNamed is SQLite's native "@name"/":name" style.
	StyleNamed
)

// LastInsertIDStrategy describes how a driver surfaces the identity of
// an inserted row.
type LastInsertIDStrategy int

const (
	// LastInsertIDNative uses sql.Result.LastInsertId() directly
	// (MySQL, SQLite).
	LastInsertIDNative LastInsertIDStrategy = iota
	// LastInsertIDReturning requires a RETURNING clause and reading
	// the value back from the result row (PostgreSQL).
	LastInsertIDReturning
)

// Capability is the static, per-driver capability record, made
// queryable rather than left as prose so Statement and the query
// builders can branch on it instead of a driver-name string switch.
type Capability struct {
	// Scheme is the URI scheme this capability record was registered
	// under (e.g. "postgres").
	Scheme string
	// Placeholder is the one placeholder style this backend's native
	// prepare call accepts.
	Placeholder PlaceholderStyle
	// NamedParamsNative is true when the backend accepts @name/:name
	// directly, without rewriting (only SQLite).
	NamedParamsNative bool
	// EnhancedParameterMapping enables the cross-style rewrite of
	// placeholders even on a NamedParamsNative backend, as the
	// params=enhanced URI option does; off by default for backends whose
	// native style already covers every spelling an application is
	// likely to use.
	EnhancedParameterMapping bool
	// BufferedResults is true when the backend can materialize a full
	// result client-side.
	BufferedResults bool
	// StreamingResults is true when the backend supports a
	// fetch-one-row-at-a-time cursor.
	StreamingResults bool
	// Savepoints is true when SAVEPOINT/RELEASE/ROLLBACK TO are
	// supported.
	Savepoints bool
	// LastInsertID is how this driver surfaces an inserted row's
	// identity.
	LastInsertID LastInsertIDStrategy
	// SupportsIsolationLevel is true when BEGIN accepts an ISOLATION
	// LEVEL qualifier.
	SupportsIsolationLevel bool
	// SupportsDeferrable is true when BEGIN accepts DEFERRABLE
	// (PostgreSQL only, meaningful only with Serializable+ReadOnly).
	SupportsDeferrable bool
	// QuoteIdentifier escapes a SQL identifier (table/column name) for
	// this backend.
	QuoteIdentifier func(name string) string
}

// QuoteDoubleIdentifier escapes an identifier with doubled
// double-quotes, shared by SQLite and PostgreSQL. Exported so each
// drivers/<backend> package can build its Capability.QuoteIdentifier
// without duplicating the escaping rule.
func QuoteDoubleIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteBacktickIdentifier escapes an identifier with doubled
// backticks, MySQL's convention.
func QuoteBacktickIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
