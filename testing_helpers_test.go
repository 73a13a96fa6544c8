package reldb

import "database/sql"

// newTestSession wraps an already-open *sql.DB (typically from
// sqlmock.New()) into an open Session carrying capa, for tests that
// need a Session/Statement/Transaction without a real network backend.
// A thin wrapper over the public NewSession, kept so this package's own
// tests don't depend on their position relative to session.go.
func newTestSession(db *sql.DB, capa Capability) *Session {
	return NewSession(db, capa)
}

// questionCapability is a Capability stand-in for a "?"-only, non-named
// backend (MySQL-shaped), used by tests that exercise parameter
// rewriting.
func questionCapability() Capability {
	return Capability{
		Scheme:                 "mysql",
		Placeholder:            StyleQuestion,
		NamedParamsNative:      false,
		BufferedResults:        true,
		StreamingResults:       true,
		Savepoints:             true,
		LastInsertID:           LastInsertIDNative,
		SupportsIsolationLevel: true,
		QuoteIdentifier:        QuoteBacktickIdentifier,
	}
}

// dollarCapability is a Capability stand-in for a "$N"-only backend
// (PostgreSQL-shaped).
func dollarCapability() Capability {
	return Capability{
		Scheme:                 "postgres",
		Placeholder:            StyleDollar,
		NamedParamsNative:      false,
		BufferedResults:        true,
		StreamingResults:       true,
		Savepoints:             true,
		LastInsertID:           LastInsertIDReturning,
		SupportsIsolationLevel: true,
		SupportsDeferrable:     true,
		QuoteIdentifier:        QuoteDoubleIdentifier,
	}
}

// namedNativeCapability is a Capability stand-in for SQLite: native
// "?"/"@name"/":name" placeholders, no rewrite needed.
func namedNativeCapability() Capability {
	return Capability{
		Scheme:            "sqlite",
		Placeholder:       StyleQuestion,
		NamedParamsNative: true,
		BufferedResults:   true,
		Savepoints:        true,
		LastInsertID:      LastInsertIDNative,
		QuoteIdentifier:   QuoteDoubleIdentifier,
	}
}
