package query

import reldb "github.com/arcflow-io/reldb"

// questionCapability is a "?"-only, non-named Capability fixture
// (MySQL-shaped), used by this package's own builder tests.
func questionCapability() reldb.Capability {
	return reldb.Capability{
		Scheme:            "mysql",
		Placeholder:       reldb.StyleQuestion,
		NamedParamsNative: false,
		BufferedResults:   true,
		StreamingResults:  true,
		Savepoints:        true,
		LastInsertID:      reldb.LastInsertIDNative,
		QuoteIdentifier:   reldb.QuoteBacktickIdentifier,
	}
}

// dollarCapability is a "$N"-only Capability fixture (PostgreSQL-shaped).
func dollarCapability() reldb.Capability {
	return reldb.Capability{
		Scheme:                 "postgres",
		Placeholder:            reldb.StyleDollar,
		NamedParamsNative:      false,
		BufferedResults:        true,
		StreamingResults:       true,
		Savepoints:             true,
		LastInsertID:           reldb.LastInsertIDReturning,
		SupportsIsolationLevel: true,
		SupportsDeferrable:     true,
		QuoteIdentifier:        reldb.QuoteDoubleIdentifier,
	}
}
