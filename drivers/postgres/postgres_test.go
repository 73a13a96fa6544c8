package postgres

import (
	"testing"

	reldb "github.com/arcflow-io/reldb"
)

func TestCapabilities(t *testing.T) {
	capa := driver{}.Capabilities()
	if capa.Scheme != "postgres" {
		t.Errorf("Scheme = %q, want postgres", capa.Scheme)
	}
	if capa.Placeholder != reldb.StyleDollar {
		t.Error("postgres accepts only the '$N' placeholder style")
	}
	if capa.NamedParamsNative {
		t.Error("postgres has no native named-parameter support")
	}
	if !capa.StreamingResults {
		t.Error("postgres supports streaming results")
	}
	if !capa.Savepoints {
		t.Error("postgres supports SAVEPOINT")
	}
	if capa.LastInsertID != reldb.LastInsertIDReturning {
		t.Error("postgres surfaces last_insert_id via RETURNING, not LastInsertId")
	}
	if !capa.SupportsIsolationLevel {
		t.Error("postgres supports SET TRANSACTION ISOLATION LEVEL")
	}
	if !capa.SupportsDeferrable {
		t.Error("postgres supports DEFERRABLE")
	}
	if capa.QuoteIdentifier("a\"b") != `"a""b"` {
		t.Errorf("QuoteIdentifier = %q, want doubled double-quotes", capa.QuoteIdentifier("a\"b"))
	}
}

func TestDefaultPort(t *testing.T) {
	if got := defaultPort(""); got != "5432" {
		t.Errorf("defaultPort(\"\") = %q, want 5432", got)
	}
	if got := defaultPort("6543"); got != "6543" {
		t.Errorf("defaultPort(\"6543\") = %q, want 6543", got)
	}
}

func TestConnectBuildsDSN(t *testing.T) {
	uri := reldb.URI{Scheme: "postgres", User: "app", Password: "secret", Host: "db.internal", Database: "appdb"}
	db, err := driver{}.Connect(uri)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer db.Close()
}
