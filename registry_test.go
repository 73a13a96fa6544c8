package reldb

import (
	"context"
	"database/sql"
	"testing"
)

type fakeDriver struct{}

func (fakeDriver) Capabilities() Capability { return Capability{Scheme: "faketest"} }
func (fakeDriver) Connect(uri URI) (*sql.DB, error) {
	return nil, newErr(KindConnectionRefused, "fakeDriver never actually dials")
}
func (fakeDriver) QuerySchema(ctx context.Context, db *sql.DB, database, table string) ([]ColumnDefinition, error) {
	return nil, nil
}

func TestRegisterAndLookupDriver(t *testing.T) {
	RegisterDriver("faketest", fakeDriver{})
	d, ok := lookupDriver("faketest")
	if !ok {
		t.Fatal("lookupDriver should find a just-registered scheme")
	}
	if d.Capabilities().Scheme != "faketest" {
		t.Errorf("Capabilities().Scheme = %q, want faketest", d.Capabilities().Scheme)
	}

	found := false
	for _, s := range RegisteredSchemes() {
		if s == "faketest" {
			found = true
		}
	}
	if !found {
		t.Error("RegisteredSchemes should include a registered scheme")
	}
}

func TestRegisterDriverOverwritesPriorFactory(t *testing.T) {
	RegisterDriver("faketest2", fakeDriver{})
	RegisterDriver("faketest2", fakeDriver{})
	if _, ok := lookupDriver("faketest2"); !ok {
		t.Fatal("second registration should still be retrievable")
	}
}

func TestOpenUnknownSchemeFails(t *testing.T) {
	_, err := Open("doesnotexist://host/db")
	if err == nil {
		t.Fatal("Open with an unregistered scheme should fail")
	}
	if !IsKind(err, KindUnknownScheme) {
		t.Errorf("expected KindUnknownScheme, got %v", err)
	}
}
