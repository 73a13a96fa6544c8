package reldb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

type sqlmockDriver struct {
	db   *sql.DB
	capa Capability
}

func (d sqlmockDriver) Capabilities() Capability { return d.capa }
func (d sqlmockDriver) Connect(uri URI) (*sql.DB, error) {
	return d.db, nil
}
func (d sqlmockDriver) QuerySchema(ctx context.Context, db *sql.DB, database, table string) ([]ColumnDefinition, error) {
	return nil, nil
}

func TestOpenAppliesOptionsOverQueryString(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	RegisterDriver("sqlmocktest", sqlmockDriver{db: db, capa: questionCapability()})

	s, err := Open("sqlmocktest://host/db?timeout=1000", WithTimeout(9*time.Second))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if !s.IsOpen() {
		t.Fatal("Session should be open after Open")
	}
	if s.cfg.Timeout != 9*time.Second {
		t.Errorf("Option should override the URI's timeout=, got %v", s.cfg.Timeout)
	}
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	mock.ExpectClose()

	RegisterDriver("sqlmocktest2", sqlmockDriver{db: db, capa: questionCapability()})
	s, err := Open("sqlmocktest2://host/db")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if s.IsOpen() {
		t.Error("Session should report closed after Close")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got: %v", err)
	}
}

func TestSessionAcquireRejectsConcurrentUse(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := newTestSession(db, questionCapability())
	if err := s.acquire(); err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	if err := s.acquire(); err == nil {
		t.Fatal("second concurrent acquire should fail")
	} else if !IsKind(err, KindConcurrentUse) {
		t.Errorf("expected KindConcurrentUse, got %v", err)
	}
	s.release()
	if err := s.acquire(); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
}
