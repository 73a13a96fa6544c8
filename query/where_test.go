package query

import (
	"testing"

	reldb "github.com/arcflow-io/reldb"
)

func TestWhereClauseAndOr(t *testing.T) {
	w := NewWhere().And("age > ?", reldb.NewInt64(18)).Or("admin = ?", reldb.NewBool(true))
	want := "age > ? OR admin = ?"
	if w.String() != want {
		t.Errorf("String() = %q, want %q", w.String(), want)
	}
	if len(w.Args()) != 2 {
		t.Fatalf("Args() len = %d, want 2", len(w.Args()))
	}
	if !w.IsValid() {
		t.Error("non-empty balanced clause should be valid")
	}
}

func TestWhereClauseGroup(t *testing.T) {
	w := NewWhere().
		And("status = ?", reldb.NewText("active")).
		AndGroup(func(inner *WhereClause) {
			inner.And("a = ?", reldb.NewInt64(1)).Or("b = ?", reldb.NewInt64(2))
		})
	want := "status = ? AND (a = ? OR b = ?)"
	if w.String() != want {
		t.Errorf("String() = %q, want %q", w.String(), want)
	}
	if len(w.Args()) != 3 {
		t.Errorf("Args() len = %d, want 3", len(w.Args()))
	}
}

func TestWhereClauseEmptyIsInvalid(t *testing.T) {
	w := NewWhere()
	if w.IsValid() {
		t.Error("empty clause must be invalid")
	}
}

func TestWhereClauseUnbalancedParensIsInvalid(t *testing.T) {
	w := &WhereClause{sql: "(a = 1"}
	if w.IsValid() {
		t.Error("unbalanced parens should be invalid")
	}
}
