package query

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	reldb "github.com/arcflow-io/reldb"
)

func TestUpdateQueryStringAndArgOrder(t *testing.T) {
	q := Update("users").
		Set("name", reldb.NewText("ada")).
		Set("age", reldb.NewInt64(31)).
		Where(NewWhere().And("id = ?", reldb.NewInt64(9)))

	want := "UPDATE users SET name = ?, age = ? WHERE id = ?"
	if q.String() != want {
		t.Errorf("String() = %q, want %q", q.String(), want)
	}
	args := q.args()
	if len(args) != 3 {
		t.Fatalf("args() len = %d, want 3", len(args))
	}
	// SET values must precede WHERE args, in positional order.
	if v, _ := args[0].ToText(); v != "ada" {
		t.Errorf("args[0] = %v, want ada", args[0])
	}
	if v, _ := args[2].ToInt64(); v != 9 {
		t.Errorf("args[2] = %v, want 9 (WHERE value last)", args[2])
	}
}

func TestUpdateQueryIsValidRequiresColumns(t *testing.T) {
	q := Update("users")
	if q.IsValid() {
		t.Error("update with no Set() calls should be invalid")
	}
}

func TestUpdateQueryExecute(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectPrepare(`UPDATE users SET name = \? WHERE id = \?`).
		ExpectExec().
		WithArgs("grace", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s := reldb.NewSession(db, questionCapability())
	q := Update("users").Set("name", reldb.NewText("grace")).Where(NewWhere().And("id = ?", reldb.NewInt64(3)))
	n, err := q.Execute(context.Background(), s)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if n != 1 {
		t.Errorf("rows affected = %d, want 1", n)
	}
}
