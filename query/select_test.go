package query

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	reldb "github.com/arcflow-io/reldb"
)

func TestSelectQueryString(t *testing.T) {
	q := Select("id", "name").From("users").
		Join(JoinLeft, "orders", "orders.user_id = users.id").
		Where(NewWhere().And("active = ?", reldb.NewBool(true))).
		GroupBy("users.id").
		OrderBy("name", false).
		Limit(10, 5)

	want := "SELECT id, name FROM users LEFT JOIN orders ON orders.user_id = users.id " +
		"WHERE active = ? GROUP BY users.id ORDER BY name ASC LIMIT 10 OFFSET 5"
	if q.String() != want {
		t.Errorf("String() = %q, want %q", q.String(), want)
	}
}

func TestSelectQueryDefaultsToStar(t *testing.T) {
	q := Select().From("t")
	want := "SELECT * FROM t"
	if q.String() != want {
		t.Errorf("String() = %q, want %q", q.String(), want)
	}
}

func TestSelectQueryIsValidRequiresTable(t *testing.T) {
	q := Select("id")
	if q.IsValid() {
		t.Error("a select with no From() table should be invalid")
	}
	q.From("t")
	if !q.IsValid() {
		t.Error("a select with a From() table should be valid")
	}
}

func TestSelectQueryExecute(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectPrepare(`SELECT id, name FROM users WHERE id = \?`).
		ExpectQuery().
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "ada"))

	s := reldb.NewSession(db, questionCapability())
	q := Select("id", "name").From("users").Where(NewWhere().And("id = ?", reldb.NewInt64(1)))
	rs, err := q.Execute(context.Background(), s)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	defer rs.Close()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSelectQueryExecuteInvalid(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := reldb.NewSession(db, questionCapability())
	q := Select("id") // no From()
	if _, err := q.Execute(context.Background(), s); err == nil {
		t.Fatal("Execute on an invalid select should fail")
	} else if !reldb.IsKind(err, reldb.KindInvalidQuery) {
		t.Errorf("expected KindInvalidQuery, got %v", err)
	}
}
