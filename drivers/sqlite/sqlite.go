// Package sqlite registers the "sqlite" and "file" URI schemes with the
// core driver registry, backed by github.com/mattn/go-sqlite3.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	reldb "github.com/arcflow-io/reldb"
)

func init() {
	d := driver{}
	reldb.RegisterDriver("sqlite", d)
	reldb.RegisterDriver("file", d)
}

type driver struct{}

// Capabilities returns SQLite's capability record: native
// ?/:name/@name placeholders, buffered-only results, native
// savepoints, and LastInsertId() support.
func (driver) Capabilities() reldb.Capability {
	return reldb.Capability{
		Scheme:                 "sqlite",
		Placeholder:            reldb.StyleQuestion,
		NamedParamsNative:      true,
		BufferedResults:        true,
		StreamingResults:       false,
		Savepoints:             true,
		LastInsertID:           reldb.LastInsertIDNative,
		SupportsIsolationLevel: false,
		SupportsDeferrable:     false,
		QuoteIdentifier:        reldb.QuoteDoubleIdentifier,
	}
}

// Connect opens the SQLite file named by uri.Database. The "file"
// scheme and the "sqlite" scheme both land here; ParseURI has already
// resolved the path for either spelling.
func (driver) Connect(uri reldb.URI) (*sql.DB, error) {
	dsn := uri.Database
	if dsn == "" {
		return nil, fmt.Errorf("sqlite: empty database path")
	}
	return sql.Open("sqlite3", dsn)
}

// QuerySchema lists table's columns via PRAGMA table_info, the
// SQLite-native equivalent of information_schema.columns. The database
// argument is accepted for interface symmetry with the other drivers
// but unused: SQLite has no separate database namespace to select
// within a single file connection.
func (driver) QuerySchema(ctx context.Context, db *sql.DB, database, table string) ([]reldb.ColumnDefinition, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", reldb.QuoteDoubleIdentifier(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []reldb.ColumnDefinition
	for rows.Next() {
		var (
			cid        int
			name       string
			declType   string
			notNull    int
			defaultVal any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &declType, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		defs = append(defs, reldb.ColumnDefinition{
			Name:     name,
			Ordinal:  cid,
			SQLType:  strings.ToUpper(declType),
			Category: reldb.CategoryFromSQLType(declType),
			Nullable: notNull == 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return defs, nil
}
