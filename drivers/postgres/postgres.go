// Package postgres registers the "postgres" URI scheme with the core
// driver registry, backed by github.com/jackc/pgx/v5 in its
// database/sql compatibility mode (stdlib.Register).
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib"

	reldb "github.com/arcflow-io/reldb"
)

func init() {
	reldb.RegisterDriver("postgres", driver{})
}

type driver struct{}

// Capabilities returns PostgreSQL's capability record: "$N"-only
// placeholders (?/named forms rewritten), buffered and streaming
// results, native savepoints, last_insert_id via RETURNING, and support
// for both isolation levels and DEFERRABLE.
func (driver) Capabilities() reldb.Capability {
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

// Connect builds a libpq-style DSN from uri and opens it through
// pgx/v5's stdlib compatibility shim, registered under the driver name
// "pgx".
func (driver) Connect(uri reldb.URI) (*sql.DB, error) {
	q := url.Values{}
	if uri.SSLOption() != "" {
		q.Set("sslmode", uri.SSLOption())
	} else {
		q.Set("sslmode", "disable")
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(uri.User, uri.Password),
		Host:     fmt.Sprintf("%s:%s", uri.Host, defaultPort(uri.Port)),
		Path:     "/" + uri.Database,
		RawQuery: q.Encode(),
	}
	return sql.Open("pgx", u.String())
}

func defaultPort(port string) string {
	if port == "" {
		return "5432"
	}
	return port
}

// QuerySchema lists table's columns via information_schema.columns.
func (driver) QuerySchema(ctx context.Context, db *sql.DB, database, table string) ([]reldb.ColumnDefinition, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT column_name, ordinal_position, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_catalog = $1 AND table_name = $2
		ORDER BY ordinal_position`, database, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []reldb.ColumnDefinition
	for rows.Next() {
		var (
			name     string
			ordinal  int
			dataType string
			nullable string
		)
		if err := rows.Scan(&name, &ordinal, &dataType, &nullable); err != nil {
			return nil, err
		}
		defs = append(defs, reldb.ColumnDefinition{
			Name:     name,
			Ordinal:  ordinal - 1,
			SQLType:  dataType,
			Category: reldb.CategoryFromSQLType(dataType),
			Nullable: nullable == "YES",
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return defs, nil
}
