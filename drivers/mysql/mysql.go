// Package mysql registers the "mysql" URI scheme with the core driver
// registry, backed by github.com/go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"

	reldb "github.com/arcflow-io/reldb"
)

func init() {
	reldb.RegisterDriver("mysql", driver{})
}

type driver struct{}

// Capabilities returns MySQL's capability record: "?"-only placeholders
// (names are rewritten), buffered and streaming results, native
// savepoints, and LastInsertId() support (no RETURNING).
func (driver) Capabilities() reldb.Capability {
	return reldb.Capability{
		Scheme:                 "mysql",
		Placeholder:            reldb.StyleQuestion,
		NamedParamsNative:      false,
		BufferedResults:        true,
		StreamingResults:       true,
		Savepoints:             true,
		LastInsertID:           reldb.LastInsertIDNative,
		SupportsIsolationLevel: true,
		SupportsDeferrable:     false,
		QuoteIdentifier:        reldb.QuoteBacktickIdentifier,
	}
}

// Connect builds a go-sql-driver/mysql DSN from uri and opens it. TLS
// and charset map from the ssl=/charset= query options.
func (driver) Connect(uri reldb.URI) (*sql.DB, error) {
	cfg := mysqldriver.NewConfig()
	cfg.User = uri.User
	cfg.Passwd = uri.Password
	cfg.Net = "tcp"
	host := uri.Host
	if uri.Port != "" {
		host = fmt.Sprintf("%s:%s", uri.Host, uri.Port)
	} else {
		host = fmt.Sprintf("%s:3306", uri.Host)
	}
	cfg.Addr = host
	cfg.DBName = uri.Database
	cfg.ParseTime = true
	if uri.Charset() != "" {
		cfg.Params = map[string]string{"charset": uri.Charset()}
	}
	if uri.SSLOption() == "require" {
		cfg.TLSConfig = "true"
	}

	return sql.Open("mysql", cfg.FormatDSN())
}

// QuerySchema lists table's columns via information_schema.columns.
func (driver) QuerySchema(ctx context.Context, db *sql.DB, database, table string) ([]reldb.ColumnDefinition, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT column_name, ordinal_position, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
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
