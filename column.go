package reldb

import "strings"

// ColumnCategory is the backend-neutral category a declared SQL type
// maps to, used where a driver's native type tag isn't meaningful
// across backends (e.g. choosing a Go scan target).
type ColumnCategory int

const (
	CategoryUnknown ColumnCategory = iota
	CategoryInteger
	CategoryReal
	CategoryText
	CategoryBlob
	CategoryTemporal
	CategoryBool
)

func (c ColumnCategory) String() string {
	switch c {
	case CategoryInteger:
		return "integer"
	case CategoryReal:
		return "real"
	case CategoryText:
		return "text"
	case CategoryBlob:
		return "blob"
	case CategoryTemporal:
		return "temporal"
	case CategoryBool:
		return "bool"
	default:
		return "unknown"
	}
}

// ColumnDefinition describes one column of a query result or a schema
// entry returned by Session.QuerySchema. SQLType is the backend's own
// opaque type tag (e.g. a database/sql *sql.ColumnType DatabaseTypeName,
// or a PRAGMA table_info declared type string); Category is the
// backend-neutral classification of it.
type ColumnDefinition struct {
	Name     string
	Ordinal  int
	SQLType  string
	Category ColumnCategory
	Nullable bool
}

// CategoryFromSQLType classifies a backend's declared type name into a
// ColumnCategory, using the same case-insensitive substring matching
// every SQL backend's type-name conventions share (INTEGER/INT/BIGINT,
// VARCHAR/TEXT/CHAR, etc). Unknown names map to CategoryUnknown; the
// Resultset layer then falls back to Text if the backend offered a
// textual representation. Exported so each
// drivers/<backend> package can classify the type names its own
// QuerySchema query returns (PRAGMA table_info, information_schema.columns)
// with the same rule Resultset uses for live query results.
func CategoryFromSQLType(sqlType string) ColumnCategory {
	t := strings.ToLower(sqlType)
	switch {
	case containsAny(t, "int", "serial", "bigint", "smallint", "tinyint"):
		return CategoryInteger
	case containsAny(t, "real", "double", "float", "numeric", "decimal"):
		return CategoryReal
	case containsAny(t, "char", "text", "clob", "json", "uuid", "xml", "enum"):
		return CategoryText
	case containsAny(t, "blob", "binary", "bytea", "varbinary"):
		return CategoryBlob
	case containsAny(t, "date", "time", "timestamp"):
		return CategoryTemporal
	case containsAny(t, "bool"):
		return CategoryBool
	default:
		return CategoryUnknown
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
