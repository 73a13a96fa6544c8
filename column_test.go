package reldb

import "testing"

func TestCategoryFromSQLType(t *testing.T) {
	cases := map[string]ColumnCategory{
		"INTEGER":          CategoryInteger,
		"BIGINT":           CategoryInteger,
		"TINYINT":          CategoryInteger,
		"SERIAL":           CategoryInteger,
		"REAL":             CategoryReal,
		"DOUBLE PRECISION": CategoryReal,
		"NUMERIC(10,2)":    CategoryReal,
		"VARCHAR(255)":     CategoryText,
		"TEXT":             CategoryText,
		"JSONB":            CategoryText,
		"BLOB":             CategoryBlob,
		"BYTEA":            CategoryBlob,
		"TIMESTAMP":        CategoryTemporal,
		"DATE":             CategoryTemporal,
		"BOOLEAN":          CategoryBool,
		"MONEY":            CategoryUnknown,
	}
	for sqlType, want := range cases {
		if got := CategoryFromSQLType(sqlType); got != want {
			t.Errorf("CategoryFromSQLType(%q) = %s, want %s", sqlType, got, want)
		}
	}
}

func TestColumnCategoryStringIsStable(t *testing.T) {
	cases := map[ColumnCategory]string{
		CategoryUnknown:  "unknown",
		CategoryInteger:  "integer",
		CategoryReal:     "real",
		CategoryText:     "text",
		CategoryBlob:     "blob",
		CategoryTemporal: "temporal",
		CategoryBool:     "bool",
	}
	for c, want := range cases {
		if got := c.String(); got != want {
			t.Errorf("Category(%d).String() = %q, want %q", c, got, want)
		}
	}
}
