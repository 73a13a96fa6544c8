package reldb

import "fmt"

// Column is one cell of a Row: its definition and decoded Value. Column
// holds its data by value (Go has no destructor-driven ownership graph
// to model), so a Column obtained from Row.Column remains valid for as
// long as the caller keeps it, independent of subsequent Resultset
// iteration — satisfied by copying the snapshot rather than aliasing
// it.
type Column struct {
	def   ColumnDefinition
	value Value
	valid bool
}

// Name returns the column's name.
func (c Column) Name() string { return c.def.Name }

// ToValue returns the decoded Value. Backend→Value mapping for unknown
// declared types falls back to Text when a textual representation was
// available at scan time, else Null.
func (c Column) ToValue() Value { return c.value }

// SQLType returns the backend's own opaque type tag.
func (c Column) SQLType() string { return c.def.SQLType }

// Type returns the backend-neutral category.
func (c Column) Type() ColumnCategory { return c.def.Category }

// IsValid reports whether this Column was obtained from a live
// position (false for a Column obtained by indexing past Row.Size() or
// from a moved-from source).
func (c Column) IsValid() bool { return c.valid }

// Row is an ordered sequence of Columns indexed by ordinal, with lookup
// by name. Lookup by name is case-sensitive exact match; on ambiguity
// (duplicate column names, e.g. from a JOIN) it resolves to the lowest
// ordinal
type Row struct {
	columns []Column
}

// newRow builds a Row from parallel column definitions and decoded
// values; len(defs) must equal len(values).
func newRow(defs []ColumnDefinition, values []Value) Row {
	cols := make([]Column, len(defs))
	for i, d := range defs {
		cols[i] = Column{def: d, value: values[i], valid: true}
	}
	return Row{columns: cols}
}

// Size returns the column count.
func (r Row) Size() int { return len(r.columns) }

// Column returns the column at the given zero-based ordinal.
func (r Row) Column(index int) (Column, error) {
	if index < 0 || index >= len(r.columns) {
		return Column{}, wrapErr(KindNoSuchColumn, fmt.Sprintf("column ordinal %d out of range", index), "", nil)
	}
	return r.columns[index], nil
}

// ColumnByName looks up a column by exact name; on duplicate names
// returns the one with the lowest ordinal.
func (r Row) ColumnByName(name string) (Column, error) {
	for _, c := range r.columns {
		if c.def.Name == name {
			return c, nil
		}
	}
	return Column{}, wrapErr(KindNoSuchColumn, "no column named "+name, "", nil)
}

// ForEach calls fn for every column in ordinal order, stopping and
// returning the first error fn produces.
func (r Row) ForEach(fn func(Column) error) error {
	for _, c := range r.columns {
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}
