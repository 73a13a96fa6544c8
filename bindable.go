package reldb

import "fmt"

// Bindable is the capability any object with positional and named
// parameter slots implements. Statement implements it by embedding a
// ParamTable rather than inheriting from a common base class. The query
// builders in package query do not implement it: they collect their
// Values in plain slices and hand them to a Statement's BindAll when
// they execute.
type Bindable interface {
	BindInt32(index int, v int32) error
	BindInt64(index int, v int64) error
	BindUint32(index int, v uint32) error
	BindUint64(index int, v uint64) error
	BindFloat32(index int, v float32) error
	BindFloat64(index int, v float64) error
	BindText(index int, v string) error
	BindWideText(index int, v []uint16) error
	BindBlob(index int, v []byte) error
	BindNull(index int) error
	BindTime(index int, v Value) error
	BindValue(index int, v Value) error
	BindNamed(name string, v Value) error
	BindList(values []Value, startIndex int) error
	BindMap(values map[string]Value) error
	BindAll(values ...Value) error
}

// ParamTable is the shared implementation of Bindable: a positional
// slot → current Value map plus a separate named-slot map, reduced to
// plain composition: Statement embeds one and gets its Bind* methods
// from it.
//
// Rebinding the same index replaces the previous value; Go's garbage
// collector makes freeing any previously owned storage automatic once
// the old Value is no longer referenced.
type ParamTable struct {
	positional map[int]Value
	named      map[string]Value
}

// NewParamTable returns an empty ParamTable ready to bind into.
func NewParamTable() *ParamTable {
	return &ParamTable{
		positional: make(map[int]Value),
		named:      make(map[string]Value),
	}
}

func (p *ParamTable) set(index int, v Value) error {
	if index < 1 {
		return newErr(KindBindingError, fmt.Sprintf("bind index %d is not >= 1", index))
	}
	p.positional[index] = v
	return nil
}

func (p *ParamTable) BindInt32(index int, v int32) error   { return p.set(index, NewInt64(int64(v))) }
func (p *ParamTable) BindInt64(index int, v int64) error   { return p.set(index, NewInt64(v)) }
func (p *ParamTable) BindUint32(index int, v uint32) error { return p.set(index, NewUint64(uint64(v))) }
func (p *ParamTable) BindUint64(index int, v uint64) error { return p.set(index, NewUint64(v)) }
func (p *ParamTable) BindFloat32(index int, v float32) error {
	return p.set(index, NewFloat64(float64(v)))
}
func (p *ParamTable) BindFloat64(index int, v float64) error { return p.set(index, NewFloat64(v)) }
func (p *ParamTable) BindText(index int, v string) error     { return p.set(index, NewText(v)) }
func (p *ParamTable) BindWideText(index int, v []uint16) error {
	return p.set(index, NewWideText(v))
}
func (p *ParamTable) BindBlob(index int, v []byte) error { return p.set(index, NewBlob(v)) }
func (p *ParamTable) BindNull(index int) error           { return p.set(index, NewNull()) }
func (p *ParamTable) BindTime(index int, v Value) error {
	if v.Kind() != KindTime {
		return newErr(KindBindingError, "BindTime requires a Time Value")
	}
	return p.set(index, v)
}

// BindValue stores the Value as-is. No 32-vs-64-bit narrowing happens
// here or later: at execute time statement.go's driverArg passes
// integers as int64/uint64 and reals as float64 whatever their size.
func (p *ParamTable) BindValue(index int, v Value) error {
	return p.set(index, v)
}

func (p *ParamTable) BindNamed(name string, v Value) error {
	if name == "" {
		return newErr(KindBindingError, "bind name must not be empty")
	}
	p.named[name] = v
	return nil
}

// BindList bulk-binds values positionally starting at startIndex
// (default 1).
func (p *ParamTable) BindList(values []Value, startIndex int) error {
	if startIndex < 1 {
		startIndex = 1
	}
	for i, v := range values {
		if err := p.set(startIndex+i, v); err != nil {
			return err
		}
	}
	return nil
}

// BindMap bulk-binds a map of named parameters.
func (p *ParamTable) BindMap(values map[string]Value) error {
	for name, v := range values {
		if err := p.BindNamed(name, v); err != nil {
			return err
		}
	}
	return nil
}

// BindAll binds a variadic positional list starting at index 1.
func (p *ParamTable) BindAll(values ...Value) error {
	return p.BindList(values, 1)
}

// Positional returns the current index→Value map. Sparse indices are
// permitted; MaxIndex reports the highest bound index so callers can
// fill the gaps with Null at execute time, since unbound positions are
// treated as Null.
func (p *ParamTable) Positional() map[int]Value {
	return p.positional
}

// Named returns the current name→Value map.
func (p *ParamTable) Named() map[string]Value {
	return p.named
}

// MaxIndex returns the highest bound positional index, or 0 if none are
// bound.
func (p *ParamTable) MaxIndex() int {
	max := 0
	for idx := range p.positional {
		if idx > max {
			max = idx
		}
	}
	return max
}

// Reset clears all bound values. Statement.Reset does not call it: a
// reset Statement keeps its bindings.
func (p *ParamTable) Reset() {
	p.positional = make(map[int]Value)
	p.named = make(map[string]Value)
}

// Clone returns a deep-enough copy (Value is a value type, so a map
// copy suffices) for use by query builders that need to snapshot
// bindings without aliasing the original table.
func (p *ParamTable) Clone() *ParamTable {
	c := NewParamTable()
	for k, v := range p.positional {
		c.positional[k] = v
	}
	for k, v := range p.named {
		c.named[k] = v
	}
	return c
}
