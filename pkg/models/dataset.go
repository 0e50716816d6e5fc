package models

import (
	"fmt"
	"math/rand"
	"strconv"
)

// ColumnKind classifies a column as numeric or categorical. The kind is
// always inferred from the original dataset; synthetic values are coerced
// to match.
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// ValueKind discriminates the variants of a cell value.
type ValueKind uint8

const (
	ValueMissing ValueKind = iota
	ValueNumber
	ValueText
)

// Value is a single cell: a number, a piece of text, or missing.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
}

// Missing returns the missing value.
func Missing() Value {
	return Value{Kind: ValueMissing}
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{Kind: ValueNumber, Num: f}
}

// Text returns a textual value.
func Text(s string) Value {
	return Value{Kind: ValueText, Str: s}
}

// IsMissing reports whether the value is absent.
func (v Value) IsMissing() bool {
	return v.Kind == ValueMissing
}

// AsNumber returns the numeric form of the value. Text values do not
// coerce; a numeric column treats them as missing.
func (v Value) AsNumber() (float64, bool) {
	if v.Kind == ValueNumber {
		return v.Num, true
	}
	return 0, false
}

// AsString returns the textual form of the value. Numbers coerce to their
// shortest round-trip representation so a categorical column can absorb
// numeric synthetic cells.
func (v Value) AsString() (string, bool) {
	switch v.Kind {
	case ValueText:
		return v.Str, true
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64), true
	default:
		return "", false
	}
}

// Column is a named, ordered sequence of values.
type Column struct {
	Name   string
	Values []Value
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	return len(c.Values)
}

// InferKind infers the column kind: numeric when every non-missing value
// is a number and at least one number is present, categorical otherwise.
func (c *Column) InferKind() ColumnKind {
	numbers := 0
	for _, v := range c.Values {
		switch v.Kind {
		case ValueText:
			return KindCategorical
		case ValueNumber:
			numbers++
		}
	}
	if numbers == 0 {
		return KindCategorical
	}
	return KindNumeric
}

// Dataset is an ordered collection of equal-length columns. Datasets are
// immutable once built; every transformation produces a new dataset.
type Dataset struct {
	columns []Column
	index   map[string]int
}

// NewDataset builds a dataset from columns. Column names must be unique
// and all columns must have the same length.
func NewDataset(columns []Column) (*Dataset, error) {
	index := make(map[string]int, len(columns))
	rows := -1
	for i, col := range columns {
		if _, dup := index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", col.Name)
		}
		index[col.Name] = i
		if rows == -1 {
			rows = len(col.Values)
		} else if len(col.Values) != rows {
			return nil, fmt.Errorf("column %q has %d values, want %d", col.Name, len(col.Values), rows)
		}
	}
	return &Dataset{columns: columns, index: index}, nil
}

// NumRows returns the number of records.
func (d *Dataset) NumRows() int {
	if len(d.columns) == 0 {
		return 0
	}
	return len(d.columns[0].Values)
}

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int {
	return len(d.columns)
}

// ColumnNames returns the column names in dataset order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}
	return names
}

// Column returns the named column.
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return &d.columns[i], true
}

// HasColumn reports whether the dataset contains the named column.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Subset returns a new dataset containing the given rows, in order.
func (d *Dataset) Subset(rows []int) *Dataset {
	columns := make([]Column, len(d.columns))
	for i, col := range d.columns {
		values := make([]Value, len(rows))
		for j, r := range rows {
			values[j] = col.Values[r]
		}
		columns[i] = Column{Name: col.Name, Values: values}
	}
	out, _ := NewDataset(columns)
	return out
}

// Sample returns a uniform random subsample of n rows without
// replacement. When the dataset has n rows or fewer it is returned
// unchanged.
func (d *Dataset) Sample(n int, rng *rand.Rand) *Dataset {
	if n >= d.NumRows() {
		return d
	}
	rows := rng.Perm(d.NumRows())[:n]
	return d.Subset(rows)
}
