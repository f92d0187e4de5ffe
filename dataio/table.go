package dataio

import (
	"fmt"
	"math"
	"sort"
)

// SpecIDColumn identifies the spectrum a result row belongs to.
const SpecIDColumn = "spec_id"

// Table is a column-named numeric table, the in-memory form of fit results.
type Table struct {
	Columns []string
	Rows    [][]float64
	index   map[string]int
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) *Table {
	t := &Table{}
	for _, c := range columns {
		t.addColumn(c)
	}
	return t
}

func (t *Table) ensureIndex() {
	if t.index != nil && len(t.index) == len(t.Columns) {
		return
	}
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c] = i
	}
}

func (t *Table) addColumn(name string) int {
	t.ensureIndex()
	if i, ok := t.index[name]; ok {
		return i
	}
	t.Columns = append(t.Columns, name)
	t.index[name] = len(t.Columns) - 1
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], math.NaN())
	}
	return len(t.Columns) - 1
}

// HasColumn reports whether the column exists.
func (t *Table) HasColumn(name string) bool {
	t.ensureIndex()
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Append adds a row. Columns missing from values are NaN; unknown keys
// become new columns, added in sorted order.
func (t *Table) Append(values map[string]float64) {
	var extra []string
	t.ensureIndex()
	for k := range values {
		if _, ok := t.index[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		t.addColumn(k)
	}

	row := make([]float64, len(t.Columns))
	for i, c := range t.Columns {
		v, ok := values[c]
		if !ok {
			v = math.NaN()
		}
		row[i] = v
	}
	t.Rows = append(t.Rows, row)
}

// AppendRow adds a row given in column order.
func (t *Table) AppendRow(row []float64) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("%w: row has %d values, table has %d columns", ErrShape, len(row), len(t.Columns))
	}
	cp := make([]float64, len(row))
	copy(cp, row)
	t.Rows = append(t.Rows, cp)
	return nil
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	t.ensureIndex()
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	out := make([]float64, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// Record returns row r as a column → value map.
func (t *Table) Record(r int) map[string]float64 {
	out := make(map[string]float64, len(t.Columns))
	for i, c := range t.Columns {
		out[c] = t.Rows[r][i]
	}
	return out
}

// SortBy orders rows ascending by the named column.
func (t *Table) SortBy(name string) error {
	t.ensureIndex()
	i, ok := t.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	sort.SliceStable(t.Rows, func(a, b int) bool { return t.Rows[a][i] < t.Rows[b][i] })
	return nil
}

// ToDict reshapes every column to shape.
func (t *Table) ToDict(shape ...int) (map[string]Array, error) {
	out := make(map[string]Array, len(t.Columns))
	for _, c := range t.Columns {
		col, _ := t.Column(c)
		a, err := Vector(col).Reshape(shape...)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c, err)
		}
		out[c] = a
	}
	return out, nil
}
