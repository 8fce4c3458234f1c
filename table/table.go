// ABOUTME: Columnar record table with fixed integer key columns and named attribute columns.
// ABOUTME: Backs the node and edge stores; all columns stay row-aligned through every operation.
package table

import (
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// keyColumn is a reserved fixed-position integer column (identities, endpoints).
type keyColumn struct {
	name string
	vals []int
}

// Table stores records as row-aligned columns: reserved integer key columns
// in fixed positions, then attribute columns in insertion order. Attribute
// cells are numeric, text, or missing (Null).
type Table struct {
	keys  []keyColumn
	names []string
	cols  map[string][]cty.Value
	rows  int
}

// New creates an empty table with the given reserved key column names.
func New(keys ...string) *Table {
	t := &Table{cols: make(map[string][]cty.Value)}
	for _, k := range keys {
		t.keys = append(t.keys, keyColumn{name: k})
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// KeyNames returns the reserved key column names in fixed position order.
func (t *Table) KeyNames() []string {
	names := make([]string, len(t.keys))
	for i, k := range t.keys {
		names[i] = k.name
	}
	return names
}

// Names returns the attribute column names in insertion order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// HasKey reports whether name is a reserved key column.
func (t *Table) HasKey(name string) bool {
	for _, k := range t.keys {
		if k.name == name {
			return true
		}
	}
	return false
}

// HasAttr reports whether name is an attribute column.
func (t *Table) HasAttr(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Has reports whether name is a key or attribute column.
func (t *Table) Has(name string) bool {
	return t.HasKey(name) || t.HasAttr(name)
}

// Key returns the values of a reserved key column. The slice is shared with
// the table; callers must treat it as read-only.
func (t *Table) Key(name string) ([]int, bool) {
	for i := range t.keys {
		if t.keys[i].name == name {
			return t.keys[i].vals, true
		}
	}
	return nil, false
}

// Column returns an attribute column's cells. The slice is shared with the
// table; callers must treat it as read-only.
func (t *Table) Column(name string) ([]cty.Value, error) {
	col, ok := t.cols[name]
	if !ok {
		return nil, &UnknownAttributeError{Attr: name}
	}
	return col, nil
}

/// Lookup resolves a column by name for row-wise evaluation: attribute columns
// come back as-is, key columns are materialized as numeric cells.
func (t *Table) Lookup(name string) ([]cty.Value, bool) {
	if col, ok := t.cols[name]; ok {
		return col, true
	}
	for i := range t.keys {
		if t.keys[i].name == name {
			vals := make([]cty.Value, len(t.keys[i].vals))
			for j, n := range t.keys[i].vals {
				vals[j] = Int(n)
			}
			return vals, true
		}
	}
	return nil, false
}

// SetColumn adds or overwrites an attribute column. The value count must
// match the row count exactly; key column names are rejected.
func (t *Table) SetColumn(name string, values []cty.Value) error {
	if t.HasKey(name) {
		return fmt.Errorf("column %q: %w", name, ErrReservedName)
	}
	if len(values) != t.rows {
		return &LengthMismatchError{Column: name, Want: t.rows, Got: len(values)}
	}
	col := make([]cty.Value, len(values))
	for i, v := range values {
		cell, err := normalizeCell(name, v)
		if err != nil {
			return err
		}
		col[i] = cell
	}
	if _, exists := t.cols[name]; !exists {
		t.names = append(t.names, name)
	}
	t.cols[name] = col
	return nil
}

// AppendRow adds one record. keyVals must supply one value per key column, in
// key position order. Attribute names not yet present create new columns
// backfilled with Null; existing columns not mentioned get Null for this row.
func (t *Table) AppendRow(keyVals []int, attrs map[string]cty.Value) error {
	if len(keyVals) != len(t.keys) {
		return fmt.Errorf("append row: want %d key values, got %d", len(t.keys), len(keyVals))
	}
	for name, v := range attrs {
		if t.HasKey(name) {
			return fmt.Errorf("column %q: %w", name, ErrReservedName)
		}
		if _, err := normalizeCell(name, v); err != nil {
			return err
		}
	}
	for i := range t.keys {
		t.keys[i].vals = append(t.keys[i].vals, keyVals[i])
	}
	for name := range attrs {
		if _, exists := t.cols[name]; !exists {
			t.names = append(t.names, name)
			t.cols[name] = nullColumn(t.rows)
		}
	}
	for _, name := range t.names {
		if v, ok := attrs[name]; ok {
			cell, _ := normalizeCell(name, v)
			t.cols[name] = append(t.cols[name], cell)
		} else {
			t.cols[name] = append(t.cols[name], Null)
		}
	}
	t.rows++
	return nil
}

// Cell reads one attribute cell.
func (t *Table) Cell(row int, name string) (cty.Value, error) {
	if row < 0 || row >= t.rows {
		return cty.NilVal, fmt.Errorf("row %d: %w", row, ErrRowRange)
	}
	col, ok := t.cols[name]
	if !ok {
		return cty.NilVal, &UnknownAttributeError{Attr: name}
	}
	return col[row], nil
}

// SetCell writes one attribute cell, creating the column (backfilled with
// Null) when it doesn't exist yet.
func (t *Table) SetCell(row int, name string, v cty.Value) error {
	if row < 0 || row >= t.rows {
		return fmt.Errorf("row %d: %w", row, ErrRowRange)
	}
	if t.HasKey(name) {
		return fmt.Errorf("column %q: %w", name, ErrReservedName)
	}
	cell, err := normalizeCell(name, v)
	if err != nil {
		return err
	}
	if _, exists := t.cols[name]; !exists {
		t.names = append(t.names, name)
		t.cols[name] = nullColumn(t.rows)
	}
	t.cols[name][row] = cell
	return nil
}

// FindKey returns the first row whose key column equals value.
func (t *Table) FindKey(name string, value int) (int, bool) {
	vals, ok := t.Key(name)
	if !ok {
		return 0, false
	}
	for i, v := range vals {
		if v == value {
			return i, true
		}
	}
	return 0, false
}

// Filter returns a new table holding only the rows where mask is true,
// preserving row order. The mask length must match the row count.
func (t *Table) Filter(mask []bool) (*Table, error) {
	if len(mask) != t.rows {
		return nil, &LengthMismatchError{Want: t.rows, Got: len(mask)}
	}
	rows := make([]int, 0, t.rows)
	for i, keep := range mask {
		if keep {
			rows = append(rows, i)
		}
	}
	return t.Subset(rows)
}

// Subset returns a new table holding the given rows in the given order.
func (t *Table) Subset(rows []int) (*Table, error) {
	for _, r := range rows {
		if r < 0 || r >= t.rows {
			return nil, fmt.Errorf("row %d: %w", r, ErrRowRange)
		}
	}
	out := New(t.KeyNames()...)
	for i := range out.keys {
		out.keys[i].vals = make([]int, len(rows))
		for j, r := range rows {
			out.keys[i].vals[j] = t.keys[i].vals[r]
		}
	}
	out.names = make([]string, len(t.names))
	copy(out.names, t.names)
	for _, name := range t.names {
		col := make([]cty.Value, len(rows))
		for j, r := range rows {
			col[j] = t.cols[name][r]
		}
		out.cols[name] = col
	}
	out.rows = len(rows)
	return out, nil
}

// DeleteRows removes the given rows in place. Duplicates are tolerated;
// out-of-range indexes are an error and leave the table unchanged.
func (t *Table) DeleteRows(rows ...int) error {
	if len(rows) == 0 {
		return nil
	}
	drop := make(map[int]bool, len(rows))
	for _, r := range rows {
		if r < 0 || r >= t.rows {
			return fmt.Errorf("row %d: %w", r, ErrRowRange)
		}
		drop[r] = true
	}
	keep := make([]int, 0, t.rows-len(drop))
	for i := 0; i < t.rows; i++ {
		if !drop[i] {
			keep = append(keep, i)
		}
	}
	for i := range t.keys {
		vals := make([]int, len(keep))
		for j, r := range keep {
			vals[j] = t.keys[i].vals[r]
		}
		t.keys[i].vals = vals
	}
	for _, name := range t.names {
		col := make([]cty.Value, len(keep))
		for j, r := range keep {
			col[j] = t.cols[name][r]
		}
		t.cols[name] = col
	}
	t.rows = len(keep)
	return nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := New(t.KeyNames()...)
	for i := range t.keys {
		out.keys[i].vals = make([]int, len(t.keys[i].vals))
		copy(out.keys[i].vals, t.keys[i].vals)
	}
	out.names = make([]string, len(t.names))
	copy(out.names, t.names)
	for name, col := range t.cols {
		dup := make([]cty.Value, len(col))
		copy(dup, col)
		out.cols[name] = dup
	}
	out.rows = t.rows
	return out
}

// SortedAttrNames returns attribute column names in lexical order, for
// deterministic serialization.
func (t *Table) SortedAttrNames() []string {
	names := t.Names()
	sort.Strings(names)
	return names
}

// normalizeCell validates that a cell is a supported scalar and maps the
// zero value to Null.
func normalizeCell(name string, v cty.Value) (cty.Value, error) {
	if IsMissing(v) {
		return Null, nil
	}
	ty := v.Type()
	if ty != cty.Number && ty != cty.String {
		return cty.NilVal, fmt.Errorf("attribute %q: unsupported cell type %s", name, ty.FriendlyName())
	}
	return v, nil
}

// nullColumn builds a column of n missing cells.
func nullColumn(n int) []cty.Value {
	col := make([]cty.Value, n)
	for i := range col {
		col[i] = Null
	}
	return col
}
