// ABOUTME: Evaluates parsed conditions against attribute tables, producing row masks.
// ABOUTME: Missing cells fail predicates silently; bad numeric coercion is a TypeMismatchError.
package cond

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/2389-research/plexus/table"
)

// Bound is a condition resolved against one table's columns, ready for
// row-wise evaluation.
type Bound struct {
	cond *Condition
	cols map[string][]cty.Value
}

// Bind resolves the condition's column references against a table. Key
// columns resolve as numeric columns. A reference to a column the table
// doesn't have is an InvalidConditionError.
func (c *Condition) Bind(tbl *table.Table) (*Bound, error) {
	refs := make(map[string]bool)
	c.expr.columns(refs)

	cols := make(map[string][]cty.Value, len(refs))
	for name := range refs {
		vals, ok := tbl.Lookup(name)
		if !ok {
			return nil, &InvalidConditionError{Cond: c.src, Reason: fmt.Sprintf("unknown column %q", name)}
		}
		cols[name] = vals
	}
	return &Bound{cond: c, cols: cols}, nil
}

// Eval evaluates the bound condition for one row.
func (b *Bound) Eval(row int) (bool, error) {
	return b.eval(b.cond.expr, row)
}

// Mask evaluates the condition for every row of the table.
func (c *Condition) Mask(tbl *table.Table) ([]bool, error) {
	bound, err := c.Bind(tbl)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, tbl.Len())
	for i := range mask {
		ok, err := bound.Eval(i)
		if err != nil {
			return nil, err
		}
		mask[i] = ok
	}
	return mask, nil
}

// Filter returns the row indexes surviving every condition string, applied
// as sequential passes in the order given. No conditions keeps every row.
func Filter(tbl *table.Table, conditions ...string) ([]int, error) {
	rows := make([]int, tbl.Len())
	for i := range rows {
		rows[i] = i
	}
	for _, src := range conditions {
		c, err := Parse(src)
		if err != nil {
			return nil, err
		}
		bound, err := c.Bind(tbl)
		if err != nil {
			return nil, err
		}
		next := make([]int, 0, len(rows))
		for _, r := range rows {
			ok, err := bound.Eval(r)
			if err != nil {
				return nil, err
			}
			if ok {
				next = append(next, r)
			}
		}
		rows = next
	}
	return rows, nil
}

// Apply returns the subset table holding the rows surviving every condition,
// in original row order.
func Apply(tbl *table.Table, conditions ...string) (*table.Table, error) {
	rows, err := Filter(tbl, conditions...)
	if err != nil {
		return nil, err
	}
	return tbl.Subset(rows)
}

// eval walks the expression tree for one row with short-circuiting.
func (b *Bound) eval(e Expr, row int) (bool, error) {
	switch n := e.(type) {
	case *And:
		left, err := b.eval(n.Left, row)
		if err != nil || !left {
			return false, err
		}
		return b.eval(n.Right, row)
	case *Or:
		left, err := b.eval(n.Left, row)
		if err != nil || left {
			return left, err
		}
		return b.eval(n.Right, row)
	case *Compare:
		return b.evalCompare(n, row)
	case *Match:
		cell := b.cols[n.Column][row]
		if table.IsMissing(cell) {
			return false, nil
		}
		s, ok := table.AsText(cell)
		if !ok {
			return false, nil
		}
		return n.Pattern.MatchString(s), nil
	default:
		return false, fmt.Errorf("unknown expression node %T", e)
	}
}

// evalCompare applies a comparison to one row. Missing cells are false. A
// numeric literal forces numeric coercion of the cell; a text literal
// compares lexicographically against the cell's text rendering.
func (b *Bound) evalCompare(n *Compare, row int) (bool, error) {
	cell := b.cols[n.Column][row]
	if table.IsMissing(cell) {
		return false, nil
	}

	if n.Value.Type() == cty.Number {
		got, ok := table.AsNumber(cell)
		if !ok {
			raw, _ := table.AsText(cell)
			return false, &TypeMismatchError{Column: n.Column, Value: raw, Want: "number"}
		}
		want, _ := table.AsNumber(n.Value)
		return compareFloats(n.Op, got, want), nil
	}

	got, ok := table.AsText(cell)
	if !ok {
		return false, nil
	}
	return compareStrings(n.Op, got, n.Value.AsString()), nil
}

// compareFloats applies a comparison operator to two floats.
func compareFloats(op CompareOp, a, b float64) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNe:
		return a != b
	case OpLt:
		return a < b
	case OpLe:
		return a <= b
	case OpGt:
		return a > b
	default:
		return a >= b
	}
}

// compareStrings applies a comparison operator to two strings.
func compareStrings(op CompareOp, a, b string) bool {
	c := strings.Compare(a, b)
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	default:
		return c >= 0
	}
}
