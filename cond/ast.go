// ABOUTME: AST node types for parsed conditions.
// ABOUTME: Comparisons, pattern matches, and boolean combinators over column references.
package cond

import (
	"regexp"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// CompareOp identifies a comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota // ==
	OpNe                  // !=
	OpLt                  // <
	OpLe                  // <=
	OpGt                  // >
	OpGe                  // >=
)

// String returns the operator's source form.
func (op CompareOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// Expr is a node in a parsed condition. The set of implementations is closed.
type Expr interface {
	columns(into map[string]bool)
}

// Compare tests a column against a literal. A numeric literal forces a
// numeric comparison; a text literal (quoted or bare word) compares as text.
type Compare struct {
	Column string
	Op     CompareOp
	Value  cty.Value
}

func (c *Compare) columns(into map[string]bool) {
	into[c.Column] = true
}

// Match tests a column's text rendering against a regular expression.
type Match struct {
	Column  string
	Pattern *regexp.Regexp
}

func (m *Match) columns(into map[string]bool) {
	into[m.Column] = true
}

// And is the conjunction of two expressions.
type And struct {
	Left  Expr
	Right Expr
}

func (a *And) columns(into map[string]bool) {
	a.Left.columns(into)
	a.Right.columns(into)
}

// Or is the disjunction of two expressions.
type Or struct {
	Left  Expr
	Right Expr
}

func (o *Or) columns(into map[string]bool) {
	o.Left.columns(into)
	o.Right.columns(into)
}

// Condition is a parsed filter expression, retaining its source text.
type Condition struct {
	src  string
	expr Expr
}

// String returns the original condition text.
func (c *Condition) String() string {
	return c.src
}

// Columns returns the column names the condition references.
func (c *Condition) Columns() []string {
	set := make(map[string]bool)
	c.expr.columns(set)
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
