// ABOUTME: Tests for the condition parser.
// ABOUTME: Covers literal disambiguation, combinator precedence, parens, and parse errors.
package cond

import (
	"errors"
	"testing"

	"github.com/zclconf/go-cty/cty"
)

func TestParse_NumericComparison(t *testing.T) {
	c, err := Parse("value > 3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	cmp, ok := c.expr.(*Compare)
	if !ok {
		t.Fatalf("expected *Compare, got %T", c.expr)
	}
	if cmp.Column != "value" || cmp.Op != OpGt {
		t.Errorf("unexpected comparison: %+v", cmp)
	}
	if cmp.Value.Type() != cty.Number {
		t.Errorf("unquoted number literal should be numeric, got %s", cmp.Value.Type().FriendlyName())
	}
}

func TestParse_QuotedLiteralIsText(t *testing.T) {
	c, err := Parse("type == 'b'")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cmp := c.expr.(*Compare)
	if cmp.Value.Type() != cty.String || cmp.Value.AsString() != "b" {
		t.Errorf("quoted literal should be the text b, got %v", cmp.Value)
	}
}

func TestParse_BareWordLiteralIsText(t *testing.T) {
	c, err := Parse("type == b")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cmp := c.expr.(*Compare)
	if cmp.Value.Type() != cty.String || cmp.Value.AsString() != "b" {
		t.Errorf("bare word literal should be the text b, got %v", cmp.Value)
	}
}

func TestParse_AndBindsTighterThanOr(t *testing.T) {
	c, err := Parse("a == 1 | b == 2 & c == 3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	or, ok := c.expr.(*Or)
	if !ok {
		t.Fatalf("expected top-level *Or, got %T", c.expr)
	}
	if _, ok := or.Left.(*Compare); !ok {
		t.Errorf("expected left of | to be a comparison, got %T", or.Left)
	}
	if _, ok := or.Right.(*And); !ok {
		t.Errorf("expected right of | to be an &-conjunction, got %T", or.Right)
	}
}

func TestParse_ParensOverridePrecedence(t *testing.T) {
	c, err := Parse("(a == 1 | b == 2) & c == 3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	and, ok := c.expr.(*And)
	if !ok {
		t.Fatalf("expected top-level *And, got %T", c.expr)
	}
	if _, ok := and.Left.(*Or); !ok {
		t.Errorf("expected left of & to be the parenthesized |, got %T", and.Left)
	}
}

func TestParse_PatternMatch(t *testing.T) {
	c, err := Parse("type =~ '^b'")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	m, ok := c.expr.(*Match)
	if !ok {
		t.Fatalf("expected *Match, got %T", c.expr)
	}
	if m.Column != "type" || !m.Pattern.MatchString("beta") {
		t.Errorf("unexpected match node: %+v", m)
	}
}

func TestParse_BadPattern(t *testing.T) {
	_, err := Parse("type =~ '['")
	var ice *InvalidConditionError
	if !errors.As(err, &ice) {
		t.Fatalf("expected InvalidConditionError, got %v", err)
	}
}

func TestParse_PatternRequiresQuotedString(t *testing.T) {
	_, err := Parse("type =~ b")
	var ice *InvalidConditionError
	if !errors.As(err, &ice) {
		t.Fatalf("expected InvalidConditionError, got %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"missing literal", "value >"},
		{"missing column", "== 3"},
		{"trailing tokens", "value > 3 extra"},
		{"dangling combinator", "value > 3 &"},
		{"unclosed paren", "(value > 3"},
		{"literal on left", "3 == value"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.src)
			var ice *InvalidConditionError
			if !errors.As(err, &ice) {
				t.Fatalf("Parse(%q): expected InvalidConditionError, got %v", tc.src, err)
			}
		})
	}
}

func TestCondition_Columns(t *testing.T) {
	c := MustParse("a == 1 & (b == 2 | a =~ 'x')")

	cols := c.Columns()
	if len(cols) != 2 || cols[0] != "a" || cols[1] != "b" {
		t.Errorf("unexpected columns: %v", cols)
	}
}

func TestCondition_String(t *testing.T) {
	src := "value > 3"
	c := MustParse(src)
	if c.String() != src {
		t.Errorf("String() = %q, want %q", c.String(), src)
	}
}
