// ABOUTME: Error types for condition parsing and evaluation.
// ABOUTME: Distinguishes malformed conditions from type errors raised while comparing cells.
package cond

import (
	"fmt"
)

// InvalidConditionError indicates a condition string that cannot be parsed,
// or one that references a column absent from the target table.
type InvalidConditionError struct {
	Cond   string
	Pos    int // 1-based rune offset in the condition text; 0 when not positional
	Reason string
}

func (e *InvalidConditionError) Error() string {
	if e.Pos > 0 {
		return fmt.Sprintf("invalid condition %q: %s at position %d", e.Cond, e.Reason, e.Pos)
	}
	return fmt.Sprintf("invalid condition %q: %s", e.Cond, e.Reason)
}

// TypeMismatchError indicates a numeric comparison applied to a cell that
// cannot be read as a number.
type TypeMismatchError struct {
	Column string
	Value  string
	Want   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("attribute %q: cannot read %q as %s", e.Column, e.Value, e.Want)
}
