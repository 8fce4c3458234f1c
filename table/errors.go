// ABOUTME: Error types for attribute table operations.
// ABOUTME: Covers unknown columns, length mismatches, reserved names, and row ranges.
package table

import (
	"errors"
	"fmt"
)

var (
	// ErrReservedName indicates an attribute operation addressed a key column.
	ErrReservedName = errors.New("column name is reserved")

	// ErrRowRange indicates a row index outside the table.
	ErrRowRange = errors.New("row index out of range")
)

// UnknownAttributeError indicates the referenced attribute column doesn't exist.
type UnknownAttributeError struct {
	Attr string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute %q", e.Attr)
}

// LengthMismatchError indicates a column or mask whose length doesn't match
// the table's row count. Column is empty when the mismatch is a filter mask.
type LengthMismatchError struct {
	Column string
	Want   int
	Got    int
}

func (e *LengthMismatchError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("length mismatch: want %d values, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("column %q length mismatch: want %d values, got %d", e.Column, e.Want, e.Got)
}
