// ABOUTME: Scalar cell helpers for attribute columns backed by cty values.
// ABOUTME: Provides constructors, missing-value checks, and numeric/text coercion.
package table

import (
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Null is the missing-value cell. Attribute columns hold it wherever a row
// carries no value for the column.
var Null = cty.NullVal(cty.DynamicPseudoType)

// Number builds a numeric cell from a float.
func Number(f float64) cty.Value {
	return cty.NumberFloatVal(f)
}

// Int builds a numeric cell from an integer.
func Int(n int) cty.Value {
	return cty.NumberIntVal(int64(n))
}

// Text builds a text cell.
func Text(s string) cty.Value {
	return cty.StringVal(s)
}

// IsMissing reports whether a cell holds no value.
func IsMissing(v cty.Value) bool {
	return v == cty.NilVal || v.IsNull()
}

// AsNumber reads a cell as a float. The second return is false when the cell
// is missing or cannot be converted to a number.
func AsNumber(v cty.Value) (float64, bool) {
	if IsMissing(v) {
		return 0, false
	}
	converted, err := convert.Convert(v, cty.Number)
	if err != nil {
		return 0, false
	}
	f, _ := converted.AsBigFloat().Float64()
	return f, true
}

// AsText reads a cell as a string. The second return is false when the cell
// is missing or cannot be converted to text.
func AsText(v cty.Value) (string, bool) {
	if IsMissing(v) {
		return "", false
	}
	converted, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", false
	}
	return converted.AsString(), true
}

// CoerceNumber converts a cell to a numeric cell. Missing cells and failed
// conversions come back as Null, never as errors.
func CoerceNumber(v cty.Value) cty.Value {
	if IsMissing(v) {
		return Null
	}
	converted, err := convert.Convert(v, cty.Number)
	if err != nil {
		return Null
	}
	return converted
}

// CoerceText converts a cell to a text cell, with the same Null-on-failure
// posture as CoerceNumber.
func CoerceText(v cty.Value) cty.Value {
	if IsMissing(v) {
		return Null
	}
	converted, err := convert.Convert(v, cty.String)
	if err != nil {
		return Null
	}
	return converted
}
