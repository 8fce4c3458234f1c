// ABOUTME: Tests for condition evaluation against attribute tables.
// ABOUTME: Covers masks, sequential filters, missing-value posture, and coercion errors.
package cond

import (
	"errors"
	"testing"

	"github.com/zclconf/go-cty/cty"

	"github.com/2389-research/plexus/table"
)

// edgeTable builds an edge-shaped table with a numeric value column
// [3.9, 2.5, 7.3] for ids [1, 2, 3].
func edgeTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New("id", "from", "to")
	values := []float64{3.9, 2.5, 7.3}
	for i, v := range values {
		err := tbl.AppendRow([]int{i + 1, i + 1, i + 2}, map[string]cty.Value{
			"value": table.Number(v),
		})
		if err != nil {
			t.Fatalf("append edge %d: %v", i+1, err)
		}
	}
	return tbl
}

func TestMask_NumericComparison(t *testing.T) {
	tbl := edgeTable(t)

	mask, err := MustParse("value > 3").Mask(tbl)
	if err != nil {
		t.Fatalf("mask: %v", err)
	}
	want := []bool{true, false, true}
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, mask[i], want[i])
		}
	}
}

func TestFilter_SequentialPasses(t *testing.T) {
	tbl := edgeTable(t)

	rows, err := Filter(tbl, "value > 3", "value < 5")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(rows) != 1 || rows[0] != 0 {
		t.Errorf("expected only row 0 to survive both passes, got %v", rows)
	}
}

func TestFilter_NoConditionsKeepsAllRows(t *testing.T) {
	tbl := edgeTable(t)

	rows, err := Filter(tbl)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("expected all 3 rows, got %v", rows)
	}
}

func TestFilter_SameConditionTwiceIsIdempotent(t *testing.T) {
	tbl := edgeTable(t)

	once, err := Filter(tbl, "value > 3")
	if err != nil {
		t.Fatalf("filter once: %v", err)
	}
	twice, err := Filter(tbl, "value > 3", "value > 3")
	if err != nil {
		t.Fatalf("filter twice: %v", err)
	}
	if len(once) != len(twice) {
		t.Fatalf("idempotence violated: %v vs %v", once, twice)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("row %d differs: %v vs %v", i, once, twice)
		}
	}
}

func TestMask_MissingCellsAreFalse(t *testing.T) {
	tbl := table.New("id")
	if err := tbl.AppendRow([]int{1}, map[string]cty.Value{"type": table.Text("b")}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := tbl.AppendRow([]int{2}, nil); err != nil {
		t.Fatalf("append: %v", err)
	}

	// A missing value fails every predicate form, including != and =~.
	for _, src := range []string{"type == 'b'", "type != 'b'", "type < 'z'", "type =~ '.'"} {
		mask, err := MustParse(src).Mask(tbl)
		if err != nil {
			t.Fatalf("mask %q: %v", src, err)
		}
		if mask[1] {
			t.Errorf("%q: missing cell should evaluate false", src)
		}
	}
}

func TestMask_TypeMismatch(t *testing.T) {
	tbl := table.New("id")
	if err := tbl.AppendRow([]int{1}, map[string]cty.Value{"value": table.Text("abc")}); err != nil {
		t.Fatalf("append: %v", err)
	}

	_, err := MustParse("value > 3").Mask(tbl)
	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("expected TypeMismatchError, got %v", err)
	}
	if tm.Column != "value" || tm.Value != "abc" {
		t.Errorf("unexpected error detail: %+v", tm)
	}
}

func TestMask_NumericTextCoerces(t *testing.T) {
	tbl := table.New("id")
	if err := tbl.AppendRow([]int{1}, map[string]cty.Value{"value": table.Text("5.09")}); err != nil {
		t.Fatalf("append: %v", err)
	}

	mask, err := MustParse("value > 5").Mask(tbl)
	if err != nil {
		t.Fatalf("mask: %v", err)
	}
	if !mask[0] {
		t.Error("numeric text should coerce and pass the comparison")
	}
}

func TestMask_UnknownColumn(t *testing.T) {
	tbl := edgeTable(t)

	_, err := MustParse("weight > 3").Mask(tbl)
	var ice *InvalidConditionError
	if !errors.As(err, &ice) {
		t.Fatalf("expected InvalidConditionError, got %v", err)
	}
}

func TestMask_BareAndQuotedLiteralsAgree(t *testing.T) {
	tbl := table.New("id")
	if err := tbl.AppendRow([]int{1}, map[string]cty.Value{"type": table.Text("b")}); err != nil {
		t.Fatalf("append: %v", err)
	}

	quoted, err := MustParse("type == 'b'").Mask(tbl)
	if err != nil {
		t.Fatalf("mask quoted: %v", err)
	}
	bare, err := MustParse("type == b").Mask(tbl)
	if err != nil {
		t.Fatalf("mask bare: %v", err)
	}
	if quoted[0] != bare[0] || !quoted[0] {
		t.Errorf("quoted and bare literals should agree: %v vs %v", quoted, bare)
	}
}

func TestMask_TextOrderingIsLexicographic(t *testing.T) {
	tbl := table.New("id")
	for i, name := range []string{"apple", "pear"} {
		if err := tbl.AppendRow([]int{i + 1}, map[string]cty.Value{"name": table.Text(name)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	mask, err := MustParse("name < 'm'").Mask(tbl)
	if err != nil {
		t.Fatalf("mask: %v", err)
	}
	if !mask[0] || mask[1] {
		t.Errorf("expected [true false], got %v", mask)
	}
}

func TestMask_Combinators(t *testing.T) {
	tbl := edgeTable(t)

	mask, err := MustParse("value < 3 | value > 7").Mask(tbl)
	if err != nil {
		t.Fatalf("mask or: %v", err)
	}
	if mask[0] || !mask[1] || !mask[2] {
		t.Errorf("unexpected | mask: %v", mask)
	}

	mask, err = MustParse("value > 3 & value < 5").Mask(tbl)
	if err != nil {
		t.Fatalf("mask and: %v", err)
	}
	if !mask[0] || mask[1] || mask[2] {
		t.Errorf("unexpected & mask: %v", mask)
	}
}

func TestMask_RegexAgainstText(t *testing.T) {
	tbl := table.New("id")
	for i, ty := range []string{"basic", "advanced", "beta"} {
		if err := tbl.AppendRow([]int{i + 1}, map[string]cty.Value{"type": table.Text(ty)}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	mask, err := MustParse("type =~ '^b'").Mask(tbl)
	if err != nil {
		t.Fatalf("mask: %v", err)
	}
	if !mask[0] || mask[1] || !mask[2] {
		t.Errorf("unexpected regex mask: %v", mask)
	}
}

func TestMask_KeyColumnsResolve(t *testing.T) {
	tbl := edgeTable(t)

	rows, err := Filter(tbl, "from >= 2")
	if err != nil {
		t.Fatalf("filter on key column: %v", err)
	}
	if len(rows) != 2 || rows[0] != 1 || rows[1] != 2 {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestMask_NumberEqualityAcrossConstruction(t *testing.T) {
	// Cells built from floats must compare equal to parsed decimal literals.
	tbl := table.New("id")
	if err := tbl.AppendRow([]int{1}, map[string]cty.Value{"value": table.Number(3.9)}); err != nil {
		t.Fatalf("append: %v", err)
	}

	mask, err := MustParse("value == 3.9").Mask(tbl)
	if err != nil {
		t.Fatalf("mask: %v", err)
	}
	if !mask[0] {
		t.Error("3.9 cell should equal the 3.9 literal")
	}
}

func TestApply_ReturnsSubsetInRowOrder(t *testing.T) {
	tbl := edgeTable(t)

	sub, err := Apply(tbl, "value > 3")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	ids, _ := sub.Key("id")
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("unexpected subset ids: %v", ids)
	}
}
