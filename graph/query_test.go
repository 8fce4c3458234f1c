// ABOUTME: Tests for selection-independent id queries and attribute readers.
// ABOUTME: The nil-slice no-match sentinel is pinned down here.
package graph

import (
	"errors"
	"reflect"
	"testing"

	"github.com/2389-research/plexus/cond"
	"github.com/2389-research/plexus/table"
)

func TestGetEdgeIDs_FiltersByValue(t *testing.T) {
	g := fanGraph(t)

	got, err := g.GetEdgeIDs("value > 3")
	if err != nil {
		t.Fatalf("GetEdgeIDs: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("ids = %v, want [1 3]", got)
	}
}

func TestGetEdgeIDs_NoConditionsReturnsAll(t *testing.T) {
	g := fanGraph(t)

	got, err := g.GetEdgeIDs()
	if err != nil {
		t.Fatalf("GetEdgeIDs: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("ids = %v, want all five", got)
	}
}

func TestGetEdgeIDs_NoMatchIsNilNotError(t *testing.T) {
	g := fanGraph(t)

	got, err := g.GetEdgeIDs("value > 100")
	if err != nil {
		t.Fatalf("GetEdgeIDs: %v", err)
	}
	if got != nil {
		t.Errorf("ids = %v, want nil sentinel", got)
	}
}

func TestGetEdgeIDs_EmptyTableIsNil(t *testing.T) {
	g := New()

	got, err := g.GetEdgeIDs()
	if err != nil {
		t.Fatalf("GetEdgeIDs: %v", err)
	}
	if got != nil {
		t.Errorf("ids = %v, want nil sentinel", got)
	}
}

func TestGetEdgeIDs_IgnoresSelection(t *testing.T) {
	g := fanGraph(t)
	if err := g.SelectEdges(2); err != nil {
		t.Fatalf("SelectEdges: %v", err)
	}

	got, err := g.GetEdgeIDs("value > 3")
	if err != nil {
		t.Fatalf("GetEdgeIDs: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("ids = %v, want [1 3]", got)
	}
	wantSelection(t, g, SelectionEdges, []int{2})
}

func TestGetNodeIDs_ConditionOnKeyColumn(t *testing.T) {
	g := fanGraph(t)

	got, err := g.GetNodeIDs("id >= 4")
	if err != nil {
		t.Fatalf("GetNodeIDs: %v", err)
	}
	if !reflect.DeepEqual(got, []int{4, 5}) {
		t.Errorf("ids = %v, want [4 5]", got)
	}
}

func TestGetNodeIDs_SequentialConditions(t *testing.T) {
	g := fanGraph(t)

	got, err := g.GetNodeIDs("id > 1", "type == 'b'")
	if err != nil {
		t.Fatalf("GetNodeIDs: %v", err)
	}
	if !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("ids = %v, want [3]", got)
	}
}

func TestGetNodeIDs_UnknownColumn(t *testing.T) {
	g := fanGraph(t)

	_, err := g.GetNodeIDs("ghost == 1")
	var bad *cond.InvalidConditionError
	if !errors.As(err, &bad) {
		t.Errorf("err = %v, want InvalidConditionError", err)
	}
}

func TestNodeAttr_Errors(t *testing.T) {
	g := fanGraph(t)

	_, err := g.NodeAttr(42, "type")
	var miss *NoSuchIdentityError
	if !errors.As(err, &miss) || miss.Kind != "node" || miss.ID != 42 {
		t.Errorf("err = %v, want NoSuchIdentityError for node 42", err)
	}

	_, err = g.NodeAttr(1, "ghost")
	var unknown *table.UnknownAttributeError
	if !errors.As(err, &unknown) || unknown.Attr != "ghost" {
		t.Errorf("err = %v, want UnknownAttributeError for ghost", err)
	}
}

func TestEdgeAttr_ReadsValue(t *testing.T) {
	g := fanGraph(t)

	v, err := g.EdgeAttr(3, "value")
	if err != nil {
		t.Fatalf("EdgeAttr: %v", err)
	}
	if f, ok := table.AsNumber(v); !ok || f != 7.3 {
		t.Errorf("value = %v, want 7.3", v)
	}
}
