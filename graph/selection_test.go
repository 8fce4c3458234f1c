// ABOUTME: Tests for the selection state machine and conditional selection.
// ABOUTME: Covers replacement, pruning on delete, set algebra, and inversion.
package graph

import (
	"errors"
	"reflect"
	"testing"
)

func wantSelection(t *testing.T, g *Graph, kind SelectionKind, ids []int) {
	t.Helper()
	gotKind, gotIDs := g.Selection()
	if gotKind != kind {
		t.Fatalf("selection kind = %s, want %s", gotKind, kind)
	}
	if !reflect.DeepEqual(gotIDs, ids) {
		t.Fatalf("selection ids = %v, want %v", gotIDs, ids)
	}
}

func TestSelectNodes_ReplacesAndSorts(t *testing.T) {
	g := fanGraph(t)
	if err := g.SelectNodes(3, 1, 3); err != nil {
		t.Fatalf("SelectNodes: %v", err)
	}
	wantSelection(t, g, SelectionNodes, []int{1, 3})

	if err := g.SelectNodes(5); err != nil {
		t.Fatalf("SelectNodes: %v", err)
	}
	wantSelection(t, g, SelectionNodes, []int{5})
}

func TestSelectNodes_UnknownIDLeavesSelectionUntouched(t *testing.T) {
	g := fanGraph(t)
	if err := g.SelectNodes(1); err != nil {
		t.Fatalf("SelectNodes: %v", err)
	}
	version := g.Version()

	err := g.SelectNodes(2, 99)
	var miss *NoSuchIdentityError
	if !errors.As(err, &miss) || miss.Kind != "node" || miss.ID != 99 {
		t.Fatalf("err = %v, want NoSuchIdentityError for node 99", err)
	}
	wantSelection(t, g, SelectionNodes, []int{1})
	if g.Version() != version {
		t.Errorf("version = %d, want %d (failed select logs nothing)", g.Version(), version)
	}
}

func TestSelectEdges_ReplacesNodeSelection(t *testing.T) {
	g := fanGraph(t)
	if err := g.SelectNodes(1, 2); err != nil {
		t.Fatalf("SelectNodes: %v", err)
	}
	if err := g.SelectEdges(4, 2); err != nil {
		t.Fatalf("SelectEdges: %v", err)
	}
	wantSelection(t, g, SelectionEdges, []int{2, 4})
}

func TestSelectNodes_ZeroIDsActivateEmptySelection(t *testing.T) {
	g := fanGraph(t)
	if err := g.SelectNodes(); err != nil {
		t.Fatalf("SelectNodes: %v", err)
	}
	kind, ids := g.Selection()
	if kind != SelectionNodes {
		t.Fatalf("kind = %s, want nodes", kind)
	}
	if len(ids) != 0 {
		t.Fatalf("ids = %v, want empty", ids)
	}
	// Empty-but-present is not enough for selection consumers.
	if err := g.TravOut(TraversalOptions{}); !errors.Is(err, ErrNoActiveSelection) {
		t.Errorf("TravOut err = %v, want ErrNoActiveSelection", err)
	}
}

func TestClearSelection(t *testing.T) {
	g := fanGraph(t)
	if err := g.SelectNodes(1); err != nil {
		t.Fatalf("SelectNodes: %v", err)
	}
	g.ClearSelection()
	wantSelection(t, g, SelectionNone, nil)

	// Clearing again is a no-op and logs nothing.
	version := g.Version()
	g.ClearSelection()
	if g.Version() != version {
		t.Errorf("version = %d after redundant clear, want %d", g.Version(), version)
	}
}

func TestDeleteNode_PrunesNodeSelection(t *testing.T) {
	g := fanGraph(t)
	if err := g.SelectNodes(2, 3); err != nil {
		t.Fatalf("SelectNodes: %v", err)
	}
	if err := g.DeleteNode(2); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	wantSelection(t, g, SelectionNodes, []int{3})
}

func TestDeleteNode_PrunesIncidentEdgesFromEdgeSelection(t *testing.T) {
	g := fanGraph(t)
	if err := g.SelectEdges(1, 2, 3); err != nil {
		t.Fatalf("SelectEdges: %v", err)
	}
	// Node 2 is incident to edges 1, 3, 4.
	if err := g.DeleteNode(2); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	wantSelection(t, g, SelectionEdges, []int{2})
}

func TestDeleteNode_CanDrainSelectionEmptyButPresent(t *testing.T) {
	g := fanGraph(t)
	if err := g.SelectNodes(4); err != nil {
		t.Fatalf("SelectNodes: %v", err)
	}
	if err := g.DeleteNode(4); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	kind, ids := g.Selection()
	if kind != SelectionNodes || len(ids) != 0 {
		t.Errorf("selection = %s %v, want empty but present node selection", kind, ids)
	}
}

func TestSelectNodesWhere(t *testing.T) {
	g := fanGraph(t)

	if err := g.SelectNodesWhere(SetUnion, "type == 'a'"); err != nil {
		t.Fatalf("SelectNodesWhere: %v", err)
	}
	wantSelection(t, g, SelectionNodes, []int{2})

	if err := g.SelectNodesWhere(SetUnion, "type == 'b'"); err != nil {
		t.Fatalf("SelectNodesWhere union: %v", err)
	}
	wantSelection(t, g, SelectionNodes, []int{2, 3})

	if err := g.SelectNodesWhere(SetIntersect, "type == 'b'"); err != nil {
		t.Fatalf("SelectNodesWhere intersect: %v", err)
	}
	wantSelection(t, g, SelectionNodes, []int{3})

	if err := g.SelectNodesWhere(SetDifference, "type == 'b'"); err != nil {
		t.Fatalf("SelectNodesWhere difference: %v", err)
	}
	kind, ids := g.Selection()
	if kind != SelectionNodes || len(ids) != 0 {
		t.Errorf("selection = %s %v, want empty node selection", kind, ids)
	}
}

func TestSelectEdgesWhere_ReplacesOtherKind(t *testing.T) {
	g := fanGraph(t)
	if err := g.SelectNodes(1); err != nil {
		t.Fatalf("SelectNodes: %v", err)
	}
	// Against a node selection the set op is irrelevant; the match replaces.
	if err := g.SelectEdgesWhere(SetDifference, "value > 3"); err != nil {
		t.Fatalf("SelectEdgesWhere: %v", err)
	}
	wantSelection(t, g, SelectionEdges, []int{1, 3})
}

func TestSelectNodesWhere_BadCondition(t *testing.T) {
	g := fanGraph(t)
	version := g.Version()
	if err := g.SelectNodesWhere(SetUnion, "nope == 1"); err == nil {
		t.Fatal("expected error for unknown column")
	}
	if g.Version() != version {
		t.Errorf("version = %d, want %d (failed select logs nothing)", g.Version(), version)
	}
	wantSelection(t, g, SelectionNone, nil)
}

func TestInvertSelection(t *testing.T) {
	g := fanGraph(t)
	if err := g.SelectNodes(1, 3, 5); err != nil {
		t.Fatalf("SelectNodes: %v", err)
	}
	if err := g.InvertSelection(); err != nil {
		t.Fatalf("InvertSelection: %v", err)
	}
	wantSelection(t, g, SelectionNodes, []int{2, 4})

	if err := g.InvertSelection(); err != nil {
		t.Fatalf("InvertSelection: %v", err)
	}
	wantSelection(t, g, SelectionNodes, []int{1, 3, 5})
}

func TestInvertSelection_RequiresActiveSelection(t *testing.T) {
	g := fanGraph(t)
	if err := g.InvertSelection(); !errors.Is(err, ErrNoActiveSelection) {
		t.Errorf("err = %v, want ErrNoActiveSelection", err)
	}
}

func TestInvertSelection_FullBecomesEmptyButPresent(t *testing.T) {
	g := fanGraph(t)
	if err := g.SelectEdges(1, 2, 3, 4, 5); err != nil {
		t.Fatalf("SelectEdges: %v", err)
	}
	if err := g.InvertSelection(); err != nil {
		t.Fatalf("InvertSelection: %v", err)
	}
	kind, ids := g.Selection()
	if kind != SelectionEdges || len(ids) != 0 {
		t.Errorf("selection = %s %v, want empty edge selection", kind, ids)
	}
}
