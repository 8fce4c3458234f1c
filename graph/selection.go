// ABOUTME: Selection state machine: at most one active set of node OR edge ids.
// ABOUTME: Explicit selects validate every id before replacing the prior selection.
package graph

import (
	"sort"
	"time"
)

// SelectionKind identifies what an active selection holds.
type SelectionKind int

const (
	SelectionNone SelectionKind = iota
	SelectionNodes
	SelectionEdges
)

func (k SelectionKind) String() string {
	switch k {
	case SelectionNone:
		return "none"
	case SelectionNodes:
		return "nodes"
	case SelectionEdges:
		return "edges"
	default:
		return "unknown"
	}
}

// selection holds the active identity set. ids are sorted ascending with no
// duplicates; they may be empty while kind is still active (structural
// deletes and inversion can drain a selection without deactivating it).
type selection struct {
	kind SelectionKind
	ids  []int
}

// Selection returns the active kind and a copy of the selected ids.
func (g *Graph) Selection() (SelectionKind, []int) {
	if g.sel.kind == SelectionNone {
		return SelectionNone, nil
	}
	ids := make([]int, len(g.sel.ids))
	copy(ids, g.sel.ids)
	return g.sel.kind, ids
}

// SelectNodes replaces any prior selection with the given node ids. Every id
// must exist; on any miss nothing changes. Zero ids activate an empty node
// selection.
func (g *Graph) SelectNodes(ids ...int) error {
	start := time.Now()
	for _, id := range ids {
		if !g.HasNode(id) {
			return &NoSuchIdentityError{Kind: "node", ID: id}
		}
	}
	g.replaceSelection(SelectionNodes, ids)
	g.logOp("select_nodes", start)
	return nil
}

// SelectEdges replaces any prior selection with the given edge ids. Every id
// must exist; on any miss nothing changes. Zero ids activate an empty edge
// selection.
func (g *Graph) SelectEdges(ids ...int) error {
	start := time.Now()
	for _, id := range ids {
		if !g.HasEdge(id) {
			return &NoSuchIdentityError{Kind: "edge", ID: id}
		}
	}
	g.replaceSelection(SelectionEdges, ids)
	g.logOp("select_edges", start)
	return nil
}

// ClearSelection deactivates the selection. Clearing an inactive selection
// is a no-op and appends nothing.
func (g *Graph) ClearSelection() {
	if g.sel.kind == SelectionNone {
		return
	}
	start := time.Now()
	g.sel = selection{}
	g.logOp("clear_selection", start)
}

// replaceSelection installs ids as the active selection, deduplicated and
// sorted ascending.
func (g *Graph) replaceSelection(kind SelectionKind, ids []int) {
	g.sel = selection{kind: kind, ids: dedupSorted(ids)}
}

// pruneSelection drops removed ids from an active selection of the given
// kind. The selection stays active even when drained empty.
func (g *Graph) pruneSelection(kind SelectionKind, removed map[int]bool) {
	if g.sel.kind != kind || len(removed) == 0 {
		return
	}
	kept := g.sel.ids[:0]
	for _, id := range g.sel.ids {
		if !removed[id] {
			kept = append(kept, id)
		}
	}
	g.sel.ids = kept
}

// selectedSet returns the active ids as a membership set.
func (g *Graph) selectedSet() map[int]bool {
	set := make(map[int]bool, len(g.sel.ids))
	for _, id := range g.sel.ids {
		set[id] = true
	}
	return set
}

// dedupSorted copies ids, removing duplicates and sorting ascending. The
// result is non-nil even for empty input, so an empty active selection stays
// distinguishable from no selection.
func dedupSorted(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}
