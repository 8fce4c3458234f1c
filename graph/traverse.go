// ABOUTME: One-hop directional traversal replacing the node selection with adjacent
// ABOUTME: nodes or matching edges, with optional filtering and attribute copy.
package graph

import (
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/2389-research/plexus/cond"
	"github.com/2389-research/plexus/table"
)

// TraversalOptions carries the optional arguments shared by all six
// traversal operators.
type TraversalOptions struct {
	// Conditions filter the result set, each string applied as a sequential
	// pass. Node-returning operators evaluate them against the node table,
	// edge-returning operators against the edge table.
	Conditions []string

	// CopyAttr names a node attribute whose value is propagated from each
	// destination's origin node into the destination row. When several
	// origins reach one destination, the origin of the first matching edge
	// in edge table row order wins.
	CopyAttr string
}

type direction int

const (
	dirIn direction = iota
	dirOut
	dirBoth
)

// match records one directed adjacency hit found while scanning the edge
// table. An edge whose endpoints are both selected yields two matches under
// dirBoth, the from-side one first.
type match struct {
	edgeRow int
	edgeID  int
	dest    int // destination node id
	origin  int // selected endpoint the hop started from
}

// TravIn replaces the node selection with the nodes d having an edge (d, s)
// into a selected node s. Self-loops never match. An empty result leaves the
// graph untouched and appends nothing.
func (g *Graph) TravIn(opts TraversalOptions) error {
	return g.traverse(dirIn, false, "trav_in", opts)
}

// TravOut replaces the node selection with the nodes d having an edge (s, d)
// out of a selected node s. Self-loops never match. An empty result leaves
// the graph untouched and appends nothing.
func (g *Graph) TravOut(opts TraversalOptions) error {
	return g.traverse(dirOut, false, "trav_out", opts)
}

// TravBoth replaces the node selection with the deduplicated union of TravIn
// and TravOut results.
func (g *Graph) TravBoth(opts TraversalOptions) error {
	return g.traverse(dirBoth, false, "trav_both", opts)
}

// TravInEdge performs the TravIn adjacency match but selects the matching
// edge ids instead of the destination nodes.
func (g *Graph) TravInEdge(opts TraversalOptions) error {
	return g.traverse(dirIn, true, "trav_in_edge", opts)
}

// TravOutEdge performs the TravOut adjacency match but selects the matching
// edge ids instead of the destination nodes.
func (g *Graph) TravOutEdge(opts TraversalOptions) error {
	return g.traverse(dirOut, true, "trav_out_edge", opts)
}

// TravBothEdge performs the TravBoth adjacency match but selects the
// matching edge ids instead of the destination nodes.
func (g *Graph) TravBothEdge(opts TraversalOptions) error {
	return g.traverse(dirBoth, true, "trav_both_edge", opts)
}

func (g *Graph) traverse(dir direction, toEdges bool, op string, opts TraversalOptions) error {
	start := time.Now()

	switch g.sel.kind {
	case SelectionNodes:
		if len(g.sel.ids) == 0 {
			return ErrNoActiveSelection
		}
	case SelectionEdges:
		return &WrongSelectionKindError{Want: SelectionNodes, Got: SelectionEdges}
	default:
		return ErrNoActiveSelection
	}
	if opts.CopyAttr != "" && !g.nodes.HasAttr(opts.CopyAttr) {
		return &table.UnknownAttributeError{Attr: opts.CopyAttr}
	}

	matches := g.scanAdjacency(dir)
	if len(matches) == 0 {
		return nil
	}

	if toEdges {
		return g.finishEdgeTraversal(op, opts, matches, start)
	}
	return g.finishNodeTraversal(op, opts, matches, start)
}

// scanAdjacency walks the edge table once, collecting directed hits against
// the current node selection. Self-loop rows are dropped before matching.
func (g *Graph) scanAdjacency(dir direction) []match {
	ids, _ := g.edges.Key("id")
	froms, _ := g.edges.Key("from")
	tos, _ := g.edges.Key("to")
	sel := g.selectedSet()

	var matches []match
	for i := range ids {
		if froms[i] == tos[i] {
			continue
		}
		if (dir == dirOut || dir == dirBoth) && sel[froms[i]] {
			matches = append(matches, match{edgeRow: i, edgeID: ids[i], dest: tos[i], origin: froms[i]})
		}
		if (dir == dirIn || dir == dirBoth) && sel[tos[i]] {
			matches = append(matches, match{edgeRow: i, edgeID: ids[i], dest: froms[i], origin: tos[i]})
		}
	}
	return matches
}

func (g *Graph) finishNodeTraversal(op string, opts TraversalOptions, matches []match, start time.Time) error {
	// Unique destinations in first-seen order, with their node rows.
	var dests []int
	destRow := make(map[int]int)
	for _, m := range matches {
		if _, ok := destRow[m.dest]; !ok {
			row, _ := g.nodes.FindKey("id", m.dest)
			destRow[m.dest] = row
			dests = append(dests, m.dest)
		}
	}

	for _, src := range opts.Conditions {
		bound, err := bindCondition(src, g.nodes)
		if err != nil {
			return err
		}
		kept := dests[:0]
		for _, d := range dests {
			ok, err := bound.Eval(destRow[d])
			if err != nil {
				return err
			}
			if ok {
				kept = append(kept, d)
			}
		}
		dests = kept
		if len(dests) == 0 {
			return nil
		}
	}

	if opts.CopyAttr != "" {
		// The copy source is fixed by adjacency, not by the filtered result:
		// the first matching edge for each destination supplies the origin.
		firstOrigin := make(map[int]int)
		for _, m := range matches {
			if _, ok := firstOrigin[m.dest]; !ok {
				firstOrigin[m.dest] = m.origin
			}
		}
		// Read every origin value before writing any destination; an origin
		// node can itself be a destination.
		values := make([]cty.Value, len(dests))
		for i, d := range dests {
			row, _ := g.nodes.FindKey("id", firstOrigin[d])
			v, err := g.nodes.Cell(row, opts.CopyAttr)
			if err != nil {
				return err
			}
			values[i] = v
		}
		for i, d := range dests {
			if err := g.nodes.SetCell(destRow[d], opts.CopyAttr, values[i]); err != nil {
				return err
			}
		}
	}

	g.replaceSelection(SelectionNodes, dests)
	g.logOp(op, start)
	return nil
}

func (g *Graph) finishEdgeTraversal(op string, opts TraversalOptions, matches []match, start time.Time) error {
	// Unique matched edges in row order; the first match per edge fixes the
	// copy origin (the from endpoint when both endpoints are selected).
	var edgeIDs []int
	edgeRowOf := make(map[int]int)
	originOf := make(map[int]int)
	for _, m := range matches {
		if _, ok := edgeRowOf[m.edgeID]; !ok {
			edgeRowOf[m.edgeID] = m.edgeRow
			originOf[m.edgeID] = m.origin
			edgeIDs = append(edgeIDs, m.edgeID)
		}
	}

	for _, src := range opts.Conditions {
		bound, err := bindCondition(src, g.edges)
		if err != nil {
			return err
		}
		kept := edgeIDs[:0]
		for _, id := range edgeIDs {
			ok, err := bound.Eval(edgeRowOf[id])
			if err != nil {
				return err
			}
			if ok {
				kept = append(kept, id)
			}
		}
		edgeIDs = kept
		if len(edgeIDs) == 0 {
			return nil
		}
	}

	if opts.CopyAttr != "" {
		values := make([]cty.Value, len(edgeIDs))
		for i, id := range edgeIDs {
			row, _ := g.nodes.FindKey("id", originOf[id])
			v, err := g.nodes.Cell(row, opts.CopyAttr)
			if err != nil {
				return err
			}
			values[i] = v
		}
		for i, id := range edgeIDs {
			if err := g.edges.SetCell(edgeRowOf[id], opts.CopyAttr, values[i]); err != nil {
				return err
			}
		}
	}

	g.replaceSelection(SelectionEdges, edgeIDs)
	g.logOp(op, start)
	return nil
}

// bindCondition parses one condition string and resolves its columns against
// tbl, so it can be evaluated per candidate row.
func bindCondition(src string, tbl *table.Table) (*cond.Bound, error) {
	c, err := cond.Parse(src)
	if err != nil {
		return nil, err
	}
	return c.Bind(tbl)
}
