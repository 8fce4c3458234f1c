// ABOUTME: Conditional selection: filter a table and combine with the prior selection.
// ABOUTME: Set algebra applies only across selections of the same kind.
package graph

import "time"

// SetOp combines a conditional match with an existing selection of the same
// kind.
type SetOp int

const (
	SetUnion SetOp = iota
	SetIntersect
	SetDifference
)

func (op SetOp) String() string {
	switch op {
	case SetUnion:
		return "union"
	case SetIntersect:
		return "intersect"
	case SetDifference:
		return "difference"
	default:
		return "unknown"
	}
}

// SelectNodesWhere selects the nodes matching every condition, combined with
// any prior node selection using op. Against no selection, or a selection of
// the other kind, the match simply replaces it. The result may be empty and
// stays active; one entry is always logged on success.
func (g *Graph) SelectNodesWhere(op SetOp, conditions ...string) error {
	start := time.Now()
	matched, err := matchIDs(g.nodes, conditions)
	if err != nil {
		return err
	}
	g.applyWhere(SelectionNodes, op, matched)
	g.logOp("select_nodes_where", start)
	return nil
}

// SelectEdgesWhere is the edge analog of SelectNodesWhere.
func (g *Graph) SelectEdgesWhere(op SetOp, conditions ...string) error {
	start := time.Now()
	matched, err := matchIDs(g.edges, conditions)
	if err != nil {
		return err
	}
	g.applyWhere(SelectionEdges, op, matched)
	g.logOp("select_edges_where", start)
	return nil
}

func (g *Graph) applyWhere(kind SelectionKind, op SetOp, matched []int) {
	if g.sel.kind != kind {
		g.replaceSelection(kind, matched)
		return
	}
	g.replaceSelection(kind, combine(op, g.sel.ids, matched))
}

// InvertSelection replaces the active selection with its complement within
// the owning table. Inverting a full selection leaves an empty one, still
// active.
func (g *Graph) InvertSelection() error {
	start := time.Now()
	var all []int
	switch g.sel.kind {
	case SelectionNodes:
		all = g.NodeIDs()
	case SelectionEdges:
		all = g.EdgeIDs()
	default:
		return ErrNoActiveSelection
	}
	current := g.selectedSet()
	inverted := make([]int, 0, len(all))
	for _, id := range all {
		if !current[id] {
			inverted = append(inverted, id)
		}
	}
	g.replaceSelection(g.sel.kind, inverted)
	g.logOp("invert_selection", start)
	return nil
}

func combine(op SetOp, prior, matched []int) []int {
	matchedSet := make(map[int]bool, len(matched))
	for _, id := range matched {
		matchedSet[id] = true
	}
	var out []int
	switch op {
	case SetIntersect:
		for _, id := range prior {
			if matchedSet[id] {
				out = append(out, id)
			}
		}
	case SetDifference:
		for _, id := range prior {
			if !matchedSet[id] {
				out = append(out, id)
			}
		}
	default: // SetUnion
		out = append(out, prior...)
		priorSet := make(map[int]bool, len(prior))
		for _, id := range prior {
			priorSet[id] = true
		}
		for _, id := range matched {
			if !priorSet[id] {
				out = append(out, id)
			}
		}
	}
	return out
}
