// ABOUTME: Selection-independent queries and single-cell attribute access.
// ABOUTME: Lookup queries signal "no match" with a nil slice, never an error.
package graph

import (
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/2389-research/plexus/cond"
	"github.com/2389-research/plexus/table"
)

// GetNodeIDs returns the ids of nodes matching every condition, ascending,
// ignoring the selection. No conditions means all nodes. A nil slice with a
// nil error means no rows matched; it is a sentinel, not a failure.
func (g *Graph) GetNodeIDs(conditions ...string) ([]int, error) {
	return matchIDs(g.nodes, conditions)
}

// GetEdgeIDs returns the ids of edges matching every condition, ascending,
// ignoring the selection. No conditions means all edges. A nil slice with a
// nil error means no rows matched; it is a sentinel, not a failure.
func (g *Graph) GetEdgeIDs(conditions ...string) ([]int, error) {
	return matchIDs(g.edges, conditions)
}

func matchIDs(tbl *table.Table, conditions []string) ([]int, error) {
	rows, err := cond.Filter(tbl, conditions...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	ids, _ := tbl.Key("id")
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = ids[r]
	}
	return out, nil
}

// NodeAttr reads one node attribute cell.
func (g *Graph) NodeAttr(id int, name string) (cty.Value, error) {
	row, ok := g.nodes.FindKey("id", id)
	if !ok {
		return cty.NilVal, &NoSuchIdentityError{Kind: "node", ID: id}
	}
	return g.nodes.Cell(row, name)
}

// EdgeAttr reads one edge attribute cell.
func (g *Graph) EdgeAttr(id int, name string) (cty.Value, error) {
	row, ok := g.edges.FindKey("id", id)
	if !ok {
		return cty.NilVal, &NoSuchIdentityError{Kind: "edge", ID: id}
	}
	return g.edges.Cell(row, name)
}

// SetNodeAttr writes one node attribute cell, creating the column when it
// doesn't exist yet.
func (g *Graph) SetNodeAttr(id int, name string, v cty.Value) error {
	start := time.Now()
	row, ok := g.nodes.FindKey("id", id)
	if !ok {
		return &NoSuchIdentityError{Kind: "node", ID: id}
	}
	if err := g.nodes.SetCell(row, name, v); err != nil {
		return err
	}
	g.logOp("set_node_attr", start)
	return nil
}

// SetEdgeAttr writes one edge attribute cell, creating the column when it
// doesn't exist yet.
func (g *Graph) SetEdgeAttr(id int, name string, v cty.Value) error {
	start := time.Now()
	row, ok := g.edges.FindKey("id", id)
	if !ok {
		return &NoSuchIdentityError{Kind: "edge", ID: id}
	}
	if err := g.edges.SetCell(row, name, v); err != nil {
		return err
	}
	g.logOp("set_edge_attr", start)
	return nil
}
