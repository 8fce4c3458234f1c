// ABOUTME: Edge operations: ordered endpoints referencing live nodes, monotonic ids.
// ABOUTME: Self-loops are storable; directional traversal drops them at match time.
package graph

import (
	"time"

	"github.com/zclconf/go-cty/cty"
)

// EdgeRef is one edge's identity and endpoints.
type EdgeRef struct {
	ID   int
	From int
	To   int
}

// AddEdge appends an edge from one existing node to another and returns its
// id. Self-loops are allowed.
func (g *Graph) AddEdge(from, to int, attrs map[string]cty.Value) (int, error) {
	start := time.Now()
	if !g.HasNode(from) {
		return 0, &NoSuchIdentityError{Kind: "node", ID: from}
	}
	if !g.HasNode(to) {
		return 0, &NoSuchIdentityError{Kind: "node", ID: to}
	}
	id := g.lastEdgeID + 1
	if err := g.edges.AppendRow([]int{id, from, to}, attrs); err != nil {
		return 0, err
	}
	g.lastEdgeID = id
	g.logOp("add_edge", start)
	return id, nil
}

// DeleteEdge removes an edge. The deleted id is pruned from an active edge
// selection.
func (g *Graph) DeleteEdge(id int) error {
	start := time.Now()
	row, ok := g.edges.FindKey("id", id)
	if !ok {
		return &NoSuchIdentityError{Kind: "edge", ID: id}
	}
	if err := g.edges.DeleteRows(row); err != nil {
		return err
	}
	g.pruneSelection(SelectionEdges, map[int]bool{id: true})
	g.logOp("delete_edge", start)
	return nil
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return g.edges.Len()
}

// HasEdge reports whether an edge id exists.
func (g *Graph) HasEdge(id int) bool {
	_, ok := g.edges.FindKey("id", id)
	return ok
}

// EdgeIDs returns all edge ids in ascending order.
func (g *Graph) EdgeIDs() []int {
	ids, _ := g.edges.Key("id")
	return append([]int(nil), ids...)
}

// Edges returns every edge's identity and endpoints in table row order.
func (g *Graph) Edges() []EdgeRef {
	ids, _ := g.edges.Key("id")
	froms, _ := g.edges.Key("from")
	tos, _ := g.edges.Key("to")
	out := make([]EdgeRef, len(ids))
	for i := range ids {
		out[i] = EdgeRef{ID: ids[i], From: froms[i], To: tos[i]}
	}
	return out
}

// EdgeEndpoints returns an edge's from and to node ids.
func (g *Graph) EdgeEndpoints(id int) (from, to int, err error) {
	row, ok := g.edges.FindKey("id", id)
	if !ok {
		return 0, 0, &NoSuchIdentityError{Kind: "edge", ID: id}
	}
	froms, _ := g.edges.Key("from")
	tos, _ := g.edges.Key("to")
	return froms[row], tos[row], nil
}

// EdgeAttrNames returns the edge attribute column names in lexical order.
func (g *Graph) EdgeAttrNames() []string {
	return g.edges.SortedAttrNames()
}
