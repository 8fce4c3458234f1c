// ABOUTME: Node operations: identity assignment, attribute rows, cascading deletes.
// ABOUTME: Node ids come from a monotonic counter and are never reused.
package graph

import (
	"time"

	"github.com/zclconf/go-cty/cty"
)

// AddNode appends a node with the given attributes and returns its id.
func (g *Graph) AddNode(attrs map[string]cty.Value) (int, error) {
	start := time.Now()
	id := g.lastNodeID + 1
	if err := g.nodes.AppendRow([]int{id}, attrs); err != nil {
		return 0, err
	}
	g.lastNodeID = id
	g.logOp("add_node", start)
	return id, nil
}

// DeleteNode removes a node and every edge incident to it. Deleted ids are
// pruned from the active selection; the selection stays active even when
// drained empty.
func (g *Graph) DeleteNode(id int) error {
	start := time.Now()
	row, ok := g.nodes.FindKey("id", id)
	if !ok {
		return &NoSuchIdentityError{Kind: "node", ID: id}
	}

	edgeIDs, _ := g.edges.Key("id")
	froms, _ := g.edges.Key("from")
	tos, _ := g.edges.Key("to")
	var incidentRows []int
	removedEdges := make(map[int]bool)
	for i := range froms {
		if froms[i] == id || tos[i] == id {
			incidentRows = append(incidentRows, i)
			removedEdges[edgeIDs[i]] = true
		}
	}

	if err := g.edges.DeleteRows(incidentRows...); err != nil {
		return err
	}
	if err := g.nodes.DeleteRows(row); err != nil {
		return err
	}

	g.pruneSelection(SelectionNodes, map[int]bool{id: true})
	g.pruneSelection(SelectionEdges, removedEdges)
	g.logOp("delete_node", start)
	return nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return g.nodes.Len()
}

// HasNode reports whether a node id exists.
func (g *Graph) HasNode(id int) bool {
	_, ok := g.nodes.FindKey("id", id)
	return ok
}

// NodeIDs returns all node ids in ascending order.
func (g *Graph) NodeIDs() []int {
	ids, _ := g.nodes.Key("id")
	return append([]int(nil), ids...)
}

// NodeAttrNames returns the node attribute column names in lexical order.
func (g *Graph) NodeAttrNames() []string {
	return g.nodes.SortedAttrNames()
}
