// ABOUTME: Serializes a graph to Graphviz DOT digraph text with selection highlighting.
// ABOUTME: Output is deterministic: nodes and edges ascending by id, attributes sorted.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/2389-research/plexus/graph"
	"github.com/2389-research/plexus/table"
)

// Highlight colors for the active selection.
const (
	SelectedNodeFill  = "#FFC107" // amber
	SelectedEdgeColor = "#E53935" // red
)

// DOT serializes a graph into valid DOT digraph text. Nodes come first in
// ascending id order, then edges in ascending id order; attribute lists are
// sorted by key. Selected nodes are filled, selected edges colored.
func DOT(g *graph.Graph) string {
	if g == nil {
		return ""
	}

	selNodes, selEdges := selectionSets(g)

	var buf strings.Builder
	if name := g.Name(); name != "" {
		fmt.Fprintf(&buf, "digraph %s {\n", quoteID(name))
	} else {
		buf.WriteString("digraph {\n")
	}

	for _, id := range g.NodeIDs() {
		attrs := nodeAttrs(g, id)
		if selNodes[id] {
			attrs["style"] = "filled"
			attrs["fillcolor"] = SelectedNodeFill
		}
		writeNode(&buf, id, attrs)
	}

	for _, e := range g.Edges() {
		attrs := edgeAttrs(g, e.ID)
		if selEdges[e.ID] {
			attrs["color"] = SelectedEdgeColor
			attrs["penwidth"] = "2.0"
		}
		writeEdge(&buf, e, attrs)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// selectionSets splits the active selection into node and edge membership
// sets; at most one of them is non-empty.
func selectionSets(g *graph.Graph) (nodes, edges map[int]bool) {
	nodes = make(map[int]bool)
	edges = make(map[int]bool)
	kind, ids := g.Selection()
	for _, id := range ids {
		switch kind {
		case graph.SelectionNodes:
			nodes[id] = true
		case graph.SelectionEdges:
			edges[id] = true
		}
	}
	return nodes, edges
}

// nodeAttrs renders a node's non-missing attribute cells as strings.
func nodeAttrs(g *graph.Graph, id int) map[string]string {
	attrs := make(map[string]string)
	for _, name := range g.NodeAttrNames() {
		v, err := g.NodeAttr(id, name)
		if err != nil || table.IsMissing(v) {
			continue
		}
		attrs[name] = attrText(v)
	}
	return attrs
}

// edgeAttrs renders an edge's non-missing attribute cells as strings.
func edgeAttrs(g *graph.Graph, id int) map[string]string {
	attrs := make(map[string]string)
	for _, name := range g.EdgeAttrNames() {
		v, err := g.EdgeAttr(id, name)
		if err != nil || table.IsMissing(v) {
			continue
		}
		attrs[name] = attrText(v)
	}
	return attrs
}

// attrText renders a scalar cell for display.
func attrText(v cty.Value) string {
	s, _ := table.AsText(v)
	return s
}

// writeNode writes one node declaration.
func writeNode(buf *strings.Builder, id int, attrs map[string]string) {
	if len(attrs) == 0 {
		fmt.Fprintf(buf, "  %d;\n", id)
		return
	}
	fmt.Fprintf(buf, "  %d [%s]\n", id, formatAttrs(attrs))
}

// writeEdge writes one edge declaration.
func writeEdge(buf *strings.Builder, e graph.EdgeRef, attrs map[string]string) {
	if len(attrs) == 0 {
		fmt.Fprintf(buf, "  %d -> %d\n", e.From, e.To)
		return
	}
	fmt.Fprintf(buf, "  %d -> %d [%s]\n", e.From, e.To, formatAttrs(attrs))
}

// formatAttrs formats attributes as a DOT attribute list (key="value", ...).
func formatAttrs(attrs map[string]string) string {
	keys := sortedKeys(attrs)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, attrs[k]))
	}
	return strings.Join(parts, ", ")
}

// quoteID returns a DOT-safe identifier. Simple identifiers are returned
// as-is, anything else is quoted.
func quoteID(id string) string {
	for i, c := range id {
		if !isIDChar(c) || (i == 0 && c >= '0' && c <= '9') {
			return fmt.Sprintf("%q", id)
		}
	}
	return id
}

// isIDChar reports whether the rune is valid in a bare DOT identifier.
func isIDChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}

// sortedKeys returns the keys of a map in sorted order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
