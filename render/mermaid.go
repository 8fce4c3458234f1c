// ABOUTME: Serializes a graph to Mermaid flowchart text with selection highlighting.
// ABOUTME: Same determinism as the DOT renderer: ids ascending, labels escaped.
package render

import (
	"fmt"
	"strings"

	"github.com/2389-research/plexus/graph"
	"github.com/2389-research/plexus/table"
)

// Mermaid serializes a graph into a left-to-right Mermaid flowchart. A node
// shows its "label" attribute when present, otherwise its id. Edges show
// their "label" attribute when present. Selected nodes get the selected
// class; selected edges get a linkStyle stroke.
func Mermaid(g *graph.Graph) string {
	if g == nil {
		return ""
	}

	selNodes, selEdges := selectionSets(g)

	var buf strings.Builder
	buf.WriteString("flowchart LR\n")

	for _, id := range g.NodeIDs() {
		fmt.Fprintf(&buf, "  n%d[%q]\n", id, mermaidNodeLabel(g, id))
	}

	var selectedLinks []int
	for i, e := range g.Edges() {
		if label, ok := mermaidEdgeLabel(g, e.ID); ok {
			fmt.Fprintf(&buf, "  n%d -->|%s| n%d\n", e.From, escapeMermaid(label), e.To)
		} else {
			fmt.Fprintf(&buf, "  n%d --> n%d\n", e.From, e.To)
		}
		if selEdges[e.ID] {
			selectedLinks = append(selectedLinks, i)
		}
	}

	if len(selNodes) > 0 {
		fmt.Fprintf(&buf, "  classDef selected fill:%s,stroke:#333\n", SelectedNodeFill)
		for _, id := range g.NodeIDs() {
			if selNodes[id] {
				fmt.Fprintf(&buf, "  class n%d selected\n", id)
			}
		}
	}
	for _, link := range selectedLinks {
		fmt.Fprintf(&buf, "  linkStyle %d stroke:%s,stroke-width:2px\n", link, SelectedEdgeColor)
	}

	return buf.String()
}

func mermaidNodeLabel(g *graph.Graph, id int) string {
	v, err := g.NodeAttr(id, "label")
	if err == nil && !table.IsMissing(v) {
		if s, ok := table.AsText(v); ok {
			return s
		}
	}
	return fmt.Sprintf("%d", id)
}

func mermaidEdgeLabel(g *graph.Graph, id int) (string, bool) {
	v, err := g.EdgeAttr(id, "label")
	if err != nil || table.IsMissing(v) {
		return "", false
	}
	s, ok := table.AsText(v)
	return s, ok && s != ""
}

// escapeMermaid strips characters that would break link label syntax.
func escapeMermaid(s string) string {
	return strings.NewReplacer("|", "/", "\n", " ").Replace(s)
}
