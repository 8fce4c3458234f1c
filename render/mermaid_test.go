// ABOUTME: Tests for Mermaid flowchart serialization and selection classes.
// ABOUTME: Asserts whole documents on small fixtures.
package render

import (
	"strings"
	"testing"

	"github.com/zclconf/go-cty/cty"

	"github.com/2389-research/plexus/graph"
	"github.com/2389-research/plexus/table"
)

func mermaidFixture(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	if _, err := g.AddNode(map[string]cty.Value{"label": table.Text("Start")}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := g.AddNode(nil); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := g.AddEdge(1, 2, map[string]cty.Value{"label": table.Text("go")}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return g
}

func TestMermaidDeterministicDocument(t *testing.T) {
	g := mermaidFixture(t)

	want := `flowchart LR
  n1["Start"]
  n2["2"]
  n1 -->|go| n2
`
	if got := Mermaid(g); got != want {
		t.Errorf("Mermaid output:\n%s\nwant:\n%s", got, want)
	}
}

func TestMermaidHighlightsSelectedNodes(t *testing.T) {
	g := mermaidFixture(t)
	if err := g.SelectNodes(1); err != nil {
		t.Fatalf("SelectNodes: %v", err)
	}

	got := Mermaid(g)
	if !strings.Contains(got, "classDef selected fill:#FFC107,stroke:#333\n") {
		t.Errorf("missing classDef:\n%s", got)
	}
	if !strings.Contains(got, "  class n1 selected\n") {
		t.Errorf("missing class line:\n%s", got)
	}
	if strings.Contains(got, "class n2 selected") {
		t.Errorf("unselected node classed:\n%s", got)
	}
}

func TestMermaidHighlightsSelectedEdges(t *testing.T) {
	g := mermaidFixture(t)
	// A second edge gives linkStyle a non-zero index to point at.
	if _, err := g.AddEdge(2, 1, nil); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.SelectEdges(2); err != nil {
		t.Fatalf("SelectEdges: %v", err)
	}

	got := Mermaid(g)
	if !strings.Contains(got, "  linkStyle 1 stroke:#E53935,stroke-width:2px\n") {
		t.Errorf("missing linkStyle for second link:\n%s", got)
	}
}

func TestMermaidEscapesLinkLabels(t *testing.T) {
	g := graph.New()
	for i := 0; i < 2; i++ {
		if _, err := g.AddNode(nil); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	if _, err := g.AddEdge(1, 2, map[string]cty.Value{"label": table.Text("a|b")}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	got := Mermaid(g)
	if !strings.Contains(got, "  n1 -->|a/b| n2\n") {
		t.Errorf("pipe not escaped:\n%s", got)
	}
}

func TestMermaidNilGraph(t *testing.T) {
	if got := Mermaid(nil); got != "" {
		t.Errorf("Mermaid(nil) = %q, want empty", got)
	}
}
