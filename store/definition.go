// ABOUTME: Human-editable YAML graph definitions with symbolic node names.
// ABOUTME: Loading assigns engine ids in document order; saving generates names from ids.
package store

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/2389-research/plexus/graph"
	"github.com/2389-research/plexus/table"
)

// Definition is the YAML document shape for a graph definition. Nodes are
// referenced by symbolic name; identities are assigned by the engine when
// the definition is loaded.
type Definition struct {
	Name  string    `yaml:"name,omitempty"`
	Nodes []NodeDef `yaml:"nodes"`
	Edges []EdgeDef `yaml:"edges,omitempty"`
}

// NodeDef is one node entry with free-form scalar attributes.
type NodeDef struct {
	Name  string         `yaml:"name"`
	Attrs map[string]any `yaml:"attrs,omitempty"`
}

// EdgeDef is one edge entry wiring two symbolic node names.
type EdgeDef struct {
	From  string         `yaml:"from"`
	To    string         `yaml:"to"`
	Attrs map[string]any `yaml:"attrs,omitempty"`
}

// LoadDefinition builds a fresh graph from a YAML definition document.
// Nodes get ids 1..n in document order; edges resolve their endpoints by
// name. The construction is ordinary graph mutation, so the loaded graph's
// action log reflects every node and edge added.
func LoadDefinition(r io.Reader) (*graph.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	g := graph.New(graph.WithName(def.Name))
	ids := make(map[string]int, len(def.Nodes))

	for i, node := range def.Nodes {
		if node.Name == "" {
			return nil, fmt.Errorf("definition node %d: empty name", i)
		}
		if _, exists := ids[node.Name]; exists {
			return nil, fmt.Errorf("definition: duplicate node name %q", node.Name)
		}
		attrs, err := cellsFromYAML(node.Attrs)
		if err != nil {
			return nil, fmt.Errorf("definition node %q: %w", node.Name, err)
		}
		id, err := g.AddNode(attrs)
		if err != nil {
			return nil, fmt.Errorf("definition node %q: %w", node.Name, err)
		}
		ids[node.Name] = id
	}

	for i, edge := range def.Edges {
		from, ok := ids[edge.From]
		if !ok {
			return nil, fmt.Errorf("definition edge %d: unknown node %q", i, edge.From)
		}
		to, ok := ids[edge.To]
		if !ok {
			return nil, fmt.Errorf("definition edge %d: unknown node %q", i, edge.To)
		}
		attrs, err := cellsFromYAML(edge.Attrs)
		if err != nil {
			return nil, fmt.Errorf("definition edge %q -> %q: %w", edge.From, edge.To, err)
		}
		if _, err := g.AddEdge(from, to, attrs); err != nil {
			return nil, fmt.Errorf("definition edge %q -> %q: %w", edge.From, edge.To, err)
		}
	}

	return g, nil
}

// SaveDefinition writes the graph's structure and attributes as a YAML
// definition document. Symbolic names are generated from ids (n1, n2, ...);
// selection, cache, and log state are not part of a definition.
func SaveDefinition(w io.Writer, g *graph.Graph) error {
	if g == nil {
		return fmt.Errorf("save definition: nil graph")
	}

	def := Definition{Name: g.Name()}

	nodeIDs := g.NodeIDs()
	sort.Ints(nodeIDs)
	for _, id := range nodeIDs {
		node := NodeDef{Name: fmt.Sprintf("n%d", id)}
		node.Attrs = yamlAttrs(g.NodeAttrNames(), func(name string) (cty.Value, error) {
			return g.NodeAttr(id, name)
		})
		def.Nodes = append(def.Nodes, node)
	}

	edges := g.Edges()
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	for _, e := range edges {
		edge := EdgeDef{From: fmt.Sprintf("n%d", e.From), To: fmt.Sprintf("n%d", e.To)}
		edge.Attrs = yamlAttrs(g.EdgeAttrNames(), func(name string) (cty.Value, error) {
			return g.EdgeAttr(e.ID, name)
		})
		def.Edges = append(def.Edges, edge)
	}

	data, err := yaml.Marshal(&def)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write definition: %w", err)
	}
	return nil
}

func cellsFromYAML(attrs map[string]any) (map[string]cty.Value, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	cells := make(map[string]cty.Value, len(attrs))
	for name, v := range attrs {
		cell, err := cellFromYAML(name, v)
		if err != nil {
			return nil, err
		}
		cells[name] = cell
	}
	return cells, nil
}

func cellFromYAML(name string, v any) (cty.Value, error) {
	switch x := v.(type) {
	case nil:
		return table.Null, nil
	case string:
		return table.Text(x), nil
	case int:
		return table.Int(x), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case uint64:
		return cty.NumberUIntVal(x), nil
	case float64:
		return table.Number(x), nil
	default:
		return cty.NilVal, fmt.Errorf("attribute %q: unsupported value %T", name, v)
	}
}

// yamlAttrs collects the non-missing attributes of one node or edge. Numbers
// come out as ints when they are whole, so round-tripped documents stay tidy.
func yamlAttrs(names []string, read func(string) (cty.Value, error)) map[string]any {
	var attrs map[string]any
	for _, name := range names {
		v, err := read(name)
		if err != nil || table.IsMissing(v) {
			continue
		}
		if attrs == nil {
			attrs = make(map[string]any)
		}
		attrs[name] = yamlFromCell(v)
	}
	return attrs
}

func yamlFromCell(v cty.Value) any {
	if v.Type() == cty.String {
		return v.AsString()
	}
	f, _ := table.AsNumber(v)
	if f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64 {
		return int64(f)
	}
	return f
}
