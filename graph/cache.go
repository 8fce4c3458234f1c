// ABOUTME: Single-slot attribute cache extracted from the selected identities.
// ABOUTME: Coercion failures become missing values; every write overwrites the slot.
package graph

import (
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/2389-research/plexus/table"
)

// CacheMode controls how cached values are coerced on extraction.
type CacheMode int

const (
	CacheRaw CacheMode = iota
	CacheNumeric
	CacheText
)

func (m CacheMode) String() string {
	switch m {
	case CacheRaw:
		return "raw"
	case CacheNumeric:
		return "numeric"
	case CacheText:
		return "text"
	default:
		return "unknown"
	}
}

// CacheEntry is the cache slot's content: the source attribute, the selection
// kind it was extracted from, and the values in table row order.
type CacheEntry struct {
	Attr   string
	Kind   SelectionKind
	Values []cty.Value
}

func (e CacheEntry) clone() CacheEntry {
	vals := make([]cty.Value, len(e.Values))
	copy(vals, e.Values)
	return CacheEntry{Attr: e.Attr, Kind: e.Kind, Values: vals}
}

// CacheNodeAttrs extracts the named node attribute for the selected nodes,
// in table row order, and overwrites the cache slot. Requires a non-empty
// node selection. Selection changes never clear the slot.
func (g *Graph) CacheNodeAttrs(name string, mode CacheMode) error {
	return g.cacheAttrs(SelectionNodes, g.nodes, "cache_node_attrs", name, mode)
}

// CacheEdgeAttrs extracts the named edge attribute for the selected edges,
// in table row order, and overwrites the cache slot. Requires a non-empty
// edge selection.
func (g *Graph) CacheEdgeAttrs(name string, mode CacheMode) error {
	return g.cacheAttrs(SelectionEdges, g.edges, "cache_edge_attrs", name, mode)
}

func (g *Graph) cacheAttrs(kind SelectionKind, tbl *table.Table, op, name string, mode CacheMode) error {
	start := time.Now()
	switch {
	case g.sel.kind == SelectionNone || (g.sel.kind == kind && len(g.sel.ids) == 0):
		return ErrNoActiveSelection
	case g.sel.kind != kind:
		return &WrongSelectionKindError{Want: kind, Got: g.sel.kind}
	}
	if !tbl.HasAttr(name) {
		return &table.UnknownAttributeError{Attr: name}
	}

	set := g.selectedSet()
	ids, _ := tbl.Key("id")
	col, _ := tbl.Column(name)
	var values []cty.Value
	for i, id := range ids {
		if set[id] {
			values = append(values, coerceCache(col[i], mode))
		}
	}

	g.cache = &CacheEntry{Attr: name, Kind: kind, Values: values}
	g.logOp(op, start)
	return nil
}

// Cache returns a copy of the cache slot and whether it holds anything.
func (g *Graph) Cache() (CacheEntry, bool) {
	if g.cache == nil {
		return CacheEntry{}, false
	}
	return g.cache.clone(), true
}

func coerceCache(v cty.Value, mode CacheMode) cty.Value {
	switch mode {
	case CacheNumeric:
		return table.CoerceNumber(v)
	case CacheText:
		return table.CoerceText(v)
	default:
		return v
	}
}
