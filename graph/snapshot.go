// ABOUTME: Plain-data snapshot of a whole graph value, in and out.
// ABOUTME: FromSnapshot revalidates everything; malformed data is ErrInvalidGraph.
package graph

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/2389-research/plexus/table"
)

// Snapshot is a complete copy of a graph's state as plain data, suitable for
// serialization by collaborator packages. It shares no memory with the graph
// it came from.
type Snapshot struct {
	ID         string
	Name       string
	CreatedAt  time.Time
	LastNodeID int
	LastEdgeID int
	Nodes      TableData
	Edges      TableData
	Selection  SelectionData
	Cache      *CacheData
	Log        []Entry
}

// TableData holds one table's columns: key columns in fixed position order,
// then attribute columns in display order.
type TableData struct {
	Keys  []KeyColumn
	Attrs []AttrColumn
}

// KeyColumn is one reserved integer column.
type KeyColumn struct {
	Name   string
	Values []int
}

// AttrColumn is one attribute column of scalar or missing cells.
type AttrColumn struct {
	Name   string
	Values []cty.Value
}

// SelectionData is the selection state: Kind SelectionNone means no
// selection and IDs must be empty; an active kind with zero IDs is an empty
// but present selection.
type SelectionData struct {
	Kind SelectionKind
	IDs  []int
}

// CacheData is the attribute cache slot, if occupied.
type CacheData struct {
	Attr   string
	Kind   SelectionKind
	Values []cty.Value
}

// Snapshot returns a complete copy of the graph's state.
func (g *Graph) Snapshot() *Snapshot {
	snap := &Snapshot{
		ID:         g.id.String(),
		Name:       g.name,
		CreatedAt:  g.created,
		LastNodeID: g.lastNodeID,
		LastEdgeID: g.lastEdgeID,
		Nodes:      tableData(g.nodes),
		Edges:      tableData(g.edges),
		Log:        make([]Entry, len(g.log)),
	}
	copy(snap.Log, g.log)
	snap.Selection = SelectionData{Kind: g.sel.kind, IDs: append([]int(nil), g.sel.ids...)}
	if g.cache != nil {
		c := g.cache.clone()
		snap.Cache = &CacheData{Attr: c.Attr, Kind: c.Kind, Values: c.Values}
	}
	return snap
}

func tableData(t *table.Table) TableData {
	var data TableData
	for _, name := range t.KeyNames() {
		vals, _ := t.Key(name)
		data.Keys = append(data.Keys, KeyColumn{Name: name, Values: append([]int(nil), vals...)})
	}
	for _, name := range t.Names() {
		col, _ := t.Column(name)
		data.Attrs = append(data.Attrs, AttrColumn{Name: name, Values: append([]cty.Value(nil), col...)})
	}
	return data
}

// FromSnapshot reconstructs a graph from snapshot data, validating identity
// uniqueness, referential integrity, selection and cache consistency, and
// log density. It copies everything, so the caller may keep mutating the
// snapshot. The log sink is not part of a snapshot; attach one by assembling
// a new graph if needed.
func FromSnapshot(snap *Snapshot) (*Graph, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrInvalidGraph)
	}
	id, err := ulid.Parse(snap.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: graph id %q", ErrInvalidGraph, snap.ID)
	}

	nodes, err := tableFromData(snap.Nodes, "node", "id")
	if err != nil {
		return nil, err
	}
	edges, err := tableFromData(snap.Edges, "edge", "id", "from", "to")
	if err != nil {
		return nil, err
	}

	nodeIDs, _ := nodes.Key("id")
	nodeSet, maxNodeID, err := identitySet("node", nodeIDs)
	if err != nil {
		return nil, err
	}
	edgeIDs, _ := edges.Key("id")
	edgeSet, maxEdgeID, err := identitySet("edge", edgeIDs)
	if err != nil {
		return nil, err
	}
	froms, _ := edges.Key("from")
	tos, _ := edges.Key("to")
	for i := range froms {
		if !nodeSet[froms[i]] || !nodeSet[tos[i]] {
			return nil, fmt.Errorf("%w: edge %d references missing node", ErrInvalidGraph, edgeIDs[i])
		}
	}
	if snap.LastNodeID < maxNodeID {
		return nil, fmt.Errorf("%w: node counter %d below max id %d", ErrInvalidGraph, snap.LastNodeID, maxNodeID)
	}
	if snap.LastEdgeID < maxEdgeID {
		return nil, fmt.Errorf("%w: edge counter %d below max id %d", ErrInvalidGraph, snap.LastEdgeID, maxEdgeID)
	}

	sel, err := selectionFromData(snap.Selection, nodeSet, edgeSet)
	if err != nil {
		return nil, err
	}

	var cache *CacheEntry
	if snap.Cache != nil {
		if snap.Cache.Kind != SelectionNodes && snap.Cache.Kind != SelectionEdges {
			return nil, fmt.Errorf("%w: cache kind %s", ErrInvalidGraph, snap.Cache.Kind)
		}
		vals := make([]cty.Value, len(snap.Cache.Values))
		for i, v := range snap.Cache.Values {
			if !validCell(v) {
				return nil, fmt.Errorf("%w: cache value %d is not a scalar", ErrInvalidGraph, i)
			}
			vals[i] = v
		}
		cache = &CacheEntry{Attr: snap.Cache.Attr, Kind: snap.Cache.Kind, Values: vals}
	}

	if len(snap.Log) == 0 {
		return nil, fmt.Errorf("%w: empty action log", ErrInvalidGraph)
	}
	log := make([]Entry, len(snap.Log))
	for i, e := range snap.Log {
		if e.Version != i+1 {
			return nil, fmt.Errorf("%w: log version %d at position %d", ErrInvalidGraph, e.Version, i)
		}
		log[i] = e
	}

	return &Graph{
		id:         id,
		name:       snap.Name,
		created:    snap.CreatedAt,
		nodes:      nodes,
		edges:      edges,
		sel:        sel,
		cache:      cache,
		log:        log,
		lastNodeID: snap.LastNodeID,
		lastEdgeID: snap.LastEdgeID,
	}, nil
}

func tableFromData(data TableData, what string, wantKeys ...string) (*table.Table, error) {
	if len(data.Keys) != len(wantKeys) {
		return nil, fmt.Errorf("%w: %s table: want %d key columns, got %d", ErrInvalidGraph, what, len(wantKeys), len(data.Keys))
	}
	rows := -1
	for i, key := range data.Keys {
		if key.Name != wantKeys[i] {
			return nil, fmt.Errorf("%w: %s table: key column %d is %q, want %q", ErrInvalidGraph, what, i, key.Name, wantKeys[i])
		}
		if rows == -1 {
			rows = len(key.Values)
		} else if len(key.Values) != rows {
			return nil, fmt.Errorf("%w: %s table: ragged key column %q", ErrInvalidGraph, what, key.Name)
		}
	}
	if rows == -1 {
		rows = 0
	}

	t := table.New(wantKeys...)
	keyVals := make([]int, len(wantKeys))
	for r := 0; r < rows; r++ {
		for i := range data.Keys {
			keyVals[i] = data.Keys[i].Values[r]
		}
		if err := t.AppendRow(keyVals, nil); err != nil {
			return nil, fmt.Errorf("%w: %s table: %v", ErrInvalidGraph, what, err)
		}
	}
	for _, attr := range data.Attrs {
		if err := t.SetColumn(attr.Name, attr.Values); err != nil {
			return nil, fmt.Errorf("%w: %s table column %q: %v", ErrInvalidGraph, what, attr.Name, err)
		}
	}
	return t, nil
}

func identitySet(what string, ids []int) (map[int]bool, int, error) {
	set := make(map[int]bool, len(ids))
	maxID := 0
	for _, id := range ids {
		if id <= 0 {
			return nil, 0, fmt.Errorf("%w: %s id %d is not positive", ErrInvalidGraph, what, id)
		}
		if set[id] {
			return nil, 0, fmt.Errorf("%w: duplicate %s id %d", ErrInvalidGraph, what, id)
		}
		set[id] = true
		if id > maxID {
			maxID = id
		}
	}
	return set, maxID, nil
}

func selectionFromData(data SelectionData, nodeSet, edgeSet map[int]bool) (selection, error) {
	switch data.Kind {
	case SelectionNone:
		if len(data.IDs) != 0 {
			return selection{}, fmt.Errorf("%w: ids present without a selection kind", ErrInvalidGraph)
		}
		return selection{}, nil
	case SelectionNodes:
		for _, id := range data.IDs {
			if !nodeSet[id] {
				return selection{}, fmt.Errorf("%w: selected node %d missing", ErrInvalidGraph, id)
			}
		}
	case SelectionEdges:
		for _, id := range data.IDs {
			if !edgeSet[id] {
				return selection{}, fmt.Errorf("%w: selected edge %d missing", ErrInvalidGraph, id)
			}
		}
	default:
		return selection{}, fmt.Errorf("%w: selection kind %d", ErrInvalidGraph, int(data.Kind))
	}
	return selection{kind: data.Kind, ids: dedupSorted(data.IDs)}, nil
}

func validCell(v cty.Value) bool {
	if table.IsMissing(v) {
		return true
	}
	ty := v.Type()
	return ty == cty.Number || ty == cty.String
}
