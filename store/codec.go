// ABOUTME: JSON wire codec for graph snapshots.
// ABOUTME: Cells are bare JSON scalars via cty/json; missing cells are null.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/2389-research/plexus/graph"
	"github.com/2389-research/plexus/table"
)

// snapshotJSON is the wire format for graph.Snapshot.
type snapshotJSON struct {
	ID         string         `json:"id"`
	Name       string         `json:"name,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	LastNodeID int            `json:"last_node_id"`
	LastEdgeID int            `json:"last_edge_id"`
	Nodes      tableJSON      `json:"nodes"`
	Edges      tableJSON      `json:"edges"`
	Selection  selectionJSON  `json:"selection"`
	Cache      *cacheJSON     `json:"cache,omitempty"`
	Log        []logEntryJSON `json:"log"`
}

type tableJSON struct {
	Keys  []keyColumnJSON  `json:"keys"`
	Attrs []attrColumnJSON `json:"attrs"`
}

type keyColumnJSON struct {
	Name   string `json:"name"`
	Values []int  `json:"values"`
}

type attrColumnJSON struct {
	Name   string            `json:"name"`
	Values []json.RawMessage `json:"values"`
}

type selectionJSON struct {
	Kind string `json:"kind"`
	IDs  []int  `json:"ids,omitempty"`
}

type cacheJSON struct {
	Attr   string            `json:"attr"`
	Kind   string            `json:"kind"`
	Values []json.RawMessage `json:"values"`
}

type logEntryJSON struct {
	Version    int       `json:"version"`
	Operation  string    `json:"operation"`
	Time       time.Time `json:"time"`
	DurationNS int64     `json:"duration_ns"`
	Nodes      int       `json:"nodes"`
	Edges      int       `json:"edges"`
}

// Encode serializes a snapshot as indented JSON. Attribute cells carry their
// scalar value directly (number, string, or null for missing), so payloads
// stay diffable and hand-editable.
func Encode(snap *graph.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("encode snapshot: nil snapshot")
	}

	nodes, err := encodeTable(snap.Nodes)
	if err != nil {
		return nil, fmt.Errorf("encode node table: %w", err)
	}
	edges, err := encodeTable(snap.Edges)
	if err != nil {
		return nil, fmt.Errorf("encode edge table: %w", err)
	}

	j := snapshotJSON{
		ID:         snap.ID,
		Name:       snap.Name,
		CreatedAt:  snap.CreatedAt,
		LastNodeID: snap.LastNodeID,
		LastEdgeID: snap.LastEdgeID,
		Nodes:      nodes,
		Edges:      edges,
		Selection:  selectionJSON{Kind: snap.Selection.Kind.String(), IDs: snap.Selection.IDs},
		Log:        make([]logEntryJSON, 0, len(snap.Log)),
	}

	if snap.Cache != nil {
		values, err := encodeCells(snap.Cache.Values)
		if err != nil {
			return nil, fmt.Errorf("encode cache: %w", err)
		}
		j.Cache = &cacheJSON{Attr: snap.Cache.Attr, Kind: snap.Cache.Kind.String(), Values: values}
	}

	for _, e := range snap.Log {
		j.Log = append(j.Log, logEntryJSON{
			Version:    e.Version,
			Operation:  e.Operation,
			Time:       e.Time,
			DurationNS: e.Duration.Nanoseconds(),
			Nodes:      e.Nodes,
			Edges:      e.Edges,
		})
	}

	return json.MarshalIndent(j, "", "  ")
}

// Decode parses snapshot JSON produced by Encode. The result is plain data;
// pass it to graph.FromSnapshot for structural validation and a live graph.
func Decode(data []byte) (*graph.Snapshot, error) {
	var j snapshotJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}

	nodes, err := decodeTable(j.Nodes)
	if err != nil {
		return nil, fmt.Errorf("decode node table: %w", err)
	}
	edges, err := decodeTable(j.Edges)
	if err != nil {
		return nil, fmt.Errorf("decode edge table: %w", err)
	}
	kind, err := selectionKindFromString(j.Selection.Kind)
	if err != nil {
		return nil, fmt.Errorf("decode selection: %w", err)
	}

	snap := &graph.Snapshot{
		ID:         j.ID,
		Name:       j.Name,
		CreatedAt:  j.CreatedAt,
		LastNodeID: j.LastNodeID,
		LastEdgeID: j.LastEdgeID,
		Nodes:      nodes,
		Edges:      edges,
		Selection:  graph.SelectionData{Kind: kind, IDs: j.Selection.IDs},
		Log:        make([]graph.Entry, 0, len(j.Log)),
	}

	if j.Cache != nil {
		cacheKind, err := selectionKindFromString(j.Cache.Kind)
		if err != nil {
			return nil, fmt.Errorf("decode cache: %w", err)
		}
		values, err := decodeCells(j.Cache.Values)
		if err != nil {
			return nil, fmt.Errorf("decode cache: %w", err)
		}
		snap.Cache = &graph.CacheData{Attr: j.Cache.Attr, Kind: cacheKind, Values: values}
	}

	for _, e := range j.Log {
		snap.Log = append(snap.Log, graph.Entry{
			Version:   e.Version,
			Operation: e.Operation,
			Time:      e.Time,
			Duration:  time.Duration(e.DurationNS),
			Nodes:     e.Nodes,
			Edges:     e.Edges,
		})
	}

	return snap, nil
}

func encodeTable(data graph.TableData) (tableJSON, error) {
	var t tableJSON
	for _, key := range data.Keys {
		t.Keys = append(t.Keys, keyColumnJSON{Name: key.Name, Values: key.Values})
	}
	for _, attr := range data.Attrs {
		values, err := encodeCells(attr.Values)
		if err != nil {
			return tableJSON{}, fmt.Errorf("column %q: %w", attr.Name, err)
		}
		t.Attrs = append(t.Attrs, attrColumnJSON{Name: attr.Name, Values: values})
	}
	return t, nil
}

func decodeTable(t tableJSON) (graph.TableData, error) {
	var data graph.TableData
	for _, key := range t.Keys {
		data.Keys = append(data.Keys, graph.KeyColumn{Name: key.Name, Values: key.Values})
	}
	for _, attr := range t.Attrs {
		values, err := decodeCells(attr.Values)
		if err != nil {
			return graph.TableData{}, fmt.Errorf("column %q: %w", attr.Name, err)
		}
		data.Attrs = append(data.Attrs, graph.AttrColumn{Name: attr.Name, Values: values})
	}
	return data, nil
}

func encodeCells(cells []cty.Value) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(cells))
	for i, v := range cells {
		raw, err := encodeCell(v)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		out[i] = raw
	}
	return out, nil
}

func decodeCells(raws []json.RawMessage) ([]cty.Value, error) {
	out := make([]cty.Value, len(raws))
	for i, raw := range raws {
		v, err := decodeCell(raw)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func encodeCell(v cty.Value) (json.RawMessage, error) {
	if table.IsMissing(v) {
		return json.RawMessage("null"), nil
	}
	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func decodeCell(raw json.RawMessage) (cty.Value, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return table.Null, nil
	}
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, err
	}
	if ty != cty.Number && ty != cty.String {
		return cty.NilVal, fmt.Errorf("unsupported cell %s", raw)
	}
	return ctyjson.Unmarshal(raw, ty)
}

func selectionKindFromString(s string) (graph.SelectionKind, error) {
	switch s {
	case "none":
		return graph.SelectionNone, nil
	case "nodes":
		return graph.SelectionNodes, nil
	case "edges":
		return graph.SelectionEdges, nil
	}
	return graph.SelectionNone, fmt.Errorf("unknown selection kind %q", s)
}
