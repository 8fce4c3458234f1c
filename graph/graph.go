// ABOUTME: Mutable in-memory property graph: node/edge tables, selection, cache, log.
// ABOUTME: Operators validate every precondition before mutating, then log exactly once.
//
// Package graph implements an in-memory mutable property graph. A Graph owns
// one node table (key column "id") and one edge table (key columns "id",
// "from", "to"), a current selection of node OR edge identities that
// traversal and query operators read and replace, a single-slot attribute
// cache, and an append-only action log numbering every applied mutation.
//
// A Graph is a single-owner value: it carries no locks and must not be
// mutated from multiple goroutines. Every operator either fully succeeds,
// applying its table, selection, and cache changes together with one log
// append, or fails before any observable change.
package graph

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/2389-research/plexus/table"
)

// Graph is a mutable property graph. The zero value is not usable; create
// one with New or FromSnapshot.
type Graph struct {
	id      ulid.ULID
	name    string
	created time.Time

	nodes *table.Table
	edges *table.Table

	sel   selection
	cache *CacheEntry

	log  []Entry
	sink LogSink

	// Identity counters only grow; deletions never free ids for reuse.
	lastNodeID int
	lastEdgeID int
}

// Option configures a graph at construction time.
type Option func(*Graph)

// WithName sets a descriptive name.
func WithName(name string) Option {
	return func(g *Graph) { g.name = name }
}

// WithID overrides the generated graph id.
func WithID(id ulid.ULID) Option {
	return func(g *Graph) { g.id = id }
}

// WithSink registers a log sink that receives every appended entry,
// including the construction entry.
func WithSink(sink LogSink) Option {
	return func(g *Graph) { g.sink = sink }
}

// New creates an empty graph and logs the construction entry at version 1.
func New(opts ...Option) *Graph {
	g := &Graph{
		id:      ulid.Make(),
		created: time.Now(),
		nodes:   table.New("id"),
		edges:   table.New("id", "from", "to"),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logOp("create", g.created)
	return g
}

// ID returns the graph's identity.
func (g *Graph) ID() ulid.ULID {
	return g.id
}

// Name returns the descriptive name, empty if none was set.
func (g *Graph) Name() string {
	return g.name
}

// CreatedAt returns the construction time.
func (g *Graph) CreatedAt() time.Time {
	return g.created
}

// Clone returns an independent deep copy: same id, tables, selection, cache,
// and log. The sink is not carried over, so mutations of the clone are not
// reported to the original's sink.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		id:         g.id,
		name:       g.name,
		created:    g.created,
		nodes:      g.nodes.Clone(),
		edges:      g.edges.Clone(),
		lastNodeID: g.lastNodeID,
		lastEdgeID: g.lastEdgeID,
	}
	out.sel = selection{kind: g.sel.kind, ids: append([]int(nil), g.sel.ids...)}
	if g.cache != nil {
		c := g.cache.clone()
		out.cache = &c
	}
	out.log = make([]Entry, len(g.log))
	copy(out.log, g.log)
	return out
}
