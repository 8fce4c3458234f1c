// ABOUTME: In-memory TTL render cache keyed by graph state or source text hash.
// ABOUTME: A graph id plus log version uniquely identifies a renderable state.
package render

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/2389-research/plexus/graph"
)

// SourceRenderFunc turns diagram source text into final bytes for a format.
// The production renderer is RenderDOTSource; tests inject stubs.
type SourceRenderFunc func(ctx context.Context, source string, format string) ([]byte, error)

// cacheEntry holds one cached render result with its creation timestamp.
type cacheEntry struct {
	data      []byte
	createdAt time.Time
}

// Cache memoizes render results. Graph renders are keyed by graph id, log
// version, and format, so a key never needs to be invalidated: any applied
// mutation moves the graph to a new version. Raw source renders are keyed by
// a sha256 of the text. Entries expire after the TTL; errors are never
// cached.
type Cache struct {
	renderFn SourceRenderFunc
	ttl      time.Duration
	entries  map[string]*cacheEntry
	mu       sync.RWMutex
}

// NewCache creates a Cache that uses renderFn for formats needing a render
// step. Entries expire after ttl.
func NewCache(renderFn SourceRenderFunc, ttl time.Duration) *Cache {
	return &Cache{
		renderFn: renderFn,
		ttl:      ttl,
		entries:  make(map[string]*cacheEntry),
	}
}

// Render returns the rendered form of the graph's current state, from cache
// when available and fresh.
func (c *Cache) Render(ctx context.Context, g *graph.Graph, format string) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("cannot render nil graph")
	}
	key := fmt.Sprintf("%s:%d:%s", g.ID(), g.Version(), format)
	if data, ok := c.get(key); ok {
		return data, nil
	}

	var data []byte
	var err error
	switch format {
	case FormatDOT:
		data = []byte(DOT(g))
	case FormatMermaid:
		data = []byte(Mermaid(g))
	default:
		data, err = c.renderFn(ctx, DOT(g), format)
	}
	if err != nil {
		return nil, err
	}

	c.put(key, data)
	return data, nil
}

// RenderSource renders raw diagram text, keyed by its content hash.
func (c *Cache) RenderSource(ctx context.Context, source string, format string) ([]byte, error) {
	key := fmt.Sprintf("%x:%s", sha256.Sum256([]byte(source)), format)
	if data, ok := c.get(key); ok {
		return data, nil
	}

	data, err := c.renderFn(ctx, source, format)
	if err != nil {
		return nil, err
	}

	c.put(key, data)
	return data, nil
}

// Len returns the number of entries currently held, including expired ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

func (c *Cache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || time.Since(entry.createdAt) >= c.ttl {
		return nil, false
	}
	return entry.data, true
}

func (c *Cache) put(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &cacheEntry{data: data, createdAt: time.Now()}
}
