// ABOUTME: Append-only action log recording every applied graph mutation.
// ABOUTME: Entries carry a dense version sequence and before/after set sizes.
package graph

import "time"

// Entry is one applied mutation. Version numbers are dense and start at 1
// with the construction entry, so the latest version equals the log length.
type Entry struct {
	Version   int
	Operation string
	Time      time.Time
	Duration  time.Duration
	Nodes     int // node count after the operation
	Edges     int // edge count after the operation
}

// LogSink receives a copy of each entry as it is appended. Sinks are invoked
// synchronously on the mutating goroutine and must not call back into the
// graph.
type LogSink interface {
	Append(Entry)
}

// LogSinkFunc adapts a function to the LogSink interface.
type LogSinkFunc func(Entry)

// Append implements LogSink.
func (f LogSinkFunc) Append(e Entry) { f(e) }

var _ LogSink = (LogSinkFunc)(nil)

// LogFilter narrows the entries returned by FilterLog. Zero values mean no
// constraint for that field.
type LogFilter struct {
	Operation    string    // exact operation name
	Since        time.Time // entries at or after this instant
	SinceVersion int       // entries with Version >= SinceVersion
	Limit        int       // maximum entries returned, 0 for all
}

// logOp appends an entry for an operation that began at start. It must be
// called after the mutation has fully applied.
func (g *Graph) logOp(op string, start time.Time) {
	e := Entry{
		Version:   len(g.log) + 1,
		Operation: op,
		Time:      start,
		Duration:  time.Since(start),
		Nodes:     g.nodes.Len(),
		Edges:     g.edges.Len(),
	}
	g.log = append(g.log, e)
	if g.sink != nil {
		g.sink.Append(e)
	}
}

// Version reports the latest log version, 1 for a freshly created graph.
func (g *Graph) Version() int {
	return len(g.log)
}

// Log returns a copy of the full action log in version order.
func (g *Graph) Log() []Entry {
	out := make([]Entry, len(g.log))
	copy(out, g.log)
	return out
}

// FilterLog returns the entries matching f, in version order.
func (g *Graph) FilterLog(f LogFilter) []Entry {
	var out []Entry
	for _, e := range g.log {
		if f.Operation != "" && e.Operation != f.Operation {
			continue
		}
		if !f.Since.IsZero() && e.Time.Before(f.Since) {
			continue
		}
		if f.SinceVersion > 0 && e.Version < f.SinceVersion {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out
}
