// ABOUTME: Tests for the Prometheus log sink.
// ABOUTME: Covers operation counters, size gauges, histogram samples, and failed calls.
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/2389-research/plexus/graph"
)

func collectorGraph(t *testing.T) (*Collector, *graph.Graph) {
	t.Helper()
	c := NewCollector(prometheus.NewRegistry())
	return c, graph.New(graph.WithSink(c))
}

func mustNode(t *testing.T, g *graph.Graph) int {
	t.Helper()
	id, err := g.AddNode(nil)
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	return id
}

func TestCollectorCountsOperations(t *testing.T) {
	c, g := collectorGraph(t)

	a := mustNode(t, g)
	b := mustNode(t, g)
	if _, err := g.AddEdge(a, b, nil); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	if err := g.SelectNodes(a); err != nil {
		t.Fatalf("SelectNodes: %v", err)
	}

	if got := testutil.ToFloat64(c.operations.WithLabelValues("create")); got != 1 {
		t.Errorf("create count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.operations.WithLabelValues("add_node")); got != 2 {
		t.Errorf("add_node count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.operations.WithLabelValues("add_edge")); got != 1 {
		t.Errorf("add_edge count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.operations.WithLabelValues("select_nodes")); got != 1 {
		t.Errorf("select_nodes count = %v, want 1", got)
	}
}

func TestCollectorGaugesTrackCounts(t *testing.T) {
	c, g := collectorGraph(t)

	a := mustNode(t, g)
	b := mustNode(t, g)
	mustNode(t, g)
	if _, err := g.AddEdge(a, b, nil); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	if got := testutil.ToFloat64(c.nodes); got != 3 {
		t.Errorf("nodes gauge = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.edges); got != 1 {
		t.Errorf("edges gauge = %v, want 1", got)
	}

	// Deleting an endpoint cascades to its edge; the gauges follow.
	if err := g.DeleteNode(a); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	if got := testutil.ToFloat64(c.nodes); got != 2 {
		t.Errorf("nodes gauge after delete = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.edges); got != 0 {
		t.Errorf("edges gauge after delete = %v, want 0", got)
	}
}

func TestCollectorHistogramSamplesEveryOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	g := graph.New(graph.WithSink(c))

	a, err := g.AddNode(nil)
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	mustNode(t, g)
	if err := g.SelectNodes(a); err != nil {
		t.Fatalf("SelectNodes: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var samples uint64
	found := false
	for _, fam := range families {
		if fam.GetName() != "plexus_operation_seconds" {
			continue
		}
		found = true
		for _, m := range fam.GetMetric() {
			samples += m.GetHistogram().GetSampleCount()
		}
	}
	if !found {
		t.Fatal("plexus_operation_seconds not registered")
	}
	if samples != uint64(g.Version()) {
		t.Errorf("histogram samples = %d, want %d", samples, g.Version())
	}
}

func TestCollectorIgnoresFailedCalls(t *testing.T) {
	c, g := collectorGraph(t)

	if _, err := g.AddEdge(7, 8, nil); err == nil {
		t.Fatal("expected AddEdge to fail")
	}

	if got := testutil.ToFloat64(c.operations.WithLabelValues("add_edge")); got != 0 {
		t.Errorf("add_edge count = %v, want 0", got)
	}
	if got := testutil.ToFloat64(c.nodes); got != 0 {
		t.Errorf("nodes gauge = %v, want 0", got)
	}
}
