// ABOUTME: Prometheus log sink exporting operation counters, durations, and size gauges.
// ABOUTME: Attach with graph.WithSink; every applied mutation updates the metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/2389-research/plexus/graph"
)

// Collector is a graph.LogSink that exports the action log as Prometheus
// metrics: a counter per operation name, a histogram of operation durations,
// and gauges tracking the current node and edge counts.
type Collector struct {
	operations *prometheus.CounterVec
	seconds    prometheus.Histogram
	nodes      prometheus.Gauge
	edges      prometheus.Gauge
}

var _ graph.LogSink = (*Collector)(nil)

// NewCollector builds a collector and registers its metrics. A nil registerer
// falls back to the Prometheus default.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "plexus",
			Name:      "operations_total",
			Help:      "Applied graph operations by name.",
		}, []string{"op"}),
		seconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "plexus",
			Name:      "operation_seconds",
			Help:      "Duration of applied graph operations.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
		}),
		nodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "plexus",
			Name:      "nodes",
			Help:      "Node count after the latest operation.",
		}),
		edges: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "plexus",
			Name:      "edges",
			Help:      "Edge count after the latest operation.",
		}),
	}
}

// Append implements graph.LogSink. Only applied operations reach a sink, so
// failed calls never move the counters.
func (c *Collector) Append(e graph.Entry) {
	c.operations.WithLabelValues(e.Operation).Inc()
	c.seconds.Observe(e.Duration.Seconds())
	c.nodes.Set(float64(e.Nodes))
	c.edges.Set(float64(e.Edges))
}
