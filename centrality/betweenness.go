// ABOUTME: Betweenness centrality over the full graph via Brandes' algorithm.
// ABOUTME: Directed, unweighted, summed over ordered pairs; read-only on the graph.
package centrality

import (
	"sort"

	"github.com/2389-research/plexus/graph"
)

// Betweenness returns, for every node, the sum over ordered pairs (u, v) of
// distinct other nodes of the fraction of shortest directed u->v paths that
// pass through it. Ties split fractionally across equal-length paths;
// unreachable pairs contribute zero. Self-loops are ignored and parallel
// edges collapse to simple adjacency. The graph is not mutated: no log entry,
// selection untouched.
func Betweenness(g *graph.Graph) map[int]float64 {
	nodes := g.NodeIDs()
	adj := adjacency(g)

	score := make(map[int]float64, len(nodes))
	for _, id := range nodes {
		score[id] = 0
	}

	for _, s := range nodes {
		stack := make([]int, 0, len(nodes))
		preds := make(map[int][]int)
		sigma := map[int]float64{s: 1}
		dist := map[int]int{s: 0}

		queue := []int{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, w := range adj[v] {
				if _, seen := dist[w]; !seen {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		// Accumulate dependencies in reverse discovery order.
		delta := make(map[int]float64)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				score[w] += delta[w]
			}
		}
	}
	return score
}

// adjacency builds deduplicated out-neighbor lists, dropping self-loops.
// Neighbors are sorted so traversal order, and therefore floating point
// accumulation order, is deterministic.
func adjacency(g *graph.Graph) map[int][]int {
	adj := make(map[int][]int)
	seen := make(map[[2]int]bool)
	for _, e := range g.Edges() {
		if e.From == e.To {
			continue
		}
		k := [2]int{e.From, e.To}
		if seen[k] {
			continue
		}
		seen[k] = true
		adj[e.From] = append(adj[e.From], e.To)
	}
	for _, neighbors := range adj {
		sort.Ints(neighbors)
	}
	return adj
}
