// Package dag checks that a pipeline graph has no cycles.
package dag

import "github.com/aretw0/pipecanvas/pkg/domain"

// IsDAG reports whether the graph formed by nodes and edges is acyclic.
// Edges whose endpoints are not among nodes are ignored, so an edge to a
// missing node does not make the graph cyclic; the lint in
// internal/validator reports such edges instead. A self-loop is a cycle.
// Duplicate node ids are one vertex.
func IsDAG(nodes []domain.Node, edges []domain.Edge) bool {
	return len(Unsorted(nodes, edges)) == 0
}

// Unsorted runs Kahn's algorithm and returns, in node order, the ids it
// could not place: nodes on a cycle or downstream of one.
func Unsorted(nodes []domain.Node, edges []domain.Edge) []string {
	inDegree := make(map[string]int, len(nodes))
	for _, n := range nodes {
		inDegree[n.ID] = 0
	}

	adjacency := make(map[string][]string, len(nodes))
	for _, e := range edges {
		if _, ok := inDegree[e.Source]; !ok {
			continue
		}
		if _, ok := inDegree[e.Target]; !ok {
			continue
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		inDegree[e.Target]++
	}

	// Duplicate node ids count once.
	queue := make([]string, 0, len(inDegree))
	queued := make(map[string]bool, len(inDegree))
	for _, n := range nodes {
		if inDegree[n.ID] == 0 && !queued[n.ID] {
			queued[n.ID] = true
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
				queued[next] = true
			}
		}
	}

	var rest []string
	for _, n := range nodes {
		if !queued[n.ID] {
			queued[n.ID] = true
			rest = append(rest, n.ID)
		}
	}
	return rest
}

// Parse answers the validation request for a submitted pipeline.
func Parse(p domain.Pipeline) domain.ParseResult {
	return domain.ParseResult{
		NumNodes: len(p.Nodes),
		NumEdges: len(p.Edges),
		IsDAG:    IsDAG(p.Nodes, p.Edges),
	}
}
