package graph

import (
	"errors"
	"sort"
)

var ErrCycleDetected = errors.New("cycle detected in graph")

// TopologicalSort orders nodes so every dependency precedes its dependents.
// Kahn's algorithm, with the ready set drained in registration order: for a
// fixed graph the result is always the same.
func (g *Graph) TopologicalSort() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	dependents := make(map[string][]string, len(g.nodes))
	inDegree := make(map[string]int, len(g.nodes))

	for id := range g.nodes {
		inDegree[id] = 0
	}

	for id, deps := range g.edges {
		for _, dep := range deps {
			if _, exists := g.nodes[dep]; exists {
				dependents[dep] = append(dependents[dep], id)
				inDegree[id]++
			}
		}
	}

	var ready []string
	for id, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, id)
		}
	}
	g.sortBySeq(ready)

	var sorted []string
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		sorted = append(sorted, node)

		var freed []string
		for _, dependent := range dependents[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				freed = append(freed, dependent)
			}
		}
		if len(freed) > 0 {
			g.sortBySeq(freed)
			ready = append(ready, freed...)
		}
	}

	if len(sorted) != len(g.nodes) {
		return nil, ErrCycleDetected
	}

	return sorted, nil
}

// sortBySeq orders ids by their node registration sequence. Callers must
// hold g.mu.
func (g *Graph) sortBySeq(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		return g.nodes[ids[i]].Seq < g.nodes[ids[j]].Seq
	})
}
