package graph

import (
	"sort"
	"sync"
)

// Node is one binding in the dependency graph. Seq is the registration
// sequence number; all orderings derived from the graph break ties by Seq so
// a fixed registry state always produces the same result.
type Node struct {
	ID           string
	Dependencies []string
	Seq          uint64
}

type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	edges map[string][]string
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string][]string),
	}
}

func (g *Graph) AddNode(id string, dependencies []string, seq uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes[id] = &Node{
		ID:           id,
		Dependencies: dependencies,
		Seq:          seq,
	}
	g.edges[id] = dependencies
}

func (g *Graph) RemoveNode(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.nodes, id)
	delete(g.edges, id)
}

func (g *Graph) HasNode(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, exists := g.nodes[id]
	return exists
}

func (g *Graph) Dependencies(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	deps, exists := g.edges[id]
	if !exists {
		return nil
	}

	result := make([]string, len(deps))
	copy(result, deps)
	return result
}

func (g *Graph) Dependents(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []string
	for _, node := range g.orderedNodes() {
		for _, dep := range g.edges[node.ID] {
			if dep == id {
				dependents = append(dependents, node.ID)
				break
			}
		}
	}
	return dependents
}

// Nodes returns all node IDs in registration order.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ordered := g.orderedNodes()
	ids := make([]string, len(ordered))
	for i, n := range ordered {
		ids[i] = n.ID
	}
	return ids
}

func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

// MissingDependencies lists dependency keys that no node satisfies,
// in registration order of their first requester.
func (g *Graph) MissingDependencies() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var missing []string
	seen := make(map[string]bool)

	for _, node := range g.orderedNodes() {
		for _, dep := range g.edges[node.ID] {
			if _, exists := g.nodes[dep]; !exists && !seen[dep] {
				missing = append(missing, dep)
				seen[dep] = true
			}
		}
	}

	return missing
}

// orderedNodes returns nodes sorted by Seq. Callers must hold g.mu.
func (g *Graph) orderedNodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Seq < nodes[j].Seq })
	return nodes
}
