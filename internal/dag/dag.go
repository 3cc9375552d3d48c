// Package dag provides a small directed graph for sequencing constraints:
// an edge u -> v means u must come before v. It supports topological
// ordering with cycle detection, layering, and transitive queries.
package dag

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCycle is returned when the graph contains a cycle.
var ErrCycle = errors.New("cycle detected")

// ErrVertexNotFound is returned when an operation references a missing vertex.
var ErrVertexNotFound = errors.New("vertex not found")

// ErrDuplicateVertex is returned when adding a vertex that already exists.
var ErrDuplicateVertex = errors.New("duplicate vertex")

// Graph is an adjacency-list directed graph keyed by vertex id.
type Graph struct {
	// succ maps a vertex to the vertices that must follow it.
	succ map[string]map[string]bool
	// pred maps a vertex to the vertices that must precede it.
	pred map[string]map[string]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		succ: make(map[string]map[string]bool),
		pred: make(map[string]map[string]bool),
	}
}

// AddVertex adds a vertex. Returns ErrDuplicateVertex if it already exists.
func (g *Graph) AddVertex(id string) error {
	if g.HasVertex(id) {
		return fmt.Errorf("%w: %s", ErrDuplicateVertex, id)
	}
	g.succ[id] = make(map[string]bool)
	g.pred[id] = make(map[string]bool)
	return nil
}

// HasVertex reports whether id is in the graph.
func (g *Graph) HasVertex(id string) bool {
	_, ok := g.succ[id]
	return ok
}

// AddEdge records that u must come before v. Both vertices must exist.
// Edges that close a cycle are accepted; TopologicalOrdering reports them.
func (g *Graph) AddEdge(u, v string) error {
	if !g.HasVertex(u) {
		return fmt.Errorf("%w: %s", ErrVertexNotFound, u)
	}
	if !g.HasVertex(v) {
		return fmt.Errorf("%w: %s", ErrVertexNotFound, v)
	}
	g.succ[u][v] = true
	g.pred[v][u] = true
	return nil
}

// Vertices returns all vertex ids sorted alphabetically.
func (g *Graph) Vertices() []string {
	return sortedKeys(g.succ)
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	return len(g.succ)
}

// TopologicalOrdering returns the vertices so that for every edge u -> v,
// u appears before v. Among vertices free at the same time, ids are taken
// alphabetically so the result is deterministic. Returns ErrCycle if the
// graph contains a cycle.
func (g *Graph) TopologicalOrdering() ([]string, error) {
	inDegree := make(map[string]int, len(g.succ))
	for id := range g.succ {
		inDegree[id] = len(g.pred[id])
	}

	queue := zeroDegree(inDegree)
	order := make([]string, 0, len(g.succ))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		var freed []string
		for next := range g.succ[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				freed = append(freed, next)
			}
		}
		sort.Strings(freed)
		queue = mergeSorted(queue, freed)
	}

	if len(order) != len(g.succ) {
		return nil, fmt.Errorf("%w: %v could not be ordered", ErrCycle, g.unordered(order))
	}
	return order, nil
}

// Layers partitions the vertices into successive layers where every
// vertex's predecessors all sit in earlier layers. Layer i holds the
// vertices whose longest incoming path has length i, sorted
// alphabetically. Returns ErrCycle if the graph contains a cycle.
func (g *Graph) Layers() ([][]string, error) {
	order, err := g.TopologicalOrdering()
	if err != nil {
		return nil, err
	}
	depth := make(map[string]int, len(order))
	var layers [][]string
	for _, id := range order {
		d := 0
		for p := range g.pred[id] {
			if depth[p]+1 > d {
				d = depth[p] + 1
			}
		}
		depth[id] = d
		for len(layers) <= d {
			layers = append(layers, nil)
		}
		layers[d] = append(layers[d], id)
	}
	for _, l := range layers {
		sort.Strings(l)
	}
	return layers, nil
}

// Ready returns the vertices not in done whose predecessors are all in
// done, sorted alphabetically.
func (g *Graph) Ready(done map[string]bool) []string {
	var ready []string
	for id := range g.succ {
		if done[id] {
			continue
		}
		met := true
		for p := range g.pred[id] {
			if !done[p] {
				met = false
				break
			}
		}
		if met {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)
	return ready
}

// Ancestors returns every vertex that must transitively precede id,
// sorted alphabetically. Returns nil if id does not exist.
func (g *Graph) Ancestors(id string) []string {
	if !g.HasVertex(id) {
		return nil
	}
	visited := make(map[string]bool)
	walk(g.pred, id, visited)
	delete(visited, id)
	return sortedKeys(visited)
}

// Descendants returns every vertex that must transitively follow id,
// sorted alphabetically. Returns nil if id does not exist.
func (g *Graph) Descendants(id string) []string {
	if !g.HasVertex(id) {
		return nil
	}
	visited := make(map[string]bool)
	walk(g.succ, id, visited)
	delete(visited, id)
	return sortedKeys(visited)
}

func (g *Graph) unordered(order []string) []string {
	placed := make(map[string]bool, len(order))
	for _, id := range order {
		placed[id] = true
	}
	var rest []string
	for _, id := range g.Vertices() {
		if !placed[id] {
			rest = append(rest, id)
		}
	}
	return rest
}

// walk collects every vertex reachable from id over edges.
func walk(edges map[string]map[string]bool, id string, visited map[string]bool) {
	for next := range edges[id] {
		if !visited[next] {
			visited[next] = true
			walk(edges, next, visited)
		}
	}
}

func zeroDegree(inDegree map[string]int) []string {
	var ids []string
	for id, deg := range inDegree {
		if deg == 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// mergeSorted merges two sorted slices into one sorted slice.
func mergeSorted(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

func sortedKeys[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
