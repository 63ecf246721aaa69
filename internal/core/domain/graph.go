// Package domain contains the core domain models of the view engine.
package domain

import (
	"iter"
	"maps"
	"slices"

	"github.com/RoaringBitmap/roaring"
)

// DependencyGraph maps a view to the views it textually includes through layout or partial
// directives. A reverse index answers "which views include X" without scanning every list.
type DependencyGraph struct {
	edges      map[string][]string
	dependents map[string]*roaring.Bitmap // dependency → bitmap of view IDs including it
	ids        map[string]uint32
	names      []string // reverse: ID → logical name
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		edges:      make(map[string][]string),
		dependents: make(map[string]*roaring.Bitmap),
		ids:        make(map[string]uint32),
	}
}

// NewDependencyGraphFrom builds a graph from a plain adjacency map, as read from a cache.
func NewDependencyGraphFrom(m map[string][]string) *DependencyGraph {
	g := NewDependencyGraph()
	for _, view := range slices.Sorted(maps.Keys(m)) {
		g.Set(view, m[view])
	}
	return g
}

func (g *DependencyGraph) intern(name string) uint32 {
	if id, ok := g.ids[name]; ok {
		return id
	}
	id := uint32(len(g.names)) //nolint:gosec // bounded by the number of templates
	g.ids[name] = id
	g.names = append(g.names, name)
	return id
}

// Add records that view includes dependency. Duplicate edges are ignored.
func (g *DependencyGraph) Add(view, dependency string) {
	if slices.Contains(g.edges[view], dependency) {
		return
	}
	g.edges[view] = append(g.edges[view], dependency)

	bm, ok := g.dependents[dependency]
	if !ok {
		bm = roaring.New()
		g.dependents[dependency] = bm
	}
	bm.Add(g.intern(view))
}

// Set replaces every edge of view. An empty list still registers the view.
func (g *DependencyGraph) Set(view string, dependencies []string) {
	if id, ok := g.ids[view]; ok {
		for _, dep := range g.edges[view] {
			if bm, ok := g.dependents[dep]; ok {
				bm.Remove(id)
				if bm.IsEmpty() {
					delete(g.dependents, dep)
				}
			}
		}
	}

	g.edges[view] = make([]string, 0, len(dependencies))
	for _, dep := range dependencies {
		g.Add(view, dep)
	}
}

// DependenciesOf returns the views included by view, in the order they were recorded.
func (g *DependencyGraph) DependenciesOf(view string) []string {
	return slices.Clone(g.edges[view])
}

// DependentsOf returns the views whose dependency list contains name, sorted.
func (g *DependencyGraph) DependentsOf(name string) []string {
	bm, ok := g.dependents[name]
	if !ok {
		return nil
	}

	out := make([]string, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		id := it.Next()
		if int(id) < len(g.names) {
			out = append(out, g.names[id])
		}
	}
	slices.Sort(out)
	return out
}

// Cascade yields every view that directly or transitively includes name, breadth first.
// name itself is never yielded, even when the graph has a cycle through it.
func (g *DependencyGraph) Cascade(name string) iter.Seq[string] {
	return func(yield func(string) bool) {
		visited := map[string]bool{name: true}
		queue := []string{name}

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			for _, dependent := range g.DependentsOf(current) {
				if visited[dependent] {
					continue
				}
				visited[dependent] = true
				if !yield(dependent) {
					return
				}
				queue = append(queue, dependent)
			}
		}
	}
}

// Views returns every view with a recorded edge list, sorted.
func (g *DependencyGraph) Views() []string {
	return slices.Sorted(maps.Keys(g.edges))
}

// Len returns the number of views with a recorded edge list.
func (g *DependencyGraph) Len() int {
	return len(g.edges)
}

// Map returns a copy of the adjacency lists.
func (g *DependencyGraph) Map() map[string][]string {
	out := make(map[string][]string, len(g.edges))
	for view, deps := range g.edges {
		out[view] = slices.Clone(deps)
	}
	return out
}

// Clone returns a deep copy that can be mutated independently.
func (g *DependencyGraph) Clone() *DependencyGraph {
	c := &DependencyGraph{
		edges:      make(map[string][]string, len(g.edges)),
		dependents: make(map[string]*roaring.Bitmap, len(g.dependents)),
		ids:        maps.Clone(g.ids),
		names:      slices.Clone(g.names),
	}
	for view, deps := range g.edges {
		c.edges[view] = slices.Clone(deps)
	}
	for dep, bm := range g.dependents {
		c.dependents[dep] = bm.Clone()
	}
	return c
}
