package domain

import (
	"cmp"
	"slices"
)

// ViewCache is the unit persisted across restarts: the template store, the compiled view
// registry and the dependency graph.
type ViewCache struct {
	ViewTemplates    []TemplateRecord    `json:"ViewTemplates" yaml:"viewTemplates"`
	CompiledViews    []TemplateRecord    `json:"CompiledViews" yaml:"compiledViews"`
	ViewDependencies map[string][]string `json:"ViewDependencies" yaml:"viewDependencies"`
}

// Normalized returns a copy with records sorted by logical name and a non-nil dependency map,
// so that encoding the same content always yields the same bytes.
func (c ViewCache) Normalized() ViewCache {
	byName := func(a, b TemplateRecord) int {
		return cmp.Compare(a.LogicalName, b.LogicalName)
	}

	out := ViewCache{
		ViewTemplates:    slices.SortedFunc(slices.Values(c.ViewTemplates), byName),
		CompiledViews:    slices.SortedFunc(slices.Values(c.CompiledViews), byName),
		ViewDependencies: make(map[string][]string, len(c.ViewDependencies)),
	}
	for view, deps := range c.ViewDependencies {
		if deps == nil {
			deps = []string{}
		}
		out.ViewDependencies[view] = slices.Clone(deps)
	}
	if out.ViewTemplates == nil {
		out.ViewTemplates = []TemplateRecord{}
	}
	if out.CompiledViews == nil {
		out.CompiledViews = []TemplateRecord{}
	}
	return out
}

// Snapshot converts the cache into registries.
func (c ViewCache) Snapshot() *Snapshot {
	templates := make(map[string]TemplateRecord, len(c.ViewTemplates))
	for _, t := range c.ViewTemplates {
		templates[t.LogicalName] = t
	}
	compiled := make(map[string]TemplateRecord, len(c.CompiledViews))
	for _, v := range c.CompiledViews {
		compiled[v.LogicalName] = v
	}
	return NewSnapshot(templates, compiled, NewDependencyGraphFrom(c.ViewDependencies))
}
