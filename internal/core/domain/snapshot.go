package domain

import (
	"maps"
	"slices"
)

// Snapshot is an immutable, consistent view of the template store, the compiled view registry
// and the dependency graph. Writers build a new snapshot and publish it in one step; readers
// never observe a half-applied compile.
type Snapshot struct {
	templates map[string]TemplateRecord
	compiled  map[string]TemplateRecord
	deps      *DependencyGraph
}

// NewSnapshot takes ownership of the given registries. Callers must not mutate them afterwards.
func NewSnapshot(templates, compiled map[string]TemplateRecord, deps *DependencyGraph) *Snapshot {
	if templates == nil {
		templates = make(map[string]TemplateRecord)
	}
	if compiled == nil {
		compiled = make(map[string]TemplateRecord)
	}
	if deps == nil {
		deps = NewDependencyGraph()
	}
	return &Snapshot{templates: templates, compiled: compiled, deps: deps}
}

// Template returns the raw template with the given logical name.
func (s *Snapshot) Template(name string) (TemplateRecord, bool) {
	t, ok := s.templates[name]
	return t, ok
}

// Compiled returns the compiled view with the given logical name.
func (s *Snapshot) Compiled(name string) (TemplateRecord, bool) {
	v, ok := s.compiled[name]
	return v, ok
}

// TemplateNames returns every logical name in the template store, sorted.
func (s *Snapshot) TemplateNames() []string {
	return slices.Sorted(maps.Keys(s.templates))
}

// Templates returns the template store sorted by logical name.
func (s *Snapshot) Templates() []TemplateRecord {
	return sortedRecords(s.templates)
}

// CompiledViews returns the compiled view registry sorted by logical name.
func (s *Snapshot) CompiledViews() []TemplateRecord {
	return sortedRecords(s.compiled)
}

// DependenciesOf returns the views included by name.
func (s *Snapshot) DependenciesOf(name string) []string {
	return s.deps.DependenciesOf(name)
}

// DependentsOf returns the views that include name.
func (s *Snapshot) DependentsOf(name string) []string {
	return s.deps.DependentsOf(name)
}

// Cascade returns the views that include name directly or transitively, breadth first.
func (s *Snapshot) Cascade(name string) []string {
	return slices.Collect(s.deps.Cascade(name))
}

// Registries returns private copies of the registries for a writer to mutate.
func (s *Snapshot) Registries() (templates, compiled map[string]TemplateRecord, deps *DependencyGraph) {
	return maps.Clone(s.templates), maps.Clone(s.compiled), s.deps.Clone()
}

// ViewCache returns the persistable form of the snapshot.
func (s *Snapshot) ViewCache() ViewCache {
	return ViewCache{
		ViewTemplates:    s.Templates(),
		CompiledViews:    s.CompiledViews(),
		ViewDependencies: s.deps.Map(),
	}
}

func sortedRecords(m map[string]TemplateRecord) []TemplateRecord {
	out := make([]TemplateRecord, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[name])
	}
	return out
}
