package compiler

import (
	"slices"
	"strings"

	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/zerr"
)

// workspace is a writer's private copy of the registries. It becomes visible to readers only
// when published.
type workspace struct {
	templates map[string]domain.TemplateRecord
	compiled  map[string]domain.TemplateRecord
	deps      *domain.DependencyGraph
	names     []string
	touched   []string
}

// begin must be called with c.mu held.
func (c *Compiler) begin() *workspace {
	snap := c.current.Load()
	templates, compiled, deps := snap.Registries()
	return &workspace{
		templates: templates,
		compiled:  compiled,
		deps:      deps,
		names:     snap.TemplateNames(),
	}
}

// publish must be called with c.mu held.
func (c *Compiler) publish(ws *workspace) {
	c.current.Store(domain.NewSnapshot(ws.templates, ws.compiled, ws.deps))
	for _, name := range ws.touched {
		c.renders.Delete(name)
	}
}

func (ws *workspace) setTemplate(rec domain.TemplateRecord) {
	if _, ok := ws.templates[rec.LogicalName]; !ok {
		i, _ := slices.BinarySearch(ws.names, rec.LogicalName)
		ws.names = slices.Insert(ws.names, i, rec.LogicalName)
	}
	ws.templates[rec.LogicalName] = rec
}

func (ws *workspace) touch(name string) {
	ws.touched = append(ws.touched, name)
}

// scope exposes the workspace to directive handlers for the view being compiled.
type scope struct {
	ws   *workspace
	deps []string
}

// Resolve finds the template a Master or Partial value points at: "Shared/<value>" itself, then
// the first name in sorted order ending in it, then the first name containing it.
func (s *scope) Resolve(value string) (domain.TemplateRecord, error) {
	key := domain.SharedViewFolder + "/" + value
	if rec, ok := s.ws.templates[key]; ok {
		return rec, nil
	}

	fallback := ""
	for _, name := range s.ws.names {
		if strings.HasSuffix(name, "/"+key) {
			return s.ws.templates[name], nil
		}
		if fallback == "" && strings.Contains(name, key) {
			fallback = name
		}
	}
	if fallback != "" {
		return s.ws.templates[fallback], nil
	}
	return domain.TemplateRecord{}, zerr.With(zerr.Wrap(domain.ErrTemplateNotFound, "cannot resolve shared view"), "view", key)
}

func (s *scope) AddDependency(name string) {
	if !slices.Contains(s.deps, name) {
		s.deps = append(s.deps, name)
	}
}
