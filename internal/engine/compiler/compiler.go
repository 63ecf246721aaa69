// Package compiler expands view templates into compiled views and renders them with tag values.
package compiler

import (
	"bytes"
	"errors"
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/yuin/goldmark"
	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
)

// DefaultMaxLayoutDepth bounds how many layouts a view may nest through.
const DefaultMaxLayoutDepth = 8

// Compiler owns the template store, the compiled view registry and the dependency graph.
// Writers serialize on a mutex and publish a new snapshot; Render never blocks on a writer.
type Compiler struct {
	mu      sync.Mutex
	current atomic.Pointer[domain.Snapshot]
	renders sync.Map // logical name -> last render result

	directives    map[domain.Phase][]ports.DirectiveHandler
	substitutions map[domain.Phase][]ports.SubstitutionHandler
	markdown      goldmark.Markdown
	maxDepth      int

	directiveRE *regexp.Regexp
	nameIdx     int
	valueIdx    int
	blankLines  *regexp.Regexp
	leftover    *regexp.Regexp
	emptyLines  *regexp.Regexp
	tagPatterns sync.Map // tag key -> *regexp.Regexp
}

// New creates a Compiler. Handlers run in the order given within their phase.
func New(directives []ports.DirectiveHandler, substitutions []ports.SubstitutionHandler) *Compiler {
	c := &Compiler{
		directives:    make(map[domain.Phase][]ports.DirectiveHandler),
		substitutions: make(map[domain.Phase][]ports.SubstitutionHandler),
		markdown:      goldmark.New(),
		maxDepth:      DefaultMaxLayoutDepth,
		directiveRE:   regexp.MustCompile(`%%(?P<directive>[a-zA-Z0-9]+)=(?P<value>\S+?)%%`),
		blankLines:    regexp.MustCompile(`(?m)^\s*$\n`),
		leftover:      regexp.MustCompile(`\{(?:\{|\||!)\w+(?:\}|!|\|)\}`),
		emptyLines:    regexp.MustCompile(`(?m)^[ \t]*\r?\n`),
	}
	c.nameIdx = c.directiveRE.SubexpIndex("directive")
	c.valueIdx = c.directiveRE.SubexpIndex("value")

	for _, h := range directives {
		c.directives[h.Phase()] = append(c.directives[h.Phase()], h)
	}
	for _, s := range substitutions {
		c.substitutions[s.Phase()] = append(c.substitutions[s.Phase()], s)
	}

	c.current.Store(domain.NewSnapshot(nil, nil, nil))
	return c
}

// WithMaxLayoutDepth overrides the layout nesting bound.
func (c *Compiler) WithMaxLayoutDepth(depth int) *Compiler {
	c.maxDepth = depth
	return c
}

// Snapshot returns the current published state.
func (c *Compiler) Snapshot() *domain.Snapshot {
	return c.current.Load()
}

// Reset replaces the template store with records and drops every compiled view.
func (c *Compiler) Reset(records []domain.TemplateRecord) {
	templates := make(map[string]domain.TemplateRecord, len(records))
	for _, r := range records {
		templates[r.LogicalName] = r
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.Store(domain.NewSnapshot(templates, nil, nil))
	c.renders.Clear()
}

// Restore publishes the registries read from a persisted cache.
func (c *Compiler) Restore(cache domain.ViewCache) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.Store(cache.Snapshot())
	c.renders.Clear()
}

// ViewCache returns the persistable state including the latest render results.
func (c *Compiler) ViewCache() domain.ViewCache {
	cache := c.current.Load().ViewCache()
	for i, v := range cache.CompiledViews {
		if r, ok := c.renders.Load(v.LogicalName); ok {
			cache.CompiledViews[i].LastRenderResult, _ = r.(string)
		}
	}
	return cache
}

// Replace stores rec in the template store. When a compiled view of the same name exists with a
// different fingerprint it is refreshed in place and Replace reports it as stale, meaning views
// that include it must be rebuilt. Fragments are never stale.
func (c *Compiler) Replace(rec domain.TemplateRecord) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ws := c.begin()
	ws.setTemplate(rec)

	stale := false
	if old, ok := ws.compiled[rec.LogicalName]; ok && old.Fingerprint != rec.Fingerprint && !rec.IsFragment() {
		old.RawContent = rec.RawContent
		old.Fingerprint = rec.Fingerprint
		old.SourcePath = rec.SourcePath
		ws.compiled[rec.LogicalName] = old
		ws.touch(rec.LogicalName)
		stale = true
	}

	c.publish(ws)
	return stale
}

// Compile expands one template and atomically replaces its compiled view.
func (c *Compiler) Compile(name string) (domain.TemplateRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ws := c.begin()
	view, err := c.compileView(ws, name)
	if err != nil {
		return domain.TemplateRecord{}, err
	}
	c.publish(ws)
	return view, nil
}

// CompileAll compiles every template and publishes the result in one step. Views that failed
// keep their previous compiled entry; their errors are joined and returned with the rest.
func (c *Compiler) CompileAll() ([]domain.TemplateRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ws := c.begin()
	views := make([]domain.TemplateRecord, 0, len(ws.names))
	var errs []error
	for _, name := range ws.names {
		view, err := c.compileView(ws, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		views = append(views, view)
	}

	c.publish(ws)
	return views, errors.Join(errs...)
}

// RecompileDependencies recompiles name, when it is a template, followed by every view that
// includes it directly or transitively.
func (c *Compiler) RecompileDependencies(name string) ([]domain.TemplateRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ws := c.begin()
	_, known := ws.templates[name]
	cascade := slices.Collect(ws.deps.Cascade(name))

	if !known && len(cascade) == 0 {
		return nil, notFound(name)
	}

	targets := cascade
	if known {
		targets = append([]string{name}, cascade...)
	}

	views := make([]domain.TemplateRecord, 0, len(targets))
	var errs []error
	for _, target := range targets {
		view, err := c.compileView(ws, target)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		views = append(views, view)
	}

	c.publish(ws)
	return views, errors.Join(errs...)
}

// Cascade lists the views that include name directly or transitively.
func (c *Compiler) Cascade(name string) []string {
	return c.current.Load().Cascade(name)
}

// Render substitutes tags into a compiled view and records the result.
func (c *Compiler) Render(name string, tags map[string]string) (domain.TemplateRecord, error) {
	view, ok := c.current.Load().Compiled(name)
	if !ok {
		return domain.TemplateRecord{}, notFound(name)
	}

	content := view.CompiledContent
	var err error
	for _, s := range c.substitutions[domain.PhaseRender] {
		if content, err = s.Substitute(content); err != nil {
			return domain.TemplateRecord{}, zerr.With(zerr.Wrap(err, "render substitution failed"), "view", name)
		}
	}

	for _, key := range slices.Sorted(maps.Keys(tags)) {
		value := tags[key]
		if value == "" {
			continue
		}
		if content, err = c.substituteTag(content, key, value); err != nil {
			return domain.TemplateRecord{}, zerr.With(err, "view", name)
		}
	}

	content = c.leftover.ReplaceAllString(content, "")
	content = c.emptyLines.ReplaceAllString(content, "")

	view.LastRenderResult = content
	c.renders.Store(name, content)
	return view, nil
}

func (c *Compiler) substituteTag(content, key, value string) (string, error) {
	re, err := c.tagPattern(key)
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)

	var markdown string
	var mdErr error
	var mdDone bool

	out := re.ReplaceAllStringFunc(content, func(m string) string {
		switch m[1] {
		case '|':
			return html.EscapeString(value)
		case '!':
			if !mdDone {
				markdown, mdErr = c.renderMarkdown(value)
				mdDone = true
			}
			return markdown
		default:
			return value
		}
	})
	if mdErr != nil {
		return "", zerr.With(zerr.Wrap(mdErr, "failed to render markdown tag"), "tag", key)
	}
	return out, nil
}

func (c *Compiler) tagPattern(key string) (*regexp.Regexp, error) {
	if re, ok := c.tagPatterns.Load(key); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(`\{(?:\{|\||!)` + regexp.QuoteMeta(key) + `(?:\||!|\})\}`)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidTag, err.Error()), "tag", key)
	}
	actual, _ := c.tagPatterns.LoadOrStore(key, re)
	return actual.(*regexp.Regexp), nil
}

func (c *Compiler) renderMarkdown(value string) (string, error) {
	var buf bytes.Buffer
	if err := c.markdown.Convert([]byte(value), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (c *Compiler) compileView(ws *workspace, name string) (domain.TemplateRecord, error) {
	tpl, ok := ws.templates[name]
	if !ok {
		return domain.TemplateRecord{}, notFound(name)
	}

	view := tpl
	view.LastRenderResult = ""

	if tpl.IsFragment() {
		view.CompiledContent = tpl.RawContent
		ws.compiled[name] = view
		ws.touch(name)
		return view, nil
	}

	s := &scope{ws: ws}
	content, err := c.expandLayouts(tpl.RawContent, s)
	if err != nil {
		return domain.TemplateRecord{}, zerr.With(err, "view", name)
	}

	for _, sub := range c.substitutions[domain.PhaseCompile] {
		if content, err = sub.Substitute(content); err != nil {
			return domain.TemplateRecord{}, zerr.With(zerr.Wrap(err, "compile substitution failed"), "view", name)
		}
	}

	if content, _, err = c.applyDirectives(content, domain.PhaseAfterCompile, s); err != nil {
		return domain.TemplateRecord{}, zerr.With(err, "view", name)
	}

	if content == "" {
		content = tpl.RawContent
	}
	view.CompiledContent = c.blankLines.ReplaceAllString(content, "")

	ws.compiled[name] = view
	ws.deps.Set(name, s.deps)
	ws.touch(name)
	return view, nil
}

// expandLayouts repeats the compile-phase pass so that a layout declaring its own Master is
// spliced into its parent. Every layer lands in the scope as a direct dependency.
func (c *Compiler) expandLayouts(content string, s *scope) (string, error) {
	for depth := 0; ; depth++ {
		out, changed, err := c.applyDirectives(content, domain.PhaseCompile, s)
		if err != nil {
			return "", err
		}
		if !changed {
			return content, nil
		}
		if depth == c.maxDepth {
			return "", zerr.With(zerr.Wrap(domain.ErrLayoutDepthExceeded, "cannot expand layouts"), "max_depth", c.maxDepth)
		}
		content = out
	}
}

func (c *Compiler) applyDirectives(content string, phase domain.Phase, s *scope) (string, bool, error) {
	handlers := c.directives[phase]
	if len(handlers) == 0 {
		return content, false, nil
	}

	changed := false
	for _, m := range c.directiveRE.FindAllStringSubmatch(content, -1) {
		d := domain.Directive{Token: m[0], Name: m[c.nameIdx], Value: m[c.valueIdx]}
		for _, h := range handlers {
			if h.Name() != d.Name {
				continue
			}
			out, err := h.Process(content, d, s)
			if err != nil {
				return "", false, zerr.With(zerr.Wrap(err, "directive failed"), "directive", d.Token)
			}
			if out != content {
				changed = true
			}
			content = out
		}
	}
	return content, changed, nil
}

func notFound(name string) error {
	return zerr.With(zerr.Wrap(domain.ErrTemplateNotFound, "cannot find view"), "view", name)
}
