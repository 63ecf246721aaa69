package directives

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/core/ports"
	"golang.org/x/net/html"
	"golang.org/x/sync/singleflight"
)

const (
	cssTag = `<link href="%s" rel="stylesheet" type="text/css" />`
	jsTag  = `<script src="%s" type="text/javascript"></script>`
)

// Bundle expands %%Bundle=name%% into stylesheet and script tags.
type Bundle struct {
	source         ports.BundleSource
	debug          bool
	resourceFolder string

	mu    sync.Mutex
	links map[string]string
	group singleflight.Group
}

// NewBundle creates the bundle handler. In debug mode every file of the bundle gets its own tag;
// otherwise the bundle name itself is linked.
func NewBundle(source ports.BundleSource, debug bool, resourceFolder string) *Bundle {
	if resourceFolder == "" {
		resourceFolder = defaultResourceDir
	}
	return &Bundle{
		source:         source,
		debug:          debug,
		resourceFolder: strings.TrimRight(resourceFolder, "/"),
		links:          make(map[string]string),
	}
}

// Name implements ports.DirectiveHandler.
func (*Bundle) Name() string { return BundleName }

// Phase implements ports.DirectiveHandler.
func (*Bundle) Phase() domain.Phase { return domain.PhaseAfterCompile }

// Process implements ports.DirectiveHandler.
func (b *Bundle) Process(content string, d domain.Directive, _ ports.DirectiveScope) (string, error) {
	return strings.Replace(content, d.Token, b.Markup(d.Value), 1), nil
}

// Markup returns the tags for a bundle, building them once per name.
func (b *Bundle) Markup(name string) string {
	b.mu.Lock()
	if links, ok := b.links[name]; ok {
		b.mu.Unlock()
		return links
	}
	b.mu.Unlock()

	v, _, _ := b.group.Do(name, func() (any, error) {
		links := b.build(name)
		b.mu.Lock()
		b.links[name] = links
		b.mu.Unlock()
		return links, nil
	})
	links, _ := v.(string)
	return links
}

func (b *Bundle) build(name string) string {
	if name == "" {
		return ""
	}

	files := []string{name}
	if b.debug {
		files = nil
		if b.source != nil {
			files = b.source.Files(name)
		}
	}

	var sb strings.Builder
	for _, f := range files {
		sb.WriteString(b.tag(f))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (b *Bundle) tag(file string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(file), "."))

	href := file
	if !strings.Contains(file, "/") {
		href = strings.Join([]string{b.resourceFolder, ext, file}, "/")
	}
	href = html.EscapeString(href)

	switch ext {
	case "css":
		return fmt.Sprintf(cssTag, href)
	case "js":
		return fmt.Sprintf(jsTag, href)
	default:
		return ""
	}
}

// StaticBundles serves bundle file lists from configuration.
type StaticBundles map[string][]string

// Files implements ports.BundleSource.
func (s StaticBundles) Files(bundle string) []string {
	return s[bundle]
}
