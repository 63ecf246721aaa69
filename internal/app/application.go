package app

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/zerr"
)

// Action handles one route. args are the route segments left after the matched key.
type Action func(ctx context.Context, views *Views, args []string) (string, error)

// Application is a user application. Routes maps route keys such as "/about" to actions.
type Application interface {
	Routes() map[string]Action
}

// Factory builds an Application around the renderer it should use.
type Factory func(ViewRenderer) Application

// Views is the rendering helper handed to actions. Tags are applied to every render.
type Views struct {
	renderer ViewRenderer
	route    string
	Tags     map[string]string
}

// Route returns the matched route key without its leading slash.
func (v *Views) Route() string {
	return v.route
}

// View renders the view named after the current route, App/<route>.
func (v *Views) View(ctx context.Context) (string, error) {
	return v.ViewAt(ctx, domain.AppViewPrefix+"/"+v.route)
}

// ViewAt renders any view by logical name.
func (v *Views) ViewAt(ctx context.Context, name string) (string, error) {
	return v.renderer.RenderView(ctx, name, v.Tags)
}

// Registry holds the registered application factory.
type Registry struct {
	mu      sync.RWMutex
	factory Factory
}

// Register sets the application. A later call replaces an earlier one.
func (r *Registry) Register(factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factory = factory
}

// Dispatch builds the registered application around renderer and runs the action whose key is
// the longest prefix of route. A route without a leading slash is treated as rooted.
func (r *Registry) Dispatch(ctx context.Context, renderer ViewRenderer, route string, tags map[string]string) (string, error) {
	r.mu.RLock()
	factory := r.factory
	r.mu.RUnlock()

	if factory == nil {
		return "", domain.ErrNoApplication
	}

	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	routes := factory(renderer).Routes()
	key, ok := matchRoute(routes, route)
	if !ok {
		return "", zerr.With(zerr.Wrap(domain.ErrActionNotFound, "cannot dispatch"), "route", route)
	}

	views := &Views{
		renderer: renderer,
		route:    strings.TrimPrefix(key, "/"),
		Tags:     maps.Clone(tags),
	}
	if views.Tags == nil {
		views.Tags = make(map[string]string)
	}

	args := strings.FieldsFunc(strings.TrimPrefix(route, key), func(r rune) bool { return r == '/' })
	return routes[key](ctx, views, args)
}

// matchRoute picks the longest key equal to or prefixing route. Ties go to the smaller key.
func matchRoute(routes map[string]Action, route string) (string, bool) {
	keys := slices.SortedFunc(maps.Keys(routes), func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	for _, key := range keys {
		if strings.HasPrefix(route, key) {
			return key, true
		}
	}
	return "", false
}

// DefaultPage is rendered by Pages for the bare "/" route.
const DefaultPage = "Index"

// Pages is the built-in application. It serves every route below "/" by rendering the view
// App/<route>.
type Pages struct{}

// NewPages is a Factory for Pages.
func NewPages(ViewRenderer) Application {
	return Pages{}
}

// Routes implements Application.
func (Pages) Routes() map[string]Action {
	return map[string]Action{
		"/": func(ctx context.Context, views *Views, args []string) (string, error) {
			if len(args) == 0 {
				args = []string{DefaultPage}
			}
			return views.ViewAt(ctx, domain.AppViewPrefix+"/"+strings.Join(args, "/"))
		},
	}
}
