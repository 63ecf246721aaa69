package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/montauk/cmd/montauk/commands"
	"go.trai.ch/montauk/internal/app"
	"go.trai.ch/montauk/internal/build"
	"go.trai.ch/montauk/internal/core/domain"
)

type mockApp struct {
	opts app.Options

	compileFunc  func(ctx context.Context, names []string, opts app.CompileOptions) ([]domain.TemplateRecord, error)
	renderFunc   func(ctx context.Context, name string, tags map[string]string) (string, error)
	dispatchFunc func(ctx context.Context, route string, tags map[string]string) (string, error)
	watchFunc    func(ctx context.Context, opts app.WatchOptions) error
	cacheFunc    func(ctx context.Context) (string, error)
	clearFunc    func(ctx context.Context) (string, error)
	depsFunc     func(ctx context.Context, name string) (app.Dependencies, error)
}

func (m *mockApp) Configure(opts app.Options) { m.opts = opts }

func (m *mockApp) Compile(ctx context.Context, names []string, opts app.CompileOptions) ([]domain.TemplateRecord, error) {
	if m.compileFunc != nil {
		return m.compileFunc(ctx, names, opts)
	}
	return nil, nil
}

func (m *mockApp) Render(ctx context.Context, name string, tags map[string]string) (string, error) {
	if m.renderFunc != nil {
		return m.renderFunc(ctx, name, tags)
	}
	return "", nil
}

func (m *mockApp) Dispatch(ctx context.Context, route string, tags map[string]string) (string, error) {
	if m.dispatchFunc != nil {
		return m.dispatchFunc(ctx, route, tags)
	}
	return "", nil
}

func (m *mockApp) Watch(ctx context.Context, opts app.WatchOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) ShowCache(ctx context.Context) (string, error) {
	if m.cacheFunc != nil {
		return m.cacheFunc(ctx)
	}
	return "", nil
}

func (m *mockApp) ClearCache(ctx context.Context) (string, error) {
	if m.clearFunc != nil {
		return m.clearFunc(ctx)
	}
	return "", nil
}

func (m *mockApp) Dependencies(ctx context.Context, name string) (app.Dependencies, error) {
	if m.depsFunc != nil {
		return m.depsFunc(ctx, name)
	}
	return app.Dependencies{View: name}, nil
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	cli := commands.New(m)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, new(bytes.Buffer))
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_RootFlags(t *testing.T) {
	t.Run("wires persistent flags", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "--dir", "/srv/site", "--log-format", "json", "--trace", "watch")
		require.NoError(t, err)
		assert.Equal(t, app.Options{WorkDir: "/srv/site", JSON: true, Trace: true}, m.opts)
	})

	t.Run("auto uses json when stderr is not a terminal", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "watch")
		require.NoError(t, err)
		assert.True(t, m.opts.JSON)
	})

	t.Run("pretty forces text", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "--log-format", "pretty", "watch")
		require.NoError(t, err)
		assert.False(t, m.opts.JSON)
	})

	t.Run("rejects unknown log format", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "--log-format", "xml", "watch")
		require.ErrorContains(t, err, "invalid log format")
	})
}

func TestCommands_Compile(t *testing.T) {
	t.Run("wires names and flags", func(t *testing.T) {
		var gotNames []string
		var gotOpts app.CompileOptions
		m := &mockApp{
			compileFunc: func(_ context.Context, names []string, opts app.CompileOptions) ([]domain.TemplateRecord, error) {
				gotNames, gotOpts = names, opts
				return []domain.TemplateRecord{{LogicalName: "Home/Index"}, {LogicalName: "About/Index"}}, nil
			},
		}

		out, err := execute(t, m, "compile", "Home/Index", "About/Index", "--fresh")
		require.NoError(t, err)
		assert.Equal(t, []string{"Home/Index", "About/Index"}, gotNames)
		assert.True(t, gotOpts.Fresh)
		assert.Equal(t, "✓ Home/Index\n✓ About/Index\ncompiled 2 views\n", out)
	})

	t.Run("reports partial failure", func(t *testing.T) {
		m := &mockApp{
			compileFunc: func(context.Context, []string, app.CompileOptions) ([]domain.TemplateRecord, error) {
				return []domain.TemplateRecord{{LogicalName: "Home/Index"}}, domain.ErrTemplateNotFound
			},
		}

		out, err := execute(t, m, "compile")
		require.ErrorIs(t, err, domain.ErrTemplateNotFound)
		assert.Equal(t, "✓ Home/Index\n", out)
	})
}

func TestCommands_Render(t *testing.T) {
	t.Run("passes tags", func(t *testing.T) {
		var gotName string
		var gotTags map[string]string
		m := &mockApp{
			renderFunc: func(_ context.Context, name string, tags map[string]string) (string, error) {
				gotName, gotTags = name, tags
				return "<h1>hi</h1>", nil
			},
		}

		out, err := execute(t, m, "render", "Home/Index", "--tag", "title=Hello=World", "-t", "user=ada", "-t", "empty=")
		require.NoError(t, err)
		assert.Equal(t, "Home/Index", gotName)
		assert.Equal(t, map[string]string{"title": "Hello=World", "user": "ada", "empty": ""}, gotTags)
		assert.Equal(t, "<h1>hi</h1>\n", out)
	})

	t.Run("rejects malformed tag", func(t *testing.T) {
		m := &mockApp{
			renderFunc: func(context.Context, string, map[string]string) (string, error) {
				panic("should not be called")
			},
		}

		_, err := execute(t, m, "render", "Home/Index", "--tag", "title")
		require.ErrorIs(t, err, domain.ErrInvalidTag)

		_, err = execute(t, m, "render", "Home/Index", "--tag", "=value")
		require.ErrorIs(t, err, domain.ErrInvalidTag)
	})

	t.Run("requires a view", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "render")
		require.Error(t, err)
	})

	t.Run("returns render error", func(t *testing.T) {
		m := &mockApp{
			renderFunc: func(context.Context, string, map[string]string) (string, error) {
				return "", errors.New("simulated error")
			},
		}
		_, err := execute(t, m, "render", "Home/Index")
		require.EqualError(t, err, "simulated error")
	})
}

func TestCommands_Dispatch(t *testing.T) {
	var gotRoute string
	m := &mockApp{
		dispatchFunc: func(_ context.Context, route string, tags map[string]string) (string, error) {
			gotRoute = route
			return "page " + tags["q"] + "\n", nil
		},
	}

	out, err := execute(t, m, "dispatch", "/blog/latest", "-t", "q=go")
	require.NoError(t, err)
	assert.Equal(t, "/blog/latest", gotRoute)
	assert.Equal(t, "page go\n", out)
}

func TestCommands_Watch(t *testing.T) {
	var got []app.WatchOptions
	m := &mockApp{
		watchFunc: func(_ context.Context, opts app.WatchOptions) error {
			got = append(got, opts)
			return nil
		},
	}

	_, err := execute(t, m, "watch")
	require.NoError(t, err)
	_, err = execute(t, m, "watch", "--dashboard")
	require.NoError(t, err)

	assert.Equal(t, []app.WatchOptions{{}, {Dashboard: true}}, got)
}

func TestCommands_Cache(t *testing.T) {
	m := &mockApp{
		cacheFunc: func(context.Context) (string, error) { return `{"ViewTemplates": []}`, nil },
		clearFunc: func(context.Context) (string, error) { return "/srv/Views/Cache/viewsCache.json", nil },
	}

	out, err := execute(t, m, "cache", "show")
	require.NoError(t, err)
	assert.Equal(t, "{\"ViewTemplates\": []}\n", out)

	out, err = execute(t, m, "cache", "clear")
	require.NoError(t, err)
	assert.Equal(t, "✓ removed /srv/Views/Cache/viewsCache.json\n", out)
}

func TestCommands_Deps(t *testing.T) {
	m := &mockApp{
		depsFunc: func(_ context.Context, name string) (app.Dependencies, error) {
			return app.Dependencies{
				View:       name,
				IncludedBy: []string{"Home/Index"},
				Cascade:    []string{"Home/Index", "Home/Landing"},
			}, nil
		},
	}

	out, err := execute(t, m, "deps", "Shared/Nav")
	require.NoError(t, err)
	assert.Equal(t, `Shared/Nav
  includes
    ○ none
  included by
    → Home/Index
  rebuilds
    → Home/Index
    → Home/Landing
`, out)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "montauk version "+build.Version)
}
