package compiler_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/engine/compiler"
	"go.trai.ch/montauk/internal/engine/directives"
)

func newCompiler(t *testing.T, templates map[string]string) *compiler.Compiler {
	t.Helper()

	dirs, subs := directives.Defaults(directives.NewBundle(nil, false, ""), func() (string, error) {
		return "token", nil
	})
	c := compiler.New(dirs, subs)

	records := make([]domain.TemplateRecord, 0, len(templates))
	for name, raw := range templates {
		records = append(records, record(name, raw, "1"))
	}
	c.Reset(records)
	return c
}

func record(name, raw, fingerprint string) domain.TemplateRecord {
	return domain.TemplateRecord{
		LogicalName: name,
		DisplayName: name[strings.LastIndex(name, "/")+1:],
		RawContent:  raw,
		Fingerprint: fingerprint,
	}
}

var site = map[string]string{
	"Shared/Base":   "<!DOCTYPE html>\n<html>\n<head>\n%%Head%%\n</head>\n<body>\n%%View%%\n</body>\n</html>\n",
	"Shared/Layout": "%%Master=Base%%\n<main>\n%%View%%\n</main>\n%%Placeholder=Scripts%%\n",
	"Shared/Nav":    "<nav>{{user}}</nav>",
	"Home/Index": "%%Master=Layout%%\n[[<title>Home</title>]]\n@@ comment @@\n%%Partial=Nav%%\n" +
		"<p>{|message|}</p>\n[Scripts]<script src=\"/home.js\"></script>[/Scripts]\n",
	"Home/RowFragment": "<tr>\n\n%%Partial=Nav%%</tr>",
	"About/Index":      "<p>about</p>",
}

func TestCompiler_Compile_Golden(t *testing.T) {
	c := newCompiler(t, site)

	view, err := c.Compile("Home/Index")
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "home_index_compiled", []byte(view.CompiledContent))

	rendered, err := c.Render("Home/Index", map[string]string{
		"user":    "  Ann  ",
		"message": "<b>hi</b>",
	})
	require.NoError(t, err)
	g.Assert(t, "home_index_rendered", []byte(rendered.LastRenderResult))

	assert.Equal(t,
		[]string{"Shared/Layout", "Shared/Base", "Shared/Nav"},
		c.Snapshot().DependenciesOf("Home/Index"))
}

func TestCompiler_Compile_Master(t *testing.T) {
	c := newCompiler(t, map[string]string{
		"Shared/Layout": "<div>%%View%%</div>",
		"Home/Index":    "%%Master=Layout%%child",
	})

	view, err := c.Compile("Home/Index")
	require.NoError(t, err)
	assert.Equal(t, "<div>child</div>", view.CompiledContent)
	assert.NotContains(t, view.CompiledContent, "%%Master")
}

func TestCompiler_Compile_Errors(t *testing.T) {
	c := newCompiler(t, map[string]string{
		"Home/Index":  "%%Partial=Missing%%",
		"Home/Cycle":  "%%Master=Loop%%hi",
		"Shared/Loop": "%%Master=Loop%%<b>%%View%%</b>",
	})

	_, err := c.Compile("Nope")
	require.ErrorIs(t, err, domain.ErrTemplateNotFound)

	_, err = c.Compile("Home/Index")
	require.ErrorIs(t, err, domain.ErrTemplateNotFound)
	_, ok := c.Snapshot().Compiled("Home/Index")
	assert.False(t, ok, "failed compile must not publish")

	_, err = c.WithMaxLayoutDepth(3).Compile("Home/Cycle")
	require.ErrorIs(t, err, domain.ErrLayoutDepthExceeded)
}

func TestCompiler_Compile_EmptyFallsBackToRaw(t *testing.T) {
	c := newCompiler(t, map[string]string{"Home/Note": "@@only a comment@@"})

	view, err := c.Compile("Home/Note")
	require.NoError(t, err)
	assert.Equal(t, "@@only a comment@@", view.CompiledContent)
}

func TestCompiler_Compile_Fragment(t *testing.T) {
	c := newCompiler(t, site)

	view, err := c.Compile("Home/RowFragment")
	require.NoError(t, err)
	assert.Equal(t, site["Home/RowFragment"], view.CompiledContent)
	assert.Empty(t, c.Snapshot().DependenciesOf("Home/RowFragment"))
}

func TestCompiler_CompileAll(t *testing.T) {
	c := newCompiler(t, map[string]string{
		"Shared/Layout": "<div>%%View%%</div>",
		"Home/Index":    "%%Master=Layout%%a",
		"Home/Broken":   "%%Master=Gone%%",
	})

	views, err := c.CompileAll()
	require.ErrorIs(t, err, domain.ErrTemplateNotFound)
	assert.Len(t, views, 2)

	snap := c.Snapshot()
	_, ok := snap.Compiled("Home/Broken")
	assert.False(t, ok)
	v, ok := snap.Compiled("Home/Index")
	require.True(t, ok)
	assert.Equal(t, "<div>a</div>", v.CompiledContent)
}

func TestCompiler_Render(t *testing.T) {
	c := newCompiler(t, map[string]string{
		"Home/Index": "<h1>{{title}}</h1>\n<p>{|body|}</p>\n<div>{!notes!}</div>\n  \n<i>{{missing}}</i>{|x|}\n<input value=\"%%AntiForgeryToken%%\">",
	})
	_, err := c.CompileAll()
	require.NoError(t, err)

	view, err := c.Render("Home/Index", map[string]string{
		"title": " Hello ",
		"body":  "a < b & \"c\"",
		"notes": "# Notes",
		"x":     "",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"<h1>Hello</h1>\n<p>a &lt; b &amp; &#34;c&#34;</p>\n<div><h1>Notes</h1>\n</div>\n<i></i>\n<input value=\"token\">",
		view.LastRenderResult)

	cache := c.ViewCache()
	require.Len(t, cache.CompiledViews, 1)
	assert.Equal(t, view.LastRenderResult, cache.CompiledViews[0].LastRenderResult)

	_, err = c.Render("Nope", nil)
	require.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestCompiler_Render_DropsTagOnlyLines(t *testing.T) {
	c := newCompiler(t, map[string]string{
		"Home/Index": "<p>a</p>\n{{missing}}\n<p>b</p>\r\n  {|blank|}\r\n<p>c</p>",
	})
	_, err := c.CompileAll()
	require.NoError(t, err)

	tests := []struct {
		name string
		tags map[string]string
	}{
		{name: "unsupplied", tags: nil},
		{name: "empty value", tags: map[string]string{"missing": "", "blank": ""}},
		{name: "whitespace value", tags: map[string]string{"missing": "  ", "blank": "\t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := c.Render("Home/Index", tt.tags)
			require.NoError(t, err)
			assert.Equal(t, "<p>a</p>\n<p>b</p>\r\n<p>c</p>", view.LastRenderResult)
		})
	}
}

func TestCompiler_Render_TrimsEveryTagForm(t *testing.T) {
	c := newCompiler(t, map[string]string{
		"Home/Index": "<a>{{v}}</a><b>{|v|}</b><c>{!v!}</c>",
	})
	_, err := c.CompileAll()
	require.NoError(t, err)

	view, err := c.Render("Home/Index", map[string]string{"v": "  x & y  "})
	require.NoError(t, err)
	assert.Equal(t, "<a>x & y</a><b>x &amp; y</b><c><p>x &amp; y</p>\n</c>", view.LastRenderResult)
}

func TestCompiler_RecompileDependencies(t *testing.T) {
	c := newCompiler(t, map[string]string{
		"Shared/B": "b1",
		"A":        "<a>%%Partial=B%%</a>",
		"C":        "c",
	})
	_, err := c.CompileAll()
	require.NoError(t, err)
	before, _ := c.Snapshot().Compiled("C")

	stale := c.Replace(record("Shared/B", "b2", "2"))
	require.True(t, stale)

	views, err := c.RecompileDependencies("Shared/B")
	require.NoError(t, err)

	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, v.LogicalName)
	}
	assert.Equal(t, []string{"Shared/B", "A"}, names)

	a, _ := c.Snapshot().Compiled("A")
	assert.Equal(t, "<a>b2</a>", a.CompiledContent)
	after, _ := c.Snapshot().Compiled("C")
	assert.Equal(t, before, after)

	_, err = c.RecompileDependencies("Nope")
	require.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestCompiler_RecompileDependencies_Nested(t *testing.T) {
	c := newCompiler(t, map[string]string{
		"Shared/Base":   "<html>%%View%%</html>",
		"Shared/Layout": "%%Master=Base%%<main>%%View%%</main>",
		"Home/Index":    "%%Master=Layout%%hi",
	})
	_, err := c.CompileAll()
	require.NoError(t, err)

	c.Replace(record("Shared/Base", "<body>%%View%%</body>", "2"))
	_, err = c.RecompileDependencies("Shared/Base")
	require.NoError(t, err)

	v, _ := c.Snapshot().Compiled("Home/Index")
	assert.Equal(t, "<body><main>hi</main></body>", v.CompiledContent)
}

func TestCompiler_Replace(t *testing.T) {
	c := newCompiler(t, site)

	assert.False(t, c.Replace(record("Home/New", "new", "1")), "no compiled entry yet")

	_, err := c.CompileAll()
	require.NoError(t, err)

	assert.False(t, c.Replace(record("About/Index", "<p>about</p>", "1")), "same fingerprint")
	assert.False(t, c.Replace(record("Home/RowFragment", "<tr/>", "2")), "fragments are never stale")
	assert.True(t, c.Replace(record("About/Index", "<p>changed</p>", "2")))

	v, _ := c.Snapshot().Compiled("About/Index")
	assert.Equal(t, "2", v.Fingerprint)
	assert.Equal(t, "<p>changed</p>", v.RawContent)
	assert.Equal(t, "<p>about</p>", v.CompiledContent, "compiled output waits for recompilation")
}

func TestCompiler_Restore(t *testing.T) {
	c := newCompiler(t, site)
	_, err := c.CompileAll()
	require.NoError(t, err)
	cache := c.ViewCache()

	restored := compiler.New(nil, nil)
	restored.Restore(cache)

	assert.Equal(t, cache.Normalized(), restored.ViewCache().Normalized())
	assert.Equal(t, []string{"Home/Index"}, restored.Cascade("Shared/Nav"))
}

func TestCompiler_ConcurrentRenderAndCompile(t *testing.T) {
	c := newCompiler(t, map[string]string{
		"Shared/Layout": "<div>%%View%%</div>",
		"Home/Index":    "%%Master=Layout%%{{n}}",
	})
	_, err := c.CompileAll()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			for range 50 {
				v, err := c.Render("Home/Index", map[string]string{"n": "x"})
				if assert.NoError(t, err) {
					assert.Equal(t, "<div>x</div>", v.LastRenderResult)
				}
			}
		})
	}
	wg.Go(func() {
		for range 50 {
			_, err := c.RecompileDependencies("Shared/Layout")
			assert.NoError(t, err)
		}
	})
	wg.Wait()
}
