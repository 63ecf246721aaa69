package reload_test

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/montauk/internal/core/domain"
	"go.trai.ch/montauk/internal/core/ports"
	"go.trai.ch/montauk/internal/core/ports/mocks"
	"go.trai.ch/montauk/internal/engine/compiler"
	"go.trai.ch/montauk/internal/engine/directives"
	"go.trai.ch/montauk/internal/engine/reload"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	compiler *compiler.Compiler
	loader   *mocks.MockTemplateLoader
	watcher  *mocks.MockWatcher
	tracer   *mocks.MockTracer
	logger   *mocks.MockLogger
	reloader *reload.Reloader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	dirs, subs := directives.Defaults(directives.NewBundle(nil, false, ""), nil)
	c := compiler.New(dirs, subs)
	c.Reset([]domain.TemplateRecord{
		{LogicalName: "Shared/Nav", RawContent: "<nav/>", Fingerprint: "1"},
		{LogicalName: "Home/Index", RawContent: "<body>%%Partial=Nav%%</body>", Fingerprint: "1"},
		{LogicalName: "About/Index", RawContent: "<p/>", Fingerprint: "1"},
	})
	_, err := c.CompileAll()
	require.NoError(t, err)

	f := &fixture{
		compiler: c,
		loader:   mocks.NewMockTemplateLoader(ctrl),
		watcher:  mocks.NewMockWatcher(ctrl),
		tracer:   mocks.NewMockTracer(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
	}

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	f.tracer.EXPECT().Start(gomock.Any(), "reload", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		}).AnyTimes()

	f.reloader = reload.New(f.loader, c, f.watcher, f.tracer, f.logger, domain.WatchConfig{
		Interval: 100 * time.Millisecond,
		Attempts: 3,
	})
	f.reloader.SetCanRead(func(string) bool { return true })
	return f
}

func (f *fixture) expectPause() {
	gomock.InOrder(f.watcher.EXPECT().Pause(), f.watcher.EXPECT().Resume())
}

func TestReloader_Reload_Cascade(t *testing.T) {
	f := newFixture(t)
	f.expectPause()

	f.loader.EXPECT().Load("/v/Shared/Nav.html").Return(domain.TemplateRecord{
		LogicalName: "Shared/Nav", RawContent: "<nav>new</nav>", Fingerprint: "2",
	}, nil)
	f.tracer.EXPECT().EmitCascade(gomock.Any(), []string{"Home/Index"})

	views, err := f.reloader.Reload(context.Background(), "/v/Shared/Nav.html")
	require.NoError(t, err)
	require.Len(t, views, 2)

	v, _ := f.compiler.Snapshot().Compiled("Home/Index")
	assert.Equal(t, "<body><nav>new</nav></body>", v.CompiledContent)
}

func TestReloader_Reload_SingleCompile(t *testing.T) {
	f := newFixture(t)
	f.expectPause()

	f.loader.EXPECT().Load("/v/Home/New.html").Return(domain.TemplateRecord{
		LogicalName: "Home/New", RawContent: "<i/>", Fingerprint: "1",
	}, nil)

	views, err := f.reloader.Reload(context.Background(), "/v/Home/New.html")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "<i/>", views[0].CompiledContent)
}

func TestReloader_Reload_Timeout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.expectPause()

		probes := 0
		f.reloader.SetCanRead(func(string) bool {
			probes++
			return false
		})

		start := time.Now()
		_, err := f.reloader.Reload(context.Background(), "/v/About/Index.html")
		require.ErrorIs(t, err, domain.ErrReloadTimeout)
		assert.Equal(t, 3, probes)
		assert.Equal(t, 200*time.Millisecond, time.Since(start))

		v, ok := f.compiler.Snapshot().Compiled("About/Index")
		require.True(t, ok, "old view stays servable")
		assert.Equal(t, "<p/>", v.CompiledContent)
	})
}

func TestReloader_Reload_BecomesReadable(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t)
		f.expectPause()

		probes := 0
		f.reloader.SetCanRead(func(string) bool {
			probes++
			return probes == 2
		})
		f.loader.EXPECT().Load("/v/About/Index.html").Return(domain.TemplateRecord{
			LogicalName: "About/Index", RawContent: "<p>v2</p>", Fingerprint: "2",
		}, nil)
		f.tracer.EXPECT().EmitCascade(gomock.Any(), gomock.Len(0))

		views, err := f.reloader.Reload(context.Background(), "/v/About/Index.html")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "<p>v2</p>", views[0].CompiledContent)
	})
}

func TestReloader_Reload_Panic(t *testing.T) {
	f := newFixture(t)
	f.expectPause()

	f.loader.EXPECT().Load(gomock.Any()).DoAndReturn(func(string) (domain.TemplateRecord, error) {
		panic("disk on fire")
	})

	_, err := f.reloader.Reload(context.Background(), "/v/x.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestReloader_HandleBatch(t *testing.T) {
	f := newFixture(t)
	f.watcher.EXPECT().Pause().Times(2)
	f.watcher.EXPECT().Resume().Times(2)

	boom := errors.New("boom")
	f.loader.EXPECT().Load("/v/bad.html").Return(domain.TemplateRecord{}, boom)
	f.loader.EXPECT().Load("/v/Home/New.html").Return(domain.TemplateRecord{
		LogicalName: "Home/New", RawContent: "<i/>", Fingerprint: "1",
	}, nil)
	f.logger.EXPECT().Error(boom)
	f.logger.EXPECT().Info("recompiled Home/New")

	n := f.reloader.HandleBatch(context.Background(), []string{"/v/bad.html", "/v/Home/New.html"})
	assert.Equal(t, 1, n)
}

type recorder struct {
	events []string
}

func (r *recorder) Reloading(path string) {
	r.events = append(r.events, "start "+path)
}

func (r *recorder) Reloaded(path string, views []domain.TemplateRecord, err error) {
	if err != nil {
		r.events = append(r.events, "fail "+path)
		return
	}
	for _, v := range views {
		r.events = append(r.events, "done "+path+" "+v.LogicalName)
	}
}

func TestReloader_HandleBatch_Observer(t *testing.T) {
	f := newFixture(t)
	f.watcher.EXPECT().Pause().Times(2)
	f.watcher.EXPECT().Resume().Times(2)
	f.logger.EXPECT().Error(gomock.Any())
	f.logger.EXPECT().Info(gomock.Any()).Times(2)

	f.loader.EXPECT().Load("/v/bad.html").Return(domain.TemplateRecord{}, errors.New("boom"))
	f.loader.EXPECT().Load("/v/Shared/Nav.html").Return(domain.TemplateRecord{
		LogicalName: "Shared/Nav", RawContent: "<nav>new</nav>", Fingerprint: "2",
	}, nil)
	f.tracer.EXPECT().EmitCascade(gomock.Any(), []string{"Home/Index"})

	rec := &recorder{}
	f.reloader.Observe(rec)

	n := f.reloader.HandleBatch(context.Background(), []string{"/v/bad.html", "/v/Shared/Nav.html"})
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{
		"start /v/bad.html",
		"fail /v/bad.html",
		"start /v/Shared/Nav.html",
		"done /v/Shared/Nav.html Shared/Nav",
		"done /v/Shared/Nav.html Home/Index",
	}, rec.events)
}
