//nolint:testpackage // Test needs access to unexported fields
package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockSource is a Source that is always exhausted.
type MockSource struct{}

func (MockSource) Read() (tea.Msg, bool) {
	return nil, false
}

func newTestModel(t *testing.T) *Model {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	return NewModel(MockSource{}, []string{"/site/Views"})
}

func TestModel_ReloadLifecycle(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(MsgReloadStarted{Path: "/site/Views/Shared/Nav.html"})
	require.NotNil(t, cmd)
	require.Len(t, m.reloads, 1)
	assert.Equal(t, "Shared/Nav.html", m.reloads[0].Name)
	assert.Equal(t, statusRunning, m.reloads[0].Status)

	_, cmd = m.Update(MsgReloadFinished{
		Path:  "/site/Views/Shared/Nav.html",
		Views: []string{"Shared/Nav", "Home/Index"},
	})
	require.NotNil(t, cmd)
	assert.Equal(t, statusCompleted, m.reloads[0].Status)
	assert.Equal(t, []string{"Shared/Nav", "Home/Index"}, m.reloads[0].Views)
}

func TestModel_ReloadFailure(t *testing.T) {
	m := newTestModel(t)

	m.Update(MsgReloadStarted{Path: "/site/Views/Home/Index.html"})
	m.Update(MsgReloadFinished{Path: "/site/Views/Home/Index.html", Err: errors.New("boom")})

	assert.Equal(t, statusFailed, m.reloads[0].Status)
	assert.Equal(t, "boom", m.reloads[0].Err)
}

func TestModel_RepeatedEditsAddRows(t *testing.T) {
	m := newTestModel(t)

	for range 2 {
		m.Update(MsgReloadStarted{Path: "/site/Views/Home/Index.html"})
		m.Update(MsgReloadFinished{Path: "/site/Views/Home/Index.html"})
	}
	require.Len(t, m.reloads, 2)
	assert.Equal(t, statusCompleted, m.reloads[1].Status)
}

func TestModel_FinishWithoutStart(t *testing.T) {
	m := newTestModel(t)

	m.Update(MsgReloadFinished{Path: "/elsewhere/x.html"})
	require.Len(t, m.reloads, 1)
	assert.Equal(t, "x.html", m.reloads[0].Name)
	assert.Equal(t, statusCompleted, m.reloads[0].Status)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(MsgFeedEnded{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd)
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, "watching /site/Views\nwaiting for changes, press q to quit\n", m.View())

	m.Update(MsgReloadStarted{Path: "/site/Views/Shared/Nav.html"})
	m.Update(MsgReloadFinished{Path: "/site/Views/Shared/Nav.html", Views: []string{"Shared/Nav", "Home/Index"}})
	m.Update(MsgReloadStarted{Path: "/site/Views/Home/Bad.html"})
	m.Update(MsgReloadFinished{Path: "/site/Views/Home/Bad.html", Err: errors.New("template not found")})

	view := m.View()
	assert.Contains(t, view, "✓ Shared/Nav.html → Shared/Nav, Home/Index\n")
	assert.Contains(t, view, "✗ Home/Bad.html: template not found\n")
}

func TestModel_View_SlidingWindow(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 3})

	for _, name := range []string{"a", "b", "c", "d"} {
		path := "/site/Views/" + name + ".html"
		m.Update(MsgReloadStarted{Path: path})
		m.Update(MsgReloadFinished{Path: path})
	}

	lines := strings.Split(strings.TrimSuffix(m.View(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "watching /site/Views", lines[0])
	assert.Equal(t, "✓ c.html", lines[1])
	assert.Equal(t, "✓ d.html", lines[2])
}
