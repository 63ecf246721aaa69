package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/montauk/internal/ui/style"
)

const (
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
)

// ReloadState is one row of the dashboard.
type ReloadState struct {
	Path   string
	Name   string
	Status string // statusRunning, statusCompleted, statusFailed
	Views  []string
	Err    string
}

type styles struct {
	header    lipgloss.Style
	running   lipgloss.Style
	completed lipgloss.Style
	failed    lipgloss.Style
	muted     lipgloss.Style
}

// Model is the Bubble Tea model for the watch dashboard.
type Model struct {
	source  Source
	roots   []string
	reloads []ReloadState
	width   int
	height  int
	spinner spinner.Model
	styles  styles
}

// NewModel creates a dashboard reading from source. roots are shown in the header and used to
// shorten paths.
func NewModel(source Source, roots []string) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(style.Yellow)

	return &Model{
		source:  source,
		roots:   roots,
		spinner: s,
		styles: styles{
			header:    style.Title,
			running:   lipgloss.NewStyle().Foreground(style.Yellow),
			completed: style.Success,
			failed:    style.Failure,
			muted:     style.Muted,
		},
	}
}

// Init initializes the model and starts reading from the feed.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		WaitForFeed(m.source),
		m.spinner.Tick,
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case MsgReloadStarted:
		m.reloads = append(m.reloads, ReloadState{
			Path:   msg.Path,
			Name:   m.displayName(msg.Path),
			Status: statusRunning,
		})
		return m, WaitForFeed(m.source)
	case MsgReloadFinished:
		m.finish(msg)
		return m, WaitForFeed(m.source)
	case MsgFeedEnded:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}
	return m, nil
}

// finish updates the latest running row for the path, adding one if the start was missed.
func (m *Model) finish(msg MsgReloadFinished) {
	idx := -1
	for i := len(m.reloads) - 1; i >= 0; i-- {
		if m.reloads[i].Path == msg.Path && m.reloads[i].Status == statusRunning {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.reloads = append(m.reloads, ReloadState{Path: msg.Path, Name: m.displayName(msg.Path)})
		idx = len(m.reloads) - 1
	}

	r := &m.reloads[idx]
	r.Views = msg.Views
	if msg.Err != nil {
		r.Status = statusFailed
		r.Err = msg.Err.Error()
		return
	}
	r.Status = statusCompleted
}

func (m *Model) displayName(path string) string {
	for _, root := range m.roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.Base(path)
}

// View renders the header and as many of the latest reloads as fit.
func (m *Model) View() string {
	var s strings.Builder

	s.WriteString(m.styles.header.Render("watching " + strings.Join(m.roots, ", ")))
	s.WriteString("\n")
	if len(m.reloads) == 0 {
		s.WriteString(m.styles.muted.Render("waiting for changes, press q to quit"))
		s.WriteString("\n")
		return s.String()
	}

	start := 0
	if rows := m.height - 1; m.height > 0 && len(m.reloads) > rows {
		start = len(m.reloads) - rows
	}

	for _, r := range m.reloads[start:] {
		var line string
		switch r.Status {
		case statusRunning:
			line = fmt.Sprintf("%s %s", m.spinner.View(), r.Name)
		case statusCompleted:
			line = fmt.Sprintf("%s %s", m.styles.completed.Render(style.Check), r.Name)
			if len(r.Views) > 0 {
				line += m.styles.muted.Render(" " + style.Arrow + " " + strings.Join(r.Views, ", "))
			}
		default:
			line = fmt.Sprintf("%s %s", m.styles.failed.Render(style.Cross), r.Name)
			if r.Err != "" {
				line += m.styles.failed.Render(": " + r.Err)
			}
		}
		s.WriteString(line)
		s.WriteString("\n")
	}

	return s.String()
}
