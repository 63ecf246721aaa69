package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/montauk/internal/core/domain"
)

const feedBuffer = 64

// Feed carries reload progress from the watch loop to the dashboard.
type Feed struct {
	ch     chan tea.Msg
	closed chan struct{}
	once   sync.Once
}

// NewFeed creates an open feed.
func NewFeed() *Feed {
	return &Feed{
		ch:     make(chan tea.Msg, feedBuffer),
		closed: make(chan struct{}),
	}
}

// Reloading implements reload.Observer.
func (f *Feed) Reloading(path string) {
	f.publish(MsgReloadStarted{Path: path})
}

// Reloaded implements reload.Observer.
func (f *Feed) Reloaded(path string, views []domain.TemplateRecord, err error) {
	names := make([]string, 0, len(views))
	for _, v := range views {
		names = append(names, v.LogicalName)
	}
	f.publish(MsgReloadFinished{Path: path, Views: names, Err: err})
}

// publish drops the message once the feed is closed.
func (f *Feed) publish(msg tea.Msg) {
	select {
	case <-f.closed:
		return
	default:
	}
	select {
	case <-f.closed:
	case f.ch <- msg:
	}
}

// Read implements Source. Messages queued before Close are still delivered.
func (f *Feed) Read() (tea.Msg, bool) {
	select {
	case msg := <-f.ch:
		return msg, true
	case <-f.closed:
		select {
		case msg := <-f.ch:
			return msg, true
		default:
			return nil, false
		}
	}
}

// Close ends the feed. It is safe to call more than once.
func (f *Feed) Close() {
	f.once.Do(func() { close(f.closed) })
}
