package watcher

import (
	"github.com/fsnotify/fsnotify"
	"go.trai.ch/montauk/internal/core/ports"
)

func ConvertEvent(name string, op fsnotify.Op) (ports.WatchEvent, bool) {
	return convertEvent(fsnotify.Event{Name: name, Op: op})
}
