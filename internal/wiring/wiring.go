// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/montauk/internal/adapters/config"
	_ "go.trai.ch/montauk/internal/adapters/fs"
	_ "go.trai.ch/montauk/internal/adapters/logger"
	_ "go.trai.ch/montauk/internal/adapters/telemetry"
	_ "go.trai.ch/montauk/internal/adapters/token"
	_ "go.trai.ch/montauk/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/montauk/internal/app"
)
