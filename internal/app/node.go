package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/montauk/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/montauk/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/montauk/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/montauk/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/montauk/internal/adapters/token"     //nolint:depguard // Wired in app layer
	"go.trai.ch/montauk/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/montauk/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components the CLI layer needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			fs.HasherNodeID,
			fs.WalkerNodeID,
			token.NodeID,
			watcher.WatcherNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Fingerprinter](ctx)
	if err != nil {
		return nil, err
	}

	walker, err := graft.Dep[*fs.Walker](ctx)
	if err != nil {
		return nil, err
	}

	tokens, err := graft.Dep[ports.TokenSource](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, tracer, hasher, walker, tokens, w), nil
}
