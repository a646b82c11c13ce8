package app

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/pmake/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/pmake/internal/adapters/dot"                //nolint:depguard // Wired in app layer
	"go.trai.ch/pmake/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/pmake/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/pmake/internal/adapters/tui"                //nolint:depguard // Wired in app layer
	"go.trai.ch/pmake/internal/core/ports"
	"go.trai.ch/pmake/internal/engine/resolver"
	"go.trai.ch/pmake/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			scheduler.NodeID,
			resolver.NodeID,
			dot.NodeID,
			logger.NodeID,
			logger.ConcreteNodeID,
			progrock.NodeID,
			progrock.ConsoleNodeID,
			tui.NodeID,
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
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	res, err := graft.Dep[*resolver.Resolver](ctx)
	if err != nil {
		return nil, err
	}

	encoder, err := graft.Dep[ports.GraphEncoder](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	settings, err := graft.Dep[*logger.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	console, err := graft.Dep[*progrock.Console](ctx)
	if err != nil {
		return nil, err
	}

	display, err := graft.Dep[*tui.Display](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, sched, res, encoder, log, telemetry).
		WithConsole(console).
		WithProgress(display).
		WithLogSettings(settings), nil
}
