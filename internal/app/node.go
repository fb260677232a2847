package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/frameconv/internal/adapters/broker"      //nolint:depguard // Wired in app layer
	"go.trai.ch/frameconv/internal/adapters/calibration" //nolint:depguard // Wired in app layer
	"go.trai.ch/frameconv/internal/adapters/config"      //nolint:depguard // Wired in app layer
	"go.trai.ch/frameconv/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.trai.ch/frameconv/internal/adapters/rpc"         //nolint:depguard // Wired in app layer
	"go.trai.ch/frameconv/internal/adapters/telemetry"   //nolint:depguard // Wired in app layer
	"go.trai.ch/frameconv/internal/adapters/watcher"     //nolint:depguard // Wired in app layer
	"go.trai.ch/frameconv/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			calibration.NodeID,
			broker.NodeID,
			telemetry.NodeID,
			watcher.NodeID,
			rpc.ConnectorNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.CalibrationStore](ctx)
	if err != nil {
		return nil, err
	}

	hub, err := graft.Dep[*broker.Hub](ctx)
	if err != nil {
		return nil, err
	}

	provider, err := graft.Dep[*telemetry.Provider](ctx)
	if err != nil {
		return nil, err
	}

	fileWatcher, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	connector, err := graft.Dep[ports.ServiceConnector](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, store, hub, provider, fileWatcher, connector, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
