package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/policy/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/policy/internal/adapters/includes"  //nolint:depguard // Wired in app layer
	"go.trai.ch/policy/internal/adapters/lockstore" //nolint:depguard // Wired in app layer
	"go.trai.ch/policy/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/policy/internal/adapters/universe"  //nolint:depguard // Wired in app layer
	"go.trai.ch/policy/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			includes.NodeID,
			universe.NodeID,
			lockstore.NodeID,
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
	loader, err := graft.Dep[ports.PolicyLoader](ctx)
	if err != nil {
		return nil, err
	}

	factory, err := graft.Dep[ports.IncludedPolicyFactory](ctx)
	if err != nil {
		return nil, err
	}

	sources, err := graft.Dep[ports.UniverseSourceFactory](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.LockStore](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, factory, sources, store, log), nil
}
