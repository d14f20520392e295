package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scribe/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/adapters/metrics"   //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/adapters/records"   //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/scribe/internal/core/ports"
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
			shell.NodeID,
			records.NodeID,
			fs.ResolverNodeID,
			fs.HasherNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			metrics.NodeID,
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

			return NewComponents(app, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	launcher, err := graft.Dep[ports.ProcessLauncher](ctx)
	if err != nil {
		return nil, err
	}

	stores, err := graft.Dep[ports.BuildRecordStoreOpener](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[ports.SourceResolver](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.ArtifactHasher](ctx)
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

	recorder, err := graft.Dep[ports.MetricsRecorder](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, launcher, stores, resolver, hasher, log, tracer, recorder), nil
}
