package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rewatch/internal/adapters/logger"
	"go.trai.ch/rewatch/internal/core/ports"
)

const (
	// BundlerNodeID is the unique identifier for the shell bundler Graft node.
	BundlerNodeID graft.ID = "adapter.bundler"
	// LauncherNodeID is the unique identifier for the self-build launcher Graft node.
	LauncherNodeID graft.ID = "adapter.launcher"
)

func init() {
	graft.Register(graft.Node[ports.Bundler]{
		ID:        BundlerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Bundler, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewBundler(log), nil
		},
	})

	graft.Register(graft.Node[ports.SelfBuildConsumer]{
		ID:        LauncherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.SelfBuildConsumer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLauncher(log), nil
		},
	})
}
