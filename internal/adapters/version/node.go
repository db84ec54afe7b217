package version

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rewatch/internal/core/ports"
)

// NodeID is the unique identifier for the version source Graft node.
const NodeID graft.ID = "adapter.version_source"

func init() {
	graft.Register(graft.Node[ports.VersionSource]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.VersionSource, error) {
			return NewProxySource(), nil
		},
	})
}
