package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scribe/internal/core/ports"
)

// NodeID is the unique identifier for the process launcher Graft node.
const NodeID graft.ID = "adapter.launcher"

func init() {
	graft.Register(graft.Node[ports.ProcessLauncher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ProcessLauncher, error) {
			return NewLauncher(), nil
		},
	})
}
