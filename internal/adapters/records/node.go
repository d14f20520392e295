package records

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/scribe/internal/core/ports"
)

// NodeID is the unique identifier for the build record store opener Graft node.
const NodeID graft.ID = "adapter.build_record_store"

func init() {
	graft.Register(graft.Node[ports.BuildRecordStoreOpener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.BuildRecordStoreOpener, error) {
			return NewOpener(), nil
		},
	})
}
