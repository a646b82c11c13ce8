package dot

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/pmake/internal/core/ports"
)

// NodeID is the unique identifier for the graph encoder Graft node.
const NodeID graft.ID = "adapter.graph_encoder"

func init() {
	graft.Register(graft.Node[ports.GraphEncoder]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.GraphEncoder, error) {
			return New(), nil
		},
	})
}
