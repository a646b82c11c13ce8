package staleness

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/pmake/internal/adapters/fs" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pmake/internal/core/ports"
)

// NodeID is the unique identifier for the staleness evaluator Graft node.
const NodeID graft.ID = "engine.staleness"

func init() {
	graft.Register(graft.Node[*Evaluator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID},
		Run: func(ctx context.Context) (*Evaluator, error) {
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return New(fsys), nil
		},
	})
}
