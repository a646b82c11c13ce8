package scheduler

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/pmake/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pmake/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pmake/internal/core/ports"
	"go.trai.ch/pmake/internal/engine/resolver"
	"go.trai.ch/pmake/internal/engine/staleness"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			resolver.NodeID,
			staleness.NodeID,
			fs.NodeID,
			progrock.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			res, err := graft.Dep[*resolver.Resolver](ctx)
			if err != nil {
				return nil, err
			}

			eval, err := graft.Dep[*staleness.Evaluator](ctx)
			if err != nil {
				return nil, err
			}

			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(res, eval, fsys, telemetry), nil
		},
	})
}
