package tui

import (
	"context"
	"os"

	"github.com/grindlemire/graft"

	"go.trai.ch/pmake/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
)

// NodeID is the unique identifier for the progress display Graft node.
const NodeID graft.ID = "adapter.tui"

func init() {
	graft.Register(graft.Node[*Display]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{progrock.RecorderNodeID},
		Run: func(ctx context.Context) (*Display, error) {
			rec, err := graft.Dep[*progrock.Recorder](ctx)
			if err != nil {
				return nil, err
			}
			return NewDisplay(os.Stderr, rec), nil
		},
	})
}
