package config

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/pmake/internal/adapters/shell" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/pmake/internal/core/ports"
)

// NodeID is the unique identifier for the config loader Graft node.
const NodeID graft.ID = "adapter.config_loader"

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(executor), nil
		},
	})
}
