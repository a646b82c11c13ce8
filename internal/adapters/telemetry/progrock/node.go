package progrock

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"github.com/vito/progrock"

	"go.trai.ch/pmake/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the telemetry adapter node.
	NodeID graft.ID = "adapter.telemetry"
	// RecorderNodeID is the unique identifier for the concrete *Recorder node.
	RecorderNodeID graft.ID = "adapter.telemetry.recorder"
	// ConsoleNodeID is the unique identifier for the console the recorder echoes to.
	ConsoleNodeID graft.ID = "adapter.telemetry.console"
)

func init() {
	graft.Register(graft.Node[*Console]{
		ID:        ConsoleNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Console, error) {
			return NewConsole(os.Stdout), nil
		},
	})

	graft.Register(graft.Node[*Recorder]{
		ID:        RecorderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ConsoleNodeID},
		Run: func(ctx context.Context) (*Recorder, error) {
			console, err := graft.Dep[*Console](ctx)
			if err != nil {
				return nil, err
			}
			return NewRecorder(progrock.NewTape(), console), nil
		},
	})

	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{RecorderNodeID},
		Run: func(ctx context.Context) (ports.Telemetry, error) {
			concrete, err := graft.Dep[*Recorder](ctx)
			if err != nil {
				return nil, err
			}
			return concrete, nil
		},
	})
}
