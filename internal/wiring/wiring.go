// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/pmake/internal/adapters/config"
	_ "go.trai.ch/pmake/internal/adapters/dot"
	_ "go.trai.ch/pmake/internal/adapters/fs"
	_ "go.trai.ch/pmake/internal/adapters/logger"
	_ "go.trai.ch/pmake/internal/adapters/shell"
	_ "go.trai.ch/pmake/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/pmake/internal/adapters/tui"
	// Register app and engine nodes.
	_ "go.trai.ch/pmake/internal/app"
	_ "go.trai.ch/pmake/internal/engine/resolver"
	_ "go.trai.ch/pmake/internal/engine/scheduler"
	_ "go.trai.ch/pmake/internal/engine/staleness"
)
