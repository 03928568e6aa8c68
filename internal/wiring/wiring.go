// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/dsget/internal/adapters/config"
	_ "go.trai.ch/dsget/internal/adapters/hub"
	_ "go.trai.ch/dsget/internal/adapters/logger"
	_ "go.trai.ch/dsget/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "go.trai.ch/dsget/internal/app"
)
