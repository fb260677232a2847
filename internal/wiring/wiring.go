// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/frameconv/internal/adapters/broker"
	_ "go.trai.ch/frameconv/internal/adapters/calibration"
	_ "go.trai.ch/frameconv/internal/adapters/config"
	_ "go.trai.ch/frameconv/internal/adapters/logger"
	_ "go.trai.ch/frameconv/internal/adapters/rpc"
	_ "go.trai.ch/frameconv/internal/adapters/telemetry"
	_ "go.trai.ch/frameconv/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/frameconv/internal/app"
)
