// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/rewatch/internal/adapters/config"
	_ "go.trai.ch/rewatch/internal/adapters/logger"
	_ "go.trai.ch/rewatch/internal/adapters/notify"
	_ "go.trai.ch/rewatch/internal/adapters/shell"
	_ "go.trai.ch/rewatch/internal/adapters/version"
	// Register app nodes.
	_ "go.trai.ch/rewatch/internal/app"
)
