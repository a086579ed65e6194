// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/policy/internal/adapters/config"
	_ "go.trai.ch/policy/internal/adapters/includes"
	_ "go.trai.ch/policy/internal/adapters/lockstore"
	_ "go.trai.ch/policy/internal/adapters/logger"
	_ "go.trai.ch/policy/internal/adapters/universe"
	// Register app nodes.
	_ "go.trai.ch/policy/internal/app"
)
