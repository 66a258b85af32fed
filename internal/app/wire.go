//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/honeycarbs/splitwise-mcp/internal/adapter"
	"github.com/honeycarbs/splitwise-mcp/internal/config"
	"github.com/honeycarbs/splitwise-mcp/internal/mcp"
	"github.com/honeycarbs/splitwise-mcp/internal/metrics"
	"github.com/honeycarbs/splitwise-mcp/internal/tools"
	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
)

// InitializeApp wires the MCP server: client, catalog, router and metrics
func InitializeApp(cfg config.Config, logger *logging.Logger) (*App, error) {
	wire.Build(
		// Upstream
		provideSplitwiseConfig,
		provideCatalog,
		wire.Bind(new(mcp.Catalog), new(*tools.Catalog)),

		// Core
		metrics.New,
		mcp.NewRouter,

		newApp,
	)

	return &App{}, nil
}

// InitializeAdapter wires the socket-to-HTTP adapter
func InitializeAdapter(cfg config.Config, logger *logging.Logger) (*AdapterApp, error) {
	wire.Build(
		provideAdapterOptions,
		metrics.New,
		adapter.New,
		newAdapterApp,
	)

	return &AdapterApp{}, nil
}
