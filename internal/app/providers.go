package app

import (
	"github.com/honeycarbs/splitwise-mcp/internal/adapter"
	"github.com/honeycarbs/splitwise-mcp/internal/config"
	"github.com/honeycarbs/splitwise-mcp/internal/tools"
	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
	"github.com/honeycarbs/splitwise-mcp/pkg/splitwise"
)

// provideSplitwiseConfig extracts client config from main config
func provideSplitwiseConfig(cfg config.Config) splitwise.Config {
	return splitwise.Config{
		AccessToken: cfg.Splitwise.AccessToken,
		BaseURL:     cfg.Splitwise.BaseURL,
	}
}

// provideCatalog registers every tool. Without a usable client the catalog
// is still listed but each call fails.
func provideCatalog(swCfg splitwise.Config, logger *logging.Logger) (*tools.Catalog, error) {
	client, err := splitwise.NewClient(swCfg)
	if err != nil {
		logger.Warn("Splitwise client unavailable; tool calls will fail", "err", err)
		return tools.NewCatalog(nil, tools.WithClientError(err))
	}

	logger.Info("Splitwise client initialized", "base_url", client.BaseURL())
	return tools.NewCatalog(client)
}

// provideAdapterOptions extracts adapter settings from main config
func provideAdapterOptions(cfg config.Config) adapter.Options {
	return adapter.Options{
		BackendURL: cfg.Adapter.BackendURL,
		Port:       cfg.Adapter.Port,
	}
}
