package app

import (
	"context"
	"io"

	"github.com/honeycarbs/splitwise-mcp/internal/adapter"
	"github.com/honeycarbs/splitwise-mcp/internal/config"
	"github.com/honeycarbs/splitwise-mcp/internal/mcp"
	"github.com/honeycarbs/splitwise-mcp/internal/metrics"
	"github.com/honeycarbs/splitwise-mcp/internal/server"
	"github.com/honeycarbs/splitwise-mcp/internal/transport/stdio"
	"github.com/honeycarbs/splitwise-mcp/internal/transport/streamable"
	"github.com/honeycarbs/splitwise-mcp/internal/transport/websocket"
	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
)

// Service is a runnable transport binding.
type Service interface {
	Run(ctx context.Context) error
	Close() error
}

// App holds the long-lived server dependencies.
type App struct {
	Config  config.Config
	Logger  *logging.Logger
	Metrics *metrics.Metrics
	Router  *mcp.Router
}

func newApp(cfg config.Config, logger *logging.Logger, m *metrics.Metrics, router *mcp.Router) *App {
	return &App{Config: cfg, Logger: logger, Metrics: m, Router: router}
}

// Service builds the binding selected by Config.Mode. in and out are only
// used by the stdio binding.
func (a *App) Service(in io.Reader, out io.Writer) Service {
	switch a.Config.Mode {
	case config.ModeStdio:
		return stdio.NewServer(a.Router, in, out, a.Logger, a.Metrics)
	case config.ModeHTTP:
		h := streamable.NewHandler(a.Router, a.Logger, a.Metrics, streamable.WithKeepAlive(a.Config.SSEKeepAlive))
		return server.New("http", a.Config.Host, a.Config.ListenPort(), h, a.Logger)
	default:
		h := websocket.NewHybrid(websocket.NewHandler(a.Router, a.Logger, a.Metrics), a.Metrics)
		return server.New("ws", a.Config.Host, a.Config.ListenPort(), h, a.Logger)
	}
}

// AdapterApp holds the socket-to-HTTP adapter process.
type AdapterApp struct {
	Config  config.Config
	Logger  *logging.Logger
	Adapter *adapter.Adapter
}

func newAdapterApp(cfg config.Config, logger *logging.Logger, a *adapter.Adapter) *AdapterApp {
	return &AdapterApp{Config: cfg, Logger: logger, Adapter: a}
}

func (a *AdapterApp) Service() Service {
	return server.New("adapter", a.Config.Host, a.Config.Adapter.Port, a.Adapter, a.Logger)
}
