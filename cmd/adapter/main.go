package main

import (
	"context"
	"log"
	"os"
	"syscall"

	"github.com/honeycarbs/splitwise-mcp/internal/app"
	"github.com/honeycarbs/splitwise-mcp/internal/config"
	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
	"github.com/honeycarbs/splitwise-mcp/pkg/shutdown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	a, err := app.InitializeAdapter(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize adapter", "err", err)
		os.Exit(1)
	}

	svc := a.Service()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go shutdown.OnSignal(ctx, []os.Signal{os.Interrupt, syscall.SIGTERM}, logger, svc)

	logger.Info("HTTP adapter starting",
		"port", cfg.Adapter.Port,
		"backend", cfg.Adapter.BackendURL,
	)

	if err := svc.Run(ctx); err != nil {
		logger.Error("adapter exited with error", "err", err)
		_ = logger.Sync()
		os.Exit(1)
	}

	logger.Info("adapter stopped")
}
