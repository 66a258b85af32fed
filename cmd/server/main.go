package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/honeycarbs/splitwise-mcp/internal/app"
	"github.com/honeycarbs/splitwise-mcp/internal/config"
	"github.com/honeycarbs/splitwise-mcp/internal/mcp"
	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
	"github.com/honeycarbs/splitwise-mcp/pkg/shutdown"
)

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("%s version %s\n", mcp.ServerName, mcp.ServerVersion)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	opts.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	a, err := app.InitializeApp(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize server", "err", err)
		os.Exit(1)
	}

	svc := a.Service(os.Stdin, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go shutdown.OnSignal(ctx,
		[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
		logger,
		svc,
	)

	logger.Info("MCP server initialized and starting", "mode", cfg.Mode)

	if err := svc.Run(ctx); err != nil {
		logger.Error("MCP server exited with error", "err", err)
		_ = logger.Sync()
		os.Exit(1)
	}

	logger.Info("MCP server stopped")
}
