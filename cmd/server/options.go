package main

import "github.com/honeycarbs/splitwise-mcp/internal/config"

// Options are the server's command-line flags.
type Options struct {
	Version bool   `short:"v" long:"version" description:"print version and exit"`
	Stdio   bool   `long:"stdio" description:"serve MCP over stdin/stdout"`
	HTTP    bool   `long:"http" description:"serve the stateless HTTP transport (default port 4000)"`
	WS      bool   `long:"ws" description:"serve WebSocket plus HTTP status routes (default port 4001)"`
	Port    string `short:"p" long:"port" description:"listen port, overrides PORT"`
}

// apply lets flags override the loaded configuration.
func (o Options) apply(cfg *config.Config) {
	switch {
	case o.Stdio:
		cfg.Mode = config.ModeStdio
	case o.HTTP:
		cfg.Mode = config.ModeHTTP
	case o.WS:
		cfg.Mode = config.ModeWebSocket
	}

	if o.Port != "" {
		cfg.Port = o.Port
	}
}
