package main

import (
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/splitwise-mcp/internal/config"
)

func TestOptionsApply(t *testing.T) {
	cases := []struct {
		args []string
		mode config.Mode
		port string
	}{
		{args: nil, mode: config.ModeWebSocket, port: "4001"},
		{args: []string{"--stdio"}, mode: config.ModeStdio, port: "4001"},
		{args: []string{"--http"}, mode: config.ModeHTTP, port: "4000"},
		{args: []string{"--http", "--port", "8088"}, mode: config.ModeHTTP, port: "8088"},
		{args: []string{"--ws", "-p", "9001"}, mode: config.ModeWebSocket, port: "9001"},
	}

	for _, tc := range cases {
		var opts Options
		_, err := flags.ParseArgs(&opts, tc.args)
		require.NoError(t, err)

		cfg := config.Config{Mode: config.ModeWebSocket}
		opts.apply(&cfg)

		assert.Equal(t, tc.mode, cfg.Mode, tc.args)
		assert.Equal(t, tc.port, cfg.ListenPort(), tc.args)
	}
}

func TestVersionFlag(t *testing.T) {
	for _, args := range [][]string{{"--version"}, {"-v"}} {
		var opts Options
		_, err := flags.ParseArgs(&opts, args)
		require.NoError(t, err)
		assert.True(t, opts.Version)
	}
}
