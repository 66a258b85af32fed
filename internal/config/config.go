package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Mode selects the transport binding the server runs.
type Mode string

const (
	ModeStdio     Mode = "stdio"
	ModeHTTP      Mode = "http"
	ModeWebSocket Mode = "ws"
)

const (
	DefaultHTTPPort      = "4000"
	DefaultWebSocketPort = "4001"
	DefaultAdapterPort   = "4000"
	DefaultBackendURL    = "ws://localhost:4001"
	DefaultBaseURL       = "https://secure.splitwise.com/api/v3.0"

	// ConfigFileEnv names an optional YAML file applied before the environment.
	ConfigFileEnv = "SPLITWISE_MCP_CONFIG"
)

// Config contains runtime settings for the server and the adapter
type Config struct {
	LogLevel string `yaml:"log_level"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"` // empty means the mode's default
	Mode     Mode   `yaml:"mode"`

	SSEKeepAlive time.Duration `yaml:"sse_keepalive"`

	Splitwise struct {
		AccessToken string `yaml:"access_token"`
		BaseURL     string `yaml:"base_url"`
	} `yaml:"splitwise"`

	Adapter struct {
		Port       string `yaml:"port"`
		BackendURL string `yaml:"backend_url"`
	} `yaml:"adapter"`
}

// Load reads .env (if present), the optional YAML file, then environment
// variables, later sources overriding earlier ones.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		LogLevel:     "info",
		Host:         "0.0.0.0",
		Mode:         ModeWebSocket,
		SSEKeepAlive: 30 * time.Second,
	}
	cfg.Splitwise.BaseURL = DefaultBaseURL
	cfg.Adapter.Port = DefaultAdapterPort
	cfg.Adapter.BackendURL = DefaultBackendURL

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("MCP_HOST"); v != "" {
		cfg.Host = v
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
		cfg.Adapter.Port = v
	}

	if v := os.Getenv("SPLITWISE_ACCESS_TOKEN"); v != "" {
		cfg.Splitwise.AccessToken = v
	}

	if v := os.Getenv("SPLITWISE_API_BASE_URL"); v != "" {
		cfg.Splitwise.BaseURL = v
	}

	if v := os.Getenv("WS_BACKEND_URL"); v != "" {
		cfg.Adapter.BackendURL = v
	}

	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks ports and mode.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeStdio, ModeHTTP, ModeWebSocket:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}

	for name, port := range map[string]string{"port": c.Port, "adapter port": c.Adapter.Port} {
		if port == "" {
			continue
		}
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return fmt.Errorf("invalid %s %q", name, port)
		}
	}

	return nil
}

// ListenPort is Port, or the default for the configured mode.
func (c Config) ListenPort() string {
	if c.Port != "" {
		return c.Port
	}
	if c.Mode == ModeHTTP {
		return DefaultHTTPPort
	}
	return DefaultWebSocketPort
}
