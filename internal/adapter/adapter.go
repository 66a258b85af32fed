package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	xws "golang.org/x/net/websocket"

	"github.com/honeycarbs/splitwise-mcp/internal/mcp"
	"github.com/honeycarbs/splitwise-mcp/internal/metrics"
	"github.com/honeycarbs/splitwise-mcp/internal/transport/websocket"
	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
)

const (
	DefaultCacheTTL     = 60 * time.Second
	DefaultToolsTimeout = 5 * time.Second
	DefaultRPCTimeout   = 30 * time.Second

	maxBodySize = 4 << 20
)

var toolsListRequest = []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

// Options configures an Adapter. Zero durations fall back to the defaults.
type Options struct {
	BackendURL   string
	Port         string
	CacheTTL     time.Duration
	ToolsTimeout time.Duration
	RPCTimeout   time.Duration
}

// Adapter exposes HTTP endpoints in front of a WebSocket MCP backend.
type Adapter struct {
	opts    Options
	backend *Backend
	cache   *ToolsCache
	logger  *logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	router chi.Router
}

func New(opts Options, logger *logging.Logger, m *metrics.Metrics) *Adapter {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.ToolsTimeout <= 0 {
		opts.ToolsTimeout = DefaultToolsTimeout
	}
	if opts.RPCTimeout <= 0 {
		opts.RPCTimeout = DefaultRPCTimeout
	}

	a := &Adapter{
		opts:    opts,
		backend: NewBackend(opts.BackendURL),
		cache:   NewToolsCache(),
		logger:  logger.Named("adapter"),
		metrics: m,
		now:     time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", a.handleRoot)
	r.Get("/health", a.handleHealth)
	r.Get("/status", a.handleStatus)
	r.Get("/listTools", a.handleListTools)
	r.Post("/rpc", a.forward("rpc"))
	r.Post("/", a.forward("root"))
	r.Handle("/metrics", m.Handler())

	a.router = r
	return a
}

func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if websocket.IsUpgrade(r) {
		a.proxy(w, r)
		return
	}
	a.router.ServeHTTP(w, r)
}

// Cache exposes the tool cache, mainly for tests.
func (a *Adapter) Cache() *ToolsCache {
	return a.cache
}

func (a *Adapter) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"type":    "mcp-adapter",
		"version": mcp.ServerVersion,
	})
}

func (a *Adapter) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type toolSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Adapter struct {
		Version string `json:"version"`
		Port    string `json:"port"`
	} `json:"adapter"`
	Backend struct {
		URL       string    `json:"url"`
		Connected bool      `json:"connected"`
		LastCheck time.Time `json:"lastCheck"`
	} `json:"backend"`
	Tools struct {
		Cached int           `json:"cached"`
		List   []toolSummary `json:"list"`
	} `json:"tools"`
}

func (a *Adapter) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := a.cache.Load()
	if len(snap.Tools) == 0 && a.now().Sub(snap.Timestamp) > a.opts.CacheTTL {
		if _, err := a.fetchTools(r.Context()); err != nil {
			a.logger.Warn("failed to refresh tools cache", "err", err)
		}
		snap = a.cache.Load()
	}

	var resp statusResponse
	resp.Status = "ok"
	resp.Adapter.Version = mcp.ServerVersion
	resp.Adapter.Port = a.opts.Port
	resp.Backend.URL = a.backend.URL()
	resp.Backend.Connected = snap.BackendConnected
	resp.Backend.LastCheck = snap.Timestamp
	resp.Tools.Cached = len(snap.Tools)
	resp.Tools.List = make([]toolSummary, 0, len(snap.Tools))
	for _, raw := range snap.Tools {
		var t toolSummary
		if err := json.Unmarshal(raw, &t); err == nil {
			resp.Tools.List = append(resp.Tools.List, t)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (a *Adapter) handleListTools(w http.ResponseWriter, r *http.Request) {
	if snap := a.cache.Load(); snap.Fresh(a.now(), a.opts.CacheTTL) {
		a.logger.Debug("returning cached tools", "count", len(snap.Tools))
		writeJSON(w, http.StatusOK, map[string]any{"tools": snap.Tools})
		return
	}

	tools, err := a.fetchTools(r.Context())
	if err != nil {
		a.logger.Warn("error fetching tools", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "Backend unavailable",
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tools": tools})
}

func (a *Adapter) fetchTools(ctx context.Context) ([]json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.ToolsTimeout)
	defer cancel()

	reply, err := a.backend.Call(ctx, toolsListRequest, true)
	if err != nil {
		a.cache.SetConnected(false)
		a.metrics.ObserveBackend("listTools", outcome(err))
		return nil, err
	}

	var resp struct {
		Result *struct {
			Tools []json.RawMessage `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(reply, &resp); err != nil || resp.Result == nil || resp.Result.Tools == nil {
		a.cache.SetConnected(true)
		a.metrics.ObserveBackend("listTools", "invalid")
		return nil, errors.New("invalid tools response")
	}

	a.cache.StoreTools(resp.Result.Tools, a.now())
	a.metrics.ObserveBackend("listTools", "ok")
	a.logger.Info("cached tools", "count", len(resp.Result.Tools))
	return resp.Result.Tools, nil
}

// forward relays one JSON-RPC message to a fresh backend connection.
func (a *Adapter) forward(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if !json.Valid(body) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request body is not valid JSON"})
			return
		}

		// the backend sends nothing back for notifications or unanswered methods
		var req mcp.Request
		noReply := json.Unmarshal(body, &req) == nil && (req.IsNotification() || mcp.Unanswered(req.Method))

		log := a.logger.With("route", route, "request_id", middleware.GetReqID(r.Context()))
		log.Debug("forwarding message", "method", req.Method)

		ctx, cancel := context.WithTimeout(r.Context(), a.opts.RPCTimeout)
		defer cancel()

		reply, err := a.backend.Call(ctx, body, !noReply)
		switch {
		case errors.Is(err, ErrBackendTimeout):
			a.cache.SetConnected(false)
			a.metrics.ObserveBackend(route, "timeout")
			log.Warn("backend timeout", "err", err)
			writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "Backend timeout"})
			return
		case err != nil:
			a.cache.SetConnected(false)
			a.metrics.ObserveBackend(route, "unavailable")
			log.Warn("backend connection failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error":   "Backend connection failed",
				"message": err.Error(),
			})
			return
		}

		a.cache.SetConnected(true)

		if noReply {
			a.metrics.ObserveBackend(route, "ok")
			w.WriteHeader(http.StatusAccepted)
			return
		}

		if !json.Valid(reply) {
			a.metrics.ObserveBackend(route, "invalid")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Invalid response from backend"})
			return
		}

		a.metrics.ObserveBackend(route, "ok")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(reply)
	}
}

// proxy bridges an upgraded client connection to its own backend connection
// until either side closes.
func (a *Adapter) proxy(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), a.opts.ToolsTimeout)
	backend, err := a.backend.Dial(ctx)
	cancel()
	if err != nil {
		a.cache.SetConnected(false)
		a.metrics.ObserveBackend("proxy", "unavailable")
		a.logger.Warn("backend connection failed for upgrade", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "Backend connection failed",
			"message": err.Error(),
		})
		return
	}
	defer backend.Close()

	a.cache.SetConnected(true)
	a.metrics.ObserveBackend("proxy", "ok")

	id := uuid.NewString()
	log := a.logger.With("proxy", id, "path", r.URL.Path)

	srv := xws.Server{Handler: func(client *xws.Conn) {
		defer a.metrics.ConnOpened("proxy")()
		log.Info("client upgrade successful")

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			pump(backend, client)
			_ = client.Close()
		}()

		pump(client, backend)
		_ = backend.Close()
		wg.Wait()

		log.Info("proxy closed")
	}}
	srv.ServeHTTP(w, r)
}

// pump copies text messages from src to dst until either fails.
func pump(src, dst *xws.Conn) {
	for {
		var msg string
		if err := xws.Message.Receive(src, &msg); err != nil {
			return
		}
		if err := xws.Message.Send(dst, msg); err != nil {
			return
		}
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrBackendTimeout):
		return "timeout"
	case errors.Is(err, ErrBackendUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
