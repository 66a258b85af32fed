package streamable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/honeycarbs/splitwise-mcp/internal/mcp"
	"github.com/honeycarbs/splitwise-mcp/internal/metrics"
	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
)

const (
	// ProtocolVersionHeader is checked against mcp.SupportedProtocolVersions.
	ProtocolVersionHeader = "MCP-Protocol-Version"

	DefaultKeepAlive = 30 * time.Second

	maxBodySize = 4 << 20
)

// Handler is the stateless HTTP binding: one POST carries one JSON-RPC
// message, GET opens a server-push event stream.
type Handler struct {
	dispatcher mcp.Dispatcher
	logger     *logging.Logger
	metrics    *metrics.Metrics
	keepAlive  time.Duration

	router chi.Router
}

type Option func(*Handler)

// WithKeepAlive sets the interval between SSE keep-alive comments.
func WithKeepAlive(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.keepAlive = d
		}
	}
}

func NewHandler(d mcp.Dispatcher, logger *logging.Logger, m *metrics.Metrics, opts ...Option) *Handler {
	h := &Handler{
		dispatcher: d,
		logger:     logger.Named("http"),
		metrics:    m,
		keepAlive:  DefaultKeepAlive,
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/mcp", h.handlePost)
	r.Get("/mcp", h.handleStream)
	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", m.Handler())

	h.router = r
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	log := h.logger.With("request_id", middleware.GetReqID(r.Context()))

	if v := r.Header.Get(ProtocolVersionHeader); v != "" && !mcp.IsSupportedProtocolVersion(v) {
		log.Warn("unsupported protocol version", "version", v)
		writeJSON(w, http.StatusBadRequest, mcp.NewError(nil, mcp.CodeInvalidRequest,
			fmt.Sprintf("Unsupported protocol version: %s", v), nil))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, mcp.NewError(nil, mcp.CodeInvalidRequest,
			fmt.Sprintf("Failed to read request body: %v", err), nil))
		return
	}

	req, errResp := mcp.Parse(body)
	if errResp != nil {
		log.Debug("rejecting malformed message", "code", errResp.Error.Code)
		writeJSON(w, http.StatusBadRequest, errResp)
		return
	}

	if req.IsNotification() {
		w.WriteHeader(http.StatusAccepted)
		go h.dispatcher.Handle(context.WithoutCancel(r.Context()), req)
		return
	}

	resp := h.dispatcher.Handle(r.Context(), req)
	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleStream keeps an SSE channel open for server-initiated messages.
// Nothing is pushed yet beyond keep-alive comments.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	defer h.metrics.ConnOpened("sse")()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.logger.Debug("event stream opened", "remote", r.RemoteAddr)

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("event stream closed", "remote", r.RemoteAddr)
			return
		case <-ticker.C:
			if _, err := io.WriteString(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "app": "initialized"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
