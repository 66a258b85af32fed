package websocket

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/honeycarbs/splitwise-mcp/internal/mcp"
	"github.com/honeycarbs/splitwise-mcp/internal/metrics"
)

// NewHybrid serves WebSocket upgrades on any path and plain HTTP status
// routes on the same port.
func NewHybrid(ws *Handler, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", serverInfo)
	r.Post("/", serverInfo)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": mcp.ServerVersion})
	})
	r.Handle("/metrics", m.Handler())

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if IsUpgrade(req) {
			ws.ServeHTTP(w, req)
			return
		}
		r.ServeHTTP(w, req)
	})
}

// IsUpgrade reports whether req asks for a WebSocket upgrade.
func IsUpgrade(req *http.Request) bool {
	return strings.EqualFold(req.Header.Get("Upgrade"), "websocket")
}

func serverInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"type":    "mcp-server",
		"version": mcp.ServerVersion,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
