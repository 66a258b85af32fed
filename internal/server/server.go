package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
)

// Server wraps an http.Server with a single-start guard. Close stops the
// listener immediately without draining in-flight requests.
type Server struct {
	logger *logging.Logger
	name   string

	srv     *http.Server
	started atomic.Bool
}

// New constructs a named HTTP server listening on host:port
func New(name, host, port string, handler http.Handler, log *logging.Logger) *Server {
	return &Server{
		logger: log.Named(name),
		name:   name,
		srv: &http.Server{
			Addr:              net.JoinHostPort(host, port),
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Run starts the HTTP server and blocks until Close or ctx is done
func (s *Server) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() { _ = s.srv.Close() })
	defer stop()

	return s.Serve(ln)
}

// Serve accepts connections on ln; used directly by tests.
func (s *Server) Serve(ln net.Listener) error {
	s.started.Store(true)
	s.logger.Info("HTTP server listening", "server", s.name, "addr", ln.Addr().String())

	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Close() error {
	s.logger.Info("closing HTTP server", "server", s.name)
	if err := s.srv.Close(); err != nil {
		s.logger.Warn("HTTP server closed with error", "err", err)
		return err
	}
	return nil
}
