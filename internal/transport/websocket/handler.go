package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	xws "golang.org/x/net/websocket"

	"github.com/honeycarbs/splitwise-mcp/internal/mcp"
	"github.com/honeycarbs/splitwise-mcp/internal/metrics"
	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
)

// MaxMessageSize caps a single inbound WebSocket message.
const MaxMessageSize = 4 << 20

// Handler serves the persistent-connection binding. Every connection gets its
// own session; every message on it is dispatched independently.
type Handler struct {
	dispatcher mcp.Dispatcher
	logger     *logging.Logger
	metrics    *metrics.Metrics
	server     xws.Server
}

func NewHandler(d mcp.Dispatcher, logger *logging.Logger, m *metrics.Metrics) *Handler {
	h := &Handler{
		dispatcher: d,
		logger:     logger.Named("websocket"),
		metrics:    m,
	}
	// no Handshake: connections without an Origin header (CLI clients) are accepted
	h.server = xws.Server{Handler: h.serveConn}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.server.ServeHTTP(w, r)
}

type session struct {
	id          string
	conn        *xws.Conn
	initialized atomic.Bool

	writeMu sync.Mutex
}

func (s *session) send(resp *mcp.Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return xws.Message.Send(s.conn, string(body))
}

func (h *Handler) serveConn(conn *xws.Conn) {
	defer conn.Close()
	defer h.metrics.ConnOpened("websocket")()

	conn.MaxPayloadBytes = MaxMessageSize

	sess := &session{id: uuid.NewString(), conn: conn}
	log := h.logger.With("session", sess.id)
	log.Info("connection opened", "remote", conn.Request().RemoteAddr)

	// in-flight work outlives the connection; its responses are dropped
	ctx := context.WithoutCancel(conn.Request().Context())

	for {
		var msg []byte
		if err := xws.Message.Receive(conn, &msg); err != nil {
			if errors.Is(err, xws.ErrFrameTooLarge) {
				h.reply(sess, log, mcp.NewError(nil, mcp.CodeInvalidRequest, "Message too large", nil))
				continue
			}
			if errors.Is(err, io.EOF) {
				log.Info("connection closed")
			} else {
				log.Warn("connection closed with error", "err", err)
			}
			return
		}

		go h.dispatch(ctx, sess, log, msg)
	}
}

func (h *Handler) dispatch(ctx context.Context, sess *session, log *logging.Logger, msg []byte) {
	req, errResp := mcp.Parse(msg)
	if errResp != nil {
		log.Debug("rejecting malformed message", "code", errResp.Error.Code)
		h.reply(sess, log, errResp)
		return
	}

	switch {
	case req.Method == mcp.MethodInitialize:
		sess.initialized.Store(true)
	case !sess.initialized.Load():
		// served anyway; the handshake is not enforced
		log.Debug("request before initialize", "method", req.Method)
	}

	if resp := h.dispatcher.Handle(ctx, req); resp != nil {
		h.reply(sess, log, resp)
	}
}

func (h *Handler) reply(sess *session, log *logging.Logger, resp *mcp.Response) {
	if err := sess.send(resp); err != nil {
		log.Debug("dropping response", "err", err)
	}
}
