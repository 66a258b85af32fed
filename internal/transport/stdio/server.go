package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync/atomic"

	"github.com/honeycarbs/splitwise-mcp/internal/mcp"
	"github.com/honeycarbs/splitwise-mcp/internal/metrics"
	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
)

// Server runs the JSON-RPC core over a duplex byte stream, one message at a
// time and in receipt order.
type Server struct {
	dispatcher mcp.Dispatcher
	logger     *logging.Logger
	metrics    *metrics.Metrics

	in      io.Reader
	out     io.Writer
	maxSize int

	closed atomic.Bool
}

func NewServer(d mcp.Dispatcher, in io.Reader, out io.Writer, logger *logging.Logger, m *metrics.Metrics) *Server {
	return &Server{
		dispatcher: d,
		logger:     logger.Named("stdio"),
		metrics:    m,
		in:         in,
		out:        out,
		maxSize:    MaxFrameSize,
	}
}

// Run reads until EOF, ctx is done or Close is called.
func (s *Server) Run(ctx context.Context) error {
	defer s.metrics.ConnOpened("stdio")()

	reader := bufio.NewReader(s.in)
	writer := bufio.NewWriter(s.out)

	s.logger.Info("stdio transport ready")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		payload, framing, err := ReadMessage(reader, s.maxSize)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			s.logger.Info("stdin closed")
			return nil
		case errors.Is(err, errFrameTooLarge):
			s.logger.Warn("dropping oversized frame", "err", err)
			if err := s.write(writer, framing, mcp.NewError(nil, mcp.CodeInvalidRequest, "Message too large", nil)); err != nil {
				return err
			}
			continue
		case err != nil:
			if s.closed.Load() {
				return nil
			}
			return err
		}

		if resp := s.handle(ctx, payload); resp != nil {
			if err := s.write(writer, framing, resp); err != nil {
				return err
			}
		}
	}
}

func (s *Server) handle(ctx context.Context, payload []byte) *mcp.Response {
	req, errResp := mcp.Parse(payload)
	if errResp != nil {
		s.logger.Debug("rejecting malformed message", "code", errResp.Error.Code)
		return errResp
	}
	return s.dispatcher.Handle(ctx, req)
}

func (s *Server) write(w *bufio.Writer, f Framing, resp *mcp.Response) error {
	body, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if err := WriteMessage(w, f, body); err != nil {
		return err
	}
	return w.Flush()
}

// Close stops the loop by closing the input when it is closable.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if c, ok := s.in.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
