package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"

	xws "golang.org/x/net/websocket"
)

var (
	// ErrBackendUnavailable means the backend could not be reached.
	ErrBackendUnavailable = errors.New("backend connection failed")
	// ErrBackendTimeout means no reply arrived before the deadline.
	ErrBackendTimeout = errors.New("backend timeout")
)

const defaultOrigin = "http://localhost/"

// Backend opens one short-lived WebSocket connection per call.
type Backend struct {
	url    string
	origin string
}

func NewBackend(url string) *Backend {
	return &Backend{url: url, origin: defaultOrigin}
}

func (b *Backend) URL() string {
	return b.url
}

// Dial connects to the backend, bounded by ctx.
func (b *Backend) Dial(ctx context.Context) (*xws.Conn, error) {
	cfg, err := xws.NewConfig(b.url, b.origin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	conn, err := cfg.DialContext(ctx)
	if err != nil {
		return nil, classify(ctx, err)
	}
	return conn, nil
}

// Call sends msg on a fresh connection and, when wantReply is set, returns
// the first message the backend sends back.
func (b *Backend) Call(ctx context.Context, msg []byte, wantReply bool) ([]byte, error) {
	conn, err := b.Dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := xws.Message.Send(conn, string(msg)); err != nil {
		return nil, classify(ctx, err)
	}

	if !wantReply {
		return nil, nil
	}

	var reply string
	if err := xws.Message.Receive(conn, &reply); err != nil {
		return nil, classify(ctx, err)
	}
	return []byte(reply), nil
}

func classify(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrBackendTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
}
