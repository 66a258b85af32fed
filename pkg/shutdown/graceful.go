package shutdown

import (
	"context"
	"os"
	"os/signal"

	"github.com/honeycarbs/splitwise-mcp/pkg/logging"
)

// Stoppable is anything the process must stop when a signal arrives.
type Stoppable interface {
	Close() error
}

// OnSignal blocks until one of signals is received or ctx is done, then
// closes every Stoppable. In-flight requests are not drained.
func OnSignal(ctx context.Context, signals []os.Signal, log *logging.Logger, targets ...Stoppable) {
	sigCtx, stop := signal.NotifyContext(ctx, signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	for _, s := range targets {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil {
			log.Warn("close completed with error", "err", err)
		}
	}

	log.Info("shutdown complete")
}
