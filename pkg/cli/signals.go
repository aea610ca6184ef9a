package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownSignals are the signals that trigger a graceful shutdown.
var ShutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// SignalContext returns a copy of parent that is cancelled on SIGINT or
// SIGTERM. A second signal is not intercepted, so it terminates the process
// the usual way. Call stop to release the signal registration.
func SignalContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(parent, ShutdownSignals...)
	go func() {
		<-ctx.Done()
		// Restore default handling once the first signal arrived.
		cancel()
	}()
	return ctx, cancel
}
