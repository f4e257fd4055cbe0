package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// runContext derives the context of a CLI computation: it is canceled when
// timeout elapses or on SIGINT/SIGTERM, whichever comes first. The returned
// function releases both and must be called.
func runContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(parent, timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

// signalContext is canceled on SIGINT/SIGTERM only. Server and calibration
// runs use it.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
