package server

import (
	"context"
	"os/signal"
	"syscall"
)

// WithSignal returns a context canceled on the first SIGINT or SIGTERM.
// Calling stop restores default signal handling, so a second signal kills
// the process during a slow shutdown.
func WithSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}
