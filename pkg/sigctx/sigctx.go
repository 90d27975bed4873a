package sigctx

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// NotifyContext is done on SIGINT, SIGTERM or SIGQUIT.
func NotifyContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
}

// ShutdownContext bounds graceful shutdown. It is detached from the signal
// context, which is already done when shutdown starts.
func ShutdownContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
