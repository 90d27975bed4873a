package httphandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const defaultRequestTimeout = 5 * time.Second

type HTTPServer struct {
	httpServer *http.Server
}

// NewHTTPServer bounds every request by requestTimeout; a non-positive
// value selects the default.
func NewHTTPServer(
	addr string, handler http.Handler, requestTimeout time.Duration,
) HTTPServer {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	handler = http.TimeoutHandler(handler, requestTimeout, "service unavailable")
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}
	return HTTPServer{s}
}

func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op)

	defer stopFn()
	log.Info("http server is listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Error("unexpected server shutdown", "err", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
	}
	log.Info("http server is closed")
}
