package httphandler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const handlerTimeout = 5 * time.Second

type HTTPServer struct {
	httpServer *http.Server
	ln         net.Listener
}

// NewHTTPServer binds addr right away, so a busy port fails the start
// instead of the first request. Handlers are logged and cut off after
// handlerTimeout.
func NewHTTPServer(addr string, handler http.Handler) (HTTPServer, error) {
	const op = "NewHTTPServer"

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return HTTPServer{}, fmt.Errorf("%s: %w", op, err)
	}

	s := &http.Server{
		Handler: http.TimeoutHandler(
			LogRequests(handler), handlerTimeout, "unavailable",
		),
		ReadHeaderTimeout: handlerTimeout,
		IdleTimeout:       30 * time.Second,
	}
	return HTTPServer{httpServer: s, ln: ln}, nil
}

// Addr is the bound address, with the real port when addr asked for :0.
func (s HTTPServer) Addr() string {
	return s.ln.Addr().String()
}

// Run serves until Close. Any other stop cancels the application through
// stopFn.
func (s HTTPServer) Run(stopFn context.CancelFunc) {
	const op = "HTTPServer.Run"
	log := slog.With("op", op, "addr", s.Addr())

	defer stopFn()

	log.Info("serving")
	err := s.httpServer.Serve(s.ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("unexpected server shutdown", "err", err)
	}
}

func (s HTTPServer) Close(ctx context.Context) {
	const op = "HTTPServer.Close"
	log := slog.With("op", op)

	log.Info("closing http server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown gracefully", "err", err)
	}
	log.Info("http server is closed")
}
