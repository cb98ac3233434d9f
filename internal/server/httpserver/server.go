package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Server couples an Acceptor with a stock http.Server. The acceptor
// owns the socket and the handshake; the http.Server only ever sees
// connections that are ready to speak HTTP.
type Server struct {
	acceptor *Acceptor
	httpSrv  *http.Server
	logger   *slog.Logger

	serveErr chan error
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server around an already-bound acceptor.
func NewServer(acceptor *Acceptor, handler http.Handler, opts ...ServerOption) *Server {
	s := &Server{
		acceptor: acceptor,
		logger:   slog.Default(),
		serveErr: make(chan error, 2),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.httpSrv = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		// http.Server's own error reporting is low value here; the
		// acceptor and middleware already log what matters.
		ErrorLog: slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug),
	}

	return s
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr {
	return s.acceptor.Addr()
}

// Start begins accepting and serving. It does not block; failures
// surface through the returned channel and through Shutdown.
func (s *Server) Start() <-chan error {
	go func() {
		if err := s.acceptor.Run(); err != nil {
			s.serveErr <- err
		}
	}()
	go func() {
		err := s.httpSrv.Serve(s.acceptor.Listener())
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
			s.serveErr <- err
		}
	}()
	return s.serveErr
}

// Shutdown drains the server: the listening socket closes first, then
// in-flight requests get until ctx expires to finish. A drain timeout
// is reported as a warning, not an error; remaining connections are
// abandoned to process exit.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server draining")
	s.acceptor.Stop()

	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.logger.Warn("drain timeout, abandoning remaining requests", "error", err)
		return nil
	}
	if err := s.acceptor.Wait(ctx); err != nil {
		s.logger.Warn("drain timeout, abandoning remaining connections", "error", err)
		return nil
	}

	s.logger.Info("server drained")
	return nil
}
