package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"mercator-hq/enginevisor/pkg/config"
	"mercator-hq/enginevisor/pkg/telemetry/logging"
)

// Server is a single HTTP listener.
type Server struct {
	name            string
	address         string
	handler         http.Handler
	shutdownTimeout time.Duration
	logger          *slog.Logger

	httpServer *http.Server

	mu       sync.RWMutex
	listener net.Listener
	serving  bool
	closed   bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithHandler replaces the handler. The recovery middleware still wraps it.
func WithHandler(h http.Handler) Option {
	return func(s *Server) { s.handler = h }
}

// NewServer creates the health responder described by cfg.
func NewServer(cfg *config.ServiceConfig, opts ...Option) *Server {
	s := newServer("health", cfg.HealthAddress(), HealthHandler(cfg.HealthBody), cfg.ShutdownTimeout, opts)
	s.httpServer.ReadTimeout = cfg.ReadTimeout
	s.httpServer.WriteTimeout = cfg.WriteTimeout
	s.httpServer.IdleTimeout = cfg.IdleTimeout
	return s
}

// NewTelemetryServer creates the side listener for metrics and readiness.
// The caller supplies the routes.
func NewTelemetryServer(address string, handler http.Handler, opts ...Option) *Server {
	return newServer("telemetry", address, handler, 5*time.Second, opts)
}

func newServer(name, address string, handler http.Handler, shutdownTimeout time.Duration, opts []Option) *Server {
	s := &Server{
		name:            name,
		address:         address,
		handler:         handler,
		shutdownTimeout: shutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	s.logger = s.logger.With("component", "server", "listener", name)

	s.httpServer = &http.Server{
		Handler:           RecoveryMiddleware(s.logger, s.handler),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	return s
}

// Listen binds the listening socket. It must be called before Serve and
// returns the bind error, if any, synchronously.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return http.ErrServerClosed
	}
	if s.listener != nil {
		return fmt.Errorf("%s server is already listening on %s", s.name, s.listener.Addr())
	}

	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to bind %s server on %s: %w", s.name, s.address, err)
	}
	s.listener = ln

	s.logger.Info("listening", "address", ln.Addr().String())
	return nil
}

// Serve handles requests until ctx is cancelled or Shutdown is called.
// It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	if s.closed {
		s.mu.Unlock()
		return http.ErrServerClosed
	}
	if ln == nil {
		s.mu.Unlock()
		return fmt.Errorf("%s server: Serve called before Listen", s.name)
	}
	if s.serving {
		s.mu.Unlock()
		return fmt.Errorf("%s server is already serving", s.name)
	}
	s.serving = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		if err := s.Shutdown(context.Background()); err != nil {
			return err
		}
		<-errChan
		return nil
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%s server error: %w", s.name, err)
	}
}

// Start binds and serves. It blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Shutdown gracefully stops the server, waiting up to the configured
// shutdown timeout for in-flight requests. Calling it again is a no-op.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	ln := s.listener
	serving := s.serving
	s.mu.Unlock()

	if ln == nil {
		return nil
	}

	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}

	var err error
	if serving {
		err = s.httpServer.Shutdown(ctx)
	} else {
		err = ln.Close()
	}
	if err != nil {
		s.logger.Error("error during server shutdown", "error", err)
		return fmt.Errorf("%s server shutdown error: %w", s.name, err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// IsRunning reports whether the server is bound and not shut down.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listener != nil && !s.closed
}

// Handler returns the full handler chain, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
