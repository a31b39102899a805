// Package server exposes the task service over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/services"
)

// Server owns the http.Server and its graceful shutdown
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// New builds the router for service and configures the listener from cfg
func New(cfg *config.Config, service services.TaskService) (*Server, error) {
	handler, err := NewHandler(service, cfg)
	if err != nil {
		return nil, err
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           NewRouter(handler),
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
		},
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}, nil
}

// Handler returns the fully wrapped router
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run listens on the configured address until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests for at most the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Infof("listening on %s", ln.Addr())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
