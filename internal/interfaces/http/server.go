package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/turtacn/CaseTrack-Analytics/internal/config"
	"github.com/turtacn/CaseTrack-Analytics/internal/infrastructure/monitoring/logging"
)

// Server wraps the stdlib http.Server with the configured timeouts and a
// graceful shutdown.
type Server struct {
	srv      *http.Server
	router   http.Handler
	logger   logging.Logger
	shutdown time.Duration
}

// NewServer builds the server around an already-wired router.
func NewServer(cfg config.ServerConfig, router http.Handler, logger logging.Logger) *Server {
	return &Server{
		router:   router,
		logger:   logger.Named("http"),
		shutdown: cfg.ShutdownTimeout,
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start blocks serving requests until Stop or a listener error.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests within the grace window.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	grace := s.shutdown
	if grace <= 0 {
		grace = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, grace)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
