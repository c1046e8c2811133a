package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ckcelina/safe-space-app-gsbdvu-sub000/internal/config"
)

const shutdownTimeout = 30 * time.Second

// ShutdownHook runs after the HTTP server has stopped accepting requests,
// e.g. to drain background extraction jobs.
type ShutdownHook func(ctx context.Context) error

type Server struct {
	httpServer *http.Server
	hooks      []ShutdownHook
}

// New creates a Server. The write timeout leaves room past the chat request
// budget so the envelope is always delivered.
func New(cfg config.ServerConfig, handler http.Handler, requestTimeout time.Duration) *Server {
	writeTimeout := 15 * time.Second
	if requestTimeout+5*time.Second > writeTimeout {
		writeTimeout = requestTimeout + 5*time.Second
	}
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// OnShutdown registers hooks, run in registration order.
func (s *Server) OnShutdown(hooks ...ShutdownHook) {
	s.hooks = append(s.hooks, hooks...)
}

func (s *Server) Start() error {
	// Channel for shutdown signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Channel for server errors
	errCh := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return s.Shutdown(ctx)
}

// Shutdown stops the HTTP server, then runs the hooks. Hook errors are logged.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	for _, hook := range s.hooks {
		if err := hook(ctx); err != nil {
			slog.Warn("shutdown hook failed", "error", err)
		}
	}

	slog.Info("server stopped gracefully")
	return nil
}
