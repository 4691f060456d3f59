package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/felixp33/CloudGuardian/internal/auth"
	"github.com/felixp33/CloudGuardian/internal/cache"
	"github.com/felixp33/CloudGuardian/internal/config"
	"github.com/felixp33/CloudGuardian/internal/handlers"
)

// Upstream is everything the gateway needs from the OAuth provider.
type Upstream interface {
	auth.Provider
	auth.RepoLister
	handlers.Pinger
}

type Server struct {
	cfg        config.Config
	cache      cache.Cache
	upstream   Upstream
	logger     *slog.Logger
	httpServer *http.Server
}

func New(cfg config.Config, cache cache.Cache, upstream Upstream, logger *slog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		cache:    cache,
		upstream: upstream,
		logger:   logger,
	}
}

// Start serves until the listener fails or SIGINT/SIGTERM arrives.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port)),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.GitHub.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			"addr", s.httpServer.Addr,
			"base_url", s.cfg.Server.BaseURL,
			"environment", s.cfg.Server.Environment,
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig)
		return s.Shutdown()
	}
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("shutting down server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("error during server shutdown", "error", err)
		return err
	}

	if err := s.cache.Close(); err != nil {
		s.logger.Error("error closing cache", "error", err)
	}

	s.logger.Info("server shutdown complete")
	return nil
}
