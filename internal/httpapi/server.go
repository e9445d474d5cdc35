// Package httpapi exposes the workspace store and the format converters
// over HTTP. All responses are JSON except the CSV export endpoints.
package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/tapdeck-labs/tapdeck/internal/cache"
	"github.com/tapdeck-labs/tapdeck/pkg/core"
)

// Config carries the server's collaborators.
type Config struct {
	Addr   string
	Store  core.Store
	Cache  *cache.Cache
	Locks  core.LockPolicy
	Logger *slog.Logger
}

// Server is the HTTP front end.
type Server struct {
	addr   string
	api    *API
	logger *slog.Logger
}

// NewServer creates a server around the given store and collaborators.
func NewServer(cfg Config) *Server {
	return &Server{
		addr:   cfg.Addr,
		api:    NewAPI(cfg.Store, cfg.Cache, cfg.Locks),
		logger: cfg.Logger,
	}
}

// Serve starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting server", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.api.Routes(r)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
