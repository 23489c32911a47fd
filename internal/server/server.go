// Package server exposes the lint engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	intconfig "github.com/leapstack-labs/leapprose/internal/config"
	"github.com/leapstack-labs/leapprose/internal/server/notifier"
	"github.com/leapstack-labs/leapprose/pkg/lint"
)

// Config holds configuration for the server.
type Config struct {
	Addr            string
	Engine          *lint.Engine // serves requests until the first reload
	ConfigPath      string       // config file reloaded by Reload and the watcher
	Watch           bool
	Concurrency     int // batch workers; <= 0 uses GOMAXPROCS
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// Server is the HTTP server.
type Server struct {
	cfg        Config
	engine     atomic.Pointer[lint.Engine]
	generation atomic.Uint64
	reloadMu   sync.Mutex
	logger     *slog.Logger
	metrics    *metrics
	notifier   *notifier.Notifier
	handler    http.Handler
}

// New creates a server around cfg.Engine.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{
		cfg:      cfg,
		logger:   cfg.Logger,
		metrics:  newMetrics(),
		notifier: notifier.New(),
	}
	s.engine.Store(cfg.Engine)
	s.metrics.active.Set(float64(cfg.Engine.Active().Len()))
	s.handler = s.routes()
	return s
}

// Engine returns the engine currently serving requests.
func (s *Server) Engine() *lint.Engine {
	return s.engine.Load()
}

// Generation returns the number of successful reloads.
func (s *Server) Generation() uint64 {
	return s.generation.Load()
}

// Notifier returns the server's notifier for reload events.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		requestID,
		s.logRequests,
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/checks", s.handleChecks)
	r.Get("/checks/{id}", s.handleCheck)
	r.Get("/events", s.handleEvents)
	r.Handle("/metrics", s.metrics.handler())

	r.Post("/lint", s.handleLint)
	r.Post("/lint/count", s.handleLintCount)
	r.Post("/lint/batch", s.handleLintBatch)
	r.Post("/warm", s.handleWarm)
	return r
}

// Reload rebuilds the engine from the config file and swaps it in.
// Requests in flight finish on the engine they started with. On error the
// current engine keeps serving.
func (s *Server) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	if s.cfg.ConfigPath == "" {
		return errors.New("no config file to reload")
	}
	pc, err := intconfig.LoadFile(s.cfg.ConfigPath)
	if err != nil {
		s.metrics.reloads.WithLabelValues("error").Inc()
		return err
	}
	opts, err := pc.Options()
	if err != nil {
		s.metrics.reloads.WithLabelValues("error").Inc()
		return err
	}

	cur := s.Engine()
	opts = append(opts, lint.WithCache(cur.Cache()), lint.WithLogger(s.logger))
	next := lint.NewEngine(cur.Registry(), opts...)
	s.engine.Store(next)

	gen := s.generation.Add(1)
	s.metrics.reloads.WithLabelValues("success").Inc()
	s.metrics.active.Set(float64(next.Active().Len()))
	s.notifier.Broadcast(notifier.Event{Generation: gen, Active: next.Active().Len()})
	s.logger.Info("config reloaded", "path", s.cfg.ConfigPath, "generation", gen, "active", next.Active().Len())
	return nil
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln and blocks until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting server", "addr", ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Watch && s.cfg.ConfigPath != "" {
		eg.Go(func() error {
			return s.watchConfig(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
