// Package server exposes screening over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/NoBugNinja/Skill-Sync/internal/analyzer"
	"github.com/NoBugNinja/Skill-Sync/internal/extract"
	"github.com/NoBugNinja/Skill-Sync/internal/metrics"
	"github.com/NoBugNinja/Skill-Sync/internal/screening"
)

const (
	defaultAddr            = ":3000"
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 2 * time.Minute
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxUploadBytes  = 32 << 20
)

// Config holds the HTTP service settings.
type Config struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
	APIKeyFile      string        `mapstructure:"api-key-file"`
	MaxUploadBytes  int64         `mapstructure:"max-upload-bytes"`
}

// ApplyDefaults fills zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = defaultAddr
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = defaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = defaultMaxUploadBytes
	}
}

// Server serves the analyze and screen endpoints.
type Server struct {
	cfg        Config
	analyzer   analyzer.Analyzer
	extractor  *extract.Extractor
	runnerOpts []screening.Option
	apiKey     string
	logger     *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAPIKey requires the bearer key on every request except health and metrics.
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithRunnerOptions passes options to every screening runner.
func WithRunnerOptions(opts ...screening.Option) Option {
	return func(s *Server) { s.runnerOpts = append(s.runnerOpts, opts...) }
}

// New returns a server that scores with a.
func New(cfg Config, a analyzer.Analyzer, logger *zap.Logger, opts ...Option) *Server {
	cfg.ApplyDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:       cfg,
		analyzer:  a,
		extractor: extract.New(logger),
		logger:    logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(bearerAuthMiddleware(s.apiKey))
	r.Use(metrics.Middleware())

	r.Post("/analyze", s.handleAnalyze)
	r.Post("/screen", s.handleScreen)
	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
