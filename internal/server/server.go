// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the analyzer over HTTP with a gin router.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/serp-analyzer/pkg/types"
)

// Analyzer runs one analysis. *analyze.Analyzer implements it.
type Analyzer interface {
	Analyze(ctx context.Context, query string, maxResults int) (types.AnalysisReport, error)
}

// writeTimeout must exceed the search provider's call timeout so that a
// fallback report can still be written.
const writeTimeout = 90 * time.Second

// Server wraps an http.Server around the analyzer routes.
type Server struct {
	cfg    types.ServerConfig
	srv    *http.Server
	logger *slog.Logger
}

// New builds the router and the underlying http.Server. It does not
// start listening.
func New(cfg types.ServerConfig, analyzer Analyzer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")
	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(analyzer, cfg.AllowedOrigin, logger),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      writeTimeout,
		},
		logger: logger,
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string { return s.srv.Addr }

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// ListenAndServe serves until Shutdown is called. A clean shutdown
// returns nil.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving on %s: %w", s.srv.Addr, err)
	}
	return nil
}

// Serve accepts connections on l until Shutdown is called.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("listening", "addr", l.Addr().String())
	if err := s.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving on %s: %w", l.Addr(), err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight requests to
// finish, up to ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// NewRouter returns a gin engine with the API routes registered.
func NewRouter(analyzer Analyzer, allowedOrigin string, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID(logger))
	r.Use(CORS(allowedOrigin))

	api := r.Group("/api/search")
	h := &handlers{analyzer: analyzer}
	api.POST("/analyze", h.analyze)
	api.GET("/health", h.health)
	return r
}
