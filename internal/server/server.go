// Package server provides the HTTP API for juris.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/juris/internal/config"
	"github.com/hyperjump/juris/internal/search"
	"github.com/hyperjump/juris/pkg/ratelimit"
	"go.uber.org/zap"
)

// Server is the HTTP server for the juris API.
type Server struct {
	engine  *search.Engine
	config  *config.ServerConfig
	limiter *ratelimit.Store
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(engine *search.Engine, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine: engine,
		config: cfg,
		logger: logger,
	}
	if cfg.RateLimit.RPS > 0 {
		s.limiter = ratelimit.NewStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		logger.Info("search rate limit enabled",
			zap.Float64("rps", s.limiter.RPS()),
			zap.Int("burst", s.limiter.Burst()),
		)
	}
	return s
}

// Routes returns the API handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.With(ratelimit.Middleware(ratelimit.Options{
			Store:  s.limiter,
			Reject: s.rejectThrottled,
		})).Post("/search", s.handleSearch)
		r.Get("/courts", s.handleCourts)
		r.Get("/courts/{id}", s.handleCourt)
		r.Get("/categories", s.handleCategories)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.StartJanitor(ctx)
	}
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
