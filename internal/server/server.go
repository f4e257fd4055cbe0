// Package server exposes the Mandelbrot engine over HTTP.
//
// Endpoints:
//
//	GET|POST /iterate  escape iteration of one point
//	GET|POST /tile     smooth iteration values of a square tile
//	GET|POST /orbit    reference orbit, optionally with z² terms
//	GET      /health   liveness
//	GET      /metrics  Prometheus exposition
//
// GET requests take their parameters from the query string; POST requests
// take the matching models request document as a JSON body.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/deepzoom/internal/config"
	apperrors "github.com/agbru/deepzoom/internal/errors"
	"github.com/agbru/deepzoom/internal/logging"
	"github.com/agbru/deepzoom/internal/service"
)

// Server is the deepzoom HTTP API.
type Server struct {
	service        service.Service
	cfg            config.AppConfig
	limits         service.Limits
	version        string
	httpServer     *http.Server
	logger         logging.Logger
	shutdownSignal chan os.Signal
	rateLimiter    *RateLimiter
	securityConfig SecurityConfig
	metrics        *Metrics
	timeouts       Timeouts
}

// NewServer creates a server for cfg. Unless WithService is given, requests
// are served by an in-process MandelbrotService bounded by cfg.MaxIterLimit,
// cfg.MaxTileSize and service.DefaultLimits.MaxPrecision.
//
// Parameters:
//   - cfg: The application configuration (port, limits).
//   - opts: Functional options.
//
// Returns:
//   - *Server: The server, ready to Start.
func NewServer(cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		cfg: cfg,
		limits: service.Limits{
			MaxIter:      cfg.MaxIterLimit,
			MaxTileSize:  cfg.MaxTileSize,
			MaxPrecision: service.DefaultLimits.MaxPrecision,
		},
		logger:         logging.NewLogger(os.Stdout, "server"),
		shutdownSignal: make(chan os.Signal, 1),
		securityConfig: DefaultSecurityConfig(),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.service == nil {
		s.service = service.NewMandelbrotService(s.limits, s.logger)
	}
	if s.rateLimiter == nil {
		s.rateLimiter = NewRateLimiter(DefaultRateLimiterConfig())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/iterate", s.wrapWithMiddleware("/iterate", s.handleIterate))
	mux.HandleFunc("/tile", s.wrapWithMiddleware("/tile", s.handleTile))
	mux.HandleFunc("/orbit", s.wrapWithMiddleware("/orbit", s.handleOrbit))
	mux.HandleFunc("/health", s.wrapWithMiddleware("/health", s.handleHealth))
	mux.HandleFunc("/metrics", s.wrapWithMiddleware("/metrics", s.handleMetrics))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}

	return s
}

// Handler returns the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// wrapWithMiddleware applies Security -> RateLimit -> Logging -> Metrics.
func (s *Server) wrapWithMiddleware(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(endpoint, handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = RateLimitMiddleware(s.rateLimiter, wrapped)
	wrapped = SecurityMiddleware(s.securityConfig, wrapped)
	return wrapped
}

// Start listens on the configured port until ctx is cancelled, SIGINT or
// SIGTERM arrives, or the listener fails, then shuts down gracefully.
//
// Returns:
//   - error: A ServerError if the listener or the shutdown failed.
func (s *Server) Start(ctx context.Context) error {
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignal)
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			logging.String("addr", s.httpServer.Addr),
			logging.Int("max_iter_limit", s.limits.MaxIter),
			logging.Int("max_tile_size", s.limits.MaxTileSize),
			logging.Int("max_precision", s.limits.MaxPrecision),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-s.shutdownSignal:
		s.logger.Info("shutdown signal received")
	case <-ctx.Done():
		s.logger.Info("context done, shutting down")
	case err := <-errCh:
		return apperrors.NewServerError("server failed to start", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}

	s.logger.Info("server stopped")
	return nil
}
