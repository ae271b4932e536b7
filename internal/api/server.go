package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	mw "github.com/tphakala/tickwatch/internal/api/middleware"
	"github.com/tphakala/tickwatch/internal/app"
	"github.com/tphakala/tickwatch/internal/conf"
	"github.com/tphakala/tickwatch/internal/errors"
	"github.com/tphakala/tickwatch/internal/logger"
	"github.com/tphakala/tickwatch/internal/observability"
)

// Server is the HTTP API server.
type Server struct {
	echo      *echo.Echo
	config    *Config
	app       *app.App
	metrics   *observability.Metrics
	views     *cache.Cache
	log       logger.Logger
	startTime time.Time
	version   string
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithMetrics exposes m on /metrics when enabled in the config.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) ServerOption {
	return func(s *Server) { s.version = v }
}

// New creates the API server for a.
func New(a *app.App, settings *conf.Settings, opts ...ServerOption) *Server {
	return NewWithConfig(a, ConfigFromSettings(settings), opts...)
}

// NewWithConfig creates the API server from an explicit config.
func NewWithConfig(a *app.App, config *Config, opts ...ServerOption) *Server {
	s := &Server{
		config:    config,
		app:       a,
		log:       GetLogger(),
		startTime: time.Now(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultShutdownTimeout
	}
	if config.CacheTTL > 0 {
		s.views = cache.New(config.CacheTTL, 2*config.CacheTTL)
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Server.ReadTimeout = config.ReadTimeout
	s.echo.Server.WriteTimeout = config.WriteTimeout
	s.echo.Server.IdleTimeout = config.IdleTimeout

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Echo exposes the router, for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.echo.Use(echomw.Recover())
	s.echo.Use(mw.NewTraceID())
	s.echo.Use(mw.NewRequestLogger(s.log))
	if s.config.BodyLimit != "" {
		s.echo.Use(mw.NewBodyLimit(s.config.BodyLimit))
	}
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	if s.config.Metrics && s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	v1 := s.echo.Group("/api/v1")
	v1.GET("/sightings", s.listSightings)
	v1.GET("/sightings/:id", s.getSighting)
	v1.POST("/sightings", s.submitSighting)
	v1.GET("/species", s.filterOptions)
	v1.GET("/seasonal", s.seasonal)
	v1.GET("/timeline", s.timeline)
	v1.GET("/share/:id", s.shareMessage)
	v1.POST("/share/:id", s.share)
	v1.POST("/refresh", s.refresh)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("starting HTTP server", logger.String("address", s.config.Listen))
		if err := s.echo.Start(s.config.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.Shutdown()
	})

	return g.Wait()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.log.Info("shutting down HTTP server")
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func (s *Server) healthCheck(c echo.Context) error {
	uptime := time.Since(s.startTime)
	st := s.app.Store()
	return c.JSON(http.StatusOK, map[string]any{
		"status":         "healthy",
		"version":        s.version,
		"source":         st.Source(),
		"records":        st.Len(),
		"loading":        s.app.Loading(),
		"uptime":         uptime.Round(time.Second).String(),
		"uptime_seconds": uptime.Seconds(),
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}
