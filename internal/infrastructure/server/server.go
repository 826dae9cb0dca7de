// Package server wires the LCMP core, the HTTP API and the ambient
// infrastructure into a runnable HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/lcmp/internal/api/http"
	"github.com/GriffinCanCode/lcmp/internal/api/middleware"
	"github.com/GriffinCanCode/lcmp/internal/domain/applist"
	"github.com/GriffinCanCode/lcmp/internal/domain/lcmp"
	"github.com/GriffinCanCode/lcmp/internal/infrastructure/config"
	"github.com/GriffinCanCode/lcmp/internal/infrastructure/logging"
	"github.com/GriffinCanCode/lcmp/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/lcmp/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/lcmp/internal/shared/id"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	core       *lcmp.Server
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
	tracer     *tracing.Tracer
}

// NewLogger builds the logger described by the configuration.
func NewLogger(cfg config.LogConfig) (*logging.Logger, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Level != "" {
		logCfg.Level = cfg.Level
	}
	return logging.New(logCfg)
}

// NewServer creates a new server instance. A nil logger is built from the
// configuration.
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		l, err := NewLogger(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
	}

	logger.Info("Initializing LCMP",
		zap.String("address", cfg.Server.Address()),
		zap.String("app_list_type", cfg.LCMP.AppListType),
		zap.String("app_context_type", cfg.LCMP.AppContextType),
	)

	metrics := monitoring.NewMetrics()

	core, store, err := lcmp.Build(cfg.LCMP.AppListType, cfg.LCMP.AppContextType, id.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create the LCMP: %w", err)
	}
	store.WithMetrics(metrics).WithLogger(logger)
	logger.Info("Application context store ready", zap.Int("max_contexts", store.MaxContexts()))

	if err := core.AppList().Status(); err != nil {
		// Not fatal: app_list queries and /health report it.
		logger.Warn("Application list unavailable", zap.Error(err))
	} else if static, ok := core.AppList().(*applist.Static); ok {
		logger.Info("Application list loaded", zap.Int("entries", static.Len()))
	}

	tracer := tracing.New("lcmp", logger.Logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	if cfg.HTTP.MetricsEnabled {
		router.Use(monitoring.Middleware(metrics))
	}
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.AllowedOrigins
	router.Use(middleware.CORS(cors))

	var handlerMetrics *monitoring.Metrics
	if cfg.HTTP.MetricsEnabled {
		handlerMetrics = metrics
	}
	handlers := apihttp.NewHandlers(core, handlerMetrics, logger)

	var apiMiddleware []gin.HandlerFunc
	if cfg.HTTP.RequireJSONContentType {
		apiMiddleware = append(apiMiddleware, middleware.RequireJSON())
	}
	apihttp.RegisterRoutes(router, handlers, apiMiddleware...)

	if cfg.HTTP.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:         cfg.Server.Address(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		core:    core,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
		tracer:  tracer,
	}, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// LCMP returns the core state shared by the handlers.
func (s *Server) LCMP() *lcmp.Server {
	return s.core
}

// Metrics returns the metrics collector.
func (s *Server) Metrics() *monitoring.Metrics {
	return s.metrics
}

// Run starts the HTTP server and blocks until it stops. A server stopped by
// Shutdown returns nil.
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, waiting for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
		err = fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	s.tracer.Close()
	_ = s.logger.Sync()

	return err
}
