package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/opsdeck/filegate/internal/config"
	downloadHTTP "github.com/opsdeck/filegate/internal/download/http"
	identityHTTP "github.com/opsdeck/filegate/internal/identity/http"
	identityUseCase "github.com/opsdeck/filegate/internal/identity/usecase"
	"github.com/opsdeck/filegate/internal/metrics"
)

// Server is the main API server. Downloads can run for a while on slow
// links, so the write timeout is generous compared to the metrics server.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the API server with all routes and middleware wired.
func NewServer(
	cfg *config.Config,
	sessionUseCase identityUseCase.SessionUseCase,
	downloadHandler *downloadHTTP.DownloadHandler,
	linkHandler *downloadHTTP.LinkHandler,
	metricsProvider *metrics.Provider,
	logger *slog.Logger,
) *Server {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	v1 := router.Group("/v1")
	v1.Use(identityHTTP.SessionMiddleware(sessionUseCase, cfg.SessionTokenHeader, logger))
	{
		v1.GET("/downloads", downloadHandler.DownloadHandler)
		v1.POST("/download-links", linkHandler.CreateHandler)
	}

	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 5 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the API server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
