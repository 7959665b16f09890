// Package api assembles the HTTP server exposing the translation service.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/modelrelay/modelrelay/internal/api/handlers"
	"github.com/modelrelay/modelrelay/internal/api/middleware"
	"github.com/modelrelay/modelrelay/internal/config"
	"github.com/modelrelay/modelrelay/internal/logging"
)

// Server wires routing, middleware, and handlers around a gin engine.
type Server struct {
	engine *gin.Engine
	auth   *middleware.APIKeyAuth
	http   *http.Server
}

// New builds a Server from the configuration. logBuffer may be nil, which
// disables the recent-logs endpoint.
func New(cfg *config.Config, logBuffer *logging.RingBuffer) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logging.GinLogrusLogger(), logging.GinLogrusRecovery())

	auth := middleware.NewAPIKeyAuth(cfg.APIKeys)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	translatorHandler := handlers.NewTranslatorHandler()
	v1 := engine.Group("/v1", auth.Handler())
	v1.POST("/translate/request", translatorHandler.TranslateRequest)
	v1.POST("/translate/stream", translatorHandler.TranslateStream)
	v1.POST("/tokens/count", translatorHandler.CountTokens)
	v1.GET("/formats", translatorHandler.GetFormats)
	v1.GET("/translations", translatorHandler.GetTranslationsMatrix)
	v1.GET("/translations/check", translatorHandler.CheckTranslation)

	if logBuffer != nil {
		logsHandler := handlers.NewLogsHandler(logBuffer)
		v1.GET("/logs/recent", logsHandler.GetRecent)
	}

	return &Server{
		engine: engine,
		auth:   auth,
		http: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// ApplyConfig applies the reloadable parts of a new configuration.
func (s *Server) ApplyConfig(cfg *config.Config) {
	s.auth.SetKeys(cfg.APIKeys)
}

// Handler exposes the underlying engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.http.Addr).Info("server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
