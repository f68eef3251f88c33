// Package api exposes the assistant over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Shop-Assistant/agent/contract"
)

type Config struct {
	Host            string        `default:"0.0.0.0"`
	Port            int           `default:"8000"`
	ReleaseMode     bool          `split_words:"true" default:"false"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// QueryRunner answers one free-text query.
type QueryRunner interface {
	HandleQuery(ctx context.Context, query string) (contractx.RunResult, error)
}

type Server struct {
	cfg    Config
	engine *gin.Engine
	runner QueryRunner
}

func NewServer(cfg Config, runner QueryRunner) (*Server, error) {
	if runner == nil {
		return nil, errors.New("query runner is required")
	}
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(), MetricsRecorder())

	s := &Server{cfg: cfg, engine: engine, runner: runner}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "shop-assistant"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/api/v1/agent")
	v1.POST("/query", s.handleQuery)
	v1.GET("/tools", s.handleTools)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.cfg.Addr()).Msg("shop assistant HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
