// Package api exposes the sourcing workflow over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/spigell/candidate-sourcer/internal/sourcing"
	"go.uber.org/zap"
)

const (
	defaultListen         = ":8080"
	defaultRequestTimeout = 2 * time.Minute
	defaultRecruiterMax   = 8
	defaultAgentMax       = 5
	shutdownTimeout       = 10 * time.Second
	maxRequestBody        = "1M"
)

// Runner runs one sourcing workflow call.
type Runner interface {
	Run(ctx context.Context, in sourcing.Input) (*sourcing.Result, error)
}

// Config holds server settings.
type Config struct {
	Listen                 string
	RequestTimeout         time.Duration
	RecruiterMaxCandidates int
	AgentMaxCandidates     int
}

type Server struct {
	echo     *echo.Echo
	cfg      Config
	runner   Runner
	logger   *zap.Logger
	validate *validator.Validate
	started  time.Time
}

// New builds the server and registers its routes.
func New(cfg Config, runner Runner, logger *zap.Logger) *Server {
	if cfg.Listen == "" {
		cfg.Listen = defaultListen
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.RecruiterMaxCandidates <= 0 {
		cfg.RecruiterMaxCandidates = defaultRecruiterMax
	}
	if cfg.AgentMaxCandidates <= 0 {
		cfg.AgentMaxCandidates = defaultAgentMax
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		cfg:      cfg,
		runner:   runner,
		logger:   logger,
		validate: validator.New(),
		started:  time.Now(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.Use(echomiddleware.Recover())
	s.echo.Use(requestID())
	s.echo.Use(accessLog(s.logger))
	s.echo.Use(echomiddleware.BodyLimit(maxRequestBody))
	s.echo.Use(echomiddleware.ContextTimeout(s.cfg.RequestTimeout))

	s.echo.GET("/health", s.health)

	v1 := s.echo.Group("/api/v1")
	{
		v1.POST("/recruiters", s.recruiters)
		v1.POST("/agent", s.agent)
	}
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", zap.String("listen", s.cfg.Listen))
		errCh <- s.echo.Start(s.cfg.Listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("stopping http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}
