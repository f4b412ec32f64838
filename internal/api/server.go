package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/slipstream/crossmatch/internal/api/handlers"
	apimw "github.com/slipstream/crossmatch/internal/api/middleware"
	"github.com/slipstream/crossmatch/internal/config"
	"github.com/slipstream/crossmatch/internal/database"
	"github.com/slipstream/crossmatch/internal/logger"
	"github.com/slipstream/crossmatch/internal/prefilter"
	"github.com/slipstream/crossmatch/internal/scheduler"
)

// LastResultProvider exposes the most recent scheduled admission pass.
type LastResultProvider interface {
	LastResult() *prefilter.Result
}

// Server handles HTTP requests for the crossmatch API.
type Server struct {
	echo     *echo.Echo
	db       *database.DB
	logger   zerolog.Logger
	cfg      *config.Config
	services *Services
	recorder *logger.Recorder

	scheduler  *scheduler.Scheduler
	lastResult LastResultProvider
}

// Options carries the optional collaborators of a Server.
type Options struct {
	Scheduler  *scheduler.Scheduler
	LastResult LastResultProvider
	Recorder   *logger.Recorder
}

// NewServer creates a new API server instance.
func NewServer(db *database.DB, services *Services, cfg *config.Config, opts Options, log zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	recorder := opts.Recorder
	if recorder == nil {
		recorder = logger.NewRecorder(0, logger.NewSink(log))
	}

	s := &Server{
		echo:       e,
		db:         db,
		logger:     log.With().Str("component", "api").Logger(),
		cfg:        cfg,
		services:   services,
		recorder:   recorder,
		scheduler:  opts.Scheduler,
		lastResult: opts.LastResult,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())
	s.echo.Use(apimw.SecurityHeaders())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := s.logger.Debug()
			if v.Error != nil {
				event = s.logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
}

func (s *Server) schedulerHandler() *handlers.SchedulerHandler {
	if s.scheduler == nil {
		return nil
	}
	return handlers.NewSchedulerHandler(s.scheduler)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	s.logger.Info().Str("address", address).Msg("starting HTTP server")
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// ServeHTTP lets the server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
