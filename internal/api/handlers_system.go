package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/slipstream/crossmatch/internal/config"
)

var startTime = time.Now()

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(c echo.Context) error {
	ctx := c.Request().Context()

	searchees, err := s.services.History.Count(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	indexers, err := s.services.Indexers.List(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	enabled, err := s.services.Indexers.ListEnabled(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	schemaVersion := int64(0)
	if runner, err := s.db.Runner(); err == nil {
		schemaVersion, _ = runner.Version(ctx)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"version":         config.Version,
		"startTime":       startTime.Format(time.RFC3339),
		"schemaVersion":   schemaVersion,
		"searcheeCount":   searchees,
		"indexerCount":    len(indexers),
		"enabledIndexers": len(enabled),
	})
}

// getMigrations lists every schema migration with its applied state.
// GET /api/v1/migrations
func (s *Server) getMigrations(c echo.Context) error {
	statuses, err := s.db.MigrationStatus(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, statuses)
}
