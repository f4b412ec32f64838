package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/slipstream/crossmatch/internal/prefilter"
	"github.com/slipstream/crossmatch/internal/searchee"
)

// runPrefilter admits the posted searchees without searching them.
// The body is a JSON (or YAML) list of searchees or {"searchees": [...]}.
// POST /api/v1/prefilter
func (s *Server) runPrefilter(c echo.Context) error {
	list, err := searchee.Decode(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	opts := prefilter.OptionsFromConfig(s.cfg.Prefilter, s.recorder)
	pipeline := prefilter.NewPipeline(opts, s.services.Indexers, s.services.History, s.recorder)

	result, err := pipeline.Admit(c.Request().Context(), list)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, prefilter.ErrProviderLookup) || errors.Is(err, prefilter.ErrHistoryQuery) {
			status = http.StatusServiceUnavailable
		}
		return echo.NewHTTPError(status, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// getLastPrefilter returns the result of the last scheduled pass.
// GET /api/v1/prefilter/last
func (s *Server) getLastPrefilter(c echo.Context) error {
	if s.lastResult == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no scheduled admission pass configured")
	}
	result := s.lastResult.LastResult()
	if result == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, result)
}
