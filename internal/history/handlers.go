package history

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for history operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new history handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers history routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Record)
}

// List returns the timestamp records of one searchee.
// GET /api/v1/history?name=...
func (h *Handlers) List(c echo.Context) error {
	name := c.QueryParam("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	ctx := c.Request().Context()
	if _, err := h.service.GetSearchee(ctx, name); err != nil {
		if errors.Is(err, ErrSearcheeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	timestamps, err := h.service.ListTimestamps(ctx, name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, timestamps)
}

// Record stores a completed search.
// POST /api/v1/history
func (h *Handlers) Record(c echo.Context) error {
	var input RecordInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	at := time.Now()
	if input.At != nil {
		at = *input.At
	}

	if err := h.service.RecordSearch(c.Request().Context(), input.Name, input.IndexerIDs, at); err != nil {
		if errors.Is(err, ErrEmptyName) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
