package indexer

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for indexer operations.
type Handlers struct {
	service *Service
}

// NewHandlers creates new indexer handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the indexer routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/enabled", h.ListEnabled)
	g.GET("/:id", h.Get)
	g.PUT("/:id/enabled", h.SetEnabled)
	g.DELETE("/:id", h.Delete)
}

// List returns all indexers.
// GET /api/v1/indexers
func (h *Handlers) List(c echo.Context) error {
	indexers, err := h.service.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, indexers)
}

// ListEnabled returns the indexers a search pass would use right now.
// GET /api/v1/indexers/enabled
func (h *Handlers) ListEnabled(c echo.Context) error {
	indexers, err := h.service.ListEnabled(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, indexers)
}

// Get returns a single indexer.
// GET /api/v1/indexers/:id
func (h *Handlers) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	idx, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, idx)
}

// Create creates a new indexer.
// POST /api/v1/indexers
func (h *Handlers) Create(c echo.Context) error {
	var input CreateIndexerInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	idx, err := h.service.Create(c.Request().Context(), input)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, idx)
}

// SetEnabled enables or disables an indexer.
// PUT /api/v1/indexers/:id/enabled
func (h *Handlers) SetEnabled(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var input SetEnabledInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	idx, err := h.service.SetEnabled(c.Request().Context(), id, input.Enabled)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, idx)
}

// Delete removes an indexer.
// DELETE /api/v1/indexers/:id
func (h *Handlers) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrIndexerNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidIndexer):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDuplicateURL):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
