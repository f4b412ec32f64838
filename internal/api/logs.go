//nolint:revive // Package name 'api' is intentionally generic for the HTTP API layer
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/slipstream/crossmatch/internal/logger"
)

// DiagnosticsProvider provides access to recent filter diagnostics.
type DiagnosticsProvider interface {
	Entries() []logger.Diagnostic
}

// LogsHandlers handles diagnostic log endpoints.
type LogsHandlers struct {
	provider DiagnosticsProvider
}

// NewLogsHandlers creates a new logs handlers instance.
func NewLogsHandlers(provider DiagnosticsProvider) *LogsHandlers {
	return &LogsHandlers{provider: provider}
}

// RegisterRoutes registers log routes on the given group.
func (h *LogsHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetRecent)
}

// GetRecent returns recent diagnostics, optionally filtered by ?label=.
func (h *LogsHandlers) GetRecent(c echo.Context) error {
	label := logger.Label(c.QueryParam("label"))

	entries := h.provider.Entries()
	out := make([]logger.Diagnostic, 0, len(entries))
	for _, e := range entries {
		if label == "" || e.Label == label {
			out = append(out, e)
		}
	}
	return c.JSON(http.StatusOK, out)
}
