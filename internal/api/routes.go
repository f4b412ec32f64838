package api

import (
	"github.com/slipstream/crossmatch/internal/history"
	"github.com/slipstream/crossmatch/internal/indexer"
)

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")

	// System
	api.GET("/status", s.getStatus)
	api.GET("/migrations", s.getMigrations)

	// Admission
	pf := api.Group("/prefilter")
	pf.POST("", s.runPrefilter)
	pf.GET("/last", s.getLastPrefilter)
	NewLogsHandlers(s.recorder).RegisterRoutes(pf.Group("/log"))

	// Indexers and search history
	indexer.NewHandlers(s.services.Indexers).RegisterRoutes(api.Group("/indexers"))
	history.NewHandlers(s.services.History).RegisterRoutes(api.Group("/history"))

	// Scheduled tasks
	if h := s.schedulerHandler(); h != nil {
		tasks := api.Group("/tasks")
		tasks.GET("", h.ListTasks)
		tasks.GET("/:id", h.GetTask)
		tasks.POST("/:id/run", h.RunTask)
	}
}
