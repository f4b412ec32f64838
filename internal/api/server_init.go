package api

import (
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/slipstream/crossmatch/internal/history"
	"github.com/slipstream/crossmatch/internal/indexer"
	"github.com/slipstream/crossmatch/internal/jobs"
)

// Services groups the store-backed services shared by the API, the
// scheduler and the CLI.
type Services struct {
	Indexers *indexer.Service
	History  *history.Service
	Jobs     *jobs.Service
}

// NewServices creates every store-backed service over conn.
func NewServices(conn *sql.DB, logger zerolog.Logger) *Services {
	return &Services{
		Indexers: indexer.NewService(conn, &logger),
		History:  history.NewService(conn, &logger),
		Jobs:     jobs.NewService(conn, &logger),
	}
}
