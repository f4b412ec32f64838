// Package jobs persists when each recurring job last ran.
package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/crossmatch/internal/database/sqlc"
)

// Job is the bookkeeping row of one named job.
type Job struct {
	Name    string     `json:"name"`
	LastRun *time.Time `json:"lastRun,omitempty"`
}

// Service reads and writes job bookkeeping.
type Service struct {
	queries *sqlc.Queries
	logger  *zerolog.Logger
	now     func() time.Time
}

// NewService creates a new jobs service.
func NewService(db *sql.DB, logger *zerolog.Logger) *Service {
	subLogger := logger.With().Str("component", "jobs").Logger()
	return &Service{
		queries: sqlc.New(db),
		logger:  &subLogger,
		now:     time.Now,
	}
}

// SetClock replaces the clock used by Due.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// LastRun returns when name last ran, or nil if it never has.
func (s *Service) LastRun(ctx context.Context, name string) (*time.Time, error) {
	row, err := s.queries.GetJob(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job %q: %w", name, err)
	}
	if !row.LastRun.Valid {
		return nil, nil
	}
	t := time.UnixMilli(row.LastRun.Int64)
	return &t, nil
}

// MarkRun records that name ran at at.
func (s *Service) MarkRun(ctx context.Context, name string, at time.Time) error {
	if _, err := s.queries.UpsertJobLastRun(ctx, sqlc.UpsertJobLastRunParams{
		Name:    name,
		LastRun: at.UnixMilli(),
	}); err != nil {
		return fmt.Errorf("failed to mark job %q: %w", name, err)
	}
	s.logger.Debug().Str("job", name).Time("at", at).Msg("Marked job run")
	return nil
}

// Due reports whether at least interval has passed since name last ran.
// A job that never ran is always due.
func (s *Service) Due(ctx context.Context, name string, interval time.Duration) (bool, error) {
	last, err := s.LastRun(ctx, name)
	if err != nil {
		return false, err
	}
	if last == nil {
		return true, nil
	}
	return !s.now().Before(last.Add(interval)), nil
}

// List returns every job that has run at least once.
func (s *Service) List(ctx context.Context) ([]Job, error) {
	rows, err := s.queries.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	out := make([]Job, 0, len(rows))
	for _, row := range rows {
		job := Job{Name: row.Name}
		if row.LastRun.Valid {
			t := time.UnixMilli(row.LastRun.Int64)
			job.LastRun = &t
		}
		out = append(out, job)
	}
	return out, nil
}
