package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

// ApplyError reports the migration that failed. Migrations before it remain
// applied; it and everything after it remain pending.
type ApplyError struct {
	Version int64
	Name    string
	Err     error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("migration %d (%s) failed: %v", e.Version, e.Name, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Status describes one migration's state against a store.
type Status struct {
	Version   int64      `json:"version"`
	Name      string     `json:"name"`
	Applied   bool       `json:"applied"`
	AppliedAt *time.Time `json:"appliedAt,omitempty"`
}

// Report summarises a call to Apply.
type Report struct {
	Applied []string `json:"applied"`
	Version int64    `json:"version"`
}

// Runner applies an ordered migration list to a database.
type Runner struct {
	provider *goose.Provider
	byVer    map[int64]Migration
	logger   zerolog.Logger
}

// NewRunner validates list and prepares a runner for db.
func NewRunner(db *sql.DB, list []Migration, logger zerolog.Logger) (*Runner, error) {
	if err := Validate(list); err != nil {
		return nil, err
	}

	byVer := make(map[int64]Migration, len(list))
	goMigrations := make([]*goose.Migration, 0, len(list))
	for _, m := range list {
		byVer[m.Version] = m
		goMigrations = append(goMigrations, goose.NewGoMigration(
			m.Version,
			&goose.GoFunc{RunTx: m.Up, Mode: goose.TransactionEnabled},
			nil,
		))
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, nil,
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(goMigrations...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	return &Runner{
		provider: provider,
		byVer:    byVer,
		logger:   logger.With().Str("component", "migrations").Logger(),
	}, nil
}

// Apply runs every pending migration in order. Each one commits together
// with its version record, so a failure leaves the store at the previous
// version and a later call resumes from the failed migration.
func (r *Runner) Apply(ctx context.Context) (*Report, error) {
	results, err := r.provider.Up(ctx)

	report := &Report{Applied: make([]string, 0, len(results))}
	for _, res := range results {
		if res.Error != nil {
			continue
		}
		name := r.name(res.Source.Version)
		report.Applied = append(report.Applied, name)
		r.logger.Info().
			Int64("version", res.Source.Version).
			Str("name", name).
			Dur("duration", res.Duration).
			Msg("applied migration")
	}

	if err != nil {
		var partial *goose.PartialError
		if errors.As(err, &partial) && partial.Failed != nil {
			for _, res := range partial.Applied {
				report.Applied = append(report.Applied, r.name(res.Source.Version))
			}
			version := partial.Failed.Source.Version
			applyErr := &ApplyError{Version: version, Name: r.name(version), Err: partial.Err}
			r.logger.Error().Err(partial.Err).Int64("version", version).Str("name", applyErr.Name).Msg("migration failed")
			return report, applyErr
		}
		return report, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := r.Version(ctx)
	if err != nil {
		return report, err
	}
	report.Version = version

	if len(report.Applied) == 0 {
		r.logger.Debug().Int64("version", version).Msg("schema up to date")
	}
	return report, nil
}

// Status lists every migration with its applied state.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	states, err := r.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	out := make([]Status, 0, len(states))
	for _, st := range states {
		s := Status{
			Version: st.Source.Version,
			Name:    r.name(st.Source.Version),
			Applied: st.State == goose.StateApplied,
		}
		if s.Applied && !st.AppliedAt.IsZero() {
			at := st.AppliedAt
			s.AppliedAt = &at
		}
		out = append(out, s)
	}
	return out, nil
}

// Version returns the highest applied migration version, 0 for a new store.
func (r *Runner) Version(ctx context.Context) (int64, error) {
	v, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// Pending reports whether any migration has not been applied yet.
func (r *Runner) Pending(ctx context.Context) (bool, error) {
	pending, err := r.provider.HasPending(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check pending migrations: %w", err)
	}
	return pending, nil
}

func (r *Runner) name(version int64) string {
	if m, ok := r.byVer[version]; ok {
		return m.Name
	}
	return fmt.Sprintf("unknown_%d", version)
}

// Apply runs the standard schema history against db.
func Apply(ctx context.Context, db *sql.DB, logger zerolog.Logger) (*Report, error) {
	runner, err := NewRunner(db, List(), logger)
	if err != nil {
		return nil, err
	}
	return runner.Apply(ctx)
}
