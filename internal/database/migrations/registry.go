// Package migrations holds the ordered schema history of the crossmatch
// store and the runner that applies it.
package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Migration is a single schema step. Up runs inside a transaction that also
// records the version as applied.
type Migration struct {
	Version int64
	Name    string
	Up      func(ctx context.Context, tx *sql.Tx) error
}

var (
	ErrEmptyName      = errors.New("migration name is empty")
	ErrNilUp          = errors.New("migration has no up function")
	ErrVersionOrder   = errors.New("migration versions must be strictly increasing")
	ErrDuplicateName  = errors.New("duplicate migration name")
	ErrNoMigrations   = errors.New("no migrations to apply")
	ErrInvalidVersion = errors.New("migration version must be positive")
)

// List returns the schema history in application order. Each call returns a
// fresh slice.
func List() []Migration {
	return []Migration{
		{Version: 1, Name: "initial_schema", Up: initialSchema},
		{Version: 2, Name: "jobs", Up: jobs},
		{Version: 3, Name: "timestamps", Up: timestamps},
		{Version: 4, Name: "rate_limits", Up: rateLimits},
	}
}

// Names returns the migration names of list in order.
func Names(list []Migration) []string {
	names := make([]string, len(list))
	for i, m := range list {
		names[i] = m.Name
	}
	return names
}

// Validate checks that list is usable as a schema history.
func Validate(list []Migration) error {
	if len(list) == 0 {
		return ErrNoMigrations
	}

	seen := make(map[string]struct{}, len(list))
	var prev int64
	for i, m := range list {
		if m.Version < 1 {
			return fmt.Errorf("%w: %q has version %d", ErrInvalidVersion, m.Name, m.Version)
		}
		if i > 0 && m.Version <= prev {
			return fmt.Errorf("%w: %q (%d) follows %d", ErrVersionOrder, m.Name, m.Version, prev)
		}
		if m.Name == "" {
			return fmt.Errorf("%w: version %d", ErrEmptyName, m.Version)
		}
		if _, ok := seen[m.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, m.Name)
		}
		if m.Up == nil {
			return fmt.Errorf("%w: %q", ErrNilUp, m.Name)
		}
		seen[m.Name] = struct{}{}
		prev = m.Version
	}
	return nil
}

func execAll(ctx context.Context, tx *sql.Tx, statements ...string) error {
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
