// Package testutil provides testing utilities for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/crossmatch/internal/database"
)

// TestDB wraps a test database connection.
type TestDB struct {
	DB     *database.DB
	Conn   *sql.DB
	Path   string
	Logger zerolog.Logger
}

// NewTestDB creates a migrated database in a temp directory.
// The caller should defer Close() to clean up.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	tmpDir := t.TempDir()
	logger := NewTestLogger(t)

	db, err := database.New(filepath.Join(tmpDir, "test.db"), logger)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if _, err := db.Migrate(context.Background()); err != nil {
		db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return &TestDB{
		DB:     db,
		Conn:   db.Conn(),
		Path:   tmpDir,
		Logger: logger,
	}
}

// Close closes the database. The temp directory is removed by the testing package.
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
}

// NewTestLogger creates a test logger that outputs to t.Log.
func NewTestLogger(t *testing.T) zerolog.Logger {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

// NopLogger returns a no-op logger for tests that don't need output.
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// FixedClock returns a clock function that always reports at.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// Ago returns now minus d, truncated to millisecond precision as stored.
func Ago(now time.Time, d time.Duration) time.Time {
	return now.Add(-d).Truncate(time.Millisecond)
}
