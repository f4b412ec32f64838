package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/slipstream/crossmatch/internal/database/migrations"
)

// DB wraps the database connection.
type DB struct {
	conn   *sql.DB
	path   string
	logger zerolog.Logger
}

// New opens the SQLite database at path, creating its directory if needed.
func New(path string, logger zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.PingContext(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		conn:   conn,
		path:   path,
		logger: logger.With().Str("component", "database").Logger(),
	}, nil
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Runner returns a migration runner over the standard schema history.
func (db *DB) Runner() (*migrations.Runner, error) {
	return migrations.NewRunner(db.conn, migrations.List(), db.logger)
}

// Migrate applies all pending migrations.
func (db *DB) Migrate(ctx context.Context) (*migrations.Report, error) {
	runner, err := db.Runner()
	if err != nil {
		return nil, err
	}

	report, err := runner.Apply(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to run migrations: %w", err)
	}
	return report, nil
}

// MigrationStatus returns the applied state of every migration.
func (db *DB) MigrationStatus(ctx context.Context) ([]migrations.Status, error) {
	runner, err := db.Runner()
	if err != nil {
		return nil, err
	}
	return runner.Status(ctx)
}
