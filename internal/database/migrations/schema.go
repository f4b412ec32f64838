package migrations

import (
	"context"
	"database/sql"
)

func initialSchema(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`CREATE TABLE searchee (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			first_seen INTEGER,
			last_seen INTEGER
		)`,
		`CREATE TABLE decision (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			searchee_id INTEGER NOT NULL REFERENCES searchee(id) ON DELETE CASCADE,
			guid TEXT NOT NULL,
			info_hash TEXT,
			decision TEXT NOT NULL,
			first_seen INTEGER,
			last_seen INTEGER,
			UNIQUE (searchee_id, guid)
		)`,
	)
}

func jobs(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`CREATE TABLE job (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			last_run INTEGER
		)`,
	)
}

func timestamps(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`CREATE TABLE indexer (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL UNIQUE,
			enabled INTEGER NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL DEFAULT (CAST(strftime('%s', 'now') AS INTEGER) * 1000)
		)`,
		`CREATE TABLE timestamp (
			searchee_id INTEGER NOT NULL REFERENCES searchee(id) ON DELETE CASCADE,
			indexer_id INTEGER NOT NULL REFERENCES indexer(id) ON DELETE CASCADE,
			first_searched INTEGER,
			last_searched INTEGER,
			PRIMARY KEY (searchee_id, indexer_id),
			CHECK (first_searched IS NULL OR last_searched IS NULL OR first_searched <= last_searched)
		)`,
		`CREATE INDEX idx_timestamp_indexer ON timestamp(indexer_id)`,
	)
}

// rateLimits depends on the indexer table created by timestamps.
func rateLimits(ctx context.Context, tx *sql.Tx) error {
	return execAll(ctx, tx,
		`ALTER TABLE indexer ADD COLUMN status TEXT`,
		`ALTER TABLE indexer ADD COLUMN retry_after INTEGER`,
	)
}
