package sqlc

import (
	"context"
	"database/sql"
)

const createIndexer = `-- name: CreateIndexer :one
INSERT INTO indexer (name, url, enabled)
VALUES (?, ?, ?)
RETURNING id, name, url, enabled, created_at, status, retry_after
`

type CreateIndexerParams struct {
	Name    string `json:"name"`
	Url     string `json:"url"`
	Enabled int64  `json:"enabled"`
}

func (q *Queries) CreateIndexer(ctx context.Context, arg CreateIndexerParams) (*Indexer, error) {
	row := q.db.QueryRowContext(ctx, createIndexer, arg.Name, arg.Url, arg.Enabled)
	var i Indexer
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Url,
		&i.Enabled,
		&i.CreatedAt,
		&i.Status,
		&i.RetryAfter,
	)
	return &i, err
}

const getIndexer = `-- name: GetIndexer :one
SELECT id, name, url, enabled, created_at, status, retry_after FROM indexer
WHERE id = ?
`

func (q *Queries) GetIndexer(ctx context.Context, id int64) (*Indexer, error) {
	row := q.db.QueryRowContext(ctx, getIndexer, id)
	var i Indexer
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Url,
		&i.Enabled,
		&i.CreatedAt,
		&i.Status,
		&i.RetryAfter,
	)
	return &i, err
}

const listIndexers = `-- name: ListIndexers :many
SELECT id, name, url, enabled, created_at, status, retry_after FROM indexer
ORDER BY id
`

func (q *Queries) ListIndexers(ctx context.Context) ([]*Indexer, error) {
	rows, err := q.db.QueryContext(ctx, listIndexers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIndexers(rows)
}

const listEnabledIndexers = `-- name: ListEnabledIndexers :many
SELECT id, name, url, enabled, created_at, status, retry_after FROM indexer
WHERE enabled = 1
  AND (retry_after IS NULL OR retry_after <= ?)
ORDER BY id
`

func (q *Queries) ListEnabledIndexers(ctx context.Context, now int64) ([]*Indexer, error) {
	rows, err := q.db.QueryContext(ctx, listEnabledIndexers, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIndexers(rows)
}

const updateIndexerEnabled = `-- name: UpdateIndexerEnabled :execrows
UPDATE indexer SET enabled = ?
WHERE id = ?
`

type UpdateIndexerEnabledParams struct {
	Enabled int64 `json:"enabled"`
	ID      int64 `json:"id"`
}

func (q *Queries) UpdateIndexerEnabled(ctx context.Context, arg UpdateIndexerEnabledParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateIndexerEnabled, arg.Enabled, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateIndexerRetryAfter = `-- name: UpdateIndexerRetryAfter :execrows
UPDATE indexer SET status = ?, retry_after = ?
WHERE id = ?
`

type UpdateIndexerRetryAfterParams struct {
	Status     sql.NullString `json:"status"`
	RetryAfter sql.NullInt64  `json:"retry_after"`
	ID         int64          `json:"id"`
}

func (q *Queries) UpdateIndexerRetryAfter(ctx context.Context, arg UpdateIndexerRetryAfterParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateIndexerRetryAfter, arg.Status, arg.RetryAfter, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteIndexer = `-- name: DeleteIndexer :execrows
DELETE FROM indexer WHERE id = ?
`

func (q *Queries) DeleteIndexer(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteIndexer, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanIndexers(rows *sql.Rows) ([]*Indexer, error) {
	items := []*Indexer{}
	for rows.Next() {
		var i Indexer
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Url,
			&i.Enabled,
			&i.CreatedAt,
			&i.Status,
			&i.RetryAfter,
		); err != nil {
			return nil, err
		}
		items = append(items, &i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
