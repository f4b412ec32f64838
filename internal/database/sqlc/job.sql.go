package sqlc

import (
	"context"
)

const getJob = `-- name: GetJob :one
SELECT id, name, last_run FROM job
WHERE name = ?
`

func (q *Queries) GetJob(ctx context.Context, name string) (*Job, error) {
	row := q.db.QueryRowContext(ctx, getJob, name)
	var i Job
	err := row.Scan(&i.ID, &i.Name, &i.LastRun)
	return &i, err
}

const listJobs = `-- name: ListJobs :many
SELECT id, name, last_run FROM job
ORDER BY name
`

func (q *Queries) ListJobs(ctx context.Context) ([]*Job, error) {
	rows, err := q.db.QueryContext(ctx, listJobs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*Job{}
	for rows.Next() {
		var i Job
		if err := rows.Scan(&i.ID, &i.Name, &i.LastRun); err != nil {
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

const upsertJobLastRun = `-- name: UpsertJobLastRun :one
INSERT INTO job (name, last_run)
VALUES (?, ?)
ON CONFLICT (name) DO UPDATE SET last_run = excluded.last_run
RETURNING id, name, last_run
`

type UpsertJobLastRunParams struct {
	Name    string `json:"name"`
	LastRun int64  `json:"last_run"`
}

func (q *Queries) UpsertJobLastRun(ctx context.Context, arg UpsertJobLastRunParams) (*Job, error) {
	row := q.db.QueryRowContext(ctx, upsertJobLastRun, arg.Name, arg.LastRun)
	var i Job
	err := row.Scan(&i.ID, &i.Name, &i.LastRun)
	return &i, err
}
