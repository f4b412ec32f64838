package sqlc

import (
	"context"
)

const getSearcheeByName = `-- name: GetSearcheeByName :one
SELECT id, name, first_seen, last_seen FROM searchee
WHERE name = ?
`

func (q *Queries) GetSearcheeByName(ctx context.Context, name string) (*Searchee, error) {
	row := q.db.QueryRowContext(ctx, getSearcheeByName, name)
	var i Searchee
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.FirstSeen,
		&i.LastSeen,
	)
	return &i, err
}

const upsertSearchee = `-- name: UpsertSearchee :one
INSERT INTO searchee (name, first_seen, last_seen)
VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET
    last_seen = MAX(COALESCE(searchee.last_seen, excluded.last_seen), excluded.last_seen)
RETURNING id, name, first_seen, last_seen
`

type UpsertSearcheeParams struct {
	Name      string `json:"name"`
	FirstSeen int64  `json:"first_seen"`
	LastSeen  int64  `json:"last_seen"`
}

func (q *Queries) UpsertSearchee(ctx context.Context, arg UpsertSearcheeParams) (*Searchee, error) {
	row := q.db.QueryRowContext(ctx, upsertSearchee, arg.Name, arg.FirstSeen, arg.LastSeen)
	var i Searchee
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.FirstSeen,
		&i.LastSeen,
	)
	return &i, err
}

const countSearchees = `-- name: CountSearchees :one
SELECT COUNT(*) FROM searchee
`

func (q *Queries) CountSearchees(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countSearchees)
	var count int64
	err := row.Scan(&count)
	return count, err
}
