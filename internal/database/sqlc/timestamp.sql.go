package sqlc

import (
	"context"
	"database/sql"
	"strings"
)

const upsertTimestamp = `-- name: UpsertTimestamp :exec
INSERT INTO timestamp (searchee_id, indexer_id, first_searched, last_searched)
VALUES (?, ?, ?, ?)
ON CONFLICT (searchee_id, indexer_id) DO UPDATE SET
    first_searched = MIN(COALESCE(timestamp.first_searched, excluded.first_searched), excluded.first_searched),
    last_searched = MAX(COALESCE(timestamp.last_searched, excluded.last_searched), excluded.last_searched)
`

type UpsertTimestampParams struct {
	SearcheeID    int64 `json:"searchee_id"`
	IndexerID     int64 `json:"indexer_id"`
	FirstSearched int64 `json:"first_searched"`
	LastSearched  int64 `json:"last_searched"`
}

func (q *Queries) UpsertTimestamp(ctx context.Context, arg UpsertTimestampParams) error {
	_, err := q.db.ExecContext(ctx, upsertTimestamp,
		arg.SearcheeID,
		arg.IndexerID,
		arg.FirstSearched,
		arg.LastSearched,
	)
	return err
}

const listTimestampsBySearchee = `-- name: ListTimestampsBySearchee :many
SELECT t.searchee_id, t.indexer_id, t.first_searched, t.last_searched
FROM timestamp t
JOIN searchee s ON s.id = t.searchee_id
WHERE s.name = ?
ORDER BY t.indexer_id
`

func (q *Queries) ListTimestampsBySearchee(ctx context.Context, name string) ([]*Timestamp, error) {
	rows, err := q.db.QueryContext(ctx, listTimestampsBySearchee, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*Timestamp{}
	for rows.Next() {
		var i Timestamp
		if err := rows.Scan(
			&i.SearcheeID,
			&i.IndexerID,
			&i.FirstSearched,
			&i.LastSearched,
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

const getTimestampAggregate = `-- name: GetTimestampAggregate :one
SELECT
    MIN(t.first_searched) AS first_searched_any,
    MAX(t.last_searched) AS last_searched_all,
    COUNT(t.last_searched) AS searched_indexers
FROM searchee s
CROSS JOIN indexer i
LEFT OUTER JOIN timestamp t ON t.indexer_id = i.id AND t.searchee_id = s.id
WHERE s.name = ?
  AND i.id IN (/*SLICE:indexer_ids*/?)
`

type GetTimestampAggregateParams struct {
	Name       string  `json:"name"`
	IndexerIds []int64 `json:"indexer_ids"`
}

type GetTimestampAggregateRow struct {
	FirstSearchedAny sql.NullInt64 `json:"first_searched_any"`
	LastSearchedAll  sql.NullInt64 `json:"last_searched_all"`
	SearchedIndexers int64         `json:"searched_indexers"`
}

// MIN and MAX skip NULLs, so indexers never searched do not contribute.
func (q *Queries) GetTimestampAggregate(ctx context.Context, arg GetTimestampAggregateParams) (*GetTimestampAggregateRow, error) {
	query := getTimestampAggregate
	var queryParams []interface{}
	queryParams = append(queryParams, arg.Name)
	if len(arg.IndexerIds) > 0 {
		for _, v := range arg.IndexerIds {
			queryParams = append(queryParams, v)
		}
		query = strings.Replace(query, "/*SLICE:indexer_ids*/?", strings.Repeat(",?", len(arg.IndexerIds))[1:], 1)
	} else {
		query = strings.Replace(query, "/*SLICE:indexer_ids*/?", "NULL", 1)
	}
	row := q.db.QueryRowContext(ctx, query, queryParams...)
	var i GetTimestampAggregateRow
	err := row.Scan(&i.FirstSearchedAny, &i.LastSearchedAll, &i.SearchedIndexers)
	return &i, err
}
