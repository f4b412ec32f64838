package sqlc

import (
	"database/sql"
)

type Decision struct {
	ID         int64          `json:"id"`
	SearcheeID int64          `json:"searchee_id"`
	Guid       string         `json:"guid"`
	InfoHash   sql.NullString `json:"info_hash"`
	Decision   string         `json:"decision"`
	FirstSeen  sql.NullInt64  `json:"first_seen"`
	LastSeen   sql.NullInt64  `json:"last_seen"`
}

type Indexer struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Url        string         `json:"url"`
	Enabled    int64          `json:"enabled"`
	CreatedAt  int64          `json:"created_at"`
	Status     sql.NullString `json:"status"`
	RetryAfter sql.NullInt64  `json:"retry_after"`
}

type Job struct {
	ID      int64         `json:"id"`
	Name    string        `json:"name"`
	LastRun sql.NullInt64 `json:"last_run"`
}

type Searchee struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	FirstSeen sql.NullInt64 `json:"first_seen"`
	LastSeen  sql.NullInt64 `json:"last_seen"`
}

type Timestamp struct {
	SearcheeID    int64         `json:"searchee_id"`
	IndexerID     int64         `json:"indexer_id"`
	FirstSearched sql.NullInt64 `json:"first_searched"`
	LastSearched  sql.NullInt64 `json:"last_searched"`
}
