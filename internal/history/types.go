package history

import (
	"database/sql"
	"time"
)

// Searchee is a persisted searchee row.
type Searchee struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	FirstSeen *time.Time `json:"firstSeen,omitempty"`
	LastSeen  *time.Time `json:"lastSeen,omitempty"`
}

// Timestamp is the search history of one searchee against one indexer.
type Timestamp struct {
	IndexerID     int64      `json:"indexerId"`
	FirstSearched *time.Time `json:"firstSearched,omitempty"`
	LastSearched  *time.Time `json:"lastSearched,omitempty"`
}

// Aggregate summarises a searchee's history across a set of indexers.
// A nil timestamp means no indexer in the set has a recorded value.
type Aggregate struct {
	FirstSearchedAny *time.Time `json:"firstSearchedAny,omitempty"`
	LastSearchedAll  *time.Time `json:"lastSearchedAll,omitempty"`
	SearchedIndexers int64      `json:"searchedIndexers"`
}

// Searched reports whether any indexer in the set has searched the searchee.
func (a Aggregate) Searched() bool {
	return a.FirstSearchedAny != nil || a.LastSearchedAll != nil
}

// RecordInput is the body of a record request.
type RecordInput struct {
	Name       string     `json:"name"`
	IndexerIDs []int64    `json:"indexerIds"`
	At         *time.Time `json:"at,omitempty"`
}

func millisToTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.UnixMilli(v.Int64)
	return &t
}
