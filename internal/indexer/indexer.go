package indexer

import "time"

// Indexer is a configured search backend.
type Indexer struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	Enabled    bool       `json:"enabled"`
	Status     string     `json:"status,omitempty"`
	RetryAfter *time.Time `json:"retryAfter,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Available reports whether the indexer is enabled and not inside a
// provider-requested retry window at now.
func (i *Indexer) Available(now time.Time) bool {
	if !i.Enabled {
		return false
	}
	return i.RetryAfter == nil || !i.RetryAfter.After(now)
}

// CreateIndexerInput is the input for creating a new indexer.
type CreateIndexerInput struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// SetEnabledInput is the body of an enable/disable request.
type SetEnabledInput struct {
	Enabled bool `json:"enabled"`
}

// IDs returns the ids of indexers in order.
func IDs(indexers []*Indexer) []int64 {
	ids := make([]int64, len(indexers))
	for i, idx := range indexers {
		ids[i] = idx.ID
	}
	return ids
}
