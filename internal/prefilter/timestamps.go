package prefilter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slipstream/crossmatch/internal/config"
	"github.com/slipstream/crossmatch/internal/history"
	"github.com/slipstream/crossmatch/internal/indexer"
	"github.com/slipstream/crossmatch/internal/logger"
	"github.com/slipstream/crossmatch/internal/searchee"
)

var (
	ErrProviderLookup = errors.New("enabled indexer lookup failed")
	ErrHistoryQuery   = errors.New("search history query failed")
)

const timestampLayout = "2006-01-02 15:04:05 MST"

// IndexerLister returns the indexers currently eligible for searching.
type IndexerLister interface {
	ListEnabled(ctx context.Context) ([]*indexer.Indexer, error)
}

// HistoryReader aggregates a searchee's search history over a set of indexers.
type HistoryReader interface {
	Aggregate(ctx context.Context, name string, indexerIDs []int64) (history.Aggregate, error)
}

// TimestampFilter rejects searchees by their search history across the
// enabled indexers: stale ones via ExcludeOlder, recently searched ones via
// ExcludeRecentSearch.
type TimestampFilter struct {
	ExcludeOlder        config.Threshold
	ExcludeRecentSearch config.Threshold
	Indexers            IndexerLister
	History             HistoryReader
	Sink                logger.Sink
	Now                 func() time.Time
}

// Allow fetches the enabled indexers and evaluates s against them.
func (f *TimestampFilter) Allow(ctx context.Context, s searchee.Searchee) (bool, error) {
	ids, err := f.EnabledIDs(ctx)
	if err != nil {
		return false, err
	}
	reason, err := f.Evaluate(ctx, s, ids)
	if err != nil {
		return false, err
	}
	return reason == "", nil
}

// EnabledIDs reads the enabled indexer set from the registry.
func (f *TimestampFilter) EnabledIDs(ctx context.Context) ([]int64, error) {
	enabled, err := f.Indexers.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderLookup, err)
	}
	return indexer.IDs(enabled), nil
}

// Evaluate returns the rejection reason for s against indexerIDs, or "" when
// s is accepted. A searchee with no recorded search is always accepted.
func (f *TimestampFilter) Evaluate(ctx context.Context, s searchee.Searchee, indexerIDs []int64) (Reason, error) {
	agg, err := f.History.Aggregate(ctx, s.Name, indexerIDs)
	if err != nil {
		return "", fmt.Errorf("%w for %q: %w", ErrHistoryQuery, s.Name, err)
	}

	now := f.now()
	sink := sinkOrNop(f.Sink)

	if d, ok := f.ExcludeOlder.Get(); ok && agg.FirstSearchedAny != nil &&
		agg.FirstSearchedAny.Before(now.Add(-d)) {
		logReason(sink, s.Name, fmt.Sprintf("its first search timestamp %s is older than %s ago",
			agg.FirstSearchedAny.Format(timestampLayout), f.ExcludeOlder))
		return ReasonSearchedTooOld, nil
	}

	if d, ok := f.ExcludeRecentSearch.Get(); ok && agg.LastSearchedAll != nil &&
		agg.LastSearchedAll.After(now.Add(-d)) {
		logReason(sink, s.Name, fmt.Sprintf("its last search timestamp %s is newer than %s ago",
			agg.LastSearchedAll.Format(timestampLayout), f.ExcludeRecentSearch))
		return ReasonSearchedRecent, nil
	}

	return "", nil
}

func (f *TimestampFilter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}
