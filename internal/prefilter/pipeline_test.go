package prefilter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/crossmatch/internal/config"
	"github.com/slipstream/crossmatch/internal/history"
	"github.com/slipstream/crossmatch/internal/indexer"
	"github.com/slipstream/crossmatch/internal/logger"
	"github.com/slipstream/crossmatch/internal/searchee"
	"github.com/slipstream/crossmatch/internal/testutil"
)

func names(list []searchee.Searchee) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Name
	}
	return out
}

func TestPipeline_Admit(t *testing.T) {
	hist := &fakeHistory{byName: map[string]history.Aggregate{
		"Stale":  {FirstSearchedAny: ago(30 * day), LastSearchedAll: ago(30 * day)},
		"Recent": {FirstSearchedAny: ago(2 * day), LastSearchedAll: ago(5 * time.Minute)},
		"Fine":   {FirstSearchedAny: ago(2 * day), LastSearchedAll: ago(2 * day)},
	}}
	idx := enabledIndexers(1, 2)

	p := NewPipeline(Options{
		ExcludeOlder:        config.Enabled(7 * day),
		ExcludeRecentSearch: config.Enabled(time.Hour),
		Concurrency:         2,
	}, idx, hist, nil)
	p.SetClock(func() time.Time { return testNow })

	in := []searchee.Searchee{
		{Name: "New", Files: files("New.mkv")},
		{Name: "Show.S01E01", Files: files("Show.S01E01.mkv")},
		{Name: "Stale", Files: files("Stale.mkv")},
		{Name: "Fine", Files: files("Fine.mkv")},
		{Name: "Docs", Files: files("Docs.pdf")},
		{Name: "Recent", Files: files("Recent.mkv")},
		{Name: "New", InfoHash: "abc", Files: files("New.mkv")},
	}

	result, err := p.Admit(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []string{"New", "Fine"}, names(result.Eligible))
	assert.Equal(t, "abc", result.Eligible[0].InfoHash, "torrent-backed duplicate preferred")
	assert.Equal(t, 7, result.Total)
	assert.Equal(t, map[Reason]int{
		ReasonSingleEpisode:  1,
		ReasonNonVideo:       1,
		ReasonDuplicate:      1,
		ReasonSearchedTooOld: 1,
		ReasonSearchedRecent: 1,
	}, result.Rejected)

	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 1, idx.calls, "enabled indexers read once per pass")

	_, queried := hist.seen["Show.S01E01"]
	assert.False(t, queried, "content-rejected searchees never reach the history store")
}

func TestPipeline_PreservesOrder(t *testing.T) {
	p := NewPipeline(Options{IncludeNonVideos: true, Concurrency: 8}, enabledIndexers(1), &fakeHistory{}, nil)

	in := make([]searchee.Searchee, 50)
	want := make([]string, 50)
	for i := range in {
		in[i] = searchee.Searchee{Name: fmt.Sprintf("item-%02d", i)}
		want[i] = in[i].Name
	}

	result, err := p.Admit(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, want, names(result.Eligible))
}

func TestPipeline_Empty(t *testing.T) {
	idx := enabledIndexers(1)
	p := NewPipeline(Options{}, idx, &fakeHistory{}, nil)

	result, err := p.Admit(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Eligible)
	assert.Zero(t, idx.calls)
}

func TestPipeline_ErrorsAbortPass(t *testing.T) {
	storeErr := errors.New("disk I/O error")
	in := []searchee.Searchee{{Name: "A", Files: files("A.mkv")}, {Name: "B", Files: files("B.mkv")}}

	p := NewPipeline(Options{}, &fakeIndexers{err: storeErr}, &fakeHistory{}, nil)
	result, err := p.Admit(context.Background(), in)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrProviderLookup)

	p = NewPipeline(Options{}, enabledIndexers(1), &fakeHistory{err: storeErr}, nil)
	result, err = p.Admit(context.Background(), in)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrHistoryQuery)
	assert.ErrorIs(t, err, storeErr)
}

func TestOptionsFromConfig(t *testing.T) {
	rec := logger.NewRecorder(10, nil)

	opts := OptionsFromConfig(config.PrefilterConfig{
		IncludeEpisodes:     true,
		ExcludeOlder:        "2w",
		ExcludeRecentSearch: "soon",
		Concurrency:         3,
	}, rec)

	assert.True(t, opts.IncludeEpisodes)
	assert.Equal(t, config.Enabled(14*day), opts.ExcludeOlder)
	assert.False(t, opts.ExcludeRecentSearch.IsEnabled(), "malformed window is disabled")
	assert.Equal(t, 3, opts.Concurrency)
	assert.Len(t, rec.Messages(logger.LabelPrefilter), 1)
}

// Exercises the pipeline against a migrated store with real indexers and
// recorded searches.
func TestPipeline_Store(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()
	ctx := context.Background()

	indexers := indexer.NewService(tdb.Conn, &tdb.Logger)
	indexers.SetClock(testutil.FixedClock(testNow))
	hist := history.NewService(tdb.Conn, &tdb.Logger)

	a, err := indexers.Create(ctx, indexer.CreateIndexerInput{Name: "a", URL: "https://a.example"})
	require.NoError(t, err)
	b, err := indexers.Create(ctx, indexer.CreateIndexerInput{Name: "b", URL: "https://b.example"})
	require.NoError(t, err)

	require.NoError(t, hist.RecordSearch(ctx, "Old", []int64{a.ID}, testutil.Ago(testNow, 10*day)))
	require.NoError(t, hist.RecordSearch(ctx, "Old", []int64{b.ID}, testutil.Ago(testNow, 3*day)))
	require.NoError(t, hist.RecordSearch(ctx, "Young", []int64{a.ID, b.ID}, testutil.Ago(testNow, 3*day)))
	require.NoError(t, hist.RecordSearch(ctx, "Hot", []int64{b.ID}, testutil.Ago(testNow, 10*time.Minute)))

	rec := logger.NewRecorder(50, logger.NewSink(tdb.Logger))
	p := NewPipeline(Options{
		IncludeNonVideos:    true,
		ExcludeOlder:        config.Enabled(7 * day),
		ExcludeRecentSearch: config.Enabled(time.Hour),
	}, indexers, hist, rec)
	p.SetClock(testutil.FixedClock(testNow))

	in := []searchee.Searchee{{Name: "Old"}, {Name: "Young"}, {Name: "Hot"}, {Name: "Unseen"}}

	result, err := p.Admit(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Young", "Unseen"}, names(result.Eligible))

	// Hot was only searched on b; disabling b leaves it unsearched on the enabled set.
	_, err = indexers.SetEnabled(ctx, b.ID, false)
	require.NoError(t, err)

	result, err = p.Admit(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Young", "Hot", "Unseen"}, names(result.Eligible))
}

func TestResult_JSONDurationInMilliseconds(t *testing.T) {
	result := &Result{
		RunID:      "run",
		Rejected:   map[Reason]int{},
		Duration:   1500 * time.Millisecond,
		DurationMs: 1500,
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, float64(1500), fields["durationMs"])
	assert.NotContains(t, fields, "duration")
}

func TestPipeline_AdmitSetsDurationMs(t *testing.T) {
	p := NewPipeline(Options{}, &fakeIndexers{}, &fakeHistory{}, logger.Nop())

	result, err := p.Admit(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, result.Duration.Milliseconds(), result.DurationMs)
}
