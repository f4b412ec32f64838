package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/crossmatch/internal/testutil"
)

func insertIndexers(t *testing.T, tdb *testutil.TestDB, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		res, err := tdb.Conn.Exec(`INSERT INTO indexer (name, url) VALUES (?, ?)`,
			fmt.Sprintf("idx%d", i), fmt.Sprintf("https://idx%d.example", i))
		require.NoError(t, err)
		id, err := res.LastInsertId()
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestHistoryService_EnsureSearchee(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, &tdb.Logger)
	ctx := context.Background()

	first, err := service.EnsureSearchee(ctx, "Movie.2020.1080p")
	require.NoError(t, err)
	second, err := service.EnsureSearchee(ctx, "Movie.2020.1080p")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	count, err := service.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = service.EnsureSearchee(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = service.GetSearchee(ctx, "missing")
	assert.ErrorIs(t, err, ErrSearcheeNotFound)
}

func TestHistoryService_RecordSearchKeepsBounds(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, &tdb.Logger)
	ctx := context.Background()
	ids := insertIndexers(t, tdb, 1)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	early := testutil.Ago(now, 48*time.Hour)
	middle := testutil.Ago(now, 24*time.Hour)

	require.NoError(t, service.RecordSearch(ctx, "A", ids, middle))
	require.NoError(t, service.RecordSearch(ctx, "A", ids, now))
	require.NoError(t, service.RecordSearch(ctx, "A", ids, early))

	timestamps, err := service.ListTimestamps(ctx, "A")
	require.NoError(t, err)
	require.Len(t, timestamps, 1)

	assert.True(t, timestamps[0].FirstSearched.Equal(early), "first = %v, want %v", timestamps[0].FirstSearched, early)
	assert.True(t, timestamps[0].LastSearched.Equal(now), "last = %v, want %v", timestamps[0].LastSearched, now)
}

func TestHistoryService_Aggregate(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, &tdb.Logger)
	ctx := context.Background()
	ids := insertIndexers(t, tdb, 3)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tenDays := testutil.Ago(now, 10*24*time.Hour)
	threeDays := testutil.Ago(now, 3*24*time.Hour)

	require.NoError(t, service.RecordSearch(ctx, "A", ids[:1], tenDays))
	require.NoError(t, service.RecordSearch(ctx, "A", ids[1:2], threeDays))

	t.Run("across searched indexers", func(t *testing.T) {
		agg, err := service.Aggregate(ctx, "A", ids)
		require.NoError(t, err)
		require.NotNil(t, agg.FirstSearchedAny)
		require.NotNil(t, agg.LastSearchedAll)
		assert.True(t, agg.FirstSearchedAny.Equal(tenDays))
		assert.True(t, agg.LastSearchedAll.Equal(threeDays))
		assert.Equal(t, int64(2), agg.SearchedIndexers)
	})

	t.Run("restricted to given indexers", func(t *testing.T) {
		agg, err := service.Aggregate(ctx, "A", ids[1:])
		require.NoError(t, err)
		require.NotNil(t, agg.FirstSearchedAny)
		assert.True(t, agg.FirstSearchedAny.Equal(threeDays))
		assert.Equal(t, int64(1), agg.SearchedIndexers)
	})

	t.Run("only unsearched indexers", func(t *testing.T) {
		agg, err := service.Aggregate(ctx, "A", ids[2:])
		require.NoError(t, err)
		assert.False(t, agg.Searched())
		assert.Zero(t, agg.SearchedIndexers)
	})

	t.Run("unknown searchee", func(t *testing.T) {
		agg, err := service.Aggregate(ctx, "never-seen", ids)
		require.NoError(t, err)
		assert.False(t, agg.Searched())
	})

	t.Run("no indexers", func(t *testing.T) {
		agg, err := service.Aggregate(ctx, "A", nil)
		require.NoError(t, err)
		assert.False(t, agg.Searched())
	})
}

func TestHistoryService_RecordSearchUnknownIndexerRollsBack(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, &tdb.Logger)
	ctx := context.Background()

	err := service.RecordSearch(ctx, "B", []int64{999}, time.Now())
	require.Error(t, err)

	_, err = service.GetSearchee(ctx, "B")
	if !errors.Is(err, ErrSearcheeNotFound) {
		t.Errorf("GetSearchee() error = %v, want ErrSearcheeNotFound after rollback", err)
	}
}
