package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipstream/crossmatch/internal/testutil"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := New(testutil.NewTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestScheduler_RegisterAndRun(t *testing.T) {
	s := newTestScheduler(t)

	runs := 0
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "count",
		Name: "Count",
		Cron: "0 3 * * *",
		Func: func(context.Context) error {
			runs++
			return nil
		},
	}))

	err := s.RegisterTask(TaskConfig{ID: "count", Name: "Again", Cron: "0 3 * * *", Func: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrTaskExists)

	require.NoError(t, s.Run(context.Background(), "count"))
	assert.Equal(t, 1, runs)

	info, err := s.GetTask("count")
	require.NoError(t, err)
	assert.NotNil(t, info.LastRun)
	assert.False(t, info.Running)
	assert.Empty(t, info.LastError)
}

func TestScheduler_RecordsFailure(t *testing.T) {
	s := newTestScheduler(t)

	boom := errors.New("boom")
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "fail",
		Name: "Fail",
		Cron: "0 3 * * *",
		Func: func(context.Context) error { return boom },
	}))

	assert.ErrorIs(t, s.Run(context.Background(), "fail"), boom)

	tasks := s.ListTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "boom", tasks[0].LastError)
}

func TestScheduler_NoOverlap(t *testing.T) {
	s := newTestScheduler(t)

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, s.RegisterTask(TaskConfig{
		ID:   "slow",
		Name: "Slow",
		Cron: "0 3 * * *",
		Func: func(context.Context) error {
			close(started)
			<-release
			return nil
		},
	}))

	require.NoError(t, s.RunNow("slow"))
	<-started

	assert.ErrorIs(t, s.Run(context.Background(), "slow"), ErrTaskRunning)
	assert.ErrorIs(t, s.RunNow("slow"), ErrTaskRunning)

	close(release)
}

func TestScheduler_UnknownTask(t *testing.T) {
	s := newTestScheduler(t)

	assert.ErrorIs(t, s.RunNow("missing"), ErrTaskNotFound)
	assert.ErrorIs(t, s.Run(context.Background(), "missing"), ErrTaskNotFound)
	_, err := s.GetTask("missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestScheduler_ListTasksSorted(t *testing.T) {
	s := newTestScheduler(t)

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, s.RegisterTask(TaskConfig{ID: id, Name: id, Cron: "0 3 * * *", Func: func(context.Context) error { return nil }}))
	}

	var ids []string
	for _, info := range s.ListTasks() {
		ids = append(ids, info.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}
