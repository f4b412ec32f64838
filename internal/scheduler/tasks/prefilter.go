package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/slipstream/crossmatch/internal/config"
	"github.com/slipstream/crossmatch/internal/jobs"
	"github.com/slipstream/crossmatch/internal/prefilter"
	"github.com/slipstream/crossmatch/internal/scheduler"
	"github.com/slipstream/crossmatch/internal/searchee"
)

const PrefilterTaskID = "prefilter"

// PrefilterTask runs one admission pass over the configured searchee source.
type PrefilterTask struct {
	source      searchee.Source
	pipeline    *prefilter.Pipeline
	jobs        *jobs.Service
	minInterval config.Threshold
	logger      zerolog.Logger
	now         func() time.Time

	mu   sync.RWMutex
	last *prefilter.Result
}

// NewPrefilterTask creates the admission task. Passes are skipped while the
// previous one is younger than minInterval.
func NewPrefilterTask(source searchee.Source, pipeline *prefilter.Pipeline, jobsService *jobs.Service, minInterval config.Threshold, logger zerolog.Logger) *PrefilterTask {
	return &PrefilterTask{
		source:      source,
		pipeline:    pipeline,
		jobs:        jobsService,
		minInterval: minInterval,
		logger:      logger.With().Str("task", PrefilterTaskID).Logger(),
		now:         time.Now,
	}
}

// Run performs a pass unless one ran within the minimum interval.
func (t *PrefilterTask) Run(ctx context.Context) error {
	if d, ok := t.minInterval.Get(); ok {
		due, err := t.jobs.Due(ctx, PrefilterTaskID, d)
		if err != nil {
			return err
		}
		if !due {
			t.logger.Info().Str("minInterval", t.minInterval.String()).Msg("Skipping admission pass, last pass too recent")
			return nil
		}
	}

	list, err := t.source.Searchees(ctx)
	if err != nil {
		return fmt.Errorf("failed to load searchees: %w", err)
	}

	startedAt := t.now()
	result, err := t.pipeline.Admit(ctx, list)
	if err != nil {
		return fmt.Errorf("admission pass failed: %w", err)
	}

	if err := t.jobs.MarkRun(ctx, PrefilterTaskID, startedAt); err != nil {
		return err
	}

	t.mu.Lock()
	t.last = result
	t.mu.Unlock()

	t.logger.Info().
		Str("runId", result.RunID).
		Int("total", result.Total).
		Int("eligible", len(result.Eligible)).
		Interface("rejected", result.Rejected).
		Dur("duration", result.Duration).
		Msg("Admission pass complete")
	return nil
}

// LastResult returns the result of the most recent completed pass.
func (t *PrefilterTask) LastResult() *prefilter.Result {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

// RegisterPrefilterTask registers the recurring admission pass.
func RegisterPrefilterTask(sched *scheduler.Scheduler, task *PrefilterTask, cron string) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          PrefilterTaskID,
		Name:        "Admission Pass",
		Description: "Selects which searchees are submitted to the enabled indexers",
		Cron:        cron,
		RunOnStart:  false,
		Func:        task.Run,
	})
}
