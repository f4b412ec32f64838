package prefilter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/slipstream/crossmatch/internal/config"
	"github.com/slipstream/crossmatch/internal/logger"
	"github.com/slipstream/crossmatch/internal/searchee"
)

const defaultConcurrency = 4

// Options are the admission rules for one pipeline.
type Options struct {
	IncludeEpisodes     bool
	IncludeNonVideos    bool
	ExcludeOlder        config.Threshold
	ExcludeRecentSearch config.Threshold
	Concurrency         int
}

// OptionsFromConfig resolves cfg into Options. Malformed thresholds are
// reported to sink and treated as disabled.
func OptionsFromConfig(cfg config.PrefilterConfig, sink logger.Sink) Options {
	excludeOlder, excludeRecent, err := cfg.Thresholds()
	if err != nil {
		sinkOrNop(sink).Record(zerolog.WarnLevel, logger.LabelPrefilter,
			fmt.Sprintf("ignoring invalid exclusion window: %v", err))
	}
	return Options{
		IncludeEpisodes:     cfg.IncludeEpisodes,
		IncludeNonVideos:    cfg.IncludeNonVideos,
		ExcludeOlder:        excludeOlder,
		ExcludeRecentSearch: excludeRecent,
		Concurrency:         cfg.Concurrency,
	}
}

// Result is the outcome of one admission pass.
type Result struct {
	RunID    string              `json:"runId"`
	Total    int                 `json:"total"`
	Eligible []searchee.Searchee `json:"eligible"`
	Rejected map[Reason]int      `json:"rejected"`
	Duration time.Duration       `json:"-"`

	// DurationMs mirrors Duration for JSON clients.
	DurationMs int64 `json:"durationMs"`
}

// Pipeline admits searchees through the content filter, duplicate collapse
// and the timestamp filter, in that order.
type Pipeline struct {
	content     ContentFilter
	timestamps  *TimestampFilter
	sink        logger.Sink
	concurrency int
}

// NewPipeline creates a pipeline reading enabled indexers from indexers and
// search history from hist.
func NewPipeline(opts Options, indexers IndexerLister, hist HistoryReader, sink logger.Sink) *Pipeline {
	sink = sinkOrNop(sink)
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Pipeline{
		content: ContentFilter{
			IncludeEpisodes:  opts.IncludeEpisodes,
			IncludeNonVideos: opts.IncludeNonVideos,
			Sink:             sink,
		},
		timestamps: &TimestampFilter{
			ExcludeOlder:        opts.ExcludeOlder,
			ExcludeRecentSearch: opts.ExcludeRecentSearch,
			Indexers:            indexers,
			History:             hist,
			Sink:                sink,
		},
		sink:        sink,
		concurrency: concurrency,
	}
}

// SetClock replaces the clock the timestamp filter compares against.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.timestamps.Now = now
}

// Admit returns the eligible subset of list, preserving input order. The
// enabled indexer set is read once per call. Any lookup or query failure
// aborts the pass and no partial result is returned.
func (p *Pipeline) Admit(ctx context.Context, list []searchee.Searchee) (*Result, error) {
	start := time.Now()
	result := &Result{
		RunID:    uuid.New().String(),
		Total:    len(list),
		Rejected: make(map[Reason]int),
	}

	candidates := make([]searchee.Searchee, 0, len(list))
	for _, s := range list {
		if reason := p.content.Evaluate(s); reason != "" {
			result.Rejected[reason]++
			continue
		}
		candidates = append(candidates, s)
	}

	deduped := FilterDupes(candidates, p.sink)
	if removed := len(candidates) - len(deduped); removed > 0 {
		result.Rejected[ReasonDuplicate] += removed
	}

	eligible, err := p.checkTimestamps(ctx, deduped, result.Rejected)
	if err != nil {
		return nil, err
	}

	result.Eligible = eligible
	result.Duration = time.Since(start)
	result.DurationMs = result.Duration.Milliseconds()

	p.sink.Record(logger.VerboseLevel, logger.LabelPrefilter,
		fmt.Sprintf("%d of %d searchees selected for searching", len(eligible), len(list)))
	return result, nil
}

func (p *Pipeline) checkTimestamps(ctx context.Context, list []searchee.Searchee, rejected map[Reason]int) ([]searchee.Searchee, error) {
	if len(list) == 0 {
		return []searchee.Searchee{}, nil
	}

	ids, err := p.timestamps.EnabledIDs(ctx)
	if err != nil {
		return nil, err
	}

	reasons := make([]Reason, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i := range list {
		g.Go(func() error {
			reason, err := p.timestamps.Evaluate(gctx, list[i], ids)
			if err != nil {
				return err
			}
			reasons[i] = reason
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	eligible := make([]searchee.Searchee, 0, len(list))
	for i, reason := range reasons {
		if reason != "" {
			rejected[reason]++
			continue
		}
		eligible = append(eligible, list[i])
	}
	return eligible, nil
}
