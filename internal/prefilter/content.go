package prefilter

import (
	"github.com/slipstream/crossmatch/internal/logger"
	"github.com/slipstream/crossmatch/internal/scanner"
	"github.com/slipstream/crossmatch/internal/searchee"
)

// ContentFilter rejects searchees whose file composition the run does not want.
type ContentFilter struct {
	IncludeEpisodes  bool
	IncludeNonVideos bool
	Sink             logger.Sink
}

// IsSingleEpisode reports whether s is exactly one file named like an episode.
func IsSingleEpisode(s searchee.Searchee) bool {
	return len(s.Files) == 1 && scanner.IsEpisode(s.Files[0].Name)
}

// Evaluate returns the rejection reason for s, or "" when s is accepted.
func (f ContentFilter) Evaluate(s searchee.Searchee) Reason {
	sink := sinkOrNop(f.Sink)

	if !f.IncludeEpisodes && IsSingleEpisode(s) {
		logReason(sink, s.Name, "it is a single episode")
		return ReasonSingleEpisode
	}

	if !f.IncludeNonVideos && !scanner.AllVideos(s.FileNames()) {
		logReason(sink, s.Name, "not all files are videos")
		return ReasonNonVideo
	}

	return ""
}

// Allow reports whether s passes the filter.
func (f ContentFilter) Allow(s searchee.Searchee) bool {
	return f.Evaluate(s) == ""
}
