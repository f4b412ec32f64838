// Package prefilter decides which searchees are submitted to search
// providers during a run.
package prefilter

import (
	"fmt"

	"github.com/slipstream/crossmatch/internal/logger"
)

// Reason names the rule that rejected a searchee. The empty Reason means accepted.
type Reason string

const (
	ReasonSingleEpisode  Reason = "single_episode"
	ReasonNonVideo       Reason = "non_video"
	ReasonDuplicate      Reason = "duplicate"
	ReasonSearchedTooOld Reason = "first_search_too_old"
	ReasonSearchedRecent Reason = "searched_recently"
)

func logReason(sink logger.Sink, name, reason string) {
	sink.Record(logger.VerboseLevel, logger.LabelPrefilter,
		fmt.Sprintf("Torrent %s was not selected for searching because %s", name, reason))
}

func sinkOrNop(sink logger.Sink) logger.Sink {
	if sink == nil {
		return logger.Nop()
	}
	return sink
}
