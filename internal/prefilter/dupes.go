package prefilter

import (
	"fmt"

	"github.com/slipstream/crossmatch/internal/logger"
	"github.com/slipstream/crossmatch/internal/searchee"
)

// FilterDupes collapses searchees sharing a name into one. The first one
// seen is kept unless a later one carries an info hash and it does not.
// Output follows the order in which each name first appeared.
func FilterDupes(list []searchee.Searchee, sink logger.Sink) []searchee.Searchee {
	index := make(map[string]int, len(list))
	out := make([]searchee.Searchee, 0, len(list))

	for _, s := range list {
		i, ok := index[s.Name]
		if !ok {
			index[s.Name] = len(out)
			out = append(out, s)
			continue
		}
		if s.HasInfoHash() && !out[i].HasInfoHash() {
			out[i] = s
		}
	}

	if removed := len(list) - len(out); removed > 0 {
		sinkOrNop(sink).Record(logger.VerboseLevel, logger.LabelPrefilter,
			fmt.Sprintf("%d duplicates not selected for searching", removed))
	}
	return out
}
