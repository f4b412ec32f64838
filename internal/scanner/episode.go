package scanner

import (
	"regexp"
)

// Episode tokens must be delimited so that codecs and resolutions such as
// x264 or 1920x1080 are not mistaken for them.
var (
	// Show.S01E02, Show s1e2, Show.S01.E02, Show.S01E02E03
	episodePatternSE = regexp.MustCompile(`(?i)(?:^|[\.\s_\-\[\(/])(s\d{1,4}[\.\s_-]?e\d{1,4}(?:[\.\s_-]?e\d{1,4})*)(?:[\.\s_\-\]\)]|$)`)

	// Show.1x02
	episodePatternX = regexp.MustCompile(`(?i)(?:^|[\.\s_\-\[\(/])(\d{1,2}x\d{2,3})(?:[\.\s_\-\]\)]|$)`)

	// Air dates are not episode numbering; a dated concert or documentary is
	// a single release, not an episode.
	episodePatterns = []*regexp.Regexp{episodePatternSE, episodePatternX}
)

// EpisodeToken returns the episode-numbering token found in name, or "" if
// there is none.
func EpisodeToken(name string) string {
	for _, p := range episodePatterns {
		if match := p.FindStringSubmatch(name); match != nil {
			return match[1]
		}
	}
	return ""
}

// IsEpisode reports whether name carries an episode-numbering token.
func IsEpisode(name string) bool {
	return EpisodeToken(name) != ""
}
