package scanner

import (
	"path"
	"strings"
)

// VideoExtensions contains the recognised video file extensions.
// Matching is case-sensitive.
var VideoExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".avi":  true,
	".m4v":  true,
	".ts":   true,
	".wmv":  true,
	".mov":  true,
	".webm": true,
	".flv":  true,
	".mpg":  true,
	".mpeg": true,
	".m2ts": true,
	".vob":  true,
	".iso":  true,
}

// Extension returns the suffix of name starting at its final dot, or "" if
// the last path element has no dot or only a leading one (".mkv").
// Torrent file paths always use "/".
func Extension(name string) string {
	base := name[strings.LastIndex(name, "/")+1:]
	ext := path.Ext(base)
	if ext == base {
		return ""
	}
	return ext
}

// IsVideoFile checks if a filename has a video extension.
func IsVideoFile(name string) bool {
	return VideoExtensions[Extension(name)]
}

// AllVideos reports whether every name is a video file. It is true for an
// empty list.
func AllVideos(names []string) bool {
	for _, name := range names {
		if !IsVideoFile(name) {
			return false
		}
	}
	return true
}
