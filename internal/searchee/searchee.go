// Package searchee defines the candidate releases evaluated for searching.
package searchee

import "context"

// File is one file inside a searchee.
type File struct {
	Name   string `json:"name" yaml:"name"`
	Length int64  `json:"length,omitempty" yaml:"length,omitempty"`
}

// Searchee is a candidate release. A non-empty InfoHash means it is backed
// by a torrent in the client rather than guessed from a name.
type Searchee struct {
	Name     string `json:"name" yaml:"name"`
	InfoHash string `json:"infoHash,omitempty" yaml:"infoHash,omitempty"`
	Files    []File `json:"files" yaml:"files"`
}

// HasInfoHash reports whether the searchee is torrent-backed.
func (s Searchee) HasInfoHash() bool {
	return s.InfoHash != ""
}

// FileNames returns the names of the searchee's files in order.
func (s Searchee) FileNames() []string {
	names := make([]string, len(s.Files))
	for i, f := range s.Files {
		names[i] = f.Name
	}
	return names
}

// Size returns the summed length of all files.
func (s Searchee) Size() int64 {
	var total int64
	for _, f := range s.Files {
		total += f.Length
	}
	return total
}

// Source yields the searchees for one discovery pass.
type Source interface {
	Searchees(ctx context.Context) ([]Searchee, error)
}

// StaticSource serves a fixed list.
type StaticSource []Searchee

// Searchees returns a copy of the list.
func (s StaticSource) Searchees(context.Context) ([]Searchee, error) {
	out := make([]Searchee, len(s))
	copy(out, s)
	return out, nil
}
