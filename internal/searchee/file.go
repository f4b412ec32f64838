package searchee

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingName = errors.New("searchee has no name")
	ErrNoFiles     = errors.New("searchee has no files")
)

// batch is the on-disk layout. A bare list is accepted as well.
type batch struct {
	Searchees []Searchee `yaml:"searchees"`
}

// Decode reads searchees from YAML or JSON.
func Decode(r io.Reader) ([]Searchee, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read searchees: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Searchee{}, nil
	}

	var list []Searchee
	if err := yaml.Unmarshal(data, &list); err != nil {
		var b batch
		if err2 := yaml.Unmarshal(data, &b); err2 != nil {
			return nil, fmt.Errorf("failed to decode searchees: %w", err)
		}
		list = b.Searchees
	}

	for i := range list {
		if err := validate(list[i]); err != nil {
			return nil, fmt.Errorf("searchee %d: %w", i, err)
		}
		list[i].InfoHash = strings.ToLower(strings.TrimSpace(list[i].InfoHash))
	}
	return list, nil
}

func validate(s Searchee) error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrMissingName
	}
	if len(s.Files) == 0 {
		return fmt.Errorf("%w: %q", ErrNoFiles, s.Name)
	}
	return nil
}

// FileSource reads searchees from a YAML or JSON file on every pass.
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Searchees reads and decodes the file.
func (s *FileSource) Searchees(ctx context.Context) ([]Searchee, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open searchee file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}
