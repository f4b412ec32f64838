package searchee

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_YAMLList(t *testing.T) {
	in := `
- name: Show.S01E02.1080p
  infoHash: ABCDEF
  files:
    - name: Show.S01E02.1080p.mkv
      length: 100
- name: Movie.2020
  files:
    - name: Movie.2020.mkv
    - name: Movie.2020.nfo
`
	list, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "abcdef", list[0].InfoHash)
	assert.True(t, list[0].HasInfoHash())
	assert.Equal(t, int64(100), list[0].Size())
	assert.False(t, list[1].HasInfoHash())
	assert.Equal(t, []string{"Movie.2020.mkv", "Movie.2020.nfo"}, list[1].FileNames())
}

func TestDecode_JSONBatch(t *testing.T) {
	in := `{"searchees": [{"name": "A", "files": [{"name": "a.mkv"}]}]}`

	list, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Name)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"missing name", `[{"files": [{"name": "a.mkv"}]}]`, ErrMissingName},
		{"no files", `[{"name": "A"}]`, ErrNoFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := Decode(strings.NewReader(`[{"name": "A"`))
	assert.Error(t, err)
}

func TestDecode_Empty(t *testing.T) {
	list, err := Decode(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "searchees.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "A", "files": [{"name": "a.mkv"}]}]`), 0o600))

	list, err := NewFileSource(path).Searchees(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = NewFileSource(filepath.Join(t.TempDir(), "missing.yaml")).Searchees(context.Background())
	assert.Error(t, err)
}

func TestStaticSource_Copies(t *testing.T) {
	src := StaticSource{{Name: "A"}}

	list, err := src.Searchees(context.Background())
	require.NoError(t, err)
	list[0].Name = "B"

	assert.Equal(t, "A", src[0].Name)
}
