package wordstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDictionary = `# frequency-ranked test dictionary
cat;500

car;300
CAN;100
broken line without separator
ghost;not-a-number
negative;-5
  dog ; 400
`

func TestParseReader(t *testing.T) {
	entries, err := ParseReader(strings.NewReader(sampleDictionary))
	require.NoError(t, err)

	assert.Equal(t, []Entry{
		{Word: "cat", Frequency: 500},
		{Word: "car", Frequency: 300},
		{Word: "can", Frequency: 100},
		{Word: "dog", Frequency: 400},
	}, entries, "malformed lines must be skipped, not fatal")
}

func TestParseReader_Empty(t *testing.T) {
	entries, err := ParseReader(strings.NewReader("# only a comment\n\n"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleDictionary), 0o644))

	entries, err := LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	s, err := New(entries)
	require.NoError(t, err)
	assert.True(t, s.Contains(3, "dog"))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dictionary")
}

func TestLoadFile_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleDictionary), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadFile(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
