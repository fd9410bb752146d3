package minixw

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledStaircase(t *testing.T) *Grid {
	t.Helper()
	g := staircaseGrid(t)
	for id, word := range map[int]string{0: "she", 1: "pea", 2: "arson", 3: "era", 4: "leg"} {
		require.NoError(t, g.PlaceWord(id, word))
	}
	return g
}

func entryNumbers(entries []PuzzleEntry) []int {
	numbers := make([]int, len(entries))
	for i, e := range entries {
		numbers[i] = e.Number
	}
	return numbers
}

func entryAnswers(entries []PuzzleEntry) []string {
	answers := make([]string, len(entries))
	for i, e := range entries {
		answers[i] = e.Answer
	}
	return answers
}

func TestAssemblePuzzle(t *testing.T) {
	g := filledStaircase(t)
	meta := Meta{MaskID: "staircase", Seed: 42, Attempts: 1, GenerationTimeMs: 7}

	p, err := AssemblePuzzle(g, meta)
	require.NoError(t, err)

	assert.Equal(t, meta, p.Meta)
	assert.Equal(t, []string{"S", "H", "E", "#", "#"}, p.Grid[0])
	assert.Equal(t, []string{"A", "R", "S", "O", "N"}, p.Grid[2])
	assert.Equal(t, []string{"#", "#", "E", "R", "A"}, p.Grid[3])

	assert.Equal(t, []int{1, 4, 5, 8, 9}, entryNumbers(p.Across))
	assert.Equal(t, []string{"SHE", "PEA", "ARSON", "ERA", "LEG"}, entryAnswers(p.Across))
	assert.Equal(t, []int{1, 2, 3, 6, 7}, entryNumbers(p.Down))
	assert.Equal(t, []string{"SPA", "HER", "EASEL", "ORE", "NAG"}, entryAnswers(p.Down))

	first := p.Across[0]
	assert.Equal(t, 0, first.Row)
	assert.Equal(t, 0, first.Col)
	assert.Equal(t, 3, first.Length)
	assert.Equal(t, "she", first.Pattern)
	assert.Empty(t, first.Clue)

	six := p.Down[3]
	assert.Equal(t, 6, six.Number)
	assert.Equal(t, 2, six.Row)
	assert.Equal(t, 3, six.Col)

	assert.Len(t, p.Answers(), 10)
}

func TestAssemblePuzzle_DoesNotMutateGrid(t *testing.T) {
	g := filledStaircase(t)
	before := g.Repr()

	_, err := AssemblePuzzle(g, Meta{})
	require.NoError(t, err)

	assert.Equal(t, before, g.Repr())
}

func TestAssemblePuzzle_IncompleteGrid(t *testing.T) {
	g := staircaseGrid(t)

	_, err := AssemblePuzzle(g, Meta{})
	assert.ErrorIs(t, err, ErrIncompleteGrid)

	require.NoError(t, g.PlaceWord(0, "she"))
	_, err = AssemblePuzzle(g, Meta{})
	assert.ErrorIs(t, err, ErrIncompleteGrid)
}

func TestPuzzle_JSONShape(t *testing.T) {
	g := filledStaircase(t)
	p, err := AssemblePuzzle(g, Meta{MaskID: "staircase", Seed: 1})
	require.NoError(t, err)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, `"maskId":"staircase"`)
	assert.Contains(t, body, `"generationTimeMs"`)
	assert.Contains(t, body, `"answer":"SHE"`)
	assert.NotContains(t, body, `"clue"`, "empty clues are omitted")
}
