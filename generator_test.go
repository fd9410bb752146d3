package minixw

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosswarped.com/minixw/internal/history"
	"crosswarped.com/minixw/internal/masks"
	"crosswarped.com/minixw/pkg/wordstore"
)

func loadBank(t testing.TB) *wordstore.Store {
	t.Helper()
	entries, err := wordstore.LoadFile(context.Background(), "testdata/words.txt")
	if err != nil {
		t.Fatalf("failed to load word bank: %v", err)
	}
	store, err := wordstore.New(entries)
	if err != nil {
		t.Fatalf("failed to index word bank: %v", err)
	}
	return store
}

func newTestGenerator(t *testing.T, opts Options) *Generator {
	t.Helper()
	gen, err := NewGenerator(loadBank(t), nil, opts)
	require.NoError(t, err)
	return gen
}

func seedOf(v uint64) *uint64 {
	return &v
}

func TestGenerate_Staircase(t *testing.T) {
	gen := newTestGenerator(t, Options{})

	p, err := gen.Generate(t.Context(), Request{
		Seed:        seedOf(42),
		MaskID:      "staircase",
		MaxAttempts: 50,
		TimeoutMs:   10000,
	})
	require.NoError(t, err)

	assert.Equal(t, "staircase", p.Meta.MaskID)
	assert.Equal(t, uint64(42), p.Meta.Seed)
	assert.GreaterOrEqual(t, p.Meta.Attempts, 1)
	assert.Len(t, p.Across, 5)
	assert.Len(t, p.Down, 5)

	// Every answer is distinct and comes from the bank.
	store := loadBank(t)
	seen := make(map[string]bool)
	for _, answer := range p.Answers() {
		assert.False(t, seen[answer], "answer %q appears twice", answer)
		seen[answer] = true
		word := strings.ToLower(answer)
		assert.True(t, store.Contains(len(word), word), "answer %q not in bank", answer)
	}

	// The grid is fully resolved: letters and black squares only.
	for r, row := range p.Grid {
		for c, cell := range row {
			assert.Len(t, cell, 1, "cell (%d, %d)", r, c)
			assert.NotEqual(t, ".", cell, "cell (%d, %d) left unfilled", r, c)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	req := Request{Seed: seedOf(7), MaskID: "staircase", MaxAttempts: 50, TimeoutMs: 10000}

	run := func() *Puzzle {
		gen := newTestGenerator(t, Options{})
		p, err := gen.Generate(t.Context(), req)
		require.NoError(t, err)
		return p
	}

	first, second := run(), run()
	assert.Equal(t, first.Grid, second.Grid)
	assert.Equal(t, first.Answers(), second.Answers())
	assert.Equal(t, first.Meta.Attempts, second.Meta.Attempts)
}

func TestGenerate_OpenLayoutTerminates(t *testing.T) {
	// The all-white grid is the hardest layout; it needs ten distinct
	// five-letter answers agreeing on all 25 cells. The contract is
	// termination within budget with either a puzzle or a typed
	// failure, not success.
	gen := newTestGenerator(t, Options{})

	p, err := gen.Generate(t.Context(), Request{
		Seed:        seedOf(42),
		MaskID:      "open",
		MaxAttempts: 50,
		TimeoutMs:   10000,
	})
	if err != nil {
		var genErr *GenerateError
		require.ErrorAs(t, err, &genErr)
		assert.GreaterOrEqual(t, genErr.Attempts, 1)
		assert.Greater(t, genErr.Elapsed, time.Duration(0))
		return
	}
	assert.Len(t, p.Across, 5)
	assert.Len(t, p.Down, 5)
}

func TestGenerate_RandomLayout(t *testing.T) {
	gen := newTestGenerator(t, Options{})

	p, err := gen.Generate(t.Context(), Request{Seed: seedOf(3), TimeoutMs: 10000})
	if err != nil {
		var genErr *GenerateError
		require.ErrorAs(t, err, &genErr)
		return
	}
	assert.Contains(t, masks.Default().IDs(), p.Meta.MaskID)
}

func TestGenerate_UnknownLayout(t *testing.T) {
	gen := newTestGenerator(t, Options{})

	_, err := gen.Generate(t.Context(), Request{MaskID: "spiral"})
	assert.ErrorIs(t, err, masks.ErrNotFound)
}

func TestGenerate_ReportsAnswersToHistory(t *testing.T) {
	recent := history.NewRolling(64)
	gen := newTestGenerator(t, Options{History: recent})

	p, err := gen.Generate(t.Context(), Request{
		Seed:        seedOf(42),
		MaskID:      "staircase",
		MaxAttempts: 50,
		TimeoutMs:   10000,
	})
	require.NoError(t, err)

	for _, answer := range p.Answers() {
		assert.True(t, recent.IsRecentlyUsed(strings.ToLower(answer)), "answer %q not remembered", answer)
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	gen := newTestGenerator(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, Request{MaskID: "staircase"})

	var genErr *GenerateError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 0, genErr.Attempts)
}

func TestGenerateError_Message(t *testing.T) {
	err := &GenerateError{Attempts: 3, Elapsed: 1250 * time.Millisecond}
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestNewGenerator_Validation(t *testing.T) {
	_, err := NewGenerator(nil, nil, Options{})
	assert.Error(t, err)

	_, err = NewGenerator(loadBank(t), masks.NewCatalog(), Options{})
	assert.Error(t, err)
}

func BenchmarkGenerate(b *testing.B) {
	store := loadBank(b)
	gen, err := NewGenerator(store, nil, Options{})
	if err != nil {
		b.Fatalf("failed to build generator: %v", err)
	}
	b.ReportAllocs()

	var attempts int64
	var seed uint64
	for b.Loop() {
		seed++
		p, err := gen.Generate(context.Background(), Request{
			Seed:        &seed,
			MaskID:      "staircase",
			MaxAttempts: 50,
			TimeoutMs:   10000,
		})
		if err != nil {
			b.Fatalf("seed %d: %v", seed, err)
		}
		attempts += int64(p.Meta.Attempts)
	}
	b.ReportMetric(float64(attempts)/float64(b.N), "attempts/op")
}
