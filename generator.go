// Package minixw generates filled 5x5 mini crossword grids from a
// frequency-ranked word bank.
//
// A Generator owns the dictionary and the layout catalog. Each call to
// Generate runs independent fill attempts, one fresh grid per attempt,
// until a backtracking search fills every slot or the request budget
// runs out. All randomness flows from the request seed, so a request
// with a pinned seed reproduces its puzzle exactly.
package minixw

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"crosswarped.com/minixw/internal/masks"
	"crosswarped.com/minixw/pkg/wordstore"
)

// Request budget defaults.
const (
	DefaultMaxAttempts = 20
	DefaultTimeoutMs   = 5000
)

// Request selects what to generate. The zero value asks for a puzzle
// on a random layout with a random seed and the default budgets.
type Request struct {
	// Seed makes the run reproducible. When nil, a random seed is
	// drawn and echoed in the result's Meta.
	Seed *uint64 `json:"seed,omitempty"`
	// MaskID pins the layout. When empty, every attempt draws a fresh
	// layout from the catalog.
	MaskID string `json:"maskId,omitempty"`
	// MaxAttempts caps how many fill attempts one run may make.
	MaxAttempts int `json:"maxAttempts,omitempty"`
	// TimeoutMs bounds the whole run in wall-clock milliseconds.
	TimeoutMs int `json:"timeoutMs,omitempty"`
}

// GenerateError reports a run that used up its attempt or time budget
// without finding a fill.
type GenerateError struct {
	Attempts int
	Elapsed  time.Duration
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("no puzzle found after %d attempts in %s", e.Attempts, e.Elapsed.Round(time.Millisecond))
}

// Options tunes a Generator beyond its required collaborators.
type Options struct {
	// History filters answers that recent puzzles used. Optional.
	History WordHistory
	// Logger receives attempt-level diagnostics. The zero value
	// discards everything.
	Logger zerolog.Logger
	// Solver bounds each fill attempt.
	Solver SolverParams
}

// Generator produces puzzles from a word store and a layout catalog.
// It is safe for concurrent use as long as the store is initialized
// before the first call.
type Generator struct {
	store   *wordstore.Store
	catalog *masks.Catalog
	history WordHistory
	logger  zerolog.Logger
	solver  SolverParams
}

// NewGenerator wires a generator. A nil catalog selects the built-in
// layouts.
func NewGenerator(store *wordstore.Store, catalog *masks.Catalog, opts Options) (*Generator, error) {
	if store == nil {
		return nil, errors.New("nil word store")
	}
	if catalog == nil {
		catalog = masks.Default()
	}
	if catalog.Len() == 0 {
		return nil, errors.New("empty layout catalog")
	}
	return &Generator{
		store:   store,
		catalog: catalog,
		history: opts.History,
		logger:  opts.Logger,
		solver:  opts.Solver,
	}, nil
}

// Generate runs fill attempts until one succeeds or the request budget
// runs out. Search-level failures (exhausted space, node budget,
// deadline) turn into retries on a fresh grid; only dictionary or
// layout problems surface as immediate errors. When no attempt fills
// within the budget the result is a *GenerateError.
func (g *Generator) Generate(ctx context.Context, req Request) (*Puzzle, error) {
	maxAttempts := req.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	timeout := time.Duration(req.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = DefaultTimeoutMs * time.Millisecond
	}

	var seed uint64
	if req.Seed != nil {
		seed = *req.Seed
	} else {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, 1024))

	if req.MaskID != "" {
		if _, err := g.catalog.Get(req.MaskID); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	deadline := start.Add(timeout)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	attempts := 0
	for attempts < maxAttempts {
		if ctx.Err() != nil {
			break
		}
		attempts++

		var mask masks.Mask
		if req.MaskID != "" {
			mask, _ = g.catalog.Get(req.MaskID)
		} else {
			mask = g.catalog.Random(rng)
		}

		grid, err := NewGrid(mask)
		if err != nil {
			return nil, err
		}

		s := newSolver(grid, g.store, rng, g.history, g.solver, deadline)
		solved, reason, err := s.solve(ctx)
		if err != nil {
			return nil, err
		}
		if !solved {
			g.logger.Debug().
				Int("attempt", attempts).
				Str("layout", mask.ID).
				Stringer("reason", reason).
				Int("nodes", s.nodes).
				Msg("fill attempt failed")
			continue
		}

		meta := Meta{
			MaskID:           mask.ID,
			Seed:             seed,
			Attempts:         attempts,
			GenerationTimeMs: time.Since(start).Milliseconds(),
		}
		puzzle, err := AssemblePuzzle(grid, meta)
		if err != nil {
			return nil, err
		}
		if g.history != nil {
			g.history.Remember(grid.PlacedWords()...)
		}
		g.logger.Info().
			Int("attempt", attempts).
			Str("layout", mask.ID).
			Uint64("seed", seed).
			Int64("ms", meta.GenerationTimeMs).
			Msg("puzzle generated")
		return puzzle, nil
	}

	elapsed := time.Since(start)
	g.logger.Warn().
		Int("attempts", attempts).
		Dur("elapsed", elapsed).
		Msg("generation budget exhausted")
	return nil, &GenerateError{Attempts: attempts, Elapsed: elapsed}
}
