package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"crosswarped.com/minixw"
	"crosswarped.com/minixw/internal/clues"
	"crosswarped.com/minixw/internal/config"
	"crosswarped.com/minixw/internal/history"
	"crosswarped.com/minixw/pkg/wordstore"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	file := flag.String("file", "", "The file to load words from (overrides config)")
	mask := flag.String("mask", "", "Pin a layout by id (random when unset)")
	seed := flag.Uint64("seed", 0, "Seed for reproducible output (random when unset)")
	attempts := flag.Int("attempts", 0, "Fill attempts per puzzle (0 uses config)")
	timeout := flag.Duration("timeout", 0, "Budget per puzzle (0 uses config)")
	count := flag.Int("count", 1, "How many puzzles to generate")
	historySize := flag.Int("history", 0, "Recently-used-word window size (0 uses config)")
	withClues := flag.Bool("clues", false, "Write clues with Vertex AI, falling back to placeholders")
	jsonOut := flag.Bool("json", false, "Print puzzles as JSON instead of text")

	profile := flag.Bool("profile", false, "Profile the generator")
	profileFile := flag.String("profile-file", "cpu.pprof", "The file to write the CPU profile to")
	memoryProfileFile := flag.String("memory-profile-file", "mem.pprof", "The file to write the memory profile to")

	flag.Parse()

	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		logger = logger.Level(level)
	}

	dictionary := cfg.Dictionary.File
	if *file != "" {
		dictionary = *file
	}
	if dictionary == "" {
		logger.Fatal().Msg("no dictionary; pass -file or set dictionary.file in the config")
	}

	var mf *os.File
	if *profile {
		f, err := os.Create(*profileFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("create profile file")
		}
		defer f.Close()

		mf, err = os.Create(*memoryProfileFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("create memory profile file")
		}
		defer mf.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatal().Err(err).Msg("start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	ctx := context.Background()

	entries, err := wordstore.LoadFile(ctx, dictionary)
	if err != nil {
		logger.Fatal().Err(err).Msg("load dictionary")
	}
	store, err := wordstore.New(entries)
	if err != nil {
		logger.Fatal().Err(err).Msg("index dictionary")
	}
	logger.Info().Str("file", dictionary).Int("words", len(entries)).Msg("dictionary loaded")

	window := cfg.Generator.HistorySize
	if *historySize > 0 {
		window = *historySize
	}
	gen, err := minixw.NewGenerator(store, nil, minixw.Options{
		History: history.NewRolling(window),
		Logger:  logger,
		Solver:  cfg.Generator.SolverParams(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create generator")
	}

	var writer clues.Writer
	if *withClues || cfg.Clues.Enabled {
		writer, err = clues.NewGeminiWriter(ctx, cfg.Clues.Project, cfg.Clues.Region)
		if err != nil {
			logger.Warn().Err(err).Msg("Vertex AI unavailable, using placeholder clues")
			writer = clues.FallbackWriter{}
		}
	}

	maxAttempts := cfg.Generator.MaxAttempts
	if *attempts > 0 {
		maxAttempts = *attempts
	}
	timeoutMs := cfg.Generator.TimeoutMs
	if *timeout > 0 {
		timeoutMs = int(timeout.Milliseconds())
	}

	var bar *progressbar.ProgressBar
	if *count > 1 && !*jsonOut {
		bar = progressbar.Default(int64(*count))
	}

	puzzles := make([]*minixw.Puzzle, 0, *count)
	failed := 0
	for i := 0; i < *count; i++ {
		req := minixw.Request{
			MaskID:      *mask,
			MaxAttempts: maxAttempts,
			TimeoutMs:   timeoutMs,
		}
		if seedSet {
			s := *seed + uint64(i)
			req.Seed = &s
		}

		p, err := gen.Generate(ctx, req)
		if err != nil {
			var genErr *minixw.GenerateError
			if *count == 1 || !errors.As(err, &genErr) {
				logger.Fatal().Err(err).Msg("generate")
			}
			// In bulk mode an exhausted budget skips the puzzle, not
			// the batch.
			failed++
			logger.Warn().Int("puzzle", i+1).Int("attempts", genErr.Attempts).Msg("no puzzle found")
			if bar != nil {
				bar.Add(1)
			}
			continue
		}
		if writer != nil {
			if err := clues.Annotate(ctx, writer, p); err != nil {
				logger.Warn().Err(err).Msg("clue annotation failed, using placeholders")
				clues.Annotate(ctx, clues.FallbackWriter{}, p)
			}
		}
		puzzles = append(puzzles, p)
		if bar != nil {
			bar.Add(1)
		}
	}

	if *count > 1 {
		logger.Info().Int("generated", len(puzzles)).Int("failed", failed).Msg("batch complete")
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		var payload any = puzzles
		if len(puzzles) == 1 {
			payload = puzzles[0]
		}
		if err := enc.Encode(payload); err != nil {
			logger.Fatal().Err(err).Msg("encode puzzles")
		}
		return
	}

	for _, p := range puzzles {
		printPuzzle(p)
	}
}

func printPuzzle(p *minixw.Puzzle) {
	fmt.Println("--------------------------------")
	fmt.Printf("layout %s | seed %d | attempt %d | %dms\n\n",
		p.Meta.MaskID, p.Meta.Seed, p.Meta.Attempts, p.Meta.GenerationTimeMs)
	for _, row := range p.Grid {
		fmt.Println(strings.Join(row, " "))
	}
	fmt.Println("\nAcross")
	for _, e := range p.Across {
		printEntry(e)
	}
	fmt.Println("\nDown")
	for _, e := range p.Down {
		printEntry(e)
	}
	fmt.Println()
}

func printEntry(e minixw.PuzzleEntry) {
	if e.Clue != "" {
		fmt.Printf("%2d. %-5s  %s\n", e.Number, e.Answer, e.Clue)
		return
	}
	fmt.Printf("%2d. %s\n", e.Number, e.Answer)
}
