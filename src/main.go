package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"

	"crosswarped.com/minixw"
	"crosswarped.com/minixw/internal/clues"
	"crosswarped.com/minixw/internal/config"
	"crosswarped.com/minixw/internal/history"
	"crosswarped.com/minixw/pkg/wordstore"
)

// maxPuzzles caps how many puzzles a single request may ask for.
const maxPuzzles = 10

type GenerateRequest struct {
	minixw.Request
	Count int  `json:"count,omitempty"`
	Clues bool `json:"clues,omitempty"`
}

type GenerateResponse struct {
	Success bool             `json:"success"`
	Puzzles []*minixw.Puzzle `json:"puzzles,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type server struct {
	gen    *minixw.Generator
	clues  clues.Writer
	logger zerolog.Logger
}

// queryBank loads the word bank from a BigQuery table named as
// project.dataset.table with word and frequency columns.
func queryBank(ctx context.Context, table string) ([]wordstore.Entry, error) {
	project, _, ok := strings.Cut(table, ".")
	if !ok {
		return nil, fmt.Errorf("dictionary table %q must be project.dataset.table", table)
	}
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	defer client.Close()

	query := fmt.Sprintf("SELECT word, frequency FROM `%s` WHERE LENGTH(word) BETWEEN %d AND %d",
		table, wordstore.MinLength, wordstore.MaxLength)
	q := client.Query(query)
	q.Location = "US"

	job, err := q.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.Run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Wait: %w", err)
	}
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("status.Err: %w", err)
	}
	it, err := job.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("job.Read: %w", err)
	}

	var entries []wordstore.Entry
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("it.Next: %w", err)
		}

		word, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("row[0] is not a string: %v", row[0])
		}
		freq, ok := row[1].(int64)
		if !ok {
			return nil, fmt.Errorf("row[1] is not an integer: %v", row[1])
		}
		entries = append(entries, wordstore.Entry{Word: word, Frequency: int(freq)})
	}
	return entries, nil
}

// buildStore loads the dictionary from whichever source the
// configuration names, preferring BigQuery over a local file.
func buildStore(ctx context.Context, cfg *config.Config) (*wordstore.Store, error) {
	var entries []wordstore.Entry
	var err error
	switch {
	case cfg.Dictionary.Table != "":
		entries, err = queryBank(ctx, cfg.Dictionary.Table)
	case cfg.Dictionary.File != "":
		entries, err = wordstore.LoadFile(ctx, cfg.Dictionary.File)
	default:
		return nil, fmt.Errorf("no dictionary source configured; set dictionary.table or dictionary.file")
	}
	if err != nil {
		return nil, err
	}
	return wordstore.New(entries)
}

func (s *server) execute(ctx context.Context, req GenerateRequest) ([]*minixw.Puzzle, error) {
	count := req.Count
	if count <= 0 {
		count = 1
	}
	if count > maxPuzzles {
		return nil, fmt.Errorf("count must be at most %d", maxPuzzles)
	}

	// Leave slack before the platform deadline so the response still
	// gets written.
	timeout := time.Minute
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline) - 5*time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	puzzles := make([]*minixw.Puzzle, 0, count)
	for i := 0; i < count; i++ {
		inner := req.Request
		if inner.Seed != nil && i > 0 {
			seed := *inner.Seed + uint64(i)
			inner.Seed = &seed
		}
		p, err := s.gen.Generate(ctx, inner)
		if err != nil {
			return puzzles, err
		}
		if req.Clues && s.clues != nil {
			if err := clues.Annotate(ctx, s.clues, p); err != nil {
				s.logger.Warn().Err(err).Msg("clue annotation failed, using placeholders")
				clues.Annotate(ctx, clues.FallbackWriter{}, p)
			}
		}
		puzzles = append(puzzles, p)
	}
	return puzzles, nil
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Content-Type", "application/json")
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		s.writeResponse(w, http.StatusMethodNotAllowed, GenerateResponse{
			Error: fmt.Sprintf("method %s not allowed", r.Method),
		})
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn().Err(err).Msg("bad request body")
		s.writeResponse(w, http.StatusBadRequest, GenerateResponse{
			Error: fmt.Sprintf("invalid JSON: %v", err),
		})
		return
	}

	puzzles, err := s.execute(r.Context(), req)
	resp := GenerateResponse{Success: err == nil, Puzzles: puzzles}
	if err != nil {
		resp.Error = err.Error()
		s.logger.Error().Err(err).Msg("generate failed")
	}
	s.writeResponse(w, http.StatusOK, resp)
}

func (s *server) writeResponse(w http.ResponseWriter, status int, resp GenerateResponse) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		logger = logger.Level(level)
	}

	ctx := context.Background()
	store, err := buildStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("load dictionary")
	}

	var writer clues.Writer
	if cfg.Clues.Enabled {
		writer, err = clues.NewGeminiWriter(ctx, cfg.Clues.Project, cfg.Clues.Region)
		if err != nil {
			logger.Fatal().Err(err).Msg("create clue writer")
		}
	}

	gen, err := minixw.NewGenerator(store, nil, minixw.Options{
		History: history.NewRolling(cfg.Generator.HistorySize),
		Logger:  logger,
		Solver:  cfg.Generator.SolverParams(),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create generator")
	}

	srv := &server{gen: gen, clues: writer, logger: logger}
	funcframework.RegisterHTTPFunction("/generate", srv.handleGenerate)

	port := "8080"
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}
	hostname := ""
	if os.Getenv("LOCAL_ONLY") == "true" {
		hostname = "127.0.0.1"
	}
	if err := funcframework.StartHostPort(hostname, port); err != nil {
		logger.Fatal().Err(err).Msg("funcframework.StartHostPort")
	}
}
