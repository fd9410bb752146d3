// Package clues writes clues for finished puzzles.
//
// The Gemini writer asks Vertex AI for one clue per answer. The
// fallback writer produces deterministic placeholder clues so puzzles
// stay usable without GCP credentials.
package clues

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"crosswarped.com/minixw"
)

const (
	defaultRegion = "us-central1"
	defaultModel  = "gemini-2.5-flash"
)

// Writer produces one clue per answer.
type Writer interface {
	Clues(ctx context.Context, answers []string) (map[string]string, error)
}

const cluePrompt = `Write one short crossword clue for each of these answers.
Keep every clue under eight words and never use the answer in its own clue.
Respond ONLY with a JSON object mapping each answer to its clue.

Answers: %s`

// GeminiWriter asks a Vertex AI model for clues.
type GeminiWriter struct {
	client *genai.Client
	model  string
}

// NewGeminiWriter creates a writer using Application Default
// Credentials.
func NewGeminiWriter(ctx context.Context, projectID, region string) (*GeminiWriter, error) {
	if region == "" {
		region = defaultRegion
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiWriter{client: client, model: defaultModel}, nil
}

func (w *GeminiWriter) Clues(ctx context.Context, answers []string) (map[string]string, error) {
	resp, err := w.client.Models.GenerateContent(ctx, w.model,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: fmt.Sprintf(cluePrompt, strings.Join(answers, ", "))}},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.7)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty gemini response")
	}

	var clues map[string]string
	if err := json.Unmarshal([]byte(text), &clues); err != nil {
		return nil, fmt.Errorf("parse clues JSON: %w", err)
	}
	return clues, nil
}

// FallbackWriter produces placeholder clues of the form "3-letter
// word". Deterministic and offline.
type FallbackWriter struct{}

func (FallbackWriter) Clues(_ context.Context, answers []string) (map[string]string, error) {
	clues := make(map[string]string, len(answers))
	for _, a := range answers {
		clues[a] = fmt.Sprintf("%d-letter word", len(a))
	}
	return clues, nil
}

// Annotate fills the Clue field of every puzzle entry using w. Answers
// the writer does not cover keep an empty clue.
func Annotate(ctx context.Context, w Writer, p *minixw.Puzzle) error {
	clues, err := w.Clues(ctx, p.Answers())
	if err != nil {
		return err
	}
	apply := func(entries []minixw.PuzzleEntry) {
		for i := range entries {
			if clue, ok := clues[entries[i].Answer]; ok {
				entries[i].Clue = clue
			}
		}
	}
	apply(p.Across)
	apply(p.Down)
	return nil
}
