package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"crosswarped.com/minixw"
	"crosswarped.com/minixw/pkg/wordstore"
)

func newTestServer(t testing.TB) *server {
	t.Helper()
	entries, err := wordstore.LoadFile(t.Context(), filepath.Join("..", "testdata", "words.txt"))
	require.NoError(t, err)
	store, err := wordstore.New(entries)
	require.NoError(t, err)
	gen, err := minixw.NewGenerator(store, nil, minixw.Options{})
	require.NoError(t, err)
	return &server{gen: gen, logger: zerolog.Nop()}
}

func postGenerate(t testing.TB, srv *server, body string) (*httptest.ResponseRecorder, GenerateResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	srv.handleGenerate(rec, req)

	var resp GenerateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestHandleGenerate(t *testing.T) {
	srv := newTestServer(t)
	rec, resp := postGenerate(t, srv, `{"seed":42,"maskId":"staircase","maxAttempts":50,"timeoutMs":10000}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success, "error: %s", resp.Error)
	require.Len(t, resp.Puzzles, 1)

	p := resp.Puzzles[0]
	require.Equal(t, "staircase", p.Meta.MaskID)
	require.EqualValues(t, 42, p.Meta.Seed)
	require.Len(t, p.Grid, 5)
	require.NotEmpty(t, p.Across)
	require.NotEmpty(t, p.Down)
}

func TestHandleGenerate_MultiplePuzzles(t *testing.T) {
	srv := newTestServer(t)
	rec, resp := postGenerate(t, srv, `{"seed":7,"maskId":"staircase","maxAttempts":50,"timeoutMs":10000,"count":2}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success, "error: %s", resp.Error)
	require.Len(t, resp.Puzzles, 2)
	require.EqualValues(t, 7, resp.Puzzles[0].Meta.Seed)
	require.EqualValues(t, 8, resp.Puzzles[1].Meta.Seed)
}

func TestHandleGenerate_CountTooLarge(t *testing.T) {
	srv := newTestServer(t)
	rec, resp := postGenerate(t, srv, `{"count":99}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, resp.Success)
	require.Contains(t, resp.Error, "at most")
}

func TestHandleGenerate_UnknownLayout(t *testing.T) {
	srv := newTestServer(t)
	rec, resp := postGenerate(t, srv, `{"maskId":"spiral"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.False(t, resp.Success)
	require.Contains(t, resp.Error, "spiral")
}

func TestHandleGenerate_BadJSON(t *testing.T) {
	srv := newTestServer(t)
	rec, resp := postGenerate(t, srv, `{"seed":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, resp.Success)
	require.Contains(t, resp.Error, "invalid JSON")
}

func TestHandleGenerate_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/generate", nil)
	srv.handleGenerate(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleGenerate_Preflight(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	srv.handleGenerate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Empty(t, rec.Body.String())
}

type stubClueWriter struct{}

func (stubClueWriter) Clues(_ context.Context, answers []string) (map[string]string, error) {
	out := make(map[string]string, len(answers))
	for _, a := range answers {
		out[a] = "clue for " + strings.ToLower(a)
	}
	return out, nil
}

func TestHandleGenerate_WithClues(t *testing.T) {
	srv := newTestServer(t)
	srv.clues = stubClueWriter{}
	rec, resp := postGenerate(t, srv, `{"seed":42,"maskId":"staircase","maxAttempts":50,"timeoutMs":10000,"clues":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success, "error: %s", resp.Error)
	require.Len(t, resp.Puzzles, 1)
	for _, entry := range resp.Puzzles[0].Across {
		require.NotEmpty(t, entry.Clue)
	}
}
