package wordstore

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// parseLine turns one "word;frequency" line into an Entry. Blank lines,
// comments and malformed lines report ok=false and are skipped by callers.
func parseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Entry{}, false
	}
	word, freqText, found := strings.Cut(line, ";")
	if !found {
		return Entry{}, false
	}
	freq, err := strconv.Atoi(strings.TrimSpace(freqText))
	if err != nil || freq < 0 {
		return Entry{}, false
	}
	return Entry{Word: strings.ToLower(strings.TrimSpace(word)), Frequency: freq}, true
}

// ParseReader reads a word;frequency dictionary from r. Malformed lines are
// skipped, not fatal.
func ParseReader(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)

	var entries []Entry
	for scanner.Scan() {
		if e, ok := parseLine(scanner.Text()); ok {
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan dictionary: %w", err)
	}
	return entries, nil
}

// LoadFile reads a word;frequency dictionary from disk, checking ctx between
// lines so a large file cannot outlive a cancelled caller.
func LoadFile(ctx context.Context, path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)

	var entries []Entry
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e, ok := parseLine(scanner.Text()); ok {
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan dictionary %s: %w", path, err)
	}
	return entries, nil
}
