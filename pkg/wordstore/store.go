// Package wordstore holds the frequency-annotated dictionary behind puzzle
// generation and answers pattern queries ("3-letter words with 'a' at
// position 0") from a positional index instead of scanning full word lists.
package wordstore

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

const (
	// MinLength and MaxLength bound the usable word lengths. Anything shorter
	// or longer is dropped at load time.
	MinLength = 3
	MaxLength = 5

	// Wildcard marks an unknown position in a pattern string.
	Wildcard = '?'
)

var (
	ErrNotInitialized  = errors.New("word store not initialized")
	ErrEmptyDictionary = errors.New("dictionary has no usable words")
	ErrInvalidLength   = errors.New("length outside supported range")
	ErrInvalidPattern  = errors.New("malformed pattern")
)

// Entry is one dictionary word with its corpus frequency. Immutable once
// loaded.
type Entry struct {
	Word      string
	Frequency int
}

type cacheKey struct {
	length  int
	pattern string
}

// Store indexes the dictionary for pattern lookups. Build it once with Init;
// afterwards it is read-only apart from the lazily growing pattern cache, so
// unsynchronized concurrent readers are safe.
//
// If the source data contains the same word twice, the first occurrence wins.
type Store struct {
	byLength [MaxLength + 1][]Entry
	// index[length][letter][position] lists, frequency-descending, every
	// word of that length with that letter at that position.
	index   [MaxLength + 1][26][MaxLength][]Entry
	present map[string]struct{}

	mu    sync.RWMutex
	cache map[cacheKey][]Entry

	initialized bool
}

// New builds a Store from already-parsed entries.
func New(entries []Entry) (*Store, error) {
	s := &Store{}
	if err := s.Init(entries); err != nil {
		return nil, err
	}
	return s, nil
}

// Init filters entries down to lowercase alphabetic words of length 3 to 5
// and builds the per-length lists plus the positional index. Calling Init on
// an initialized store is a no-op.
func (s *Store) Init(entries []Entry) error {
	if s.initialized {
		return nil
	}

	s.present = make(map[string]struct{}, len(entries))
	total := 0
	for _, e := range entries {
		word := strings.ToLower(strings.TrimSpace(e.Word))
		if !usableWord(word) || e.Frequency < 0 {
			continue
		}
		if _, dup := s.present[word]; dup {
			continue
		}
		s.present[word] = struct{}{}
		s.byLength[len(word)] = append(s.byLength[len(word)], Entry{Word: word, Frequency: e.Frequency})
		total++
	}
	if total == 0 {
		return fmt.Errorf("initialize word store: %w", ErrEmptyDictionary)
	}

	for length := MinLength; length <= MaxLength; length++ {
		// Frequency descending, ties alphabetical, so query results are
		// stable for a fixed dictionary.
		slices.SortStableFunc(s.byLength[length], func(a, b Entry) int {
			if a.Frequency != b.Frequency {
				return b.Frequency - a.Frequency
			}
			return strings.Compare(a.Word, b.Word)
		})
		for _, e := range s.byLength[length] {
			for pos := 0; pos < length; pos++ {
				letter := e.Word[pos] - 'a'
				s.index[length][letter][pos] = append(s.index[length][letter][pos], e)
			}
		}
	}

	s.cache = make(map[cacheKey][]Entry)
	s.initialized = true
	return nil
}

// FindMatching returns every word of the given length whose letters agree
// with the pattern at each non-wildcard position, frequency-descending. The
// result is a shared read-only view; callers must not modify it.
//
// The candidate seed is the positional index at the first non-wildcard
// position. A later position can be more selective, but the first-position
// choice keeps candidate ordering predictable and is kept on purpose.
func (s *Store) FindMatching(length int, pattern string) ([]Entry, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	if length < MinLength || length > MaxLength {
		return nil, fmt.Errorf("find matching: %w: %d", ErrInvalidLength, length)
	}
	if len(pattern) != length {
		return nil, fmt.Errorf("find matching: %w: %q is not %d characters", ErrInvalidPattern, pattern, length)
	}
	seedPos := -1
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == Wildcard {
			continue
		}
		if c < 'a' || c > 'z' {
			return nil, fmt.Errorf("find matching: %w: %q", ErrInvalidPattern, pattern)
		}
		if seedPos < 0 {
			seedPos = i
		}
	}

	key := cacheKey{length: length, pattern: pattern}
	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	var result []Entry
	if seedPos < 0 {
		result = s.byLength[length]
	} else {
		seed := s.index[length][pattern[seedPos]-'a'][seedPos]
		for _, e := range seed {
			if matchesPattern(e.Word, pattern) {
				result = append(result, e)
			}
		}
	}

	// Concurrent fills of the same key compute identical slices, so
	// last-writer-wins is fine here.
	s.mu.Lock()
	s.cache[key] = result
	s.mu.Unlock()
	return result, nil
}

// ByLength returns the frequency-sorted list for one word length. The result
// is a shared read-only view; callers must not modify it.
func (s *Store) ByLength(length int) ([]Entry, error) {
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	if length < MinLength || length > MaxLength {
		return nil, fmt.Errorf("by length: %w: %d", ErrInvalidLength, length)
	}
	return s.byLength[length], nil
}

// Contains reports whether the store holds exactly this word at this length.
func (s *Store) Contains(length int, word string) bool {
	if !s.initialized || len(word) != length {
		return false
	}
	_, ok := s.present[word]
	return ok
}

// Len reports how many words of the given length are loaded, zero for
// lengths outside the supported range.
func (s *Store) Len(length int) int {
	if !s.initialized || length < MinLength || length > MaxLength {
		return 0
	}
	return len(s.byLength[length])
}

// ClearCache drops the pattern cache. Queries recompute on demand, so this
// only trades memory for CPU and never affects results.
func (s *Store) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache != nil {
		s.cache = make(map[cacheKey][]Entry)
	}
}

func usableWord(word string) bool {
	if len(word) < MinLength || len(word) > MaxLength {
		return false
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return false
		}
	}
	return true
}

func matchesPattern(word, pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != Wildcard && word[i] != pattern[i] {
			return false
		}
	}
	return true
}
