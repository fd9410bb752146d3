package minixw

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"crosswarped.com/minixw/pkg/wordstore"
)

// Solver tuning defaults.
const (
	DefaultNodeBudget  = 4096
	DefaultBranchLimit = 24
	DefaultTopFraction = 0.3
)

// SolverParams bounds one fill attempt. Zero values take the defaults.
type SolverParams struct {
	// NodeBudget caps how many search nodes an attempt may visit.
	NodeBudget int
	// BranchLimit caps how many candidate words are tried per slot.
	BranchLimit int
	// TopFraction is the share of highest-frequency candidates that is
	// shuffled ahead of the rest when ordering a slot's words.
	TopFraction float64
}

func (p SolverParams) withDefaults() SolverParams {
	if p.NodeBudget <= 0 {
		p.NodeBudget = DefaultNodeBudget
	}
	if p.BranchLimit <= 0 {
		p.BranchLimit = DefaultBranchLimit
	}
	if p.TopFraction <= 0 || p.TopFraction > 1 {
		p.TopFraction = DefaultTopFraction
	}
	return p
}

// WordHistory filters answers that recent puzzles already used.
// history.Rolling satisfies it.
type WordHistory interface {
	IsRecentlyUsed(word string) bool
	Remember(words ...string)
}

// failReason says why a fill attempt stopped without a solution.
type failReason int

const (
	failNone failReason = iota
	failExhausted
	failBudget
	failDeadline
)

func (r failReason) String() string {
	switch r {
	case failExhausted:
		return "exhausted"
	case failBudget:
		return "node budget"
	case failDeadline:
		return "deadline"
	default:
		return "none"
	}
}

// solver runs one backtracking fill attempt over a grid.
type solver struct {
	grid     *Grid
	store    *wordstore.Store
	rng      *rand.Rand
	history  WordHistory
	params   SolverParams
	deadline time.Time

	nodes int
	used  map[string]struct{}
}

func newSolver(g *Grid, store *wordstore.Store, rng *rand.Rand, history WordHistory, params SolverParams, deadline time.Time) *solver {
	used := make(map[string]struct{})
	for _, w := range g.PlacedWords() {
		used[w] = struct{}{}
	}
	return &solver{
		grid:     g,
		store:    store,
		rng:      rng,
		history:  history,
		params:   params.withDefaults(),
		deadline: deadline,
		used:     used,
	}
}

// solve fills the grid by backtracking search. It reports whether a
// complete fill was found and, if not, why the attempt stopped. The
// grid is left fully placed on success and fully restored on failure,
// including failures caused by budget or deadline.
func (s *solver) solve(ctx context.Context) (bool, failReason, error) {
	return s.fill(ctx)
}

func (s *solver) fill(ctx context.Context) (bool, failReason, error) {
	if reason := s.checkBudget(ctx); reason != failNone {
		return false, reason, nil
	}
	s.nodes++

	viable, err := s.forwardCheck()
	if err != nil {
		return false, failNone, err
	}
	if !viable {
		return false, failExhausted, nil
	}

	slot := s.selectSlot()
	if slot == nil {
		// Every slot holds a word.
		return true, failNone, nil
	}

	id := slot.ID
	for _, word := range s.orderCandidates(slot.Candidates) {
		snapshot := s.grid.PatternSnapshot()
		if err := s.grid.PlaceWord(id, word); err != nil {
			return false, failNone, err
		}
		s.used[word] = struct{}{}

		solved, reason, err := s.fill(ctx)
		if err != nil {
			return false, failNone, err
		}
		if solved {
			return true, failNone, nil
		}

		delete(s.used, word)
		if err := s.grid.RemoveWord(id); err != nil {
			return false, failNone, err
		}
		s.grid.RestorePatterns(snapshot)

		if reason == failBudget || reason == failDeadline {
			// Out of budget. The undo above already ran, so unwinding
			// here leaves the grid clean at every level.
			return false, reason, nil
		}
	}
	return false, failExhausted, nil
}

func (s *solver) checkBudget(ctx context.Context) failReason {
	if ctx.Err() != nil {
		return failDeadline
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		return failDeadline
	}
	if s.nodes >= s.params.NodeBudget {
		return failBudget
	}
	return failNone
}

// forwardCheck recomputes Candidates for every open slot from its
// current pattern, bailing out at the first slot with none. A slot
// whose cells were all filled by crossings behaves like any other open
// slot here: its pattern matches exactly one dictionary word or the
// check fails, which is what validates crossing-completed answers.
func (s *solver) forwardCheck() (bool, error) {
	for i := range s.grid.slots {
		slot := &s.grid.slots[i]
		if slot.Word != "" {
			continue
		}
		matches, err := s.store.FindMatching(slot.Length, slot.Pattern)
		if err != nil {
			return false, err
		}
		slot.Candidates = s.withoutUsed(matches)
		if len(slot.Candidates) == 0 {
			return false, nil
		}
	}
	return true, nil
}

// withoutUsed drops words already placed in this puzzle. The store's
// slices are shared, so filtering always copies.
func (s *solver) withoutUsed(matches []wordstore.Entry) []wordstore.Entry {
	if len(s.used) == 0 {
		return matches
	}
	kept := make([]wordstore.Entry, 0, len(matches))
	for _, e := range matches {
		if _, ok := s.used[e.Word]; !ok {
			kept = append(kept, e)
		}
	}
	return kept
}

// selectSlot picks the open slot to fill next: fewest candidates
// first, then most crossings, then lowest id.
func (s *solver) selectSlot() *Slot {
	var best *Slot
	for i := range s.grid.slots {
		slot := &s.grid.slots[i]
		if slot.Word != "" {
			continue
		}
		if best == nil || s.tighter(slot, best) {
			best = slot
		}
	}
	return best
}

func (s *solver) tighter(a, b *Slot) bool {
	if len(a.Candidates) != len(b.Candidates) {
		return len(a.Candidates) < len(b.Candidates)
	}
	ax, bx := len(s.grid.IntersectionsOf(a.ID)), len(s.grid.IntersectionsOf(b.ID))
	if ax != bx {
		return ax > bx
	}
	return a.ID < b.ID
}

// orderCandidates decides which words to try for a slot and in what
// order. Candidates arrive frequency-descending; words used by recent
// puzzles are dropped unless that would drop everything. The top
// fraction is shuffled among itself, the rest among themselves, so
// common words lead without making every puzzle identical. The result
// is capped at BranchLimit.
func (s *solver) orderCandidates(entries []wordstore.Entry) []string {
	words := make([]string, len(entries))
	for i, e := range entries {
		words[i] = e.Word
	}

	if s.history != nil {
		fresh := make([]string, 0, len(words))
		for _, w := range words {
			if !s.history.IsRecentlyUsed(w) {
				fresh = append(fresh, w)
			}
		}
		if len(fresh) > 0 {
			words = fresh
		}
	}

	top := int(math.Ceil(float64(len(words)) * s.params.TopFraction))
	if top < 1 {
		top = 1
	}
	if top > len(words) {
		top = len(words)
	}
	s.rng.Shuffle(top, func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	rest := words[top:]
	s.rng.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})

	if len(words) > s.params.BranchLimit {
		words = words[:s.params.BranchLimit]
	}
	return words
}
