package minixw

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrIncompleteGrid is returned when assembling a grid that still has
// unfilled cells.
var ErrIncompleteGrid = errors.New("grid is not completely filled")

// PuzzleEntry is one answer of a finished puzzle.
type PuzzleEntry struct {
	Number  int    `json:"number"`
	Answer  string `json:"answer"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Length  int    `json:"length"`
	Pattern string `json:"pattern"`
	Clue    string `json:"clue,omitempty"`
}

// Meta describes how a puzzle was produced.
type Meta struct {
	MaskID           string `json:"maskId"`
	Seed             uint64 `json:"seed"`
	Attempts         int    `json:"attempts"`
	GenerationTimeMs int64  `json:"generationTimeMs"`
}

// Puzzle is the assembled result of a generation run. Grid holds one
// string per cell, the uppercase letter or "#" for black squares.
// Entries are ordered by clue number within each direction.
type Puzzle struct {
	Grid   [][]string    `json:"grid"`
	Across []PuzzleEntry `json:"across"`
	Down   []PuzzleEntry `json:"down"`
	Meta   Meta          `json:"meta"`
}

// AssemblePuzzle converts a filled grid into its serializable form.
// The grid is only read. Assembly fails with ErrIncompleteGrid if any
// slot still contains an unfilled cell.
func AssemblePuzzle(g *Grid, meta Meta) (*Puzzle, error) {
	for _, s := range g.Slots() {
		if strings.ContainsRune(s.Pattern, Wildcard) {
			return nil, fmt.Errorf("%w: slot %d is %q", ErrIncompleteGrid, s.ID, s.Pattern)
		}
	}

	cells := make([][]string, Size)
	for r := range Size {
		cells[r] = make([]string, Size)
		for c := range Size {
			cell := g.Cell(r, c)
			switch {
			case cell.Black:
				cells[r][c] = "#"
			case cell.Letter == 0:
				return nil, fmt.Errorf("%w: empty cell at (%d, %d)", ErrIncompleteGrid, r, c)
			default:
				cells[r][c] = strings.ToUpper(string(cell.Letter))
			}
		}
	}

	puzzle := &Puzzle{Grid: cells, Meta: meta}
	for _, s := range g.Slots() {
		entry := PuzzleEntry{
			Number:  s.Number,
			Answer:  strings.ToUpper(s.Pattern),
			Row:     s.Row,
			Col:     s.Col,
			Length:  s.Length,
			Pattern: s.Pattern,
		}
		if s.Direction == DirectionAcross {
			puzzle.Across = append(puzzle.Across, entry)
		} else {
			puzzle.Down = append(puzzle.Down, entry)
		}
	}
	sortByNumber(puzzle.Across)
	sortByNumber(puzzle.Down)
	return puzzle, nil
}

func sortByNumber(entries []PuzzleEntry) {
	slices.SortFunc(entries, func(a, b PuzzleEntry) int {
		return a.Number - b.Number
	})
}

// Answers lists every answer of the puzzle, across before down.
func (p *Puzzle) Answers() []string {
	answers := make([]string, 0, len(p.Across)+len(p.Down))
	for _, e := range p.Across {
		answers = append(answers, e.Answer)
	}
	for _, e := range p.Down {
		answers = append(answers, e.Answer)
	}
	return answers
}
