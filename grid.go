package minixw

import (
	"errors"
	"fmt"
	"strings"

	"crosswarped.com/minixw/internal/masks"
	"crosswarped.com/minixw/pkg/wordstore"
)

// Size is the edge length of every puzzle grid.
const Size = masks.Size

// Wildcard marks an unfilled cell in a slot pattern.
const Wildcard = wordstore.Wildcard

// Direction is the orientation of a slot, either across or down.
type Direction int

const (
	DirectionAcross Direction = iota
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionAcross:
		return "across"
	case DirectionDown:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

var (
	ErrUnknownSlot       = errors.New("unknown slot id")
	ErrLengthMismatch    = errors.New("word length does not match slot")
	ErrPlacementConflict = errors.New("placement conflicts with existing letters")
)

// Coord addresses one cell of the grid.
type Coord struct {
	Row, Col int
}

// Cell is a single square. Letter is 0 while the square is unfilled,
// and Number is 0 unless a slot starts on the square.
type Cell struct {
	Black  bool
	Letter rune
	Number int
}

// Crossing records a shared cell between two perpendicular slots.
type Crossing struct {
	Other    int // id of the crossing slot
	Pos      int // index of the shared cell within this slot
	OtherPos int // index of the shared cell within the crossing slot
}

// Slot is a maximal run of white cells that takes one answer.
//
// Pattern always mirrors the slot's cells, one byte per cell, with
// Wildcard standing in for unfilled squares. Candidates holds the
// matches found by the most recent forward check over the slot, so
// callers can inspect how constrained each slot was.
type Slot struct {
	ID         int
	Direction  Direction
	Row, Col   int
	Length     int
	Number     int
	Cells      []Coord
	Pattern    string
	Word       string
	Candidates []wordstore.Entry
}

// Grid is the mutable model for one layout: a 5x5 cell matrix plus the
// slots derived from its white runs and their crossing table.
type Grid struct {
	mask      masks.Mask
	cells     [Size][Size]Cell
	slots     []Slot
	crossings [][]Crossing
}

// NewGrid builds the model for mask. Slots are the maximal horizontal
// and vertical runs of three or more white cells, found by one scan
// over rows and one over columns. Clue numbers are assigned in reading
// order; perpendicular slots starting on the same cell share a number.
func NewGrid(mask masks.Mask) (*Grid, error) {
	for r, row := range mask.Rows {
		if len(row) != Size {
			return nil, fmt.Errorf("layout %q row %d has %d cells, want %d", mask.ID, r, len(row), Size)
		}
	}

	g := &Grid{mask: mask}
	for r := range Size {
		for c := range Size {
			g.cells[r][c] = Cell{Black: mask.IsBlack(r, c)}
		}
	}

	for r := range Size {
		c := 0
		for c < Size {
			if g.cells[r][c].Black {
				c++
				continue
			}
			start := c
			for c < Size && !g.cells[r][c].Black {
				c++
			}
			g.addSlot(DirectionAcross, r, start, c-start)
		}
	}
	for c := range Size {
		r := 0
		for r < Size {
			if g.cells[r][c].Black {
				r++
				continue
			}
			start := r
			for r < Size && !g.cells[r][c].Black {
				r++
			}
			g.addSlot(DirectionDown, start, c, r-start)
		}
	}
	if len(g.slots) == 0 {
		return nil, fmt.Errorf("layout %q yields no slots", mask.ID)
	}

	g.assignNumbers()
	g.buildCrossings()
	return g, nil
}

func (g *Grid) addSlot(dir Direction, row, col, length int) {
	if length < wordstore.MinLength {
		return
	}
	cells := make([]Coord, length)
	for i := range cells {
		if dir == DirectionAcross {
			cells[i] = Coord{row, col + i}
		} else {
			cells[i] = Coord{row + i, col}
		}
	}
	g.slots = append(g.slots, Slot{
		ID:        len(g.slots),
		Direction: dir,
		Row:       row,
		Col:       col,
		Length:    length,
		Cells:     cells,
		Pattern:   strings.Repeat(string(Wildcard), length),
	})
}

func (g *Grid) assignNumbers() {
	starts := make(map[Coord][]int, len(g.slots))
	for _, s := range g.slots {
		key := Coord{s.Row, s.Col}
		starts[key] = append(starts[key], s.ID)
	}
	number := 0
	for r := range Size {
		for c := range Size {
			ids := starts[Coord{r, c}]
			if len(ids) == 0 {
				continue
			}
			number++
			g.cells[r][c].Number = number
			for _, id := range ids {
				g.slots[id].Number = number
			}
		}
	}
}

func (g *Grid) buildCrossings() {
	var at [Size][Size][2]int
	for r := range Size {
		for c := range Size {
			at[r][c] = [2]int{-1, -1}
		}
	}
	for _, s := range g.slots {
		for _, cell := range s.Cells {
			at[cell.Row][cell.Col][s.Direction] = s.ID
		}
	}

	g.crossings = make([][]Crossing, len(g.slots))
	for _, s := range g.slots {
		if s.Direction != DirectionAcross {
			continue
		}
		for i, cell := range s.Cells {
			downID := at[cell.Row][cell.Col][DirectionDown]
			if downID < 0 {
				continue
			}
			j := cell.Row - g.slots[downID].Row
			g.crossings[s.ID] = append(g.crossings[s.ID], Crossing{Other: downID, Pos: i, OtherPos: j})
			g.crossings[downID] = append(g.crossings[downID], Crossing{Other: s.ID, Pos: j, OtherPos: i})
		}
	}
}

// Mask returns the layout the grid was built from.
func (g *Grid) Mask() masks.Mask {
	return g.mask
}

// Cell returns a copy of the cell at (row, col).
func (g *Grid) Cell(row, col int) Cell {
	return g.cells[row][col]
}

// Slots returns the slots in id order. The slice is shared with the
// grid; treat it as read-only.
func (g *Grid) Slots() []Slot {
	return g.slots
}

// Slot returns the slot with the given id.
func (g *Grid) Slot(id int) (Slot, error) {
	if id < 0 || id >= len(g.slots) {
		return Slot{}, fmt.Errorf("%w: %d", ErrUnknownSlot, id)
	}
	return g.slots[id], nil
}

// IntersectionsOf lists the crossings of the slot with the given id,
// ordered by position within the slot.
func (g *Grid) IntersectionsOf(id int) []Crossing {
	if id < 0 || id >= len(g.crossings) {
		return nil
	}
	return g.crossings[id]
}

// Pattern returns the slot's current pattern.
func (g *Grid) Pattern(id int) (string, error) {
	if id < 0 || id >= len(g.slots) {
		return "", fmt.Errorf("%w: %d", ErrUnknownSlot, id)
	}
	return g.slots[id].Pattern, nil
}

// IsValidPlacement reports whether word fits the slot: correct length
// and no conflict with letters already on the grid.
func (g *Grid) IsValidPlacement(id int, word string) bool {
	if id < 0 || id >= len(g.slots) {
		return false
	}
	s := &g.slots[id]
	if len(word) != s.Length {
		return false
	}
	for i, cell := range s.Cells {
		letter := g.cells[cell.Row][cell.Col].Letter
		if letter != 0 && letter != rune(word[i]) {
			return false
		}
	}
	return true
}

// PlaceWord writes word into the slot, filling its cells and
// refreshing the patterns of the slot and of everything it crosses.
func (g *Grid) PlaceWord(id int, word string) error {
	if id < 0 || id >= len(g.slots) {
		return fmt.Errorf("%w: %d", ErrUnknownSlot, id)
	}
	s := &g.slots[id]
	if len(word) != s.Length {
		return fmt.Errorf("%w: %q in %d-cell slot %d", ErrLengthMismatch, word, s.Length, id)
	}
	if !g.IsValidPlacement(id, word) {
		return fmt.Errorf("%w: %q in slot %d", ErrPlacementConflict, word, id)
	}
	for i, cell := range s.Cells {
		g.cells[cell.Row][cell.Col].Letter = rune(word[i])
	}
	s.Word = word
	g.refreshPatterns(id)
	return nil
}

// RemoveWord clears the slot's answer. Cells shared with another
// placed word keep their letters; the rest are emptied.
func (g *Grid) RemoveWord(id int) error {
	if id < 0 || id >= len(g.slots) {
		return fmt.Errorf("%w: %d", ErrUnknownSlot, id)
	}
	s := &g.slots[id]
	if s.Word == "" {
		return nil
	}
	for i, cell := range s.Cells {
		if g.placedCrossingAt(id, i) {
			continue
		}
		g.cells[cell.Row][cell.Col].Letter = 0
	}
	s.Word = ""
	g.refreshPatterns(id)
	return nil
}

func (g *Grid) placedCrossingAt(id, pos int) bool {
	for _, x := range g.crossings[id] {
		if x.Pos == pos && g.slots[x.Other].Word != "" {
			return true
		}
	}
	return false
}

func (g *Grid) refreshPatterns(id int) {
	g.slots[id].Pattern = g.patternFor(id)
	for _, x := range g.crossings[id] {
		g.slots[x.Other].Pattern = g.patternFor(x.Other)
	}
}

func (g *Grid) patternFor(id int) string {
	var b strings.Builder
	b.Grow(g.slots[id].Length)
	for _, cell := range g.slots[id].Cells {
		letter := g.cells[cell.Row][cell.Col].Letter
		if letter == 0 {
			b.WriteRune(Wildcard)
		} else {
			b.WriteRune(letter)
		}
	}
	return b.String()
}

// PatternSnapshot captures every slot's pattern, indexed by slot id.
func (g *Grid) PatternSnapshot() []string {
	snap := make([]string, len(g.slots))
	for i := range g.slots {
		snap[i] = g.slots[i].Pattern
	}
	return snap
}

// RestorePatterns writes a snapshot taken earlier back onto the slots.
// Cells are untouched.
func (g *Grid) RestorePatterns(snap []string) {
	for i := range g.slots {
		if i < len(snap) {
			g.slots[i].Pattern = snap[i]
		}
	}
}

// Complete reports whether every slot has an answer placed.
func (g *Grid) Complete() bool {
	for i := range g.slots {
		if g.slots[i].Word == "" {
			return false
		}
	}
	return true
}

// PlacedWords lists the answers currently on the grid in slot order.
func (g *Grid) PlacedWords() []string {
	words := make([]string, 0, len(g.slots))
	for i := range g.slots {
		if g.slots[i].Word != "" {
			words = append(words, g.slots[i].Word)
		}
	}
	return words
}

// Repr renders the grid one row per line: '#' for black cells, the
// letter for filled cells and '.' for empty white cells.
func (g *Grid) Repr() string {
	lines := make([]string, Size)
	for r := range Size {
		var b strings.Builder
		for c := range Size {
			cell := g.cells[r][c]
			switch {
			case cell.Black:
				b.WriteByte('#')
			case cell.Letter == 0:
				b.WriteByte('.')
			default:
				b.WriteRune(cell.Letter)
			}
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}

// DebugString summarizes the grid for logs.
func (g *Grid) DebugString() string {
	return fmt.Sprintf("Grid{layout: %q, slots: %d}", g.mask.ID, len(g.slots))
}
