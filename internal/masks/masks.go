// Package masks holds the built-in catalog of 5x5 grid layouts.
//
// A layout is five rows of five cells, '.' for a white cell and '#'
// for a black one. Generation picks a layout from the catalog, either
// by id or at random, and the grid model derives its word slots from
// the white runs.
package masks

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

// Size is the edge length of every layout.
const Size = 5

const (
	// White marks an open cell in a layout row.
	White = '.'
	// Black marks a blocked cell in a layout row.
	Black = '#'
)

// minRun is the shortest white run that forms a word slot.
const minRun = 3

// ErrNotFound is returned by Catalog.Get for an unknown layout id.
var ErrNotFound = errors.New("masks: unknown layout")

// Mask is a validated 5x5 layout.
type Mask struct {
	ID   string
	Rows [Size]string
}

// IsBlack reports whether the cell at (row, col) is blocked.
func (m Mask) IsBlack(row, col int) bool {
	return m.Rows[row][col] == Black
}

// Parse validates rows as a layout and wraps them in a Mask. Each row
// must be exactly Size cells of White or Black, and the layout must
// contain at least one horizontal or vertical white run long enough to
// hold a word.
func Parse(id string, rows [Size]string) (Mask, error) {
	if id == "" {
		return Mask{}, errors.New("masks: empty layout id")
	}
	for r, row := range rows {
		if len(row) != Size {
			return Mask{}, fmt.Errorf("masks: layout %q row %d has %d cells, want %d", id, r, len(row), Size)
		}
		for c := 0; c < Size; c++ {
			if row[c] != White && row[c] != Black {
				return Mask{}, fmt.Errorf("masks: layout %q has invalid cell %q at (%d, %d)", id, row[c], r, c)
			}
		}
	}
	m := Mask{ID: id, Rows: rows}
	if !m.hasSlot() {
		return Mask{}, fmt.Errorf("masks: layout %q has no white run of %d or more cells", id, minRun)
	}
	return m, nil
}

// MustParse is Parse for layouts known to be valid, such as the
// built-in catalog and test fixtures. It panics on error.
func MustParse(id string, rows [Size]string) Mask {
	m, err := Parse(id, rows)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Mask) hasSlot() bool {
	for r := 0; r < Size; r++ {
		run := 0
		for c := 0; c < Size; c++ {
			if m.IsBlack(r, c) {
				run = 0
				continue
			}
			if run++; run >= minRun {
				return true
			}
		}
	}
	for c := 0; c < Size; c++ {
		run := 0
		for r := 0; r < Size; r++ {
			if m.IsBlack(r, c) {
				run = 0
				continue
			}
			if run++; run >= minRun {
				return true
			}
		}
	}
	return false
}

// Catalog is an immutable set of layouts addressable by id.
type Catalog struct {
	ids  []string
	byID map[string]Mask
}

// NewCatalog builds a catalog from the given layouts. The first layout
// wins when ids collide.
func NewCatalog(layouts ...Mask) *Catalog {
	c := &Catalog{byID: make(map[string]Mask, len(layouts))}
	for _, m := range layouts {
		if _, ok := c.byID[m.ID]; ok {
			continue
		}
		c.byID[m.ID] = m
		c.ids = append(c.ids, m.ID)
	}
	return c
}

// Get returns the layout registered under id.
func (c *Catalog) Get(id string) (Mask, error) {
	m, ok := c.byID[id]
	if !ok {
		return Mask{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return m, nil
}

// Random returns one of the catalog's layouts, chosen by rng. It
// panics on an empty catalog.
func (c *Catalog) Random(rng *rand.Rand) Mask {
	return c.byID[c.ids[rng.IntN(len(c.ids))]]
}

// IDs lists the layout ids in registration order.
func (c *Catalog) IDs() []string {
	return slices.Clone(c.ids)
}

// Len reports how many layouts the catalog holds.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// Default returns the catalog of shipped layouts.
func Default() *Catalog {
	return NewCatalog(
		MustParse("open", [Size]string{
			".....",
			".....",
			".....",
			".....",
			".....",
		}),
		MustParse("corners", [Size]string{
			"#...#",
			".....",
			".....",
			".....",
			"#...#",
		}),
		MustParse("staircase", [Size]string{
			"...##",
			"...##",
			".....",
			"##...",
			"##...",
		}),
		MustParse("diagonal", [Size]string{
			"...##",
			".....",
			".....",
			".....",
			"##...",
		}),
	)
}
