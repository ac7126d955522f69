// Package grid holds the tile grid every generation stage writes into.
package grid

import (
	"fmt"
	"strings"
)

// Cell is the state of a single tile
type Cell uint8

const (
	Wall     Cell = iota // Solid rock
	Floor                // Open space the player can move through
	Platform             // One-way platform: stand on it, jump or drop through it
	Entrance             // Entrance marker (only in Marked copies)
	Exit                 // Exit marker (only in Marked copies)
)

// String returns the string representation of a Cell
func (c Cell) String() string {
	switch c {
	case Wall:
		return "wall"
	case Floor:
		return "floor"
	case Platform:
		return "platform"
	case Entrance:
		return "entrance"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Glyph returns the single character used by the text form of the grid
func (c Cell) Glyph() byte {
	switch c {
	case Wall:
		return '#'
	case Floor:
		return '.'
	case Platform:
		return '='
	case Entrance:
		return 'E'
	case Exit:
		return 'X'
	default:
		return '?'
	}
}

// CellFromGlyph is the inverse of Glyph
func CellFromGlyph(g byte) (Cell, bool) {
	switch g {
	case '#':
		return Wall, true
	case '.':
		return Floor, true
	case '=':
		return Platform, true
	case 'E':
		return Entrance, true
	case 'X':
		return Exit, true
	}
	return Wall, false
}

// Grid is a fixed-size tile grid with entrance and exit anchors.
type Grid struct {
	Width, Height int
	Entrance      Point
	Exit          Point
	cells         []Cell
}

// New creates a grid filled with walls
func New(width, height int) *Grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Grid{
		Width:  width,
		Height: height,
		cells:  make([]Cell, width*height),
	}
}

// Bounds returns the rectangle covering the whole grid
func (g *Grid) Bounds() Rect {
	return Rect{W: g.Width, H: g.Height}
}

// InBounds reports whether (x, y) is inside the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Get returns the cell at (x, y). Out-of-bounds cells read as Wall.
func (g *Grid) Get(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Wall
	}
	return g.cells[y*g.Width+x]
}

// At returns the cell at p
func (g *Grid) At(p Point) Cell {
	return g.Get(p.X, p.Y)
}

// Set writes a cell; out-of-bounds writes are ignored
func (g *Grid) Set(x, y int, c Cell) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.Width+x] = c
}

// IsSolid reports whether the cell at (x, y) can be stood on
func (g *Grid) IsSolid(x, y int) bool {
	c := g.Get(x, y)
	return c == Wall || c == Platform
}

// IsPassable reports whether the cell at (x, y) is not a wall
func (g *Grid) IsPassable(x, y int) bool {
	return g.InBounds(x, y) && g.Get(x, y) != Wall
}

// IsFloor reports whether the cell at (x, y) is open Floor
func (g *Grid) IsFloor(x, y int) bool {
	return g.InBounds(x, y) && g.Get(x, y) == Floor
}

// Fill writes c over every in-bounds cell of r
func (g *Grid) Fill(r Rect, c Cell) {
	for y := r.Y; y < r.MaxY(); y++ {
		for x := r.X; x < r.MaxX(); x++ {
			g.Set(x, y, c)
		}
	}
}

// CarveBrush writes Floor over Wall in a size x size square around p.
// Existing non-wall cells keep their state. Returns the number of cells carved.
func (g *Grid) CarveBrush(p Point, size int) int {
	return g.CarveBrushWithin(p, size, g.Bounds())
}

// CarveBrushWithin is CarveBrush restricted to the cells inside limit.
func (g *Grid) CarveBrushWithin(p Point, size int, limit Rect) int {
	if size < 1 {
		size = 1
	}
	lo := -(size - 1) / 2
	hi := size / 2
	carved := 0
	for dy := lo; dy <= hi; dy++ {
		for dx := lo; dx <= hi; dx++ {
			q := p.Add(dx, dy)
			if !limit.Contains(q) || !g.InBounds(q.X, q.Y) {
				continue
			}
			if g.At(q) == Wall {
				g.Set(q.X, q.Y, Floor)
				carved++
			}
		}
	}
	return carved
}

// FloorTiles rebuilds the list of Floor cells in row-major order, bottom row first
func (g *Grid) FloorTiles() []Point {
	var tiles []Point
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.cells[y*g.Width+x] == Floor {
				tiles = append(tiles, Point{X: x, Y: y})
			}
		}
	}
	return tiles
}

// Count returns how many cells hold c
func (g *Grid) Count(c Cell) int {
	n := 0
	for _, v := range g.cells {
		if v == c {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	cp := &Grid{
		Width:    g.Width,
		Height:   g.Height,
		Entrance: g.Entrance,
		Exit:     g.Exit,
		cells:    make([]Cell, len(g.cells)),
	}
	copy(cp.cells, g.cells)
	return cp
}

// Equal reports whether two grids hold identical cells and anchors
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.Width != o.Width || g.Height != o.Height ||
		g.Entrance != o.Entrance || g.Exit != o.Exit {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Marked returns a copy with the Entrance and Exit markers stamped onto the anchors.
// Downstream consumers (export, rendering) read this form.
func (g *Grid) Marked() *Grid {
	cp := g.Clone()
	if cp.At(cp.Entrance) != Wall {
		cp.Set(cp.Entrance.X, cp.Entrance.Y, Entrance)
	}
	if cp.At(cp.Exit) != Wall {
		cp.Set(cp.Exit.X, cp.Exit.Y, Exit)
	}
	return cp
}

// Cells returns the raw row-major cell slice (bottom row first).
// Callers must not modify it.
func (g *Grid) Cells() []Cell {
	return g.cells
}

// FromCells builds a grid from a raw row-major cell slice
func FromCells(width, height int, cells []Cell) (*Grid, error) {
	if width*height != len(cells) {
		return nil, fmt.Errorf("grid: %d cells do not fit %dx%d", len(cells), width, height)
	}
	g := New(width, height)
	copy(g.cells, cells)
	return g, nil
}

// Rows returns the text form of the grid, top row first
func (g *Grid) Rows() []string {
	rows := make([]string, 0, g.Height)
	buf := make([]byte, g.Width)
	for y := g.Height - 1; y >= 0; y-- {
		for x := 0; x < g.Width; x++ {
			buf[x] = g.Get(x, y).Glyph()
		}
		rows = append(rows, string(buf))
	}
	return rows
}

// String joins Rows with newlines
func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}

// ParseRows builds a grid from its text form (top row first).
// Entrance and Exit glyphs set the anchors and are stored as Floor.
func ParseRows(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid: no rows")
	}
	width := len(rows[0])
	g := New(width, len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("grid: row %d has width %d, want %d", i, len(row), width)
		}
		y := len(rows) - 1 - i
		for x := 0; x < width; x++ {
			c, ok := CellFromGlyph(row[x])
			if !ok {
				return nil, fmt.Errorf("grid: unknown glyph %q at (%d,%d)", row[x], x, y)
			}
			switch c {
			case Entrance:
				g.Entrance = Point{X: x, Y: y}
				c = Floor
			case Exit:
				g.Exit = Point{X: x, Y: y}
				c = Floor
			}
			g.Set(x, y, c)
		}
	}
	return g, nil
}
