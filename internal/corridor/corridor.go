// Package corridor carves walkable passages along the room graph's edges.
package corridor

import (
	"math/rand"

	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/grid"
	"github.com/lawnchairsociety/roomforge/internal/roomgraph"
)

// Shape is the geometry chosen for one corridor
type Shape uint8

const (
	ShapeStraight        Shape = iota // Bresenham line between the two doors
	ShapeHorizontalFirst              // L: horizontal leg, then vertical
	ShapeVerticalFirst                // L: vertical leg, then horizontal
)

// String returns the string representation of a Shape
func (s Shape) String() string {
	switch s {
	case ShapeStraight:
		return "straight"
	case ShapeHorizontalFirst:
		return "horizontal-first"
	case ShapeVerticalFirst:
		return "vertical-first"
	default:
		return "unknown"
	}
}

// Corridor records one carved passage
type Corridor struct {
	Edge   roomgraph.Edge
	From   grid.Point
	To     grid.Point
	Shape  Shape
	Carved int // Wall cells turned to Floor
}

// Carve digs a corridor for every Final edge of the graph. Corridors only write
// Floor over Wall and never leave the padded interior.
func Carve(g *grid.Grid, graph *roomgraph.Graph, cfg *config.Config, rng *rand.Rand) []Corridor {
	limit := g.Bounds().Inset(cfg.Grid.EdgePadding)
	width := cfg.Corridor.Width

	corridors := make([]Corridor, 0, len(graph.Final))
	for _, e := range graph.Final {
		a := graph.Rooms[e.A].Bounds
		b := graph.Rooms[e.B].Bounds
		from, to := ClosestPoints(a, b)

		c := Corridor{Edge: e, From: from, To: to, Shape: ShapeStraight}
		if rng.Float64() < cfg.Corridor.LShapeChance {
			c.Shape = ShapeHorizontalFirst
			if rng.Intn(2) == 1 {
				c.Shape = ShapeVerticalFirst
			}
		}

		for _, p := range Path(from, to, c.Shape) {
			c.Carved += g.CarveBrushWithin(p, width, limit)
		}
		corridors = append(corridors, c)
	}
	return corridors
}

// ClosestPoints returns a cell of a and a cell of b that face each other.
// On an axis where the rectangles overlap both points sit at the overlap midpoint;
// otherwise each point sits on the edge facing the other rectangle.
func ClosestPoints(a, b grid.Rect) (grid.Point, grid.Point) {
	ax, bx := facing(a.X, a.MaxX(), b.X, b.MaxX())
	ay, by := facing(a.Y, a.MaxY(), b.Y, b.MaxY())
	return grid.Point{X: ax, Y: ay}, grid.Point{X: bx, Y: by}
}

// facing solves ClosestPoints on one axis for half-open ranges [a0,a1) and [b0,b1)
func facing(a0, a1, b0, b1 int) (int, int) {
	lo, hi := max(a0, b0), min(a1, b1)
	switch {
	case lo < hi:
		mid := (lo + hi - 1) / 2
		return mid, mid
	case a1 <= b0:
		return a1 - 1, b0
	default:
		return a0, b1 - 1
	}
}

// Path lists the cells from one point to another for the given shape, endpoints included
func Path(from, to grid.Point, shape Shape) []grid.Point {
	switch shape {
	case ShapeHorizontalFirst:
		corner := grid.Point{X: to.X, Y: from.Y}
		return append(line(from, corner), line(corner, to)[1:]...)
	case ShapeVerticalFirst:
		corner := grid.Point{X: from.X, Y: to.Y}
		return append(line(from, corner), line(corner, to)[1:]...)
	default:
		return line(from, to)
	}
}

// line is Bresenham's algorithm with diagonal steps split in two, so the
// result stays 4-connected even with a one-cell brush.
func line(from, to grid.Point) []grid.Point {
	dx := abs(to.X - from.X)
	dy := -abs(to.Y - from.Y)
	sx, sy := grid.Sign(to.X-from.X), grid.Sign(to.Y-from.Y)
	err := dx + dy

	pts := []grid.Point{from}
	p := from
	for p != to {
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			p.X += sx
			pts = append(pts, p)
		}
		if e2 <= dx {
			err += dx
			p.Y += sy
			pts = append(pts, p)
		}
	}
	return pts
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
