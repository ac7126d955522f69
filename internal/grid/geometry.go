package grid

import "math"

// Point is an integer grid coordinate. Y grows upward: row 0 is the bottom of the room.
type Point struct {
	X, Y int
}

// Add returns p translated by (dx, dy)
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Dist returns the Euclidean distance between two points
func (p Point) Dist(q Point) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Chebyshev returns the chessboard distance between two points
func (p Point) Chebyshev(q Point) int {
	return max(abs(p.X-q.X), abs(p.Y-q.Y))
}

// Rect is an axis-aligned integer rectangle covering [X, X+W) x [Y, Y+H).
type Rect struct {
	X, Y, W, H int
}

// MaxX returns the first column past the right edge
func (r Rect) MaxX() int { return r.X + r.W }

// MaxY returns the first row past the top edge
func (r Rect) MaxY() int { return r.Y + r.H }

// Area returns W*H
func (r Rect) Area() int { return r.W * r.H }

// Center returns the integer center cell of the rectangle
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside the rectangle
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// ContainsRect reports whether o lies fully inside r
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}

// Inset shrinks the rectangle by n cells on every side
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: r.W - 2*n, H: r.H - 2*n}
}

// Clamp returns the point of r closest to p
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: clamp(p.X, r.X, r.MaxX()-1),
		Y: clamp(p.Y, r.Y, r.MaxY()-1),
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0 or 1
func Sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
