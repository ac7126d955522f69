package roomgraph

import (
	"math"

	"github.com/lawnchairsociety/roomforge/internal/grid"
	"github.com/zyedidia/generic/mapset"
)

type vec struct {
	x, y float64
}

type triangle struct {
	a, b, c int // Indexes into the working point slice

	// Circumcircle
	cx, cy, r2 float64
}

func newTriangle(pts []vec, a, b, c int) triangle {
	t := triangle{a: a, b: b, c: c}
	ax, ay := pts[a].x, pts[a].y
	bx, by := pts[b].x, pts[b].y
	cx, cy := pts[c].x, pts[c].y

	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < 1e-12 {
		// Collinear: an infinite circle swallows every later point
		t.cx, t.cy, t.r2 = 0, 0, math.Inf(1)
		return t
	}
	a2 := ax*ax + ay*ay
	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	t.cx = (a2*(by-cy) + b2*(cy-ay) + c2*(ay-by)) / d
	t.cy = (a2*(cx-bx) + b2*(ax-cx) + c2*(bx-ax)) / d
	dx, dy := ax-t.cx, ay-t.cy
	t.r2 = dx*dx + dy*dy
	return t
}

func (t triangle) inCircumcircle(p vec) bool {
	dx, dy := p.x-t.cx, p.y-t.cy
	return dx*dx+dy*dy < t.r2-1e-9
}

func (t triangle) has(i int) bool {
	return t.a == i || t.b == i || t.c == i
}

type pair struct {
	a, b int
}

func orderedPair(a, b int) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// triangulate returns the Delaunay edges between centers as index pairs, in
// discovery order. Coincident centers after the first are left out.
func triangulate(centers []grid.Point) []pair {
	n := len(centers)
	pts := make([]vec, 0, n+3)
	ids := make([]int, 0, n) // working index -> center index
	seen := mapset.New[grid.Point]()
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, c := range centers {
		if seen.Has(c) {
			continue
		}
		seen.Put(c)
		p := vec{float64(c.X), float64(c.Y)}
		pts = append(pts, p)
		ids = append(ids, i)
		minX, minY = math.Min(minX, p.x), math.Min(minY, p.y)
		maxX, maxY = math.Max(maxX, p.x), math.Max(maxY, p.y)
	}
	npts := len(pts)
	if npts < 3 {
		return nil
	}

	// Super triangle enclosing every point
	span := math.Max(maxX-minX, maxY-minY) + 1
	midX, midY := (minX+maxX)/2, (minY+maxY)/2
	s0, s1, s2 := npts, npts+1, npts+2
	pts = append(pts,
		vec{midX - 20*span, midY - span},
		vec{midX, midY + 20*span},
		vec{midX + 20*span, midY - span},
	)

	tris := []triangle{newTriangle(pts, s0, s1, s2)}
	for i := 0; i < npts; i++ {
		p := pts[i]

		var bad, keep []triangle
		for _, t := range tris {
			if t.inCircumcircle(p) {
				bad = append(bad, t)
			} else {
				keep = append(keep, t)
			}
		}

		// Boundary of the cavity: edges owned by exactly one bad triangle
		counts := make(map[pair]int)
		var order []pair
		for _, t := range bad {
			for _, e := range [3]pair{orderedPair(t.a, t.b), orderedPair(t.b, t.c), orderedPair(t.c, t.a)} {
				if counts[e] == 0 {
					order = append(order, e)
				}
				counts[e]++
			}
		}
		for _, e := range order {
			if counts[e] == 1 {
				keep = append(keep, newTriangle(pts, e.a, e.b, i))
			}
		}
		tris = keep
	}

	var edges []pair
	added := mapset.New[pair]()
	for _, t := range tris {
		if t.has(s0) || t.has(s1) || t.has(s2) {
			continue
		}
		for _, e := range [3]pair{orderedPair(t.a, t.b), orderedPair(t.b, t.c), orderedPair(t.c, t.a)} {
			mapped := orderedPair(ids[e.a], ids[e.b])
			if added.Has(mapped) {
				continue
			}
			added.Put(mapped)
			edges = append(edges, mapped)
		}
	}
	return edges
}
