package platform

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/lawnchairsociety/roomforge/internal/grid"
)

// reach is the set of cells a player starting at the entrance can get to.
// Standing cells are kept in discovery order for nearest-cell lookups.
type reach struct {
	cells    mapset.Set[grid.Point] // Every cell a player can occupy, airborne or standing
	standing mapset.Set[grid.Point]
	order    []grid.Point
}

func (r *reach) Has(p grid.Point) bool {
	return r.cells.Has(p)
}

// nearest returns the standing cell closest to p; ties go to the earlier discovery.
func (r *reach) nearest(p grid.Point) (grid.Point, bool) {
	var best grid.Point
	bestDist := -1.0
	for _, s := range r.order {
		if d := s.Dist(p); bestDist < 0 || d < bestDist {
			best, bestDist = s, d
		}
	}
	return best, bestDist >= 0
}

// isStanding reports whether a player can rest in p: the cell is open and the cell
// below is solid.
func (inj *injector) isStanding(p grid.Point) bool {
	return inj.g.IsPassable(p.X, p.Y) && inj.g.IsSolid(p.X, p.Y-1)
}

// land follows a fall from p straight down and returns where it stops
func (inj *injector) land(p grid.Point) (grid.Point, bool) {
	if !inj.g.IsPassable(p.X, p.Y) {
		return p, false
	}
	for !inj.isStanding(p) {
		p.Y--
		if !inj.g.IsPassable(p.X, p.Y) {
			return p, false
		}
	}
	return p, true
}

// computeReach runs a breadth-first search over standing cells. Moves are a
// one-cell walk, a fall with up to one cell of sideways drift, and a jump arc
// reaching JumpDistance across and the effective jump height up.
func (inj *injector) computeReach() *reach {
	r := &reach{
		cells:    mapset.New[grid.Point](),
		standing: mapset.New[grid.Point](),
	}

	var queue []grid.Point
	visit := func(p grid.Point) {
		if r.standing.Has(p) {
			return
		}
		r.standing.Put(p)
		r.order = append(r.order, p)
		queue = append(queue, p)

		r.cells.Put(p)
		for i := 1; i <= inj.eff && inj.g.IsPassable(p.X, p.Y+i); i++ {
			r.cells.Put(p.Add(0, i))
		}
	}
	fall := func(from grid.Point) {
		for _, dx := range [...]int{0, -1, 1} {
			start := from.Add(dx, 0)
			if l, ok := inj.land(start); ok {
				for y := start.Y; y > l.Y; y-- {
					r.cells.Put(grid.Point{X: start.X, Y: y})
				}
				visit(l)
			}
		}
	}
	record := func(p grid.Point) bool {
		r.cells.Put(p)
		return true
	}

	fall(inj.g.Entrance)
	r.cells.Put(inj.g.Entrance)

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		for _, dx := range [...]int{-1, 1} {
			step := s.Add(dx, 0)
			if !inj.g.IsPassable(step.X, step.Y) {
				continue
			}
			if inj.isStanding(step) {
				visit(step)
			} else {
				fall(step)
			}
		}

		for tx := s.X - inj.jump.Distance; tx <= s.X+inj.jump.Distance; tx++ {
			for ty := s.Y + inj.eff; ty >= 0; ty-- {
				t := grid.Point{X: tx, Y: ty}
				// Arcs into known cells still count for the cells they cross
				if t == s || !inj.isStanding(t) {
					continue
				}
				if peak, ok := inj.canJump(s, t); ok {
					inj.walkArc(s, t, peak, record)
					visit(t)
				}
			}
		}
	}
	return r
}

// canJump checks the arc from s to t: rise in s's column to a peak, cross at the peak
// row, then drop in t's column. Peaks are tried one above the higher end, at the
// higher end, then at the full jump height. Returns the peak row of the clear arc.
func (inj *injector) canJump(s, t grid.Point) (int, bool) {
	if t.Y-s.Y > inj.eff {
		return 0, false
	}
	top := max(s.Y, t.Y)
	for _, peak := range [...]int{top + 1, top, s.Y + inj.eff} {
		if peak-s.Y > inj.eff {
			continue
		}
		if inj.arcClear(s, t, peak) {
			return peak, true
		}
	}
	return 0, false
}

func (inj *injector) arcClear(s, t grid.Point, peak int) bool {
	return inj.walkArc(s, t, peak, func(p grid.Point) bool {
		return inj.g.IsPassable(p.X, p.Y)
	})
}

// walkArc calls fn on every cell of the arc from s to t through peak, in travel order,
// and stops early when fn returns false. Reports whether the whole arc was walked.
func (inj *injector) walkArc(s, t grid.Point, peak int, fn func(grid.Point) bool) bool {
	for y := s.Y; y <= peak; y++ {
		if !fn(grid.Point{X: s.X, Y: y}) {
			return false
		}
	}
	step := grid.Sign(t.X - s.X)
	for x := s.X; x != t.X; x += step {
		if !fn(grid.Point{X: x + step, Y: peak}) {
			return false
		}
	}
	for y := peak; y >= t.Y; y-- {
		if !fn(grid.Point{X: t.X, Y: y}) {
			return false
		}
	}
	return true
}
