package platform

import (
	"github.com/lawnchairsociety/roomforge/internal/grid"
	"github.com/lawnchairsociety/roomforge/internal/logger"
)

// lateralOffsets are tried in order around a bisection midpoint
var lateralOffsets = [...]int{0, -1, 1, -2, 2, -3, 3}

// repair walks the targets in order. Each target outside the reachable set is bridged
// from the nearest standing cell by recursive bisection. Returns the targets that
// stayed unreachable.
func (inj *injector) repair(targets []grid.Point) []grid.Point {
	var unresolved []grid.Point
	for _, target := range targets {
		r := inj.computeReach()
		if r.Has(target) {
			continue
		}
		from, ok := r.nearest(target)
		if ok && inj.remaining() > 0 {
			inj.bisect(from, target, 0, inj.remaining())
			r = inj.computeReach()
		}
		if !r.Has(target) {
			logger.Debug("Platform repair left target unreachable", "target", target)
			unresolved = append(unresolved, target)
		}
	}
	return unresolved
}

// bisect places a platform near the midpoint of a..b so a player standing on it splits
// the segment in two, then recurses into both halves. Segments a single clear jump
// already covers are left alone. Returns the number of platforms it placed.
func (inj *injector) bisect(a, b grid.Point, depth, budget int) int {
	if depth >= inj.cfg.MaxRepairDepth || budget <= 0 || inj.jumpable(a, b) {
		return 0
	}

	mid := grid.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	used := 0
	for _, off := range lateralOffsets {
		stand := mid.Add(off, 0)
		if stand == a || stand == b {
			continue
		}
		if inj.tryPlace(stand.Add(0, -1), SourceRepair) {
			mid = stand
			used = 1
			break
		}
	}
	if mid == a || mid == b {
		return used
	}

	used += inj.bisect(a, mid, depth+1, budget-used)
	used += inj.bisect(mid, b, depth+1, budget-used)
	return used
}

// jumpable reports whether a player standing in a clears an arc into b
func (inj *injector) jumpable(a, b grid.Point) bool {
	dx := b.X - a.X
	if dx < 0 {
		dx = -dx
	}
	if dx > inj.jump.Distance || b.Y-a.Y > inj.eff {
		return false
	}
	_, ok := inj.canJump(a, b)
	return ok
}
