// Package rooms carves rectangular rooms into partition leaves and assigns their roles.
package rooms

import (
	"math/rand"
	"sort"

	"github.com/lawnchairsociety/roomforge/internal/bsp"
	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/grid"
)

// Role is the gameplay purpose of a room
type Role uint8

const (
	RoleEntrance Role = iota
	RoleExit
	RoleCombat
	RoleRest
	RoleConnector
	RoleBoss
)

// String returns the string representation of a Role
func (r Role) String() string {
	switch r {
	case RoleEntrance:
		return "entrance"
	case RoleExit:
		return "exit"
	case RoleCombat:
		return "combat"
	case RoleRest:
		return "rest"
	case RoleConnector:
		return "connector"
	case RoleBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// ParseRole is the inverse of Role.String
func ParseRole(s string) (Role, bool) {
	for r := RoleEntrance; r <= RoleBoss; r++ {
		if r.String() == s {
			return r, true
		}
	}
	return RoleCombat, false
}

// Region is a carved room
type Region struct {
	ID     int
	Bounds grid.Rect
	Center grid.Point
	Role   Role
	Tiles  []grid.Point
	Leaf   bsp.NodeID // Originating partition leaf, lookup only
}

// Place carves one room per partition leaf that can hold one, keeping at most
// cfg.Rooms.TargetCount of them. Leaves that lose their room stay in the tree as
// pass-through space. Surviving regions are numbered 0..n-1 in leaf order.
func Place(tree *bsp.Tree, g *grid.Grid, cfg *config.Config, rng *rand.Rand) []Region {
	rc := cfg.Rooms
	var candidates []Region

	for _, leafID := range tree.Leaves() {
		leaf := tree.Node(leafID).Bounds

		w := roomSide(leaf.W, rc, rng)
		h := roomSide(leaf.H, rc, rng)
		w = min(max(w, cfg.Corridor.Width+1), leaf.W-2*rc.Padding)
		h = min(max(h, cfg.Corridor.Width+1), leaf.H-2*rc.Padding)
		if w < rc.MinSize || h < rc.MinSize {
			continue
		}

		x := leaf.X + rc.Padding + rng.Intn(leaf.W-2*rc.Padding-w+1)
		y := leaf.Y + rc.Padding + rng.Intn(leaf.H-2*rc.Padding-h+1)
		bounds := grid.Rect{X: x, Y: y, W: w, H: h}
		candidates = append(candidates, Region{
			ID:     len(candidates),
			Bounds: bounds,
			Center: bounds.Center(),
			Role:   RoleCombat,
			Leaf:   leafID,
		})
	}

	regions := keepLargest(candidates, rc.TargetCount)
	for i := range regions {
		r := &regions[i]
		r.ID = i
		g.Fill(r.Bounds, grid.Floor)
		r.Tiles = tilesOf(r.Bounds)
		tree.Node(r.Leaf).Room = i
	}
	return regions
}

// roomSide scales a leaf dimension by the fill ratio and a jitter draw
func roomSide(leafSide int, rc config.RoomsConfig, rng *rand.Rand) int {
	jitter := (2*rng.Float64() - 1) * rc.SizeJitter
	return int(float64(leafSide) * rc.FillRatio * (1 + jitter))
}

// keepLargest returns the n largest regions (area desc, then id) in their original order
func keepLargest(regions []Region, n int) []Region {
	if len(regions) <= n {
		return regions
	}
	order := make([]int, len(regions))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := regions[order[a]], regions[order[b]]
		if ra.Bounds.Area() != rb.Bounds.Area() {
			return ra.Bounds.Area() > rb.Bounds.Area()
		}
		return ra.ID < rb.ID
	})
	keep := order[:n]
	sort.Ints(keep)

	kept := make([]Region, 0, n)
	for _, i := range keep {
		kept = append(kept, regions[i])
	}
	return kept
}

func tilesOf(r grid.Rect) []grid.Point {
	tiles := make([]grid.Point, 0, r.Area())
	for y := r.Y; y < r.MaxY(); y++ {
		for x := r.X; x < r.MaxX(); x++ {
			tiles = append(tiles, grid.Point{X: x, Y: y})
		}
	}
	return tiles
}
