// Package platform inserts one-way platforms wherever a gap exceeds the player's jump envelope.
package platform

import (
	"math"
	"math/rand"

	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/grid"
	"github.com/lawnchairsociety/roomforge/internal/logger"
)

// Source records which pass placed a platform
type Source uint8

const (
	SourceVertical Source = iota
	SourceHorizontal
	SourceRepair
)

// String returns the string representation of a Source
func (s Source) String() string {
	switch s {
	case SourceVertical:
		return "vertical"
	case SourceHorizontal:
		return "horizontal"
	case SourceRepair:
		return "repair"
	default:
		return "unknown"
	}
}

// Placement is one platform written into the grid
type Placement struct {
	Anchor grid.Point // Validated target cell
	Tiles  []grid.Point
	Source Source
}

// Result lists the placements of one injection run
type Result struct {
	Placements []Placement
	Unresolved []grid.Point // Repair targets still unreachable when the pass ended
}

// Count returns the number of placed platforms
func (r Result) Count() int {
	return len(r.Placements)
}

// injector holds the state of one run. Depth and budget of the repair recursion
// are passed explicitly and never stored here.
type injector struct {
	g      *grid.Grid
	cfg    config.PlatformConfig
	jump   config.JumpConfig
	eff    int
	limit  grid.Rect
	rng    *rand.Rand
	zones  []bool // Exclusion mask
	placed []Placement
}

func newInjector(g *grid.Grid, cfg *config.Config, rng *rand.Rand) *injector {
	inj := &injector{
		g:     g,
		cfg:   cfg.Platforms,
		jump:  cfg.Jump,
		eff:   cfg.Jump.EffectiveHeight(),
		limit: g.Bounds().Inset(cfg.Grid.EdgePadding),
		rng:   rng,
		zones: make([]bool, g.Width*g.Height),
	}
	inj.markZone(g.Entrance)
	inj.markZone(g.Exit)
	return inj
}

// Inject runs the vertical scan, the horizontal scan and reachability repair towards
// each target in order. Every pass shares the MaxCount budget. Targets still out of
// reach when the budget or depth runs out are reported, never retried.
func Inject(g *grid.Grid, targets []grid.Point, cfg *config.Config, rng *rand.Rand) Result {
	inj := newInjector(g, cfg, rng)

	inj.verticalScan()
	vertical := len(inj.placed)
	inj.horizontalScan()
	horizontal := len(inj.placed) - vertical
	unresolved := inj.repair(targets)

	logger.Debug("Platforms injected",
		"vertical", vertical,
		"horizontal", horizontal,
		"repair", len(inj.placed)-vertical-horizontal,
		"unresolved", len(unresolved))

	return Result{Placements: inj.placed, Unresolved: unresolved}
}

func (inj *injector) remaining() int {
	return inj.cfg.MaxCount - len(inj.placed)
}

// verticalScan walks every interior column top to bottom and splits each Floor run
// taller than the effective jump height into evenly spaced tiers.
func (inj *injector) verticalScan() {
	g := inj.g
	for x := inj.limit.X; x < inj.limit.MaxX(); x++ {
		lastSolid := -1
		for y := g.Height - 1; y >= 0; y-- {
			if !g.IsSolid(x, y) {
				continue
			}
			if lastSolid >= 0 {
				gap := lastSolid - y - 1
				if gap > inj.eff {
					n := int(math.Ceil(float64(gap) / float64(inj.eff)))
					for k := 1; k < n; k++ {
						ty := y + int(math.Round(float64(k*gap)/float64(n)))
						inj.tryPlace(grid.Point{X: x, Y: ty}, SourceVertical)
					}
				}
			}
			lastSolid = y
		}
	}
}

// horizontalScan walks every interior row and puts one platform at the midpoint of
// each Floor run between solid cells that is wider than the jump distance.
func (inj *injector) horizontalScan() {
	g := inj.g
	for y := inj.limit.Y; y < inj.limit.MaxY(); y++ {
		lastSolid := -1
		for x := 0; x < g.Width; x++ {
			if !g.IsSolid(x, y) {
				continue
			}
			if lastSolid >= 0 {
				gap := x - lastSolid - 1
				if gap > inj.jump.Distance {
					inj.tryPlace(grid.Point{X: lastSolid + 1 + gap/2, Y: y}, SourceHorizontal)
				}
			}
			lastSolid = x
		}
	}
}

// tryPlace validates c and, when valid, writes a platform of random width centred on it.
func (inj *injector) tryPlace(c grid.Point, src Source) bool {
	g := inj.g
	if inj.remaining() <= 0 || !inj.limit.Contains(c) || g.At(c) != grid.Floor {
		return false
	}
	for i := 1; i <= inj.jump.PlayerHeight; i++ {
		if !g.IsFloor(c.X, c.Y+i) {
			return false
		}
	}

	left, right := c.X, c.X
	for left-1 >= inj.limit.X && g.IsFloor(left-1, c.Y) {
		left--
	}
	for right+1 < inj.limit.MaxX() && g.IsFloor(right+1, c.Y) {
		right++
	}
	if right-left+1 < inj.cfg.MinRun {
		return false
	}

	w := inj.cfg.MinWidth + inj.rng.Intn(inj.cfg.MaxWidth-inj.cfg.MinWidth+1)
	start := max(left, c.X-(w-1)/2)
	end := min(right, start+w-1)

	tiles := make([]grid.Point, 0, end-start+1)
	for x := start; x <= end; x++ {
		t := grid.Point{X: x, Y: c.Y}
		if inj.zoneOverlaps(t) {
			return false
		}
		tiles = append(tiles, t)
	}

	for _, t := range tiles {
		g.Set(t.X, t.Y, grid.Platform)
		inj.markZone(t)
	}
	inj.placed = append(inj.placed, Placement{Anchor: c, Tiles: tiles, Source: src})
	return true
}

// zoneOverlaps reports whether the exclusion square around p touches an existing zone
func (inj *injector) zoneOverlaps(p grid.Point) bool {
	r := inj.cfg.ExclusionRadius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			q := p.Add(dx, dy)
			if inj.g.InBounds(q.X, q.Y) && inj.zones[q.Y*inj.g.Width+q.X] {
				return true
			}
		}
	}
	return false
}

func (inj *injector) markZone(p grid.Point) {
	r := inj.cfg.ExclusionRadius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			q := p.Add(dx, dy)
			if inj.g.InBounds(q.X, q.Y) {
				inj.zones[q.Y*inj.g.Width+q.X] = true
			}
		}
	}
}
