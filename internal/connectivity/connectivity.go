// Package connectivity carves the random walks that guarantee an entrance-to-exit path.
package connectivity

import (
	"math/rand"

	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/grid"
	"github.com/lawnchairsociety/roomforge/internal/logger"
)

// Report summarizes the two walks
type Report struct {
	ForwardSteps  int
	BackwardSteps int
	Carved        int  // Wall cells turned to Floor by both walks
	ExitReachable bool // Flood fill from the entrance reached the exit
}

// Guarantee carves a brush walk from the entrance to the exit and another back,
// then checks that the exit is reachable. An unreachable exit is logged and left
// for island removal to resolve.
func Guarantee(g *grid.Grid, cfg *config.Config, rng *rand.Rand) Report {
	limit := g.Bounds().Inset(cfg.Grid.EdgePadding)

	var r Report
	var carved int
	r.ForwardSteps, carved = Walk(g, g.Entrance, g.Exit, limit, cfg.Walk, rng)
	r.Carved += carved
	r.BackwardSteps, carved = Walk(g, g.Exit, g.Entrance, limit, cfg.Walk, rng)
	r.Carved += carved

	r.ExitReachable = g.Reachable(g.Entrance, g.Exit)
	if !r.ExitReachable {
		logger.Warning("Exit unreachable after connectivity walks",
			"entrance", g.Entrance,
			"exit", g.Exit)
	}
	return r
}

// Walk moves from one point to another inside limit, carving a brush square at every
// visited cell. When both axes still differ the walk steps horizontally with
// probability HorizontalBias. Every step shortens the Manhattan distance, so the
// walk always arrives. Returns the number of steps and carved cells.
func Walk(g *grid.Grid, from, to grid.Point, limit grid.Rect, cfg config.WalkConfig, rng *rand.Rand) (steps, carved int) {
	cur := limit.Clamp(from)
	target := limit.Clamp(to)

	carved = g.CarveBrushWithin(cur, cfg.BrushSize, limit)
	for cur != target {
		dx := target.X - cur.X
		dy := target.Y - cur.Y

		horizontal := dy == 0
		if dx != 0 && dy != 0 {
			horizontal = rng.Float64() < cfg.HorizontalBias
		}
		if horizontal {
			cur.X += grid.Sign(dx)
		} else {
			cur.Y += grid.Sign(dy)
		}

		steps++
		carved += g.CarveBrushWithin(cur, cfg.BrushSize, limit)
	}
	return steps, carved
}
