// Package special builds the fixed entrance and boss room layouts that skip the
// generation pipeline.
package special

import (
	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/grid"
	"github.com/lawnchairsociety/roomforge/internal/spawn"
)

// Result is a finished special room
type Result struct {
	Grid   *grid.Grid
	Spawns []spawn.SpawnPoint
	Door   []grid.Point // Sealed cells an external trigger opens; boss rooms only
}

// Entrance builds a flat room with open corridors on both sides, no platforms and no spawns.
func Entrance(w, h int, sc config.SpecialConfig) *Result {
	return &Result{Grid: flatRoom(w, h, sc)}
}

// Boss builds the flat room with a single boss spawn at the centre of the floor and the
// exit corridor sealed by a door column next to the room.
func Boss(w, h int, sc config.SpecialConfig) *Result {
	g := flatRoom(w, h, sc)

	doorX := g.Width - sc.CorridorWidth
	var door []grid.Point
	for y := sc.GroundLevel + 1; y < sc.GroundLevel+1+sc.CorridorHeight; y++ {
		g.Set(doorX, y, grid.Wall)
		door = append(door, grid.Point{X: doorX, Y: y})
	}

	boss := spawn.SpawnPoint{
		Pos:   grid.Point{X: g.Width / 2, Y: sc.GroundLevel + 1},
		Kind:  spawn.KindBoss,
		Role:  spawn.RoleBoss,
		Valid: true,
	}
	return &Result{Grid: g, Spawns: []spawn.SpawnPoint{boss}, Door: door}
}

// flatRoom lays out the shared topology: solid band on rows 0..GroundLevel, walls on
// the sides and the ceiling, open interior above the band, and corridors through both
// side walls just above the band.
func flatRoom(w, h int, sc config.SpecialConfig) *grid.Grid {
	g := grid.New(w, h)
	band := sc.GroundLevel + 1

	g.Fill(grid.Rect{X: 1, Y: band, W: g.Width - 2, H: g.Height - 1 - band}, grid.Floor)

	corridor := grid.Rect{X: 0, Y: band, W: sc.CorridorWidth, H: sc.CorridorHeight}
	g.Fill(corridor, grid.Floor)
	corridor.X = g.Width - sc.CorridorWidth
	g.Fill(corridor, grid.Floor)

	g.Entrance = grid.Point{X: 0, Y: band}
	g.Exit = grid.Point{X: g.Width - 1, Y: band}
	return g
}
