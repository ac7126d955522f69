// Package anchors publishes the entrance and exit of generated rooms to consumers
// that place the player and link rooms together.
package anchors

import (
	"fmt"
	"sync"

	"github.com/lawnchairsociety/roomforge/internal/generator"
	"github.com/lawnchairsociety/roomforge/internal/grid"
)

// Anchor is one connection point in grid and world coordinates.
// World coordinates are the cell center, y-up like the grid.
type Anchor struct {
	CellX  int     `json:"cell_x"`
	CellY  int     `json:"cell_y"`
	WorldX float64 `json:"world_x"`
	WorldY float64 `json:"world_y"`
}

// Set is the anchor pair of one room
type Set struct {
	Seed     string  `json:"seed"`
	Kind     string  `json:"kind"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	TileSize float64 `json:"tile_size"`
	Entrance Anchor  `json:"entrance"`
	Exit     Anchor  `json:"exit"`
}

func (s Set) String() string {
	return fmt.Sprintf("%s %q entrance=(%d,%d) exit=(%d,%d)",
		s.Kind, s.Seed, s.Entrance.CellX, s.Entrance.CellY, s.Exit.CellX, s.Exit.CellY)
}

// FromResult extracts the anchors of a generated room. A non-positive tileSize is
// treated as 1, so world and grid units coincide.
func FromResult(res *generator.Result, tileSize float64) Set {
	if tileSize <= 0 {
		tileSize = 1
	}
	return Set{
		Seed:     res.Seed,
		Kind:     res.Kind.String(),
		Width:    res.Grid.Width,
		Height:   res.Grid.Height,
		TileSize: tileSize,
		Entrance: at(res.Grid.Entrance, tileSize),
		Exit:     at(res.Grid.Exit, tileSize),
	}
}

func at(p grid.Point, tileSize float64) Anchor {
	return Anchor{
		CellX:  p.X,
		CellY:  p.Y,
		WorldX: (float64(p.X) + 0.5) * tileSize,
		WorldY: (float64(p.Y) + 0.5) * tileSize,
	}
}

// Publisher receives the anchors of every room as it is generated
type Publisher interface {
	Publish(set Set) error
}

// Recorder is a Publisher that keeps everything it receives in memory.
type Recorder struct {
	mu   sync.Mutex
	sets []Set
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Publish records the set
func (r *Recorder) Publish(set Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets = append(r.sets, set)
	return nil
}

// Sets returns a copy of everything published so far, oldest first
func (r *Recorder) Sets() []Set {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Set, len(r.sets))
	copy(out, r.sets)
	return out
}

// PublishAll sends set to every publisher and returns the first error.
// All publishers are tried even after a failure.
func PublishAll(set Set, pubs ...Publisher) error {
	var first error
	for _, p := range pubs {
		if p == nil {
			continue
		}
		if err := p.Publish(set); err != nil && first == nil {
			first = err
		}
	}
	return first
}
