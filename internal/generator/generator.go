// Package generator runs the room pipeline from an empty grid to validated spawns.
package generator

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/roomforge/internal/bsp"
	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/connectivity"
	"github.com/lawnchairsociety/roomforge/internal/corridor"
	"github.com/lawnchairsociety/roomforge/internal/grid"
	"github.com/lawnchairsociety/roomforge/internal/logger"
	"github.com/lawnchairsociety/roomforge/internal/platform"
	"github.com/lawnchairsociety/roomforge/internal/roomgraph"
	"github.com/lawnchairsociety/roomforge/internal/rooms"
	"github.com/lawnchairsociety/roomforge/internal/seed"
	"github.com/lawnchairsociety/roomforge/internal/spawn"
	"github.com/lawnchairsociety/roomforge/internal/special"
)

// ErrUnknownKind is returned for a room kind the generator does not know
var ErrUnknownKind = errors.New("unknown room kind")

// Kind selects the full pipeline or one of the fixed layouts
type Kind uint8

const (
	KindStandard Kind = iota
	KindEntrance
	KindBoss
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindEntrance:
		return "entrance"
	case KindBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String
func ParseKind(s string) (Kind, error) {
	for k := KindStandard; k <= KindBoss; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return KindStandard, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Diagnostics records the soft failures of a run. None of them stop generation.
type Diagnostics struct {
	Leaves         int
	Rooms          int
	GraphConnected bool // Final edge set connects every room
	Walks          connectivity.Report
	Unresolved     []grid.Point // Repair targets left out of reach
	SealedCells    int          // Cells walled by island removal
}

// Result is everything a run produced. Tree and Graph are nil for fixed layouts.
type Result struct {
	Seed        string
	Kind        Kind
	Fingerprint string
	Grid        *grid.Grid
	Tree        *bsp.Tree
	Graph       *roomgraph.Graph
	Corridors   []corridor.Corridor
	Platforms   platform.Result
	Spawns      spawn.Analysis
	Door        []grid.Point
	Diagnostics Diagnostics
}

// Regions returns the placed rooms, if any
func (r *Result) Regions() []rooms.Region {
	if r.Graph == nil {
		return nil
	}
	return r.Graph.Rooms
}

// Generator runs one generation with its own random source
type Generator struct {
	config *config.Config
	seed   string
	rng    *rand.Rand
}

// NewGenerator creates a generator for one seed. Each call gets a fresh source, so
// generators never share state.
func NewGenerator(cfg *config.Config, seedText string) *Generator {
	return &Generator{
		config: cfg,
		seed:   seedText,
		rng:    seed.NewRand(seedText),
	}
}

// Generate is a shortcut for NewGenerator(cfg, seedText).Generate(kind)
func Generate(cfg *config.Config, seedText string, kind Kind) (*Result, error) {
	return NewGenerator(cfg, seedText).Generate(kind)
}

// Generate builds a room of the given kind
func (gen *Generator) Generate(kind Kind) (*Result, error) {
	res := &Result{
		Seed:        gen.seed,
		Kind:        kind,
		Fingerprint: gen.config.Fingerprint(),
	}

	switch kind {
	case KindStandard:
		gen.standard(res)
	case KindEntrance, KindBoss:
		sc := gen.config.Special
		build := special.Entrance
		if kind == KindBoss {
			build = special.Boss
		}
		sr := build(sc.Width, sc.Height, sc)
		res.Grid = sr.Grid
		res.Spawns = spawn.Analysis{Spawns: sr.Spawns}
		res.Door = sr.Door
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}

	logger.Info("Room generated",
		"seed", gen.seed,
		"kind", kind.String(),
		"rooms", res.Diagnostics.Rooms,
		"platforms", res.Platforms.Count(),
		"spawns", len(res.Spawns.Spawns))
	return res, nil
}

// standard runs the full pipeline. Stage order fixes the draw order of the random source.
func (gen *Generator) standard(res *Result) {
	cfg := gen.config
	g := grid.New(cfg.Grid.Width, cfg.Grid.Height)
	gen.placeAnchors(g)

	x, y, w, h := cfg.Grid.Interior()
	tree := bsp.Partition(grid.Rect{X: x, Y: y, W: w, H: h}, cfg.Partition, cfg.Rooms.TargetCount, gen.rng)

	regions := rooms.Place(tree, g, cfg, gen.rng)
	rooms.Classify(regions, g.Entrance, g.Exit, cfg.Rooms)

	graph := roomgraph.Build(regions, cfg.Graph, gen.rng)
	corridors := corridor.Carve(g, graph, cfg, gen.rng)
	walks := connectivity.Guarantee(g, cfg, gen.rng)

	targets := make([]grid.Point, 0, len(regions)+1)
	for _, r := range regions {
		targets = append(targets, r.Center)
	}
	targets = append(targets, g.Exit)
	plats := platform.Inject(g, targets, cfg, gen.rng)

	sealed := g.RemoveIslands(g.Entrance)
	g.Set(g.Entrance.X, g.Entrance.Y, grid.Floor)
	g.Set(g.Exit.X, g.Exit.Y, grid.Floor)

	res.Grid = g
	res.Tree = tree
	res.Graph = graph
	res.Corridors = corridors
	res.Platforms = plats
	res.Spawns = spawn.Analyze(g, cfg, gen.rng)
	res.Diagnostics = Diagnostics{
		Leaves:         len(tree.Leaves()),
		Rooms:          len(regions),
		GraphConnected: graph.Connected,
		Walks:          walks,
		Unresolved:     plats.Unresolved,
		SealedCells:    sealed,
	}

	if len(plats.Unresolved) > 0 {
		logger.Debug("Room accepted with unreachable targets",
			"seed", gen.seed,
			"unresolved", len(plats.Unresolved))
	}
}

// placeAnchors puts the entrance on the left border and the exit on the right one.
// A configured row of -1 is drawn from the random source. Each anchor gets a tunnel
// PlayerHeight cells tall through the edge padding.
func (gen *Generator) placeAnchors(g *grid.Grid) {
	gc := gen.config.Grid
	entranceRow := gen.anchorRow(gc.EntranceRow)
	exitRow := gen.anchorRow(gc.ExitRow)

	g.Entrance = grid.Point{X: 0, Y: entranceRow}
	g.Exit = grid.Point{X: g.Width - 1, Y: exitRow}

	top := g.Height - 1 - gc.EdgePadding
	for dy := 0; dy < gen.config.Jump.PlayerHeight; dy++ {
		for dx := 0; dx <= gc.EdgePadding; dx++ {
			if entranceRow+dy <= top {
				g.Set(dx, entranceRow+dy, grid.Floor)
			}
			if exitRow+dy <= top {
				g.Set(g.Width-1-dx, exitRow+dy, grid.Floor)
			}
		}
	}
}

func (gen *Generator) anchorRow(configured int) int {
	if configured >= 0 {
		return configured
	}
	pad := gen.config.Grid.EdgePadding
	return pad + gen.rng.Intn(gen.config.Grid.Height-2*pad)
}
