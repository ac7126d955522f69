package roomgraph

import (
	"math/rand"
	"testing"

	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/grid"
	"github.com/lawnchairsociety/roomforge/internal/rooms"
)

func regionsAt(points ...grid.Point) []rooms.Region {
	out := make([]rooms.Region, len(points))
	for i, p := range points {
		out[i] = rooms.Region{
			ID:     i,
			Bounds: grid.Rect{X: p.X - 1, Y: p.Y - 1, W: 3, H: 3},
			Center: p,
		}
	}
	return out
}

func randomRegions(rng *rand.Rand, n int) []rooms.Region {
	pts := make([]grid.Point, n)
	for i := range pts {
		pts[i] = grid.Point{X: rng.Intn(60), Y: rng.Intn(40)}
	}
	return regionsAt(pts...)
}

func TestBuildFewerThanTwoRooms(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, regions := range [][]rooms.Region{nil, regionsAt(grid.Point{X: 3, Y: 3})} {
		g := Build(regions, config.GraphConfig{ExtraEdgeRatio: 0.5}, rng)
		if len(g.All) != 0 || len(g.Final) != 0 {
			t.Errorf("%d rooms should produce no edges", len(regions))
		}
	}
}

func TestBackboneIsSpanningTree(t *testing.T) {
	cfg := config.GraphConfig{ExtraEdgeRatio: 0.3}

	for s := int64(0); s < 30; s++ {
		rng := rand.New(rand.NewSource(s))
		regions := randomRegions(rng, 2+rng.Intn(10))
		g := Build(regions, cfg, rng)

		if len(g.Backbone) != len(regions)-1 {
			t.Errorf("seed %d: backbone has %d edges for %d rooms", s, len(g.Backbone), len(regions))
		}
		if !spans(len(regions), g.Backbone) {
			t.Errorf("seed %d: backbone does not span all rooms", s)
		}
		if !g.Connected {
			t.Errorf("seed %d: final graph reported disconnected", s)
		}
		if len(g.Final) != len(g.Backbone)+len(g.Extra) {
			t.Errorf("seed %d: final = %d, backbone+extra = %d", s, len(g.Final), len(g.Backbone)+len(g.Extra))
		}
	}
}

func TestBackboneIsMinimal(t *testing.T) {
	// Cocircular square: the tree uses three sides, never the diagonal
	regions := regionsAt(
		grid.Point{X: 0, Y: 0},
		grid.Point{X: 10, Y: 0},
		grid.Point{X: 0, Y: 10},
		grid.Point{X: 10, Y: 10},
	)
	g := Build(regions, config.GraphConfig{}, rand.New(rand.NewSource(1)))

	total := 0.0
	for _, e := range g.Backbone {
		total += e.Weight
	}
	if total != 30 {
		t.Errorf("backbone weight = %g, want 30", total)
	}
	if len(g.Extra) != 0 {
		t.Errorf("ratio 0 should add no extra edges, got %d", len(g.Extra))
	}
}

func TestExtraEdgeRatio(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	regions := randomRegions(rng, 12)

	full := Build(regions, config.GraphConfig{ExtraEdgeRatio: 1}, rand.New(rand.NewSource(9)))
	if len(full.Final) != len(full.All) {
		t.Errorf("ratio 1 should keep every candidate: final %d, all %d", len(full.Final), len(full.All))
	}

	none := Build(regions, config.GraphConfig{ExtraEdgeRatio: 0}, rand.New(rand.NewSource(9)))
	if len(none.Extra) != 0 {
		t.Errorf("ratio 0 kept %d extra edges", len(none.Extra))
	}
}

func TestCollinearFallsBackToCompleteGraph(t *testing.T) {
	regions := regionsAt(
		grid.Point{X: 2, Y: 5},
		grid.Point{X: 8, Y: 5},
		grid.Point{X: 14, Y: 5},
		grid.Point{X: 20, Y: 5},
	)
	g := Build(regions, config.GraphConfig{}, rand.New(rand.NewSource(1)))

	if len(g.Backbone) != 3 {
		t.Fatalf("backbone has %d edges, want 3", len(g.Backbone))
	}
	for _, e := range g.Backbone {
		if e.B != e.A+1 {
			t.Errorf("collinear backbone should chain neighbours, got %d-%d", e.A, e.B)
		}
	}
}

func TestCoincidentCenters(t *testing.T) {
	regions := regionsAt(
		grid.Point{X: 5, Y: 5},
		grid.Point{X: 5, Y: 5},
		grid.Point{X: 15, Y: 9},
	)
	g := Build(regions, config.GraphConfig{}, rand.New(rand.NewSource(1)))
	if !spans(3, g.Backbone) {
		t.Error("coincident centers must still be spanned")
	}
}

func TestTriangulationOfConvexPentagon(t *testing.T) {
	edges := triangulate([]grid.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 7}, {X: 10, Y: 7}, {X: 5, Y: 20}})
	// Convex pentagon: 3 triangles, 5 hull edges and 2 diagonals
	if len(edges) != 7 {
		t.Errorf("got %d Delaunay edges, want 7", len(edges))
	}
}

func TestBuildDeterministic(t *testing.T) {
	regions := randomRegions(rand.New(rand.NewSource(2)), 9)
	cfg := config.GraphConfig{ExtraEdgeRatio: 0.4}

	a := Build(regions, cfg, rand.New(rand.NewSource(77)))
	b := Build(regions, cfg, rand.New(rand.NewSource(77)))
	if len(a.Final) != len(b.Final) {
		t.Fatalf("final sizes differ: %d vs %d", len(a.Final), len(b.Final))
	}
	for i := range a.Final {
		if a.Final[i] != b.Final[i] {
			t.Errorf("edge %d differs: %+v vs %+v", i, a.Final[i], b.Final[i])
		}
	}
}
