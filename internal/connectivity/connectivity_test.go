package connectivity

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/grid"
	"github.com/lawnchairsociety/roomforge/internal/logger"
)

func newAnchoredGrid(w, h int, entrance, exit grid.Point) *grid.Grid {
	g := grid.New(w, h)
	g.Entrance = entrance
	g.Exit = exit
	g.Set(entrance.X, entrance.Y, grid.Floor)
	g.Set(exit.X, exit.Y, grid.Floor)
	return g
}

func TestGuaranteeConnectsAnchors(t *testing.T) {
	cfg := config.DefaultConfig()

	for s := int64(0); s < 25; s++ {
		g := newAnchoredGrid(40, 25, grid.Point{X: 0, Y: 5}, grid.Point{X: 39, Y: 19})
		r := Guarantee(g, cfg, rand.New(rand.NewSource(s)))

		if !r.ExitReachable {
			t.Errorf("seed %d: exit not reachable", s)
		}
		// Both walks run between the anchors projected into the interior: (1,5) and (38,19)
		if r.ForwardSteps != 51 || r.BackwardSteps != 51 {
			t.Errorf("seed %d: steps = %d/%d, want 51", s, r.ForwardSteps, r.BackwardSteps)
		}
		if r.Carved == 0 {
			t.Errorf("seed %d: nothing carved", s)
		}
	}
}

func TestWalkStepsEqualManhattanDistance(t *testing.T) {
	g := grid.New(30, 30)
	limit := g.Bounds().Inset(1)
	from := grid.Point{X: 2, Y: 3}
	to := grid.Point{X: 20, Y: 25}

	steps, _ := Walk(g, from, to, limit, config.WalkConfig{BrushSize: 1, HorizontalBias: 0.7}, rand.New(rand.NewSource(3)))
	want := (to.X - from.X) + (to.Y - from.Y)
	if steps != want {
		t.Errorf("steps = %d, want %d", steps, want)
	}
	if !g.Reachable(from, to) {
		t.Error("walk path is not connected")
	}
}

func TestWalkStaysInsideLimit(t *testing.T) {
	g := grid.New(20, 12)
	limit := g.Bounds().Inset(1)

	Walk(g, grid.Point{X: 0, Y: 0}, grid.Point{X: 19, Y: 11}, limit, config.WalkConfig{BrushSize: 3, HorizontalBias: 0.5}, rand.New(rand.NewSource(8)))

	for x := 0; x < g.Width; x++ {
		if g.Get(x, 0) != grid.Wall || g.Get(x, g.Height-1) != grid.Wall {
			t.Fatal("walk carved the top or bottom border")
		}
	}
	for y := 0; y < g.Height; y++ {
		if g.Get(0, y) != grid.Wall || g.Get(g.Width-1, y) != grid.Wall {
			t.Fatal("walk carved the left or right border")
		}
	}
}

func TestWalkHorizontalBias(t *testing.T) {
	// Full horizontal bias: the walk finishes the x leg before climbing
	g := grid.New(30, 30)
	limit := g.Bounds().Inset(1)
	Walk(g, grid.Point{X: 2, Y: 2}, grid.Point{X: 20, Y: 20}, limit, config.WalkConfig{BrushSize: 1, HorizontalBias: 1}, rand.New(rand.NewSource(1)))

	for x := 2; x <= 20; x++ {
		if g.Get(x, 2) != grid.Floor {
			t.Fatalf("cell (%d,2) not carved by the horizontal leg", x)
		}
	}
	if g.Get(2, 3) != grid.Wall {
		t.Error("walk climbed before finishing the horizontal leg")
	}
}

func TestGuaranteeWarnsWhenExitUnreachable(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf, "WARN")
	defer logger.SetOutput(&bytes.Buffer{}, "ERROR")

	cfg := config.DefaultConfig()
	// Anchors in the corners of a padded ring the walks cannot reach
	g := newAnchoredGrid(20, 12, grid.Point{X: 0, Y: 0}, grid.Point{X: 19, Y: 11})
	r := Guarantee(g, cfg, rand.New(rand.NewSource(1)))

	if r.ExitReachable {
		t.Fatal("corner anchors outside the interior should stay disconnected")
	}
	if !strings.Contains(buf.String(), "Exit unreachable") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}
