package grid

import "testing"

func TestCellString(t *testing.T) {
	tests := []struct {
		cell Cell
		want string
	}{
		{Wall, "wall"},
		{Floor, "floor"},
		{Platform, "platform"},
		{Entrance, "entrance"},
		{Exit, "exit"},
		{Cell(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.cell.String(); got != tt.want {
			t.Errorf("Cell(%d).String() = %q, want %q", tt.cell, got, tt.want)
		}
	}
}

func TestNewGridIsAllWall(t *testing.T) {
	g := New(5, 4)
	if g.Width != 5 || g.Height != 4 {
		t.Fatalf("size = %dx%d, want 5x4", g.Width, g.Height)
	}
	if got := g.Count(Wall); got != 20 {
		t.Errorf("Count(Wall) = %d, want 20", got)
	}
	if len(g.FloorTiles()) != 0 {
		t.Error("new grid should have no floor tiles")
	}
}

func TestGetOutOfBoundsIsWall(t *testing.T) {
	g := New(3, 3)
	g.Fill(g.Bounds(), Floor)

	if g.Get(-1, 0) != Wall {
		t.Error("x=-1 should read as wall")
	}
	if g.Get(0, 3) != Wall {
		t.Error("y=3 should read as wall")
	}
	g.Set(5, 5, Floor) // ignored
}

func TestCarveBrushOnlyOverwritesWall(t *testing.T) {
	g := New(6, 6)
	g.Set(2, 2, Platform)

	carved := g.CarveBrush(Point{X: 2, Y: 2}, 2)
	if carved != 3 {
		t.Errorf("carved %d cells, want 3", carved)
	}
	if g.Get(2, 2) != Platform {
		t.Error("platform under the brush should be preserved")
	}
	for _, p := range []Point{{3, 2}, {2, 3}, {3, 3}} {
		if g.At(p) != Floor {
			t.Errorf("cell %v = %v, want floor", p, g.At(p))
		}
	}
}

func TestCarveBrushWithinRespectsLimit(t *testing.T) {
	g := New(6, 6)
	limit := Rect{X: 1, Y: 1, W: 4, H: 4}

	g.CarveBrushWithin(Point{X: 1, Y: 1}, 3, limit)
	if g.Get(0, 0) != Wall || g.Get(0, 1) != Wall {
		t.Error("brush leaked outside the limit rectangle")
	}
	if g.Get(1, 1) != Floor || g.Get(2, 2) != Floor {
		t.Error("brush did not carve inside the limit rectangle")
	}
}

func TestRowsRoundTrip(t *testing.T) {
	rows := []string{
		"#####",
		"#..X#",
		"#.=.#",
		"#E..#",
		"#####",
	}
	g, err := ParseRows(rows)
	if err != nil {
		t.Fatalf("ParseRows failed: %v", err)
	}

	if g.Entrance != (Point{X: 1, Y: 1}) {
		t.Errorf("Entrance = %v, want (1,1)", g.Entrance)
	}
	if g.Exit != (Point{X: 3, Y: 3}) {
		t.Errorf("Exit = %v, want (3,3)", g.Exit)
	}
	if g.Get(1, 1) != Floor {
		t.Error("entrance glyph should be stored as floor")
	}
	if g.Get(2, 2) != Platform {
		t.Error("platform glyph lost")
	}

	marked := g.Marked().Rows()
	for i := range rows {
		if marked[i] != rows[i] {
			t.Errorf("row %d = %q, want %q", i, marked[i], rows[i])
		}
	}
}

func TestParseRowsErrors(t *testing.T) {
	if _, err := ParseRows(nil); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := ParseRows([]string{"###", "##"}); err == nil {
		t.Error("expected error for ragged rows")
	}
	if _, err := ParseRows([]string{"#?#"}); err == nil {
		t.Error("expected error for unknown glyph")
	}
}

func TestFloodFillAndIslands(t *testing.T) {
	g, err := ParseRows([]string{
		"#######",
		"#..#..#",
		"#..#..#",
		"#E.#..#",
		"#######",
	})
	if err != nil {
		t.Fatal(err)
	}

	if g.Reachable(g.Entrance, Point{X: 4, Y: 2}) {
		t.Error("right chamber should not be reachable")
	}
	if !g.Reachable(g.Entrance, Point{X: 2, Y: 3}) {
		t.Error("left chamber should be reachable")
	}
	if g.AllReachable(g.Entrance) {
		t.Error("AllReachable should be false with an island")
	}

	sealed := g.RemoveIslands(g.Entrance)
	if sealed != 6 {
		t.Errorf("sealed %d cells, want 6", sealed)
	}
	if !g.AllReachable(g.Entrance) {
		t.Error("AllReachable should hold after island removal")
	}
}

func TestFloodFillFromWall(t *testing.T) {
	g := New(3, 3)
	seen := g.FloodFill(Point{X: 1, Y: 1})
	for i, v := range seen {
		if v {
			t.Fatalf("cell %d marked reachable from a wall", i)
		}
	}
}

func TestCloneAndEqual(t *testing.T) {
	g := New(4, 4)
	g.Set(1, 1, Floor)
	g.Entrance = Point{X: 1, Y: 1}

	cp := g.Clone()
	if !g.Equal(cp) {
		t.Fatal("clone should be equal")
	}
	cp.Set(2, 2, Floor)
	if g.Equal(cp) {
		t.Error("modified clone should differ")
	}
	if g.Get(2, 2) != Wall {
		t.Error("clone shares storage with the original")
	}
}

func TestRectHelpers(t *testing.T) {
	r := Rect{X: 2, Y: 3, W: 4, H: 5}

	if r.Center() != (Point{X: 4, Y: 5}) {
		t.Errorf("Center = %v", r.Center())
	}
	if !r.Contains(Point{X: 5, Y: 7}) || r.Contains(Point{X: 6, Y: 7}) {
		t.Error("Contains is not half-open")
	}
	if !r.ContainsRect(r.Inset(1)) {
		t.Error("inset rect should be contained")
	}
	if got := r.Clamp(Point{X: 100, Y: -4}); got != (Point{X: 5, Y: 3}) {
		t.Errorf("Clamp = %v, want (5,3)", got)
	}
}
