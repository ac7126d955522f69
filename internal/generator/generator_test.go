package generator

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/grid"
	"github.com/lawnchairsociety/roomforge/internal/rooms"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := config.DefaultConfig()

	for _, s := range []string{"abc", "42", "lantern"} {
		a, err := Generate(cfg, s, KindStandard)
		if err != nil {
			t.Fatalf("Generate(%q): %v", s, err)
		}
		b, err := Generate(cfg, s, KindStandard)
		if err != nil {
			t.Fatalf("Generate(%q): %v", s, err)
		}
		if !a.Grid.Equal(b.Grid) {
			t.Errorf("seed %q: grids differ", s)
		}
		if !reflect.DeepEqual(a.Spawns, b.Spawns) {
			t.Errorf("seed %q: spawns differ", s)
		}
		if !reflect.DeepEqual(a.Graph.Final, b.Graph.Final) {
			t.Errorf("seed %q: graphs differ", s)
		}
	}
}

func TestGenerateDifferentSeedsDiffer(t *testing.T) {
	cfg := config.DefaultConfig()
	a, _ := Generate(cfg, "one", KindStandard)
	b, _ := Generate(cfg, "two", KindStandard)
	if a.Grid.Equal(b.Grid) {
		t.Error("different seeds produced identical grids")
	}
}

func TestGenerateAnchorsReachable(t *testing.T) {
	cfg := config.DefaultConfig()

	for i := 0; i < 30; i++ {
		s := fmt.Sprintf("seed-%d", i)
		res, err := Generate(cfg, s, KindStandard)
		if err != nil {
			t.Fatalf("Generate(%q): %v", s, err)
		}
		g := res.Grid

		if g.At(g.Entrance) != grid.Floor || g.At(g.Exit) != grid.Floor {
			t.Errorf("%s: anchors not Floor: %v, %v", s, g.At(g.Entrance), g.At(g.Exit))
		}
		if g.Entrance.X != 0 || g.Exit.X != g.Width-1 {
			t.Errorf("%s: anchors not on the side borders: %v, %v", s, g.Entrance, g.Exit)
		}
		if !g.Reachable(g.Entrance, g.Exit) {
			t.Errorf("%s: exit not reachable", s)
		}
		if !g.AllReachable(g.Entrance) {
			t.Errorf("%s: island left after post-processing", s)
		}
	}
}

func TestGenerateFourRoomScenario(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Rooms.TargetCount = 4

	res, err := Generate(cfg, "abc", KindStandard)
	if err != nil {
		t.Fatal(err)
	}
	regions := res.Regions()
	if len(regions) != 4 {
		t.Fatalf("placed %d rooms, want 4", len(regions))
	}
	if len(res.Graph.Backbone) != 3 {
		t.Errorf("backbone has %d edges, want 3", len(res.Graph.Backbone))
	}

	g := res.Grid
	var entranceRoom, exitRoom rooms.Region
	for _, r := range regions {
		switch r.Role {
		case rooms.RoleEntrance:
			entranceRoom = r
		case rooms.RoleExit:
			exitRoom = r
		}
	}
	for _, r := range regions {
		if r.Center.Dist(g.Entrance) < entranceRoom.Center.Dist(g.Entrance) {
			t.Errorf("room %d is nearer the entrance than the entrance room", r.ID)
		}
		if r.ID != entranceRoom.ID && r.Center.Dist(g.Exit) < exitRoom.Center.Dist(g.Exit) {
			t.Errorf("room %d is nearer the exit than the exit room", r.ID)
		}
	}
}

func TestGenerateFixedAnchorRows(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Grid.EntranceRow = 5
	cfg.Grid.ExitRow = 17

	res, err := Generate(cfg, "abc", KindStandard)
	if err != nil {
		t.Fatal(err)
	}
	if res.Grid.Entrance != (grid.Point{X: 0, Y: 5}) || res.Grid.Exit != (grid.Point{X: 39, Y: 17}) {
		t.Errorf("anchors = %v, %v", res.Grid.Entrance, res.Grid.Exit)
	}
}

func TestGeneratePlatformsAndSpawns(t *testing.T) {
	cfg := config.DefaultConfig()

	for i := 0; i < 10; i++ {
		res, err := Generate(cfg, fmt.Sprint(i), KindStandard)
		if err != nil {
			t.Fatal(err)
		}
		if res.Platforms.Count() > cfg.Platforms.MaxCount {
			t.Errorf("seed %d: %d platforms over budget", i, res.Platforms.Count())
		}
		g := res.Grid
		for j, sp := range res.Spawns.Spawns {
			if sp.Pos.Dist(g.Entrance) < cfg.Spawns.SafetyMargin || sp.Pos.Dist(g.Exit) < cfg.Spawns.SafetyMargin {
				t.Errorf("seed %d: spawn %v inside safety margin", i, sp.Pos)
			}
			for _, other := range res.Spawns.Spawns[j+1:] {
				if sp.Pos.Dist(other.Pos) < cfg.Spawns.MinDistance {
					t.Errorf("seed %d: spawns %v and %v too close", i, sp.Pos, other.Pos)
				}
			}
		}
		if !reflect.DeepEqual(res.Diagnostics.Unresolved, res.Platforms.Unresolved) {
			t.Errorf("seed %d: diagnostics do not mirror unresolved targets", i)
		}
	}
}

func TestGenerateSpecialKinds(t *testing.T) {
	cfg := config.DefaultConfig()

	res, err := Generate(cfg, "abc", KindEntrance)
	if err != nil {
		t.Fatal(err)
	}
	if res.Tree != nil || res.Graph != nil {
		t.Error("entrance room should skip the pipeline")
	}
	if res.Grid.Width != cfg.Special.Width || res.Grid.Height != cfg.Special.Height {
		t.Errorf("entrance room is %dx%d", res.Grid.Width, res.Grid.Height)
	}
	if res.Grid.Count(grid.Platform) != 0 || len(res.Spawns.Spawns) != 0 {
		t.Error("entrance room has platforms or spawns")
	}

	res, err = Generate(cfg, "abc", KindBoss)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Spawns.Spawns) != 1 || len(res.Door) == 0 {
		t.Errorf("boss room: %d spawns, door %v", len(res.Spawns.Spawns), res.Door)
	}
}

func TestParseKind(t *testing.T) {
	for k := KindStandard; k <= KindBoss; k++ {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("vault"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
	if _, err := Generate(config.DefaultConfig(), "abc", Kind(9)); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind from Generate, got %v", err)
	}
}

func TestCacheHitsOnSameInputs(t *testing.T) {
	c, err := NewCache(16, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	cfg := config.DefaultConfig()

	first, hit, err := c.Generate(cfg, "abc", KindStandard)
	if err != nil || hit {
		t.Fatalf("first call: hit=%v err=%v", hit, err)
	}
	second, hit, err := c.Generate(cfg, "abc", KindStandard)
	if err != nil || !hit {
		t.Fatalf("second call: hit=%v err=%v", hit, err)
	}
	if first != second {
		t.Error("cache hit returned a different result")
	}

	if _, hit, _ := c.Generate(cfg, "abc", KindEntrance); hit {
		t.Error("different kind hit the cache")
	}

	changed := config.DefaultConfig()
	changed.Corridor.Width = 3
	if _, ok := c.Get(changed, "abc", KindStandard); ok {
		t.Error("changed config hit the cache")
	}
}

func TestCacheKey(t *testing.T) {
	if CacheKey("abc", KindBoss, "f00d") != "f00d|boss|abc" {
		t.Errorf("unexpected key %q", CacheKey("abc", KindBoss, "f00d"))
	}
}
