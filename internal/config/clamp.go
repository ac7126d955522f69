package config

import "fmt"

// clamper collects a note for every value it moves back into range
type clamper struct {
	notes []string
}

func (c *clamper) intRange(name string, v *int, lo, hi int) {
	if hi < lo {
		hi = lo
	}
	switch {
	case *v < lo:
		c.notes = append(c.notes, fmt.Sprintf("%s=%d raised to %d", name, *v, lo))
		*v = lo
	case *v > hi:
		c.notes = append(c.notes, fmt.Sprintf("%s=%d lowered to %d", name, *v, hi))
		*v = hi
	}
}

func (c *clamper) floatRange(name string, v *float64, lo, hi float64) {
	if hi < lo {
		hi = lo
	}
	switch {
	case *v < lo:
		c.notes = append(c.notes, fmt.Sprintf("%s=%g raised to %g", name, *v, lo))
		*v = lo
	case *v > hi:
		c.notes = append(c.notes, fmt.Sprintf("%s=%g lowered to %g", name, *v, hi))
		*v = hi
	}
}

// Clamp moves every out-of-range tunable back into its valid range and returns
// one note per adjustment. It never fails.
func (c *Config) Clamp() []string {
	cl := &clamper{}

	g := &c.Grid
	cl.intRange("grid.width", &g.Width, 16, 512)
	cl.intRange("grid.height", &g.Height, 12, 512)
	cl.intRange("grid.edge_padding", &g.EdgePadding, 1, min(g.Width, g.Height)/4)
	if g.EntranceRow != -1 {
		cl.intRange("grid.entrance_row", &g.EntranceRow, g.EdgePadding, g.Height-g.EdgePadding-1)
	}
	if g.ExitRow != -1 {
		cl.intRange("grid.exit_row", &g.ExitRow, g.EdgePadding, g.Height-g.EdgePadding-1)
	}
	if g.TileSize <= 0 {
		cl.notes = append(cl.notes, fmt.Sprintf("grid.tile_size=%g reset to 16", g.TileSize))
		g.TileSize = 16
	}

	p := &c.Partition
	cl.intRange("partition.max_depth", &p.MaxDepth, 1, 12)
	cl.intRange("partition.min_leaf_size", &p.MinLeafSize, 4, min(g.Width, g.Height)/2)
	cl.floatRange("partition.split_ratio_min", &p.SplitRatioMin, 0.1, 0.5)
	cl.floatRange("partition.split_ratio_max", &p.SplitRatioMax, p.SplitRatioMin, 0.9)
	cl.floatRange("partition.stop_chance", &p.StopChance, 0, 1)

	r := &c.Rooms
	cl.intRange("rooms.target_count", &r.TargetCount, 1, 64)
	cl.floatRange("rooms.fill_ratio", &r.FillRatio, 0.2, 1)
	cl.floatRange("rooms.size_jitter", &r.SizeJitter, 0, 0.5)
	cl.intRange("rooms.padding", &r.Padding, 0, 3)
	cl.intRange("rooms.min_size", &r.MinSize, 2, p.MinLeafSize)
	cl.intRange("rooms.rest_cap", &r.RestCap, 0, 64)
	cl.intRange("rooms.connector_cap", &r.ConnectorCap, 0, 64)

	cl.floatRange("graph.extra_edge_ratio", &c.Graph.ExtraEdgeRatio, 0, 1)

	cl.intRange("corridor.width", &c.Corridor.Width, 1, 4)
	cl.floatRange("corridor.l_shape_chance", &c.Corridor.LShapeChance, 0, 1)

	cl.intRange("walk.brush_size", &c.Walk.BrushSize, 1, 4)
	cl.floatRange("walk.horizontal_bias", &c.Walk.HorizontalBias, 0, 1)

	j := &c.Jump
	cl.intRange("jump.height", &j.Height, 1, 16)
	cl.intRange("jump.distance", &j.Distance, 1, 16)
	cl.intRange("jump.player_height", &j.PlayerHeight, 1, 4)

	pl := &c.Platforms
	cl.intRange("platforms.max_count", &pl.MaxCount, 0, 256)
	cl.intRange("platforms.min_width", &pl.MinWidth, 1, 8)
	cl.intRange("platforms.max_width", &pl.MaxWidth, pl.MinWidth, 8)
	cl.intRange("platforms.exclusion_radius", &pl.ExclusionRadius, 0, 8)
	cl.intRange("platforms.min_run", &pl.MinRun, 1, 16)
	cl.intRange("platforms.max_repair_depth", &pl.MaxRepairDepth, 0, 10)

	s := &c.Spawns
	cl.intRange("spawns.min_ground_span", &s.MinGroundSpan, 1, g.Width)
	cl.intRange("spawns.headroom", &s.Headroom, 1, 8)
	cl.intRange("spawns.min_air_height", &s.MinAirHeight, 1, g.Height)
	cl.floatRange("spawns.air_chance", &s.AirChance, 0, 1)
	cl.intRange("spawns.max_enemies", &s.MaxEnemies, 0, 64)
	cl.floatRange("spawns.min_distance", &s.MinDistance, 0, float64(g.Width))
	cl.floatRange("spawns.safety_margin", &s.SafetyMargin, 0, float64(g.Width))
	cl.intRange("spawns.edge_padding", &s.EdgePadding, 0, min(g.Width, g.Height)/4)

	sp := &c.Special
	cl.intRange("special.width", &sp.Width, 12, 512)
	cl.intRange("special.height", &sp.Height, 8, 512)
	cl.intRange("special.ground_level", &sp.GroundLevel, 1, sp.Height-6)
	cl.intRange("special.corridor_width", &sp.CorridorWidth, 1, sp.Width/4)
	cl.intRange("special.corridor_height", &sp.CorridorHeight, 2, sp.Height-sp.GroundLevel-2)

	return cl.notes
}
