package export

import (
	"strings"

	"github.com/lawnchairsociety/roomforge/internal/generator"
	"github.com/lawnchairsociety/roomforge/internal/grid"
	"github.com/lawnchairsociety/roomforge/internal/spawn"
)

// roleGlyphs overlay spawn points on the map
var roleGlyphs = map[spawn.Role]byte{
	spawn.RoleHeavyMelee: 'H',
	spawn.RoleRanged:     'R',
	spawn.RoleFlyer:      'F',
	spawn.RoleBoss:       'B',
}

// Legend explains every glyph RenderASCII can print
const Legend = "# wall  . floor  = platform  E entrance  X exit  H heavy_melee  R ranged  F flyer  B boss"

// RenderASCII draws the room top row first, with anchors and spawn roles stamped on
// top of the cells. The legend follows the map when withLegend is set.
func RenderASCII(res *generator.Result, withLegend bool) string {
	rows := res.Grid.Marked().Rows()
	h := res.Grid.Height

	for _, sp := range res.Spawns.Spawns {
		glyph, ok := roleGlyphs[sp.Role]
		if !ok || !res.Grid.InBounds(sp.Pos.X, sp.Pos.Y) {
			continue
		}
		i := h - 1 - sp.Pos.Y
		row := []byte(rows[i])
		row[sp.Pos.X] = glyph
		rows[i] = string(row)
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r)
		b.WriteByte('\n')
	}
	if withLegend {
		b.WriteString(Legend)
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderGrid draws a bare grid with anchors stamped and no overlay
func RenderGrid(g *grid.Grid) string {
	return g.Marked().String() + "\n"
}
