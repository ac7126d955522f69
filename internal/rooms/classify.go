package rooms

import (
	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/grid"
)

// Footprint thresholds for the role classifier
const (
	connectorAreaRatio = 0.6
	connectorShortSide = 4
	restAreaRatio      = 0.9
)

// Classify assigns roles in place. The room nearest the entrance anchor becomes the
// Entrance, the nearest remaining room to the exit anchor becomes the Exit. The rest
// are sized against the mean room area; Rest and Connector rooms are capped and any
// overflow falls back to Combat.
func Classify(regions []Region, entrance, exit grid.Point, rc config.RoomsConfig) {
	if len(regions) == 0 {
		return
	}

	for i := range regions {
		regions[i].Role = RoleCombat
	}

	entranceIdx := nearest(regions, entrance, -1)
	regions[entranceIdx].Role = RoleEntrance
	exitIdx := -1
	if len(regions) > 1 {
		exitIdx = nearest(regions, exit, entranceIdx)
		regions[exitIdx].Role = RoleExit
	}

	total := 0
	for _, r := range regions {
		total += r.Bounds.Area()
	}
	mean := float64(total) / float64(len(regions))

	rests, connectors := 0, 0
	for i := range regions {
		if i == entranceIdx || i == exitIdx {
			continue
		}
		r := &regions[i]
		ratio := float64(r.Bounds.Area()) / mean
		short := min(r.Bounds.W, r.Bounds.H)

		switch {
		case ratio < connectorAreaRatio || short < connectorShortSide:
			if connectors < rc.ConnectorCap {
				r.Role = RoleConnector
				connectors++
			}
		case ratio < restAreaRatio:
			if rests < rc.RestCap {
				r.Role = RoleRest
				rests++
			}
		}
	}
}

// nearest returns the index of the region whose center is closest to p, skipping skip.
// Ties go to the lower index.
func nearest(regions []Region, p grid.Point, skip int) int {
	best := -1
	bestDist := 0.0
	for i, r := range regions {
		if i == skip {
			continue
		}
		d := r.Center.Dist(p)
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
