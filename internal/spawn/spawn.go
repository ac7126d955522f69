// Package spawn finds, filters and assigns enemy spawn points in a finished grid.
package spawn

import (
	"math/rand"

	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/grid"
	"github.com/lawnchairsociety/roomforge/internal/logger"
)

// Kind is where a spawn point sits
type Kind uint8

const (
	KindGround Kind = iota
	KindAir
	KindBoss
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindGround:
		return "ground"
	case KindAir:
		return "air"
	case KindBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Role is the enemy role assigned to a spawn point
type Role uint8

const (
	RoleNone Role = iota
	RoleHeavyMelee
	RoleRanged
	RoleFlyer
	RoleBoss
)

// String returns the string representation of a Role
func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleHeavyMelee:
		return "heavy_melee"
	case RoleRanged:
		return "ranged"
	case RoleFlyer:
		return "flyer"
	case RoleBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// ParseRole is the inverse of Role.String
func ParseRole(s string) (Role, bool) {
	for r := RoleNone; r <= RoleBoss; r++ {
		if r.String() == s {
			return r, true
		}
	}
	return RoleNone, false
}

// ParseKind is the inverse of Kind.String
func ParseKind(s string) (Kind, bool) {
	for k := KindGround; k <= KindBoss; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return KindGround, false
}

// Rejection reasons
const (
	ReasonEdge     = "edge padding"
	ReasonEntrance = "near entrance"
	ReasonExit     = "near exit"
)

// SpawnPoint is a candidate or selected enemy location
type SpawnPoint struct {
	Pos    grid.Point
	Kind   Kind
	Role   Role
	Valid  bool
	Reason string // Why the candidate was rejected, empty when valid
	Span   int    // Length of the ground run (ground only)
	Height int    // Open cells between the point and the solid cell below
}

// Quota is the per-run number of enemies wanted for each role
type Quota struct {
	HeavyMelee int
	Ranged     int
	Flyer      int
}

// Total returns the sum of all roles
func (q Quota) Total() int {
	return q.HeavyMelee + q.Ranged + q.Flyer
}

// Analysis is the outcome of one spawn pass
type Analysis struct {
	Spawns   []SpawnPoint // Selected points with a role, in selection order
	Rejected []SpawnPoint // Candidates removed by a filter
	Quota    Quota
	Ground   int // Ground candidates found
	Air      int // Air candidates kept after subsampling
}

// Analyze scans the grid for ground and air candidates, filters them, shuffles the
// survivors and assigns roles under the per-run quota and minimum spacing.
func Analyze(g *grid.Grid, cfg *config.Config, rng *rand.Rand) Analysis {
	sc := cfg.Spawns

	var a Analysis
	ground := groundCandidates(g, sc)
	air := airCandidates(g, sc, rng)
	a.Ground, a.Air = len(ground), len(air)

	var survivors []SpawnPoint
	for _, sp := range append(ground, air...) {
		if reason := rejectReason(g, sp.Pos, sc); reason != "" {
			sp.Valid, sp.Reason = false, reason
			a.Rejected = append(a.Rejected, sp)
			continue
		}
		sp.Valid = true
		survivors = append(survivors, sp)
	}

	rng.Shuffle(len(survivors), func(i, j int) {
		survivors[i], survivors[j] = survivors[j], survivors[i]
	})

	a.Quota = drawQuota(sc.MaxEnemies, rng)
	a.Spawns = assign(survivors, a.Quota, sc)

	logger.Debug("Spawn analysis complete",
		"ground", a.Ground,
		"air", a.Air,
		"rejected", len(a.Rejected),
		"selected", len(a.Spawns))
	return a
}

// groundCandidates returns one candidate per maximal run of supported Floor cells with
// enough headroom, at the run's midpoint.
func groundCandidates(g *grid.Grid, sc config.SpawnConfig) []SpawnPoint {
	var out []SpawnPoint
	for y := 0; y < g.Height; y++ {
		start := -1
		for x := 0; x <= g.Width; x++ {
			if x < g.Width && standable(g, x, y, sc.Headroom) {
				if start < 0 {
					start = x
				}
				continue
			}
			if start >= 0 {
				if span := x - start; span >= sc.MinGroundSpan {
					out = append(out, SpawnPoint{
						Pos:  grid.Point{X: start + span/2, Y: y},
						Kind: KindGround,
						Span: span,
					})
				}
				start = -1
			}
		}
	}
	return out
}

func standable(g *grid.Grid, x, y, headroom int) bool {
	if !g.IsFloor(x, y) || !g.IsSolid(x, y-1) {
		return false
	}
	for i := 1; i <= headroom; i++ {
		if !g.IsFloor(x, y+i) {
			return false
		}
	}
	return true
}

// airCandidates keeps each open, high enough Floor cell with probability AirChance.
// One draw per qualifying cell in row-major order.
func airCandidates(g *grid.Grid, sc config.SpawnConfig, rng *rand.Rand) []SpawnPoint {
	var out []SpawnPoint
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !openNeighbourhood(g, x, y) {
				continue
			}
			h := clearance(g, x, y)
			if h < sc.MinAirHeight {
				continue
			}
			if rng.Float64() < sc.AirChance {
				out = append(out, SpawnPoint{Pos: grid.Point{X: x, Y: y}, Kind: KindAir, Height: h})
			}
		}
	}
	return out
}

func openNeighbourhood(g *grid.Grid, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if !g.IsFloor(x+dx, y+dy) {
				return false
			}
		}
	}
	return true
}

// clearance counts the open cells between (x, y) and the first solid cell below
func clearance(g *grid.Grid, x, y int) int {
	h := 0
	for yy := y - 1; yy >= 0 && !g.IsSolid(x, yy); yy-- {
		h++
	}
	return h
}

func rejectReason(g *grid.Grid, p grid.Point, sc config.SpawnConfig) string {
	pad := sc.EdgePadding
	if p.X < pad || p.X >= g.Width-pad || p.Y < pad || p.Y >= g.Height-pad {
		return ReasonEdge
	}
	if p.Dist(g.Entrance) < sc.SafetyMargin {
		return ReasonEntrance
	}
	if p.Dist(g.Exit) < sc.SafetyMargin {
		return ReasonExit
	}
	return ""
}

// drawQuota splits maxEnemies into roles. Heavy melee always gets at least one slot,
// flyers may get none, and ranged takes the rest.
func drawQuota(maxEnemies int, rng *rand.Rand) Quota {
	if maxEnemies <= 0 {
		return Quota{}
	}
	q := Quota{
		HeavyMelee: 1 + rng.Intn(max(1, maxEnemies/4)),
		Flyer:      rng.Intn(max(1, maxEnemies/3) + 1),
	}
	q.HeavyMelee = min(q.HeavyMelee, maxEnemies)
	q.Flyer = min(q.Flyer, maxEnemies-q.HeavyMelee)
	q.Ranged = maxEnemies - q.HeavyMelee - q.Flyer
	return q
}

// assign fills the quota greedily in role order. Each role tries its preferred pools
// first and then any remaining candidate. A pick must keep MinDistance from every
// spawn already selected.
func assign(pool []SpawnPoint, q Quota, sc config.SpawnConfig) []SpawnPoint {
	used := make([]bool, len(pool))
	var selected []SpawnPoint

	isGround := func(sp SpawnPoint) bool { return sp.Kind == KindGround }
	isAir := func(sp SpawnPoint) bool { return sp.Kind == KindAir }
	isWide := func(sp SpawnPoint) bool { return isGround(sp) && sp.Span >= 2*sc.MinGroundSpan }
	anyKind := func(SpawnPoint) bool { return true }

	spaced := func(sp SpawnPoint) bool {
		for _, s := range selected {
			if sp.Pos.Dist(s.Pos) < sc.MinDistance {
				return false
			}
		}
		return true
	}
	pick := func(prefs ...func(SpawnPoint) bool) int {
		for _, pref := range prefs {
			for i, sp := range pool {
				if !used[i] && pref(sp) && spaced(sp) {
					return i
				}
			}
		}
		return -1
	}

	plan := []struct {
		role  Role
		count int
		prefs []func(SpawnPoint) bool
	}{
		{RoleHeavyMelee, q.HeavyMelee, []func(SpawnPoint) bool{isWide, isGround, anyKind}},
		{RoleRanged, q.Ranged, []func(SpawnPoint) bool{isGround, anyKind}},
		{RoleFlyer, q.Flyer, []func(SpawnPoint) bool{isAir, anyKind}},
	}
	for _, step := range plan {
		for n := 0; n < step.count; n++ {
			i := pick(step.prefs...)
			if i < 0 {
				break
			}
			used[i] = true
			sp := pool[i]
			sp.Role = step.role
			selected = append(selected, sp)
		}
	}
	return selected
}
