// Package roomgraph links placed rooms: Delaunay candidates, a Kruskal backbone and a few
// extra edges for loops.
package roomgraph

import (
	"math"
	"math/rand"
	"sort"

	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/grid"
	"github.com/lawnchairsociety/roomforge/internal/rooms"
)

// Edge joins two rooms by id, A < B. Weight is the distance between their centers.
type Edge struct {
	A, B   int
	Weight float64
}

// Graph holds the rooms and the three tracked edge sets.
// Final is Backbone plus Extra.
type Graph struct {
	Rooms     []rooms.Region
	All       []Edge
	Backbone  []Edge
	Extra     []Edge
	Final     []Edge
	Connected bool // Final spans every room
}

// Build links the rooms. Fewer than two rooms yield a graph without edges.
func Build(regions []rooms.Region, cfg config.GraphConfig, rng *rand.Rand) *Graph {
	g := &Graph{Rooms: regions, Connected: len(regions) < 2}
	if len(regions) < 2 {
		return g
	}

	g.All = candidateEdges(regions)
	sortEdges(g.All)

	// Kruskal
	uf := newUnionFind(len(regions))
	var rest []Edge
	for _, e := range g.All {
		if uf.union(e.A, e.B) {
			g.Backbone = append(g.Backbone, e)
		} else {
			rest = append(rest, e)
		}
	}

	k := int(math.Round(cfg.ExtraEdgeRatio * float64(len(rest))))
	if k > 0 {
		perm := rng.Perm(len(rest))
		for _, i := range perm[:k] {
			g.Extra = append(g.Extra, rest[i])
		}
		sortEdges(g.Extra)
	}

	g.Final = make([]Edge, 0, len(g.Backbone)+len(g.Extra))
	g.Final = append(g.Final, g.Backbone...)
	g.Final = append(g.Final, g.Extra...)
	sortEdges(g.Final)

	g.Connected = spans(len(regions), g.Final)
	return g
}

// candidateEdges triangulates the room centers, falling back to the complete graph
// when the triangulation cannot connect them (collinear or coincident centers).
func candidateEdges(regions []rooms.Region) []Edge {
	centers := make([]grid.Point, len(regions))
	for i, r := range regions {
		centers[i] = r.Center
	}

	var edges []Edge
	if !collinear(centers) {
		for _, p := range triangulate(centers) {
			edges = append(edges, newEdge(regions, p.a, p.b))
		}
		if spans(len(regions), edges) {
			return edges
		}
	}

	edges = edges[:0]
	for a := 0; a < len(regions); a++ {
		for b := a + 1; b < len(regions); b++ {
			edges = append(edges, newEdge(regions, a, b))
		}
	}
	return edges
}

// collinear reports whether every point lies on one line
func collinear(pts []grid.Point) bool {
	if len(pts) < 3 {
		return true
	}
	origin := pts[0]
	var dir grid.Point
	for _, p := range pts[1:] {
		if p != origin {
			dir = grid.Point{X: p.X - origin.X, Y: p.Y - origin.Y}
			break
		}
	}
	for _, p := range pts {
		if dir.X*(p.Y-origin.Y)-dir.Y*(p.X-origin.X) != 0 {
			return false
		}
	}
	return true
}

func newEdge(regions []rooms.Region, a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b, Weight: regions[a].Center.Dist(regions[b].Center)}
}

// sortEdges orders by weight, then A, then B
func sortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight < edges[j].Weight
		}
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
}

// spans reports whether edges connect all n nodes
func spans(n int, edges []Edge) bool {
	if n < 2 {
		return true
	}
	uf := newUnionFind(n)
	joined := 1
	for _, e := range edges {
		if uf.union(e.A, e.B) {
			joined++
		}
	}
	return joined == n
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union merges the sets of a and b, returning false when they were already joined
func (u *unionFind) union(a, b int) bool {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return false
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
	}
	return true
}
