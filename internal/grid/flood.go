package grid

// Offsets4 lists the 4-directional neighbour offsets in a fixed order
var Offsets4 = [4]Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// FloodFill returns a row-major mask of the cells 4-reachable from start through
// passable cells. A wall start yields an empty mask.
func (g *Grid) FloodFill(start Point) []bool {
	seen := make([]bool, g.Width*g.Height)
	if !g.IsPassable(start.X, start.Y) {
		return seen
	}
	seen[start.Y*g.Width+start.X] = true
	queue := []Point{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, off := range Offsets4 {
			n := cur.Add(off.X, off.Y)
			if !g.IsPassable(n.X, n.Y) {
				continue
			}
			idx := n.Y*g.Width + n.X
			if seen[idx] {
				continue
			}
			seen[idx] = true
			queue = append(queue, n)
		}
	}
	return seen
}

// Reachable reports whether to can be reached from from through passable cells
func (g *Grid) Reachable(from, to Point) bool {
	if !g.IsPassable(to.X, to.Y) {
		return false
	}
	return g.FloodFill(from)[to.Y*g.Width+to.X]
}

// AllReachable reports whether every passable cell is 4-reachable from start
func (g *Grid) AllReachable(start Point) bool {
	seen := g.FloodFill(start)
	for i, c := range g.cells {
		if c != Wall && !seen[i] {
			return false
		}
	}
	return true
}

// RemoveIslands seals every passable cell that is not reachable from start,
// turning it back into Wall. Returns the number of sealed cells.
func (g *Grid) RemoveIslands(start Point) int {
	seen := g.FloodFill(start)
	sealed := 0
	for i, c := range g.cells {
		if c != Wall && !seen[i] {
			g.cells[i] = Wall
			sealed++
		}
	}
	return sealed
}
