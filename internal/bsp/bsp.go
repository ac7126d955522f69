// Package bsp splits the room interior into a binary space partition tree.
package bsp

import (
	"math/rand"

	"github.com/lawnchairsociety/roomforge/internal/config"
	"github.com/lawnchairsociety/roomforge/internal/grid"
)

// NodeID indexes a node in the tree arena
type NodeID int

// NoNode marks a missing child
const NoNode NodeID = -1

// Axis is the direction of a split
type Axis uint8

const (
	AxisNone       Axis = iota // Leaf, never split
	AxisVertical               // Cut by a vertical line: children side by side
	AxisHorizontal             // Cut by a horizontal line: children stacked
)

// String returns the string representation of an Axis
func (a Axis) String() string {
	switch a {
	case AxisNone:
		return "none"
	case AxisVertical:
		return "vertical"
	case AxisHorizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

// Node is one region of the partition. Children are indexes into the owning tree.
type Node struct {
	ID     NodeID
	Bounds grid.Rect
	Depth  int
	Axis   Axis
	Offset int // Split position relative to Bounds.X (vertical) or Bounds.Y (horizontal)
	Left   NodeID
	Right  NodeID
	Room   int // Region id placed in this leaf, -1 when none
}

// IsLeaf reports whether the node has no children
func (n *Node) IsLeaf() bool {
	return n.Left == NoNode && n.Right == NoNode
}

// Tree is an arena of partition nodes. Node 0 is the root.
type Tree struct {
	Nodes []Node
}

// Root returns the root node
func (t *Tree) Root() *Node {
	return &t.Nodes[0]
}

// Node returns the node with the given id
func (t *Tree) Node(id NodeID) *Node {
	return &t.Nodes[id]
}

// Leaves returns leaf ids in depth-first, left-to-right order
func (t *Tree) Leaves() []NodeID {
	var leaves []NodeID
	stack := []NodeID{0}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.Nodes[id]
		if n.IsLeaf() {
			leaves = append(leaves, id)
			continue
		}
		// Right pushed first so Left pops first
		if n.Right != NoNode {
			stack = append(stack, n.Right)
		}
		if n.Left != NoNode {
			stack = append(stack, n.Left)
		}
	}
	return leaves
}

func (t *Tree) add(bounds grid.Rect, depth int) NodeID {
	id := NodeID(len(t.Nodes))
	t.Nodes = append(t.Nodes, Node{
		ID:     id,
		Bounds: bounds,
		Depth:  depth,
		Left:   NoNode,
		Right:  NoNode,
		Room:   -1,
	})
	return id
}

// Partition splits root breadth-first. A node stays a leaf when it reached MaxDepth,
// when either side is below twice MinLeafSize, or, once targetLeaves leaves exist,
// when a StopChance draw succeeds. A split whose offset cannot satisfy MinLeafSize
// on both sides is abandoned and the node stays a leaf.
func Partition(root grid.Rect, cfg config.PartitionConfig, targetLeaves int, rng *rand.Rand) *Tree {
	t := &Tree{}
	t.add(root, 0)
	leafCount := 1

	queue := []NodeID{0}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		n := t.Nodes[id]
		if n.Depth >= cfg.MaxDepth {
			continue
		}
		if n.Bounds.W < 2*cfg.MinLeafSize || n.Bounds.H < 2*cfg.MinLeafSize {
			continue
		}
		if leafCount >= targetLeaves && rng.Float64() < cfg.StopChance {
			continue
		}

		axis := chooseAxis(n.Bounds, rng)
		size := n.Bounds.W
		if axis == AxisHorizontal {
			size = n.Bounds.H
		}

		frac := cfg.SplitRatioMin + rng.Float64()*(cfg.SplitRatioMax-cfg.SplitRatioMin)
		offset := int(frac * float64(size))
		lo, hi := cfg.MinLeafSize, size-cfg.MinLeafSize
		if lo > hi {
			continue
		}
		offset = max(lo, min(hi, offset))

		var a, b grid.Rect
		if axis == AxisVertical {
			a = grid.Rect{X: n.Bounds.X, Y: n.Bounds.Y, W: offset, H: n.Bounds.H}
			b = grid.Rect{X: n.Bounds.X + offset, Y: n.Bounds.Y, W: n.Bounds.W - offset, H: n.Bounds.H}
		} else {
			a = grid.Rect{X: n.Bounds.X, Y: n.Bounds.Y, W: n.Bounds.W, H: offset}
			b = grid.Rect{X: n.Bounds.X, Y: n.Bounds.Y + offset, W: n.Bounds.W, H: n.Bounds.H - offset}
		}

		left := t.add(a, n.Depth+1)
		right := t.add(b, n.Depth+1)
		node := &t.Nodes[id]
		node.Axis = axis
		node.Offset = offset
		node.Left = left
		node.Right = right
		leafCount++

		queue = append(queue, left, right)
	}
	return t
}

// chooseAxis cuts across the longer side; near-square regions pick at random
func chooseAxis(r grid.Rect, rng *rand.Rand) Axis {
	aspect := float64(r.W) / float64(r.H)
	switch {
	case aspect > 1.25:
		return AxisVertical
	case aspect < 0.8:
		return AxisHorizontal
	}
	if rng.Intn(2) == 0 {
		return AxisVertical
	}
	return AxisHorizontal
}
