// Package grid models the fixed battle board: cells, spatial queries, and
// A* pathfinding over dynamic obstacles.
package grid

import (
	"math"
	"sort"
)

// Cell is a board coordinate.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Grid is the fixed W×H board. DeployRows rows at each Y edge form the two
// deployment zones: side 0 deploys at low Y, side 1 at high Y.
type Grid struct {
	Width      int
	Height     int
	DeployRows int
}

// Contains reports whether c lies on the board.
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// neighborOffsets is the fixed 4-directional visit order. Everything that
// enumerates neighbors uses this order so results are deterministic.
var neighborOffsets = [4]Cell{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Neighbors returns the in-bounds orthogonal neighbors of c in fixed order:
// 2 at corners, 3 on edges, 4 in the interior.
func (g Grid) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, 4)
	for _, d := range neighborOffsets {
		n := Cell{c.X + d.X, c.Y + d.Y}
		if g.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// Manhattan returns the 4-directional step distance between a and b.
func Manhattan(a, b Cell) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Euclidean returns the straight-line distance between a and b.
func Euclidean(a, b Cell) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// InRange reports whether b is within r Manhattan steps of a.
func (g Grid) InRange(a, b Cell, r int) bool {
	return Manhattan(a, b) <= r
}

// Reachable returns every cell reachable from start within the given number
// of steps, walking only unblocked in-bounds cells. The start cell itself is
// included. Output is sorted (Y, then X) so iteration order never depends on
// map traversal.
func (g Grid) Reachable(start Cell, steps int, blocked map[Cell]bool) []Cell {
	if !g.Contains(start) || steps < 0 {
		return nil
	}
	dist := map[Cell]int{start: 0}
	queue := []Cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if dist[cur] == steps {
			continue
		}
		for _, n := range g.Neighbors(cur) {
			if blocked[n] {
				continue
			}
			if _, seen := dist[n]; seen {
				continue
			}
			dist[n] = dist[cur] + 1
			queue = append(queue, n)
		}
	}
	out := make([]Cell, 0, len(dist))
	for c := range dist {
		out = append(out, c)
	}
	sortCells(out)
	return out
}

// Area returns the in-bounds cells of the square of the given radius centered
// on c, sorted (Y, then X). Radius 0 yields just the center.
func (g Grid) Area(c Cell, radius int) []Cell {
	if radius < 0 {
		return nil
	}
	var out []Cell
	for y := c.Y - radius; y <= c.Y+radius; y++ {
		for x := c.X - radius; x <= c.X+radius; x++ {
			cell := Cell{x, y}
			if g.Contains(cell) {
				out = append(out, cell)
			}
		}
	}
	return out
}

// InDeployZone reports whether c lies in the deployment zone of the given
// side. Side 0 owns rows [0, DeployRows); side 1 owns the mirrored rows at
// the far edge.
func (g Grid) InDeployZone(c Cell, side int) bool {
	if !g.Contains(c) {
		return false
	}
	switch side {
	case 0:
		return c.Y < g.DeployRows
	case 1:
		return c.Y >= g.Height-g.DeployRows
	default:
		return false
	}
}

func sortCells(cells []Cell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
}

// less orders cells (Y, then X); used for deterministic tie-breaking.
func less(a, b Cell) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}
