package grid

// A* search over the board with dynamic obstacles. Obstacles are the cells
// occupied by living combatants; callers build the blocked set per query.

type pathNode struct {
	cell   Cell
	g, f   int
	order  int // insertion counter, final tie-break
	parent *pathNode
}

// pathQueue is a binary min-heap over (f, g, Y, X, insertion order) so that
// identical inputs always expand nodes in the same order and yield the same
// path.
type pathQueue []*pathNode

func (q pathQueue) lessAt(i, j int) bool {
	a, b := q[i], q[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.g != b.g {
		return a.g < b.g
	}
	if a.cell != b.cell {
		return less(a.cell, b.cell)
	}
	return a.order < b.order
}

func (q *pathQueue) push(n *pathNode) {
	*q = append(*q, n)
	i := len(*q) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if !q.lessAt(i, parent) {
			break
		}
		(*q)[parent], (*q)[i] = (*q)[i], (*q)[parent]
		i = parent
	}
}

func (q *pathQueue) pop() *pathNode {
	n := (*q)[0]
	last := len(*q) - 1
	(*q)[0] = (*q)[last]
	*q = (*q)[:last]
	i := 0
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < len(*q) && q.lessAt(left, smallest) {
			smallest = left
		}
		if right < len(*q) && q.lessAt(right, smallest) {
			smallest = right
		}
		if smallest == i {
			break
		}
		(*q)[i], (*q)[smallest] = (*q)[smallest], (*q)[i]
		i = smallest
	}
	return n
}

// FindPath returns the shortest path from start to goal, inclusive of the
// start cell, avoiding blocked cells. The Manhattan heuristic is admissible
// on a 4-directional unit-cost grid, so the result is optimal. The search
// expands at most maxIter nodes; an exhausted budget or unreachable goal
// returns nil. start == goal returns the single-cell path, and out-of-bounds
// endpoints return nil without searching.
func (g Grid) FindPath(start, goal Cell, blocked map[Cell]bool, maxIter int) []Cell {
	if !g.Contains(start) || !g.Contains(goal) {
		return nil
	}
	if start == goal {
		return []Cell{start}
	}
	if blocked[goal] {
		return nil
	}

	closed := make(map[Cell]bool)
	gScore := map[Cell]int{start: 0}
	var q pathQueue
	counter := 0
	q.push(&pathNode{cell: start, g: 0, f: Manhattan(start, goal)})

	for iter := 0; len(q) > 0 && iter < maxIter; iter++ {
		cur := q.pop()
		if closed[cur.cell] {
			continue
		}
		closed[cur.cell] = true

		if cur.cell == goal {
			path := []Cell{}
			for n := cur; n != nil; n = n.parent {
				path = append(path, n.cell)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, next := range g.Neighbors(cur.cell) {
			if closed[next] || blocked[next] {
				continue
			}
			ng := cur.g + 1
			if prev, seen := gScore[next]; seen && ng >= prev {
				continue
			}
			gScore[next] = ng
			counter++
			q.push(&pathNode{
				cell:   next,
				g:      ng,
				f:      ng + Manhattan(next, goal),
				order:  counter,
				parent: cur,
			})
		}
	}
	return nil
}

// FindPathBounded is FindPath restricted to paths of at most maxLen cells
// (start included). Longer paths return nil.
func (g Grid) FindPathBounded(start, goal Cell, blocked map[Cell]bool, maxIter, maxLen int) []Cell {
	path := g.FindPath(start, goal, blocked, maxIter)
	if path == nil || len(path) > maxLen {
		return nil
	}
	return path
}

// ClosestReachable finds the path to the reachable cell nearest the goal,
// for approaching a goal that is itself occupied or walled off. Among
// equally near candidates the shortest path wins, then cell order. Returns
// nil only when the start is boxed in completely.
func (g Grid) ClosestReachable(start, goal Cell, blocked map[Cell]bool, maxIter int) []Cell {
	if !g.Contains(start) || !g.Contains(goal) {
		return nil
	}
	if direct := g.FindPath(start, goal, blocked, maxIter); direct != nil {
		return direct
	}

	best := start
	bestDist := Manhattan(start, goal)
	bestLen := 1
	// Reachable output is sorted, so scanning keeps the choice stable.
	for _, c := range g.Reachable(start, g.Width*g.Height, blocked) {
		d := Manhattan(c, goal)
		if d > bestDist {
			continue
		}
		path := g.FindPath(start, c, blocked, maxIter)
		if path == nil {
			continue
		}
		if d < bestDist || len(path) < bestLen || (len(path) == bestLen && less(c, best)) {
			best, bestDist, bestLen = c, d, len(path)
		}
	}
	if best == start {
		return []Cell{start}
	}
	return g.FindPath(start, best, blocked, maxIter)
}

// HasPath reports whether any path exists from start to goal.
func (g Grid) HasPath(start, goal Cell, blocked map[Cell]bool, maxIter int) bool {
	return g.FindPath(start, goal, blocked, maxIter) != nil
}
