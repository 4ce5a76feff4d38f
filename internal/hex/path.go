package hex

import "container/heap"

// Passable reports whether a coordinate can be entered.
type Passable func(Coord) bool

// FindPath returns the shortest path from start to goal inclusive, using A*
// with hex distance as the heuristic. Each step costs 1. Returns nil when the
// goal is unreachable or further than maxDistance steps. Ties on f-cost are
// broken by insertion order, so paths are deterministic for a given input.
func FindPath(start, goal Coord, passable Passable, maxDistance int) []Coord {
	if start == goal {
		return []Coord{start}
	}
	if passable != nil && !passable(goal) {
		return nil
	}

	open := &nodeQueue{}
	heap.Init(open)

	gScore := map[Coord]int{start: 0}
	cameFrom := map[Coord]Coord{}
	inOpen := map[Coord]bool{start: true}

	heap.Push(open, &pathNode{coord: start, f: Distance(start, goal)})

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		delete(inOpen, current.coord)

		if current.coord == goal {
			return reconstruct(cameFrom, goal)
		}

		g := gScore[current.coord]
		if g >= maxDistance {
			continue
		}

		for _, next := range current.coord.Neighbors() {
			if passable != nil && !passable(next) {
				continue
			}
			tentative := g + 1
			if prev, seen := gScore[next]; seen && tentative >= prev {
				continue
			}
			gScore[next] = tentative
			cameFrom[next] = current.coord
			if !inOpen[next] {
				heap.Push(open, &pathNode{coord: next, f: tentative + Distance(next, goal)})
				inOpen[next] = true
			}
		}
	}

	return nil
}

// ReachableTiles returns every coordinate reachable from start within
// movement steps, excluding start itself and impassable tiles. Distance is
// step count; a breadth-first frontier guarantees minimal hop counts.
func ReachableTiles(start Coord, movement int, passable Passable) []Coord {
	if movement <= 0 {
		return nil
	}

	visited := map[Coord]bool{start: true}
	frontier := []Coord{start}
	var result []Coord

	for step := 0; step < movement; step++ {
		var next []Coord
		for _, c := range frontier {
			for _, n := range c.Neighbors() {
				if visited[n] {
					continue
				}
				visited[n] = true
				if passable != nil && !passable(n) {
					continue
				}
				result = append(result, n)
				next = append(next, n)
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}

	return result
}

func reconstruct(cameFrom map[Coord]Coord, goal Coord) []Coord {
	path := []Coord{goal}
	cur := goal
	for {
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	// Reverse in place.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type pathNode struct {
	coord Coord
	f     int
	seq   int
	index int
}

// nodeQueue is a min-heap on f-cost with insertion order as tie-break.
type nodeQueue struct {
	nodes []*pathNode
	count int
}

func (q *nodeQueue) Len() int { return len(q.nodes) }

func (q *nodeQueue) Less(i, j int) bool {
	if q.nodes[i].f != q.nodes[j].f {
		return q.nodes[i].f < q.nodes[j].f
	}
	return q.nodes[i].seq < q.nodes[j].seq
}

func (q *nodeQueue) Swap(i, j int) {
	q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i]
	q.nodes[i].index = i
	q.nodes[j].index = j
}

func (q *nodeQueue) Push(x any) {
	n := x.(*pathNode)
	n.index = len(q.nodes)
	n.seq = q.count
	q.count++
	q.nodes = append(q.nodes, n)
}

func (q *nodeQueue) Pop() any {
	old := q.nodes
	n := old[len(old)-1]
	old[len(old)-1] = nil
	q.nodes = old[:len(old)-1]
	return n
}
