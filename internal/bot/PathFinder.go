package bot

import (
	"container/heap"

	"github.com/Mshel/serpentine/internal/grid"
)

// PathFinder is an A* search whose neighbour expansion follows a fixed
// direction preference, so equal-cost routes always come out the same shape.
type PathFinder struct {
	preference grid.Preference
}

func NewPathFinder(preference grid.Preference) *PathFinder {
	return &PathFinder{preference: preference}
}

type frontierNode struct {
	cell     grid.Cell
	priority int
	seq      int
}

// frontier pops lowest priority first; equal priorities pop in insertion order.
type frontier []frontierNode

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority < f[j].priority
	}
	return f[i].seq < f[j].seq
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any) { *f = append(*f, x.(frontierNode)) }
func (f *frontier) Pop() any {
	old := *f
	n := old[len(old)-1]
	*f = old[:len(old)-1]
	return n
}

// Route returns the cells from start (exclusive) to goal (inclusive) avoiding
// walls and avoid. Route(c, c, _) is [c].
func (pf *PathFinder) Route(t Terrain, start, goal grid.Cell, avoid grid.CellSet) ([]grid.Cell, error) {
	if start == goal {
		return []grid.Cell{goal}, nil
	}
	if t.IsWall(start) || t.IsWall(goal) {
		return nil, ErrPathNotFound
	}

	costs := map[grid.Cell]int{start: 0}
	parents := map[grid.Cell]grid.Cell{}

	seq := 0
	open := &frontier{{cell: start, priority: grid.TaxiCab(start, goal)}}
	heap.Init(open)

	for open.Len() > 0 {
		cur := heap.Pop(open).(frontierNode)
		if cur.cell == goal {
			return buildRoute(parents, start, goal), nil
		}
		// a cheaper entry for this cell was already expanded
		if cur.priority > costs[cur.cell]+grid.TaxiCab(cur.cell, goal) {
			continue
		}

		for _, d := range pf.preference {
			next := t.Neighbour(cur.cell, d)
			if t.IsWall(next) || avoid.Has(next) {
				continue
			}
			cost := costs[cur.cell] + 1
			if prev, seen := costs[next]; seen && cost >= prev {
				continue
			}
			costs[next] = cost
			parents[next] = cur.cell
			seq++
			heap.Push(open, frontierNode{cell: next, priority: cost + grid.TaxiCab(next, goal), seq: seq})
		}
	}
	return nil, ErrPathNotFound
}

func buildRoute(parents map[grid.Cell]grid.Cell, start, goal grid.Cell) []grid.Cell {
	var cells []grid.Cell
	for c := goal; c != start; c = parents[c] {
		cells = append(cells, c)
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}
