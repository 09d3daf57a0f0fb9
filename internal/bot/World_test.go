package bot

import (
	"github.com/Mshel/serpentine/internal/grid"
)

const (
	meID    = 1
	enemyID = 2
)

// testWorld is a minimal World: walls, owners and units, nothing else.
type testWorld struct {
	width, height int
	walls         grid.CellSet
	owner         map[grid.Cell]int
	me            grid.Unit
	enemies       []grid.Unit
}

// newTestWorld returns an empty board with a wall ring.
func newTestWorld(width, height int) *testWorld {
	w := &testWorld{
		width:  width,
		height: height,
		walls:  grid.CellSet{},
		owner:  map[grid.Cell]int{},
		me:     grid.Unit{ID: meID, Name: "me"},
	}
	for x := range width {
		w.walls.Add(grid.Cell{X: x, Y: 0})
		w.walls.Add(grid.Cell{X: x, Y: height - 1})
	}
	for y := range height {
		w.walls.Add(grid.Cell{X: 0, Y: y})
		w.walls.Add(grid.Cell{X: width - 1, Y: y})
	}
	return w
}

// fromLayout parses '#' walls, 'F' own territory, 'E' enemy territory.
func fromLayout(rows ...string) *testWorld {
	w := &testWorld{
		width:  len(rows[0]),
		height: len(rows),
		walls:  grid.CellSet{},
		owner:  map[grid.Cell]int{},
		me:     grid.Unit{ID: meID, Name: "me"},
	}
	for y, row := range rows {
		for x, ch := range row {
			c := grid.Cell{X: x, Y: y}
			switch ch {
			case '#':
				w.walls.Add(c)
			case 'F':
				w.owner[c] = meID
			case 'E':
				w.owner[c] = enemyID
			}
		}
	}
	return w
}

func (w *testWorld) claim(owner, x0, y0, x1, y1 int) *testWorld {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			w.owner[grid.Cell{X: x, Y: y}] = owner
		}
	}
	return w
}

func (w *testWorld) at(pos grid.Cell, body ...grid.Cell) *testWorld {
	w.me.Position = pos
	w.me.Body = body
	return w
}

func (w *testWorld) withEnemy(e grid.Unit) *testWorld {
	w.enemies = append(w.enemies, e)
	return w
}

func (w *testWorld) Width() int  { return w.width }
func (w *testWorld) Height() int { return w.height }

func (w *testWorld) IsWall(c grid.Cell) bool {
	if c.X < 0 || c.Y < 0 || c.X >= w.width || c.Y >= w.height {
		return true
	}
	return w.walls.Has(c)
}

func (w *testWorld) Neighbour(c grid.Cell, d grid.Direction) grid.Cell {
	return c.Step(d)
}

func (w *testWorld) Territory(c grid.Cell) grid.Territory {
	switch o := w.owner[c]; {
	case o == meID:
		return grid.Friendly
	case o != 0:
		return grid.Enemy
	}
	return grid.Neutral
}

func (w *testWorld) cells(keep func(grid.Cell) bool) []grid.Cell {
	var out []grid.Cell
	for y := range w.height {
		for x := range w.width {
			if c := (grid.Cell{X: x, Y: y}); keep(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

func nearest(from grid.Cell, cells []grid.Cell) (grid.Cell, bool) {
	var best grid.Cell
	bestDist := -1
	for _, c := range cells {
		if d := grid.TaxiCab(from, c); bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}

func (w *testWorld) TerritoryEdges() []grid.Cell {
	return w.cells(func(c grid.Cell) bool {
		if w.Territory(c) != grid.Friendly {
			return false
		}
		for _, d := range grid.Directions {
			n := c.Step(d)
			if !w.IsWall(n) && w.Territory(n) != grid.Friendly {
				return true
			}
		}
		return false
	})
}

func (w *testWorld) NearestFriendlyTerritory(from grid.Cell) (grid.Cell, bool) {
	return nearest(from, w.cells(func(c grid.Cell) bool { return w.Territory(c) == grid.Friendly }))
}

func (w *testWorld) NearestCapturable(from grid.Cell, avoid grid.CellSet) (grid.Cell, bool) {
	return nearest(from, w.cells(func(c grid.Cell) bool {
		return !w.IsWall(c) && w.Territory(c) != grid.Friendly && !avoid.Has(c) && !w.me.InBody(c) && c != from
	}))
}

func (w *testWorld) NearestTerritoryOf(from grid.Cell, owner int) (grid.Cell, bool) {
	return nearest(from, w.cells(func(c grid.Cell) bool { return w.owner[c] == owner }))
}

func (w *testWorld) NearestEnemyHead(from grid.Cell) (grid.Unit, bool) {
	var best grid.Unit
	bestDist := -1
	for _, e := range w.enemies {
		if !e.Enabled() {
			continue
		}
		if d := grid.TaxiCab(from, e.Position); bestDist < 0 || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, bestDist >= 0
}

func (w *testWorld) NearestEnemyBody(from grid.Cell) (grid.Unit, grid.Cell, bool) {
	var (
		best     grid.Unit
		bestCell grid.Cell
	)
	bestDist := -1
	for _, e := range w.enemies {
		for _, b := range e.Body {
			if d := grid.TaxiCab(from, b); bestDist < 0 || d < bestDist {
				best, bestCell, bestDist = e, b, d
			}
		}
	}
	return best, bestCell, bestDist >= 0
}

func (w *testWorld) OccupantAt(c grid.Cell) (int, bool) {
	for _, u := range append([]grid.Unit{w.me}, w.enemies...) {
		if u.Position == c || u.InBody(c) {
			return u.ID, true
		}
	}
	return 0, false
}
