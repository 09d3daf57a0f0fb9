package bot

import (
	"math"
	"runtime"
	"sync"

	"github.com/Mshel/serpentine/internal/grid"
)

// FieldSource is what Field.Recompute reads from the world.
type FieldSource interface {
	Territory(c grid.Cell) grid.Territory
	TerritoryEdges() []grid.Cell
}

// Field is a per-turn influence map. Higher values are more desirable.
type Field struct {
	width   int
	height  int
	cells   []float64
	weights FieldWeights
	norm    float64
	order   []grid.Direction
}

func NewField(width, height int, weights FieldWeights) *Field {
	return &Field{
		width:   width,
		height:  height,
		cells:   make([]float64, width*height),
		weights: weights,
		norm:    math.Sqrt(float64(width*width + height*height)),
		order:   grid.Directions[:],
	}
}

// WithOrder sets the direction order used to break BestDirection ties.
func (f *Field) WithOrder(p grid.Preference) *Field {
	f.order = p[:]
	return f
}

// At returns the value of cell c, or 0 outside the board.
func (f *Field) At(c grid.Cell) float64 {
	if c.X < 0 || c.Y < 0 || c.X >= f.width || c.Y >= f.height {
		return 0
	}
	return f.cells[c.Y*f.width+c.X]
}

func (f *Field) attractor(distance int) float64 {
	return math.Pow(float64(distance)/f.norm, f.weights.AttractorPower) + 1
}

func (f *Field) repulsor(distance int) float64 {
	return f.norm / float64(distance)
}

// Recompute overwrites every cell from the current snapshot. Rows are split
// into shards scored concurrently; nothing reads the field until all finish.
// Disabled enemies contribute nothing.
func (f *Field) Recompute(src FieldSource, me grid.Unit, enemies []grid.Unit) {
	edges := src.TerritoryEdges()
	live := make([]grid.Unit, 0, len(enemies))
	for _, e := range enemies {
		if e.Enabled() {
			live = append(live, e)
		}
	}
	enemies = live

	shards := min(runtime.GOMAXPROCS(0), f.height)
	rowsPerShard := (f.height + shards - 1) / shards

	var wg sync.WaitGroup
	for start := 0; start < f.height; start += rowsPerShard {
		end := min(start+rowsPerShard, f.height)
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			for y := from; y < to; y++ {
				for x := 0; x < f.width; x++ {
					c := grid.Cell{X: x, Y: y}
					f.cells[y*f.width+x] = f.score(src, c, me, enemies, edges)
				}
			}
		}(start, end)
	}
	wg.Wait()
}

func (f *Field) score(src FieldSource, c grid.Cell, me grid.Unit, enemies []grid.Unit, edges []grid.Cell) float64 {
	w := f.weights

	var v float64
	switch src.Territory(c) {
	case grid.Friendly:
		v = w.Friendly
	case grid.Enemy:
		v = w.Enemy
	default:
		v = w.Neutral
	}

	for _, b := range me.Body {
		if b == c {
			continue
		}
		v -= w.FriendBody * f.repulsor(grid.TaxiCab(c, b))
	}

	for _, e := range enemies {
		v += w.EnemyHead * math.Pow(w.EnemyHeadDecay, float64(grid.TaxiCab(c, e.Position)))
		for _, b := range e.Body {
			v += w.EnemyBody * math.Pow(w.EnemyBodyDecay, float64(grid.TaxiCab(c, b)))
		}
	}

	for _, edge := range edges {
		v += w.FriendEdge * f.attractor(grid.TaxiCab(c, edge))
	}
	return v
}

// sumRegion adds up the field over the inclusive rectangle [x0,x1]×[y0,y1].
func (f *Field) sumRegion(x0, y0, x1, y1 int) float64 {
	var sum float64
	for y := max(y0, 0); y <= min(y1, f.height-1); y++ {
		for x := max(x0, 0); x <= min(x1, f.width-1); x++ {
			sum += f.cells[y*f.width+x]
		}
	}
	return sum
}

// halfPlane scores the interior on the d side of pos.
func (f *Field) halfPlane(pos grid.Cell, d grid.Direction) float64 {
	right, bottom := f.width-2, f.height-2
	switch d {
	case grid.North:
		return f.sumRegion(1, 1, right, pos.Y-1)
	case grid.South:
		return f.sumRegion(1, pos.Y+1, right, bottom)
	case grid.West:
		return f.sumRegion(1, 1, pos.X-1, bottom)
	case grid.East:
		return f.sumRegion(pos.X+1, 1, right, bottom)
	}
	return math.Inf(-1)
}

// BestDirection ascends the field from me's head. Neighbours that are walls
// or part of me's body are never chosen.
func (f *Field) BestDirection(t Terrain, me grid.Unit) (grid.Direction, error) {
	best := grid.None
	bestScore := math.Inf(-1)
	for _, d := range f.order {
		next := t.Neighbour(me.Position, d)
		if t.IsWall(next) || me.InBody(next) {
			continue
		}
		if s := f.halfPlane(me.Position, d); best == grid.None || s > bestScore {
			best, bestScore = d, s
		}
	}
	if best == grid.None {
		return grid.None, ErrNoLegalMove
	}
	return best, nil
}
