package game

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Mshel/serpentine/internal/grid"
)

// Frame is an immutable copy of the arena after some turn.
type Frame struct {
	Turn    int
	Map     *GameMap
	Players []PlayerState
}

type PlayerState struct {
	ID         int
	Name       string
	Color      int
	Kind       string
	Navigation string
	Heading    grid.Direction
	Kills      int
	Deaths     int
	Claimed    int
	RespawnIn  int
	Unit       grid.Unit

	// filled in from the player's strategy when it reports them
	Mode      string
	Target    grid.Cell
	HasTarget bool
}

// ClaimedPct is the share of the claimable area held by the player.
func (f *Frame) ClaimedPct(ps PlayerState) float64 {
	return float64(ps.Claimed) * 100 / float64(f.Map.interiorSize())
}

func (f *Frame) Player(id int) (PlayerState, bool) {
	for _, ps := range f.Players {
		if ps.ID == id {
			return ps, true
		}
	}
	return PlayerState{}, false
}

// HeadAt returns the enabled player whose head is on c.
func (f *Frame) HeadAt(c grid.Cell) (PlayerState, bool) {
	for _, ps := range f.Players {
		if ps.Unit.Enabled() && ps.Unit.Position == c {
			return ps, true
		}
	}
	return PlayerState{}, false
}

// Standings orders players by claimed area, then kills, then fewer deaths.
func (f *Frame) Standings() []PlayerState {
	out := append([]PlayerState(nil), f.Players...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Claimed != out[j].Claimed {
			return out[i].Claimed > out[j].Claimed
		}
		if out[i].Kills != out[j].Kills {
			return out[i].Kills > out[j].Kills
		}
		return out[i].Deaths < out[j].Deaths
	})
	return out
}

// Snapshot is one player's read-only view of a Frame. Nearest-cell queries
// are breadth-first over non-wall tiles in grid.Directions order, so ties
// always resolve the same way.
type Snapshot struct {
	frame   *Frame
	me      grid.Unit
	body    grid.CellSet
	enemies []grid.Unit

	edgesOnce sync.Once
	edges     []grid.Cell
}

func NewSnapshot(f *Frame, id int) (*Snapshot, error) {
	me, ok := f.Player(id)
	if !ok {
		return nil, fmt.Errorf("player %d is not in the frame", id)
	}
	s := &Snapshot{
		frame: f,
		me:    me.Unit,
		body:  me.Unit.BodySet(),
	}
	for _, ps := range f.Players {
		if ps.ID != id {
			s.enemies = append(s.enemies, ps.Unit)
		}
	}
	return s, nil
}

func (s *Snapshot) Me() grid.Unit { return s.me }
func (s *Snapshot) Enemies() []grid.Unit { return s.enemies }
func (s *Snapshot) Width() int { return s.frame.Map.Width() }
func (s *Snapshot) Height() int { return s.frame.Map.Height() }
func (s *Snapshot) IsWall(c grid.Cell) bool { return s.frame.Map.IsWall(c) }

func (s *Snapshot) Neighbour(c grid.Cell, d grid.Direction) grid.Cell {
	return c.Step(d)
}

func (s *Snapshot) owner(c grid.Cell) int {
	if s.frame.Map.IsWall(c) {
		return NoOwner
	}
	return s.frame.Map.At(c).Owner
}

func (s *Snapshot) Territory(c grid.Cell) grid.Territory {
	switch s.owner(c) {
	case NoOwner:
		return grid.Neutral
	case s.me.ID:
		return grid.Friendly
	default:
		return grid.Enemy
	}
}

func (s *Snapshot) TerritoryEdges() []grid.Cell {
	s.edgesOnce.Do(func() {
		m := s.frame.Map
		for y := 1; y < m.Height()-1; y++ {
			for x := 1; x < m.Width()-1; x++ {
				c := grid.Cell{X: x, Y: y}
				if s.owner(c) != s.me.ID {
					continue
				}
				for _, d := range grid.Directions {
					n := c.Step(d)
					if !m.IsWall(n) && s.owner(n) != s.me.ID {
						s.edges = append(s.edges, c)
						break
					}
				}
			}
		}
	})
	return s.edges
}

// nearest runs a breadth-first search from from and returns the first cell
// accept approves, from itself included.
func (s *Snapshot) nearest(from grid.Cell, accept func(grid.Cell) bool) (grid.Cell, bool) {
	if s.IsWall(from) {
		return grid.Cell{}, false
	}
	seen := grid.NewCellSet(from)
	queue := []grid.Cell{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if accept(cur) {
			return cur, true
		}
		for _, d := range grid.Directions {
			n := cur.Step(d)
			if s.IsWall(n) || seen.Has(n) {
				continue
			}
			seen.Add(n)
			queue = append(queue, n)
		}
	}
	return grid.Cell{}, false
}

func (s *Snapshot) NearestFriendlyTerritory(from grid.Cell) (grid.Cell, bool) {
	return s.nearest(from, func(c grid.Cell) bool { return s.owner(c) == s.me.ID })
}

func (s *Snapshot) NearestCapturable(from grid.Cell, avoid grid.CellSet) (grid.Cell, bool) {
	return s.nearest(from, func(c grid.Cell) bool {
		return c != from && s.owner(c) != s.me.ID && !avoid.Has(c) && !s.body.Has(c)
	})
}

func (s *Snapshot) NearestTerritoryOf(from grid.Cell, owner int) (grid.Cell, bool) {
	return s.nearest(from, func(c grid.Cell) bool { return s.owner(c) == owner })
}

func (s *Snapshot) NearestEnemyHead(from grid.Cell) (grid.Unit, bool) {
	var best grid.Unit
	bestDist := -1
	for _, e := range s.enemies {
		if !e.Enabled() {
			continue
		}
		if d := grid.TaxiCab(from, e.Position); bestDist < 0 || d < bestDist {
			best, bestDist = e, d
		}
	}
	return best, bestDist >= 0
}

func (s *Snapshot) NearestEnemyBody(from grid.Cell) (grid.Unit, grid.Cell, bool) {
	var (
		best     grid.Unit
		bestCell grid.Cell
	)
	bestDist := -1
	for _, e := range s.enemies {
		if !e.Enabled() {
			continue
		}
		for _, b := range e.Body {
			if d := grid.TaxiCab(from, b); bestDist < 0 || d < bestDist {
				best, bestCell, bestDist = e, b, d
			}
		}
	}
	return best, bestCell, bestDist >= 0
}

func (s *Snapshot) OccupantAt(c grid.Cell) (int, bool) {
	if s.IsWall(c) {
		return NoOwner, false
	}
	if trail := s.frame.Map.At(c).Trail; trail != NoOwner {
		return trail, true
	}
	if ps, ok := s.frame.HeadAt(c); ok {
		return ps.ID, true
	}
	return NoOwner, false
}
