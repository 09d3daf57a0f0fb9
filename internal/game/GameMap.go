package game

import "github.com/Mshel/serpentine/internal/grid"

// NoOwner marks a tile nobody has claimed or crossed.
const NoOwner = 0

// Tile is one arena cell. Owner is the player whose territory it is; Trail is
// the player whose open trail currently crosses it.
type Tile struct {
	Owner int
	Trail int
	Wall  bool
}

// GameMap is a row-major grid of tiles ringed by walls.
type GameMap struct {
	width  int
	height int
	tiles  []Tile
}

func newGameMap(width, height int) *GameMap {
	m := &GameMap{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height),
	}
	for y := range height {
		for x := range width {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				m.tiles[y*width+x].Wall = true
			}
		}
	}
	return m
}

func (m *GameMap) Width() int  { return m.width }
func (m *GameMap) Height() int { return m.height }

func (m *GameMap) inside(c grid.Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < m.width && c.Y < m.height
}

// At returns the tile at c; c must be inside the map.
func (m *GameMap) At(c grid.Cell) *Tile {
	return &m.tiles[c.Y*m.width+c.X]
}

// IsWall treats everything off the map as wall.
func (m *GameMap) IsWall(c grid.Cell) bool {
	return !m.inside(c) || m.At(c).Wall
}

// interiorSize is the number of claimable tiles.
func (m *GameMap) interiorSize() int {
	return (m.width - 2) * (m.height - 2)
}

// claimed counts the tiles owned by id.
func (m *GameMap) claimed(id int) int {
	n := 0
	for i := range m.tiles {
		if m.tiles[i].Owner == id {
			n++
		}
	}
	return n
}

func (m *GameMap) clone() *GameMap {
	return &GameMap{
		width:  m.width,
		height: m.height,
		tiles:  append([]Tile(nil), m.tiles...),
	}
}
