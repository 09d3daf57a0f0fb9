package bot

import (
	"errors"

	"github.com/Mshel/serpentine/internal/grid"
)

var (
	ErrPathNotFound = errors.New("path not found")
	ErrNoLegalMove  = errors.New("no legal move")
	ErrStaleTarget  = errors.New("target is inside own body")
	ErrTargetLost   = errors.New("engaged target disappeared")
)

// Terrain is the part of the world the path finder needs.
type Terrain interface {
	IsWall(c grid.Cell) bool
	Neighbour(c grid.Cell, d grid.Direction) grid.Cell
}

// World is the per-turn view of the board for one unit. Implementations must
// be safe to read for the whole turn and are never mutated by this package.
type World interface {
	Terrain

	Width() int
	Height() int
	Territory(c grid.Cell) grid.Territory

	// TerritoryEdges returns friendly cells adjacent to a walkable
	// non-friendly cell.
	TerritoryEdges() []grid.Cell

	NearestFriendlyTerritory(from grid.Cell) (grid.Cell, bool)
	NearestCapturable(from grid.Cell, avoid grid.CellSet) (grid.Cell, bool)
	NearestTerritoryOf(from grid.Cell, owner int) (grid.Cell, bool)
	NearestEnemyHead(from grid.Cell) (grid.Unit, bool)
	NearestEnemyBody(from grid.Cell) (grid.Unit, grid.Cell, bool)

	// OccupantAt returns the id of the unit whose head or trail covers c.
	OccupantAt(c grid.Cell) (int, bool)
}
