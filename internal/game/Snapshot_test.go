package game

import (
	"testing"

	"github.com/Mshel/serpentine/internal/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(t *testing.T, a *Arena, id int) (*Snapshot, Frame) {
	t.Helper()
	f := a.Frame()
	s, err := NewSnapshot(&f, id)
	require.NoError(t, err)
	return s, f
}

func TestNewSnapshot_UnknownPlayer(t *testing.T) {
	a := newTestArena(t, testConfig(14, 14, 1))
	f := a.Frame()
	_, err := NewSnapshot(&f, 7)
	assert.Error(t, err)
}

func TestSnapshot_Territory(t *testing.T) {
	a := newTestArena(t, testConfig(14, 14, 2))
	s, _ := snapshotOf(t, a, 1)

	assert.Equal(t, grid.Friendly, s.Territory(grid.Cell{X: 3, Y: 3}))
	assert.Equal(t, grid.Enemy, s.Territory(grid.Cell{X: 10, Y: 3}))
	assert.Equal(t, grid.Neutral, s.Territory(grid.Cell{X: 7, Y: 7}))
	assert.Equal(t, grid.Neutral, s.Territory(grid.Cell{X: 0, Y: 0}))
	assert.True(t, s.IsWall(grid.Cell{X: -1, Y: 4}))
	assert.Equal(t, 14, s.Width())
	assert.Len(t, s.Enemies(), 1)
}

func TestSnapshot_TerritoryEdges(t *testing.T) {
	a := newTestArena(t, testConfig(14, 14, 1))
	s, _ := snapshotOf(t, a, 1)

	// the whole home ring except its centre
	want := []grid.Cell{
		{X: 2, Y: 2}, {X: 3, Y: 2}, {X: 4, Y: 2},
		{X: 2, Y: 3}, {X: 4, Y: 3},
		{X: 2, Y: 4}, {X: 3, Y: 4}, {X: 4, Y: 4},
	}
	assert.Equal(t, want, s.TerritoryEdges())
	assert.Equal(t, want, s.TerritoryEdges())
}

func TestSnapshot_NearestQueries(t *testing.T) {
	a := newTestArena(t, testConfig(14, 14, 2))
	walk(t, a, 1, grid.East, grid.East, grid.East)
	s, _ := snapshotOf(t, a, 1)
	head := s.Me().Position
	require.Equal(t, grid.Cell{X: 6, Y: 3}, head)

	home, ok := s.NearestFriendlyTerritory(head)
	require.True(t, ok)
	assert.Equal(t, grid.Cell{X: 4, Y: 3}, home)

	inside, ok := s.NearestFriendlyTerritory(grid.Cell{X: 3, Y: 3})
	require.True(t, ok)
	assert.Equal(t, grid.Cell{X: 3, Y: 3}, inside)

	enemy, ok := s.NearestTerritoryOf(head, 2)
	require.True(t, ok)
	assert.Equal(t, grid.Cell{X: 9, Y: 3}, enemy)

	_, ok = s.NearestFriendlyTerritory(grid.Cell{X: 0, Y: 5})
	assert.False(t, ok)
}

func TestSnapshot_NearestCapturable(t *testing.T) {
	a := newTestArena(t, testConfig(14, 14, 1))
	s, _ := snapshotOf(t, a, 1)

	// breadth-first from the spawn, north is expanded first
	c, ok := s.NearestCapturable(grid.Cell{X: 3, Y: 3}, nil)
	require.True(t, ok)
	assert.Equal(t, grid.Cell{X: 3, Y: 1}, c)

	walk(t, a, 1, grid.East, grid.East, grid.East)
	s, _ = snapshotOf(t, a, 1)
	head := s.Me().Position

	c, ok = s.NearestCapturable(head, nil)
	require.True(t, ok)
	assert.Equal(t, grid.Cell{X: 6, Y: 2}, c)

	avoid := grid.NewCellSet(grid.Cell{X: 6, Y: 2}, grid.Cell{X: 6, Y: 4}, grid.Cell{X: 7, Y: 3})
	c, ok = s.NearestCapturable(head, avoid)
	require.True(t, ok)
	// (5,3) is the body, so the search moves one ring out
	assert.Equal(t, 2, grid.TaxiCab(head, c))
	assert.False(t, avoid.Has(c))
	assert.NotEqual(t, grid.Cell{X: 5, Y: 3}, c)
}

func TestSnapshot_Occupants(t *testing.T) {
	a := newTestArena(t, testConfig(14, 14, 2))
	walk(t, a, 1, grid.East, grid.East, grid.East)
	s, _ := snapshotOf(t, a, 2)

	id, ok := s.OccupantAt(grid.Cell{X: 5, Y: 3})
	require.True(t, ok)
	assert.Equal(t, 1, id)

	id, ok = s.OccupantAt(grid.Cell{X: 10, Y: 3})
	require.True(t, ok)
	assert.Equal(t, 2, id)

	_, ok = s.OccupantAt(grid.Cell{X: 7, Y: 7})
	assert.False(t, ok)

	head, ok := s.NearestEnemyHead(grid.Cell{X: 10, Y: 3})
	require.True(t, ok)
	assert.Equal(t, grid.Cell{X: 6, Y: 3}, head.Position)

	owner, cell, ok := s.NearestEnemyBody(grid.Cell{X: 10, Y: 3})
	require.True(t, ok)
	assert.Equal(t, 1, owner.ID)
	assert.Equal(t, grid.Cell{X: 5, Y: 3}, cell)
}

func TestSnapshot_IgnoresDisabledEnemies(t *testing.T) {
	a := newTestArena(t, testConfig(14, 14, 2))
	walk(t, a, 1, grid.North, grid.North, grid.North)
	s, f := snapshotOf(t, a, 2)
	p1, ok := f.Player(1)
	require.True(t, ok)
	require.False(t, p1.Unit.Enabled())

	_, ok = s.NearestEnemyHead(grid.Cell{X: 10, Y: 3})
	assert.False(t, ok)
	_, _, ok = s.NearestEnemyBody(grid.Cell{X: 10, Y: 3})
	assert.False(t, ok)
	_, ok = s.OccupantAt(p1.Unit.Position)
	assert.False(t, ok)
}

func TestFrame_Standings(t *testing.T) {
	a := newTestArena(t, testConfig(14, 14, 2))
	walk(t, a, 1, grid.North, grid.North, grid.North)
	f := a.Frame()

	standings := f.Standings()
	require.Len(t, standings, 2)
	// equal claims, the death decides
	assert.Equal(t, 2, standings[0].ID)
	assert.Equal(t, 1, standings[1].ID)
	assert.InDelta(t, 6.25, f.ClaimedPct(standings[0]), 1e-9)
	// the frame itself keeps roster order
	assert.Equal(t, 1, f.Players[0].ID)
}
